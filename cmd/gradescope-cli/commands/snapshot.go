package commands

import (
	"database/sql"
	"fmt"
	"log/slog"

	"gradescope-backend/lib/gradestore"
	"gradescope-backend/lib/gradestore/db"
	"gradescope-backend/lib/scrapers/gradescope"
	"gradescope-backend/lib/timezone"

	"github.com/spf13/cobra"
)

var snapshotCourse string

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotCourse, "course", "c", "", "course id")
	snapshotCmd.MarkFlagRequired("course")
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Scrape a course's grades and record them in the local gradestore.",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		if config.GradestorePath == "" {
			return fmt.Errorf("gradestore_path is not configured")
		}
		scraper, err := newScraper(config)
		if err != nil {
			return err
		}

		sqlite, err := sql.Open("sqlite", config.GradestorePath)
		if err != nil {
			return err
		}
		defer sqlite.Close()
		_, err = sqlite.Exec(db.Schema)
		if err != nil {
			return err
		}
		store := gradestore.NewStore(sqlite)

		grades, err := scraper.CourseGrades(cmd.Context(), snapshotCourse, gradescope.CourseGradesOptions{
			OnlyGraded: true,
			UseEmail:   true,
		})
		if err != nil {
			return err
		}

		var students []gradestore.StudentSnapshot
		for student, scores := range grades {
			snapshot := gradestore.StudentSnapshot{Student: student}
			for assignment, value := range scores {
				snapshot.Scores = append(snapshot.Scores, gradestore.AssignmentScore{
					Assignment: assignment,
					Value:      value,
				})
			}
			students = append(students, snapshot)
		}

		err = store.Push(cmd.Context(), gradestore.PushRequest{
			Time:     timezone.Now(),
			Students: students,
		})
		if err != nil {
			return err
		}

		slog.Info("recorded grade snapshot", "course", snapshotCourse, "students", len(students))
		return nil
	},
}
