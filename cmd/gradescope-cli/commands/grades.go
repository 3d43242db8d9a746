package commands

import (
	"fmt"
	"os"
	"sort"

	"gradescope-backend/lib/scrapers/gradescope"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var gradesCourse string
var gradesOutput string
var gradesOnlyGraded bool
var gradesUseEmail bool

func init() {
	gradesCmd.Flags().StringVarP(&gradesCourse, "course", "c", "", "course id")
	gradesCmd.MarkFlagRequired("course")
	gradesCmd.Flags().StringVarP(&gradesOutput, "output", "o", "", "write grades to a csv file instead of stdout")
	gradesCmd.Flags().BoolVar(&gradesOnlyGraded, "only-graded", true, "skip assignments gradescope hasn't marked graded")
	gradesCmd.Flags().BoolVar(&gradesUseEmail, "use-email", true, "key students by email instead of SID")
	rootCmd.AddCommand(gradesCmd)
}

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "Aggregate every assignment's grades for a course.",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		scraper, err := newScraper(config)
		if err != nil {
			return err
		}

		grades, err := scraper.CourseGrades(cmd.Context(), gradesCourse, gradescope.CourseGradesOptions{
			OnlyGraded: gradesOnlyGraded,
			UseEmail:   gradesUseEmail,
		})
		if err != nil {
			return err
		}

		// column per assignment, row per student, both sorted for
		// stable output
		assignmentSet := map[string]bool{}
		var students []string
		for student, scores := range grades {
			students = append(students, student)
			for assignment := range scores {
				assignmentSet[assignment] = true
			}
		}
		sort.Strings(students)
		var assignments []string
		for assignment := range assignmentSet {
			assignments = append(assignments, assignment)
		}
		sort.Strings(assignments)

		headers := append([]string{"student"}, assignments...)
		records := make([][]string, len(students))
		for i, student := range students {
			record := make([]string, len(headers))
			record[0] = student
			for j, assignment := range assignments {
				if score, ok := grades[student][assignment]; ok {
					record[j+1] = fmt.Sprintf("%g", score)
				}
			}
			records[i] = record
		}

		if gradesOutput != "" {
			return writeCSV(gradesOutput, headers, records)
		}

		out := table.NewWriter()
		out.SetOutputMirror(os.Stdout)
		headerRow := table.Row{}
		for _, h := range headers {
			headerRow = append(headerRow, h)
		}
		out.AppendHeader(headerRow)
		for _, record := range records {
			row := table.Row{}
			for _, value := range record {
				row = append(row, value)
			}
			out.AppendRow(row)
		}
		out.Render()
		return nil
	},
}
