package commands

import (
	"fmt"
	"log/slog"
	"strconv"

	"gradescope-backend/lib/linker"
	"gradescope-backend/lib/scrapers/gradescope"

	"github.com/spf13/cobra"
)

var reportCourse string
var reportAssignment string
var reportQuestion string
var reportDueDate string
var reportOutput string
var reportFuzzy bool
var reportHyperlink bool

func init() {
	reportCmd.Flags().StringVarP(&reportCourse, "course", "c", "", "course id")
	reportCmd.MarkFlagRequired("course")
	reportCmd.Flags().StringVarP(&reportAssignment, "assignment", "a", "", "assignment name")
	reportCmd.MarkFlagRequired("assignment")
	reportCmd.Flags().StringVarP(&reportQuestion, "question", "q", "", "question name")
	reportCmd.MarkFlagRequired("question")
	reportCmd.Flags().StringVar(&reportDueDate, "due", "", `due date, "2006-01-02 15:04:05" in US/Eastern`)
	reportCmd.MarkFlagRequired("due")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "report.csv", "csv file to write")
	reportCmd.Flags().BoolVar(&reportFuzzy, "fuzzy", false, "keep fuzzy name matches between the two tables")
	reportCmd.Flags().BoolVar(&reportHyperlink, "hyperlink", false, `wrap urls in a =HYPERLINK() formula for spreadsheet imports`)
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Join a question's submission links with submission metadata and days-early figures.",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		scraper, err := newScraper(config)
		if err != nil {
			return err
		}

		submissions, err := scraper.Submissions(cmd.Context(), reportCourse, reportAssignment)
		if err != nil {
			return err
		}
		slog.Info("scraped submissions", "course", reportCourse, "count", len(submissions))

		questionSubs, err := scraper.QuestionSubmissions(
			cmd.Context(), reportCourse, reportAssignment, reportQuestion,
		)
		if err != nil {
			return err
		}

		byName := map[string]gradescope.Submission{}
		var submissionNames []string
		for _, s := range submissions {
			byName[s.Name] = s
			submissionNames = append(submissionNames, s.Name)
		}
		var questionNames []string
		questionByName := map[string]gradescope.QuestionSubmission{}
		for _, q := range questionSubs {
			questionByName[q.Name] = q
			questionNames = append(questionNames, q.Name)
		}

		// inner join of the two tables on student name
		links := linker.LinkNames(submissionNames, questionNames)

		headers := []string{"name", "email", "time", "days_early", "section", "grader", "url"}
		var records [][]string
		for _, link := range links {
			if !reportFuzzy && link.Correlation < 1 {
				slog.Warn(
					"dropping fuzzy name match",
					"submission", link.Scraped,
					"question_submission", link.Roster,
					"correlation", link.Correlation,
				)
				continue
			}
			submission := byName[link.Scraped]
			question := questionByName[link.Roster]

			days, err := gradescope.DaysEarly(reportDueDate, submission.Time)
			if err != nil {
				slog.Warn("failed to compute days early", "name", submission.Name, "err", err)
			}

			url := question.URL
			if reportHyperlink {
				url = fmt.Sprintf(`=HYPERLINK(%q)`, url)
			}

			records = append(records, []string{
				submission.Name,
				question.Email,
				submission.Time,
				strconv.Itoa(days),
				submission.Section,
				submission.Grader,
				url,
			})
		}

		err = writeCSV(reportOutput, headers, records)
		if err != nil {
			return err
		}
		slog.Info("wrote report", "path", reportOutput, "rows", len(records))
		return nil
	},
}
