package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(coursesCmd)
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the courses on the configured account.",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		scraper, err := newScraper(config)
		if err != nil {
			return err
		}

		ids, err := scraper.Courses(cmd.Context())
		if err != nil {
			return err
		}

		out := table.NewWriter()
		out.SetOutputMirror(os.Stdout)
		out.AppendHeader(table.Row{"id", "name", "term"})
		for _, id := range ids {
			course, err := scraper.CourseName(cmd.Context(), id)
			if err != nil {
				return err
			}
			out.AppendRow(table.Row{course.Id, course.Name, course.Term})
		}
		out.Render()
		return nil
	},
}
