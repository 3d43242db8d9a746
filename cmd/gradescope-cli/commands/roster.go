package commands

import (
	"encoding/csv"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var rosterCourse string
var rosterOutput string

func init() {
	rosterCmd.Flags().StringVarP(&rosterCourse, "course", "c", "", "course id")
	rosterCmd.MarkFlagRequired("course")
	rosterCmd.Flags().StringVarP(&rosterOutput, "output", "o", "", "write the roster to a csv file instead of stdout")
	rootCmd.AddCommand(rosterCmd)
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Download the membership roster of a course.",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		scraper, err := newScraper(config)
		if err != nil {
			return err
		}

		roster, err := scraper.Roster(cmd.Context(), rosterCourse)
		if err != nil {
			return err
		}
		if len(roster) == 0 {
			return nil
		}

		var headers []string
		for header := range roster[0] {
			headers = append(headers, header)
		}
		sort.Strings(headers)

		if rosterOutput != "" {
			return writeCSV(rosterOutput, headers, rowsToRecords(headers, roster))
		}

		out := table.NewWriter()
		out.SetOutputMirror(os.Stdout)
		headerRow := table.Row{}
		for _, h := range headers {
			headerRow = append(headerRow, h)
		}
		out.AppendHeader(headerRow)
		for _, record := range rowsToRecords(headers, roster) {
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

func rowsToRecords(headers []string, rows []map[string]string) [][]string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		record := make([]string, len(headers))
		for j, header := range headers {
			record[j] = row[header]
		}
		records[i] = record
	}
	return records
}

func writeCSV(path string, headers []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
