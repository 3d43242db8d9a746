// Package tables turns tabular course-platform payloads (CSV exports, HTML
// tables, react table props) into plain Go structures. It knows nothing
// about what the columns mean.
package tables

import (
	"bytes"
	"encoding/csv"
)

// CSV is a parsed export: the header row in file order plus one map per
// record keyed by header.
type CSV struct {
	Headers []string
	Rows    []map[string]string
}

func ParseCSV(data []byte) (CSV, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	// exports occasionally have ragged trailing columns
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return CSV{}, err
	}
	if len(records) == 0 {
		return CSV{}, nil
	}

	headers := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := map[string]string{}
		for i, value := range record {
			if i >= len(headers) {
				break
			}
			row[headers[i]] = value
		}
		rows = append(rows, row)
	}

	return CSV{Headers: headers, Rows: rows}, nil
}
