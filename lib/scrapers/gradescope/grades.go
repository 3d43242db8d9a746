package gradescope

import (
	"context"
	"fmt"
	"strings"

	"gradescope-backend/lib/tables"
	"gradescope-backend/lib/textutil"

	"go.opentelemetry.io/otel/codes"
)

// columns of the grade export that aren't per-question scores
var knownGradeColumns = map[string]bool{
	"Name":             true,
	"First Name":       true,
	"Last Name":        true,
	"SID":              true,
	"Email":            true,
	"Total Score":      true,
	"Max Points":       true,
	"Status":           true,
	"Submission ID":    true,
	"Submission Time":  true,
	"Lateness (H:M:S)": true,
	"View Count":       true,
	"Submission Count": true,
}

type QuestionScore struct {
	Name  string
	Score float64
	// false when the cell was empty or not numeric
	Scored bool
}

type GradeRecord struct {
	Name         string
	SID          string
	Email        string
	SubmissionID string
	Graded       bool
	TotalScore   float64
	MaxPoints    float64
	ViewCount    float64
	// per-question scores in export column order
	Questions []QuestionScore
}

// AssignmentGrades downloads the CSV grade export of an assignment and
// collapses the per-question columns of each row into an ordered score
// list.
func (c *Client) AssignmentGrades(ctx context.Context, courseID, assignmentID string) ([]GradeRecord, error) {
	ctx, span := tracer.Start(ctx, "AssignmentGrades")
	defer span.End()

	res, err := c.fetch.Get(ctx, fmt.Sprintf("courses/%s/assignments/%s/grade", courseID, assignmentID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch grade export")
		return nil, err
	}

	csv, err := tables.ParseCSV(res.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse grade export")
		return nil, err
	}

	var questionColumns []string
	for _, header := range csv.Headers {
		if !knownGradeColumns[header] {
			questionColumns = append(questionColumns, header)
		}
	}

	records := make([]GradeRecord, len(csv.Rows))
	for i, row := range csv.Rows {
		record := GradeRecord{
			Name:         studentName(row),
			SID:          row["SID"],
			Email:        row["Email"],
			SubmissionID: row["Submission ID"],
			Graded:       strings.EqualFold(row["Status"], "Graded"),
		}
		record.TotalScore, _ = textutil.RobustFloat(row["Total Score"])
		record.MaxPoints, _ = textutil.RobustFloat(row["Max Points"])
		record.ViewCount, _ = textutil.RobustFloat(row["View Count"])

		for _, q := range questionColumns {
			score, ok := textutil.RobustFloat(row[q])
			record.Questions = append(record.Questions, QuestionScore{
				Name:   q,
				Score:  score,
				Scored: ok,
			})
		}
		records[i] = record
	}

	return records, nil
}

func studentName(row map[string]string) string {
	if name, ok := row["Name"]; ok {
		return name
	}
	name := strings.Trim(row["First Name"]+" "+row["Last Name"], " ")
	return name
}

type CourseGradesOptions struct {
	// skip records gradescope hasn't marked graded yet
	OnlyGraded bool
	// key students by email instead of SID
	UseEmail bool
}

// CourseGrades aggregates every published assignment's grades into a
// student -> assignment name -> score table.
func (c *Client) CourseGrades(ctx context.Context, courseID string, opts CourseGradesOptions) (map[string]map[string]float64, error) {
	ctx, span := tracer.Start(ctx, "CourseGrades")
	defer span.End()

	assignments, err := c.Assignments(ctx, courseID)
	if err != nil {
		return nil, err
	}

	grades := map[string]map[string]float64{}
	for _, assignment := range assignments {
		records, err := c.AssignmentGrades(ctx, courseID, assignment.Id)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch assignment grades")
			return nil, err
		}

		for _, record := range records {
			if opts.OnlyGraded && !record.Graded {
				continue
			}
			student := record.SID
			if opts.UseEmail {
				student = record.Email
			}
			if grades[student] == nil {
				grades[student] = map[string]float64{}
			}
			grades[student][assignment.Name] = record.TotalScore
		}
	}

	return grades, nil
}
