package gradescope

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"gradescope-backend/lib/tables"
	"gradescope-backend/lib/textutil"

	"go.opentelemetry.io/otel/codes"
)

// columns of an evaluation sheet that aren't rubric items
var knownEvaluationColumns = map[string]bool{
	"Assignment Submission ID": true,
	"Score":                    true,
	"Grader":                   true,
	"Comments":                 true,
}

type QuestionEvaluation struct {
	Question string
	Score    float64
	// false when the sheet row carried no numeric score
	Scored   bool
	Grader   string
	Comments string
	// rubric item header -> cell value, for columns the export adds per
	// rubric
	Rubric map[string]string
}

// EvaluationRecord is a grade record enriched with the per-question
// evaluation detail of the export archive.
type EvaluationRecord struct {
	GradeRecord
	Evaluations []QuestionEvaluation
}

// grade export columns render as "1: Violations (10.0 pts)", sheet names
// carry just the title
var questionTitleRegex = regexp.MustCompile(`^\d+:\s*(.+?)\s*\([\d.]+ pts\)$`)

func questionTitle(column string) string {
	if m := questionTitleRegex.FindStringSubmatch(column); m != nil {
		return m[1]
	}
	return column
}

// matchSheet resolves a sheet filename to the grade export question column
// it details.
func matchSheet(sheetName string, questionColumns []string) (string, bool) {
	base := strings.TrimSuffix(sheetName, ".csv")
	for _, column := range questionColumns {
		matcher := textutil.NormalizeName(questionTitle(column))
		if matcher == "" {
			continue
		}
		if textutil.MatchName(base, []string{matcher}) {
			return column, true
		}
	}
	return "", false
}

// AssignmentEvaluations downloads the evaluation export of an assignment, a
// zip of one CSV sheet per question, and merges each sheet's rows into the
// assignment's grade records by submission id. Sheets that don't resolve to
// a question column are skipped with a warning; a sheet score disagreeing
// with the grade export is an error.
func (c *Client) AssignmentEvaluations(ctx context.Context, courseID, assignmentID string) ([]EvaluationRecord, error) {
	ctx, span := tracer.Start(ctx, "AssignmentEvaluations")
	defer span.End()

	grades, err := c.AssignmentGrades(ctx, courseID, assignmentID)
	if err != nil {
		return nil, err
	}
	if len(grades) == 0 {
		return nil, nil
	}

	res, err := c.fetch.Get(ctx, fmt.Sprintf("courses/%s/assignments/%s/export_evaluations", courseID, assignmentID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch evaluation export")
		return nil, err
	}

	archive, err := zip.NewReader(bytes.NewReader(res.Body), int64(len(res.Body)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open evaluation archive")
		return nil, err
	}

	records := make([]EvaluationRecord, len(grades))
	bySubmission := map[string]*EvaluationRecord{}
	for i, grade := range grades {
		records[i] = EvaluationRecord{GradeRecord: grade}
		if grade.SubmissionID != "" {
			bySubmission[grade.SubmissionID] = &records[i]
		}
	}

	var questionColumns []string
	for _, q := range grades[0].Questions {
		questionColumns = append(questionColumns, q.Name)
	}

	for _, file := range archive.File {
		if !strings.HasSuffix(file.Name, ".csv") {
			continue
		}
		question, ok := matchSheet(file.Name, questionColumns)
		if !ok {
			slog.WarnContext(ctx, "evaluation sheet matches no question", "sheet", file.Name)
			continue
		}

		sheet, err := readSheet(file)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse evaluation sheet")
			return nil, fmt.Errorf("evaluation sheet %s: %w", file.Name, err)
		}

		for _, row := range sheet.Rows {
			record, ok := bySubmission[row["Assignment Submission ID"]]
			if !ok {
				continue
			}

			score, scored := textutil.RobustFloat(row["Score"])
			if err := checkScore(record.GradeRecord, question, score, scored); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "evaluation disagrees with grade export")
				return nil, err
			}

			evaluation := QuestionEvaluation{
				Question: question,
				Score:    score,
				Scored:   scored,
				Grader:   row["Grader"],
				Comments: row["Comments"],
			}
			for _, header := range sheet.Headers {
				if knownEvaluationColumns[header] {
					continue
				}
				if evaluation.Rubric == nil {
					evaluation.Rubric = map[string]string{}
				}
				evaluation.Rubric[header] = row[header]
			}
			record.Evaluations = append(record.Evaluations, evaluation)
		}
	}

	return records, nil
}

func readSheet(file *zip.File) (tables.CSV, error) {
	rc, err := file.Open()
	if err != nil {
		return tables.CSV{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return tables.CSV{}, err
	}
	return tables.ParseCSV(data)
}

// the sheet restates the question score of the grade export; a disagreement
// means the two downloads raced a regrade
func checkScore(record GradeRecord, question string, score float64, scored bool) error {
	for _, q := range record.Questions {
		if q.Name != question {
			continue
		}
		if q.Scored && scored && q.Score != score {
			return fmt.Errorf(
				"submission %s question %q: sheet score %g disagrees with export score %g",
				record.SubmissionID, question, score, q.Score,
			)
		}
	}
	return nil
}
