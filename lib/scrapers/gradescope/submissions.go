package gradescope

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"gradescope-backend/lib/tables"
	"gradescope-backend/lib/timezone"

	"go.opentelemetry.io/otel/codes"
)

type Submission struct {
	Name string
	// submission time rendered in US/Eastern, "2006-01-02 15:04:05"
	Time    string
	Section string
	Grader  string
}

var letterRegex = regexp.MustCompile(`^[a-zA-Z]+`)
var digitRegex = regexp.MustCompile(`^\d`)

// the section column renders both the section number and the assigned
// grader as anonymous spans; tell them apart by what they start with
func sectionAndGrader(spans []string) (section, grader string) {
	for _, span := range spans {
		if letterRegex.MatchString(span) {
			grader = span
		} else if digitRegex.MatchString(span) {
			section = span
		}
	}
	return section, grader
}

// gradescope renders submission timestamps with the submitter's utc offset
func formatTime(src string) (string, error) {
	t, err := time.Parse("2006-01-02 15:04:05 -0700", src)
	if err != nil {
		return "", err
	}
	return t.In(timezone.Location).Format("2006-01-02 15:04:05"), nil
}

// Submissions scrapes the programming submissions table of the named
// assignment. Rows whose timestamp can't be parsed are kept with the raw
// timestamp and a warning.
func (c *Client) Submissions(ctx context.Context, courseID, assignmentName string) ([]Submission, error) {
	ctx, span := tracer.Start(ctx, "Submissions")
	defer span.End()

	assignment, ok, err := c.AssignmentByName(ctx, courseID, assignmentName)
	if err != nil {
		return nil, err
	}
	if !ok {
		span.SetStatus(codes.Error, "assignment not found")
		return nil, fmt.Errorf("course %s has no assignment named %q", courseID, assignmentName)
	}

	doc, err := c.document(ctx, assignment.URL+"/submissions")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch submissions page")
		return nil, err
	}

	table := tables.FromSelection(doc.Find("table.js-programmingAssignmentSubmissionsTable"))

	var submissions []Submission
	for _, row := range table.Rows {
		anchor, ok := row.Anchor()
		if !ok {
			continue
		}

		submitted := row.Datetime()
		formatted, err := formatTime(submitted)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to parse submission time",
				"name", anchor.Name,
				"time", submitted,
				"err", err,
			)
			formatted = submitted
		}

		section, grader := sectionAndGrader(row.Spans())
		submissions = append(submissions, Submission{
			Name:    anchor.Name,
			Time:    formatted,
			Section: section,
			Grader:  grader,
		})
	}

	return submissions, nil
}

type Question struct {
	Id             string
	Name           string
	GradeURL       string
	SubmissionsURL string
}

type gradingDashboardProps struct {
	Presenter struct {
		Assignments map[string]struct {
			Questions map[string]struct {
				Id              float64 `json:"id"`
				Title           string  `json:"title"`
				Link            string  `json:"link"`
				SubmissionsLink string  `json:"submissionsLink"`
			} `json:"questions"`
		} `json:"assignments"`
	} `json:"presenter"`
}

// AssignmentQuestions lists the questions of an assignment off its grading
// dashboard.
func (c *Client) AssignmentQuestions(ctx context.Context, courseID, assignmentName string) ([]Question, error) {
	ctx, span := tracer.Start(ctx, "AssignmentQuestions")
	defer span.End()

	assignment, ok, err := c.AssignmentByName(ctx, courseID, assignmentName)
	if err != nil {
		return nil, err
	}
	if !ok {
		span.SetStatus(codes.Error, "assignment not found")
		return nil, fmt.Errorf("course %s has no assignment named %q", courseID, assignmentName)
	}

	doc, err := c.document(ctx, fmt.Sprintf("courses/%s/assignments/%s/grade", courseID, assignment.Id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch grading dashboard")
		return nil, err
	}

	var props gradingDashboardProps
	err = tables.ReactProps(doc, "GradingDashboard", &props)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract grading dashboard")
		return nil, err
	}

	// the props decode as a map, so sort by numeric id for stable output
	var ids []float64
	byId := map[float64]Question{}
	for _, q := range props.Presenter.Assignments[assignment.Id].Questions {
		ids = append(ids, q.Id)
		byId[q.Id] = Question{
			Id:             fmt.Sprintf("%.0f", q.Id),
			Name:           q.Title,
			GradeURL:       q.Link,
			SubmissionsURL: q.SubmissionsLink,
		}
	}
	sort.Float64s(ids)

	questions := make([]Question, len(ids))
	for i, id := range ids {
		questions[i] = byId[id]
	}
	return questions, nil
}

type QuestionSubmission struct {
	Name         string
	Email        string
	SubmissionID string
	URL          string
}

// QuestionSubmissions scrapes the per-student submission links of a single
// question.
func (c *Client) QuestionSubmissions(ctx context.Context, courseID, assignmentName, questionName string) ([]QuestionSubmission, error) {
	ctx, span := tracer.Start(ctx, "QuestionSubmissions")
	defer span.End()

	questions, err := c.AssignmentQuestions(ctx, courseID, assignmentName)
	if err != nil {
		return nil, err
	}

	var question Question
	found := false
	for _, q := range questions {
		if q.Name == questionName {
			question = q
			found = true
		}
	}
	if !found {
		span.SetStatus(codes.Error, "question not found")
		return nil, fmt.Errorf("assignment %q has no question named %q", assignmentName, questionName)
	}

	doc, err := c.document(ctx, question.SubmissionsURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch question submissions")
		return nil, err
	}

	table := tables.FromSelection(doc.Find("table"))

	var submissions []QuestionSubmission
	for _, row := range table.Rows {
		anchor, ok := row.Anchor()
		if !ok {
			continue
		}

		// anchor text is shaped like "Joe Student (jl27@princeton.edu)"
		name := anchor.Name
		email := ""
		if idx := strings.LastIndex(anchor.Name, "("); idx >= 0 {
			name = strings.Trim(anchor.Name[:idx], " ")
			email = strings.TrimSuffix(anchor.Name[idx+1:], ")")
		}

		parts := strings.Split(anchor.Href, "/")
		submissionID := ""
		if len(parts) >= 2 {
			submissionID = parts[len(parts)-2]
		}

		submissions = append(submissions, QuestionSubmission{
			Name:         name,
			Email:        email,
			SubmissionID: submissionID,
			URL:          anchor.Href,
		})
	}

	return submissions, nil
}

// DaysEarly returns how many whole days before the due date a submission
// landed, at date resolution in US/Eastern.  Negative means the submission
// was late.
func DaysEarly(dueDate, submitted string) (int, error) {
	due, err := time.ParseInLocation("2006-01-02 15:04:05", dueDate, timezone.Location)
	if err != nil {
		return 0, err
	}
	sub, err := time.ParseInLocation("2006-01-02 15:04:05", submitted, timezone.Location)
	if err != nil {
		return 0, err
	}

	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, timezone.Location)
	subDay := time.Date(sub.Year(), sub.Month(), sub.Day(), 0, 0, 0, 0, timezone.Location)
	return int(dueDay.Sub(subDay).Hours() / 24), nil
}
