package gradescope

import (
	"context"
	"fmt"
	"strings"

	"gradescope-backend/lib/tables"

	"go.opentelemetry.io/otel/codes"
)

type Assignment struct {
	Id   string
	Name string
	URL  string
}

type assignmentRow struct {
	// shaped like "assignment_3922368"
	Id          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	IsPublished *bool  `json:"is_published"`
}

type assignmentsTableProps struct {
	TableData []assignmentRow `json:"table_data"`
}

// Assignments lists the published assignments of a course from its
// server-rendered assignments table.
func (c *Client) Assignments(ctx context.Context, courseID string) ([]Assignment, error) {
	ctx, span := tracer.Start(ctx, "Assignments")
	defer span.End()

	doc, err := c.document(ctx, fmt.Sprintf("courses/%s/assignments", courseID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch assignments page")
		return nil, err
	}

	var props assignmentsTableProps
	err = tables.ReactProps(doc, "AssignmentsTable", &props)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract assignments table")
		return nil, err
	}

	var assignments []Assignment
	for _, row := range props.TableData {
		// rows without the published flag are section headers, not
		// assignments
		if row.IsPublished == nil {
			continue
		}
		id := row.Id
		if idx := strings.Index(id, "_"); idx >= 0 {
			id = id[idx+1:]
		}
		assignments = append(assignments, Assignment{
			Id:   id,
			Name: row.Title,
			URL:  row.URL,
		})
	}
	return assignments, nil
}

// AssignmentByName returns the assignment with the exact given name, or
// false when the course has none.
func (c *Client) AssignmentByName(ctx context.Context, courseID, name string) (Assignment, bool, error) {
	assignments, err := c.Assignments(ctx, courseID)
	if err != nil {
		return Assignment{}, false, err
	}
	for _, a := range assignments {
		if a.Name == name {
			return a, true, nil
		}
	}
	return Assignment{}, false, nil
}
