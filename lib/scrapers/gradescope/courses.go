package gradescope

import (
	"context"
	"fmt"
	"strings"

	"gradescope-backend/lib/htmlutil"

	"go.opentelemetry.io/otel/codes"
)

type Course struct {
	Id   string
	Name string
	// short term code, e.g. "F2024" or "S2025"
	Term string
}

// Courses lists the ids of every course on the account dashboard.
func (c *Client) Courses(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Courses")
	defer span.End()

	doc, err := c.document(ctx, "account")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch account page")
		return nil, err
	}

	anchors := htmlutil.GetAnchors(ctx, doc.Find("a.courseBox"))
	var ids []string
	for _, a := range anchors {
		if a.Href == "" {
			continue
		}
		parts := strings.Split(a.Href, "/")
		ids = append(ids, parts[len(parts)-1])
	}
	return ids, nil
}

// CourseName resolves a course id into its header name and shorthand term.
func (c *Client) CourseName(ctx context.Context, courseID string) (Course, error) {
	ctx, span := tracer.Start(ctx, "CourseName")
	defer span.End()

	doc, err := c.document(ctx, fmt.Sprintf("courses/%s", courseID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course page")
		return Course{}, err
	}

	header := doc.Find("header.courseHeader").First()
	if header.Length() == 0 {
		span.SetStatus(codes.Error, "no course header")
		return Course{}, fmt.Errorf("course %s: no course header found", courseID)
	}

	name := strings.ReplaceAll(header.Find("h1").First().Text(), " ", "")

	term := htmlutil.CleanText(header.Find("div.courseHeader--term").First().Text())
	term = strings.ReplaceAll(term, "Fall ", "F")
	term = strings.ReplaceAll(term, "Spring ", "S")

	return Course{Id: courseID, Name: name, Term: term}, nil
}

// CourseID finds the id of the course matching both name and term, or ""
// when no course on the account matches.
func (c *Client) CourseID(ctx context.Context, name, term string) (string, error) {
	ctx, span := tracer.Start(ctx, "CourseID")
	defer span.End()

	ids, err := c.Courses(ctx)
	if err != nil {
		return "", err
	}
	for _, id := range ids {
		course, err := c.CourseName(ctx, id)
		if err != nil {
			return "", err
		}
		if course.Name == name && course.Term == term {
			return id, nil
		}
	}
	return "", nil
}
