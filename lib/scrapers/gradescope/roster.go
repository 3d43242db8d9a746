package gradescope

import (
	"context"
	"fmt"
	"net/url"

	"gradescope-backend/lib/tables"

	"go.opentelemetry.io/otel/codes"
)

// Roster downloads the membership export of a course. Rows come back as
// raw header -> value maps since the export's columns vary with the
// school's roster configuration.
func (c *Client) Roster(ctx context.Context, courseID string) ([]map[string]string, error) {
	ctx, span := tracer.Start(ctx, "Roster")
	defer span.End()

	res, err := c.fetch.Get(ctx, fmt.Sprintf("courses/%s/memberships.csv", courseID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch membership export")
		return nil, err
	}

	csv, err := tables.ParseCSV(res.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse membership export")
		return nil, err
	}
	return csv.Rows, nil
}

type Invite struct {
	Email string
	Name  string
}

// InviteMany adds users to a course roster under the given role in a
// single membership request.
func (c *Client) InviteMany(ctx context.Context, courseID string, role Role, users []Invite) error {
	ctx, span := tracer.Start(ctx, "InviteMany")
	defer span.End()

	form := url.Values{}
	for i, user := range users {
		form.Set(fmt.Sprintf("students[%d][name]", i), user.Name)
		form.Set(fmt.Sprintf("students[%d][email]", i), user.Email)
	}
	form.Set("role", fmt.Sprintf("%d", role))

	res, err := c.fetch.PostForm(ctx, fmt.Sprintf("courses/%s/memberships/many", courseID), form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post invites")
		return err
	}
	if res.Status != 200 {
		err := fmt.Errorf("invite request rejected with status %d", res.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
