// Package gradescope scrapes course, roster, grade and submission data out
// of the gradescope instructor pages. It leans on two collaborators: a
// fetch.Fetcher for HTTP and lib/tables for pulling structure out of the
// payloads; everything in here is about which endpoints hold which data and
// what the columns mean.
package gradescope

import (
	"bytes"
	"context"

	"gradescope-backend/lib/fetch"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/gradescope")

// Role mirrors the numeric role values of the membership form.
type Role int

const (
	RoleStudent Role = iota
	RoleInstructor
	RoleTA
	RoleReader
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	case RoleTA:
		return "ta"
	case RoleReader:
		return "reader"
	}
	return "unknown"
}

type Client struct {
	fetch fetch.Fetcher
}

// NewClient wraps an already-authenticated fetcher. The client never logs
// in on its own, session state belongs to the fetcher.
func NewClient(fetcher fetch.Fetcher) *Client {
	return &Client{fetch: fetcher}
}

func (c *Client) document(ctx context.Context, endpoint string) (*goquery.Document, error) {
	res, err := c.fetch.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body))
}
