package gradestore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"gradescope-backend/lib/gradestore/db"
	"gradescope-backend/lib/telemetry"
	"gradescope-backend/lib/timezone"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:gradestore")
	defer cleanup()

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	_, err = sqlite.Exec(db.Schema)
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(sqlite)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		res, err := store.Pull(ctx, "unknown-student")
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, res, 0)
	}
	{
		// pinned mid-day so the same-day pushes below never straddle
		// midnight
		now := time.Date(2024, 2, 4, 12, 0, 0, 0, timezone.Location)

		err := store.Push(ctx, PushRequest{
			Time: now,
			Students: []StudentSnapshot{
				{
					Student: "jl27@princeton.edu",
					Scores: []AssignmentScore{
						{Assignment: "Project 4", Value: 17.75},
						{Assignment: "Written Exam 1", Value: 48},
					},
				},
				{
					Student: "jd1@princeton.edu",
					Scores: []AssignmentScore{
						{Assignment: "Project 4", Value: 12},
					},
				},
			},
		})
		if err != nil {
			t.Fatal(err)
		}

		// same-day push for the same student replaces today's points
		err = store.Push(ctx, PushRequest{
			Time: now.Add(time.Minute),
			Students: []StudentSnapshot{
				{
					Student: "jl27@princeton.edu",
					Scores: []AssignmentScore{
						{Assignment: "Project 4", Value: 19},
						{Assignment: "Written Exam 1", Value: 48},
					},
				},
			},
		})
		if err != nil {
			t.Fatal(err)
		}

		// next-day push extends the series
		err = store.Push(ctx, PushRequest{
			Time: now.Add(time.Hour * 24),
			Students: []StudentSnapshot{
				{
					Student: "jl27@princeton.edu",
					Scores: []AssignmentScore{
						{Assignment: "Project 4", Value: 20},
					},
				},
			},
		})
		if err != nil {
			t.Fatal(err)
		}

		res, err := store.Pull(ctx, "jl27@princeton.edu")
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, res, 2)

		var project AssignmentSeries
		var exam AssignmentSeries
		for _, s := range res {
			if s.Assignment == "Project 4" {
				project = s
			}
			if s.Assignment == "Written Exam 1" {
				exam = s
			}
		}
		require.Len(t, project.Snapshots, 2)
		require.Equal(t, 19.0, project.Snapshots[0].Value)
		require.Equal(t, 20.0, project.Snapshots[1].Value)
		require.Len(t, exam.Snapshots, 1)

		// the other student's same-day points were untouched
		other, err := store.Pull(ctx, "jd1@princeton.edu")
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, other, 1)
		require.Len(t, other[0].Snapshots, 1)
	}
}
