// Package gradestore keeps a local history of scraped scores so repeated
// scrapes of the same day overwrite instead of piling up, and per-student
// score trajectories can be pulled back out.
package gradestore

import (
	"context"
	"database/sql"
	"time"

	"gradescope-backend/lib/gradestore/db"
	"gradescope-backend/lib/timezone"
)

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

type AssignmentScore struct {
	Assignment string
	Value      float64
}

type StudentSnapshot struct {
	Student string
	Scores  []AssignmentScore
}

type PushRequest struct {
	Time     time.Time
	Students []StudentSnapshot
}

// Push records one score snapshot per student assignment. Snapshots already
// recorded the same calendar day (US/Eastern) for the pushed students are
// replaced, so re-running a scrape doesn't duplicate points on the series.
func (s Store) Push(ctx context.Context, req PushRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	startOfToday := time.Date(req.Time.Year(), req.Time.Month(), req.Time.Day(), 0, 0, 0, 0, timezone.Location).Unix()
	startOfTomorrow := time.Date(req.Time.Year(), req.Time.Month(), req.Time.Day()+1, 0, 0, 0, 0, timezone.Location).Unix()

	students := make([]string, len(req.Students))
	for i, v := range req.Students {
		students[i] = v.Student
	}
	err = txqry.DeleteScoreSnapshotsIn(ctx, db.DeleteScoreSnapshotsInParams{
		After:    startOfToday,
		Before:   startOfTomorrow,
		Students: students,
	})
	if err != nil {
		return err
	}

	for _, student := range req.Students {
		for _, score := range student.Scores {
			err := txqry.CreateStudentAssignment(ctx, db.CreateStudentAssignmentParams{
				Student:    student.Student,
				Assignment: score.Assignment,
			})
			if err != nil {
				return err
			}

			id, err := txqry.GetStudentAssignmentId(ctx, db.GetStudentAssignmentIdParams{
				Student:    student.Student,
				Assignment: score.Assignment,
			})
			if err != nil {
				return err
			}

			err = txqry.CreateScoreSnapshot(ctx, db.CreateScoreSnapshotParams{
				StudentAssignmentID: id,
				Time:                req.Time.Unix(),
				Value:               score.Value,
			})
			if err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

type ScoreSnapshot struct {
	Time  time.Time
	Value float64
}

type AssignmentSeries struct {
	Assignment string
	Snapshots  []ScoreSnapshot
}

// Pull returns every assignment score series recorded for a student,
// ordered by assignment then time.
func (s Store) Pull(ctx context.Context, student string) ([]AssignmentSeries, error) {
	rows, err := s.qry.GetScoreSnapshots(ctx, student)
	if err != nil {
		return nil, err
	}

	var series []AssignmentSeries
	for _, r := range rows {
		if len(series) == 0 || series[len(series)-1].Assignment != r.Assignment {
			series = append(series, AssignmentSeries{Assignment: r.Assignment})
		}
		last := &series[len(series)-1]
		last.Snapshots = append(last.Snapshots, ScoreSnapshot{
			Time:  time.Unix(r.Time, 0),
			Value: r.Value,
		})
	}

	return series, nil
}
