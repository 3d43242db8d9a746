package db

import (
	"context"
	"strings"
)

const createStudentAssignment = `
INSERT INTO student_assignment (student, assignment)
VALUES (?, ?)
ON CONFLICT (student, assignment) DO NOTHING
`

type CreateStudentAssignmentParams struct {
	Student    string
	Assignment string
}

func (q *Queries) CreateStudentAssignment(ctx context.Context, arg CreateStudentAssignmentParams) error {
	_, err := q.db.ExecContext(ctx, createStudentAssignment, arg.Student, arg.Assignment)
	return err
}

const getStudentAssignmentId = `
SELECT id FROM student_assignment
WHERE student = ? AND assignment = ?
`

type GetStudentAssignmentIdParams struct {
	Student    string
	Assignment string
}

func (q *Queries) GetStudentAssignmentId(ctx context.Context, arg GetStudentAssignmentIdParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, getStudentAssignmentId, arg.Student, arg.Assignment)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createScoreSnapshot = `
INSERT INTO score_snapshot (student_assignment_id, time, value)
VALUES (?, ?, ?)
`

type CreateScoreSnapshotParams struct {
	StudentAssignmentID int64
	Time                int64
	Value               float64
}

func (q *Queries) CreateScoreSnapshot(ctx context.Context, arg CreateScoreSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, createScoreSnapshot, arg.StudentAssignmentID, arg.Time, arg.Value)
	return err
}

const deleteScoreSnapshotsIn = `
DELETE FROM score_snapshot
WHERE time >= ? AND time < ?
  AND student_assignment_id IN (
    SELECT id FROM student_assignment WHERE student IN (/*SLICE:students*/?)
  )
`

type DeleteScoreSnapshotsInParams struct {
	After    int64
	Before   int64
	Students []string
}

func (q *Queries) DeleteScoreSnapshotsIn(ctx context.Context, arg DeleteScoreSnapshotsInParams) error {
	query := deleteScoreSnapshotsIn
	var args []interface{}
	args = append(args, arg.After, arg.Before)
	if len(arg.Students) > 0 {
		placeholders := strings.Repeat(",?", len(arg.Students))[1:]
		query = strings.Replace(query, "/*SLICE:students*/?", placeholders, 1)
		for _, s := range arg.Students {
			args = append(args, s)
		}
	} else {
		query = strings.Replace(query, "/*SLICE:students*/?", "NULL", 1)
	}
	_, err := q.db.ExecContext(ctx, query, args...)
	return err
}

const getScoreSnapshots = `
SELECT sa.assignment, ss.time, ss.value
FROM score_snapshot ss
JOIN student_assignment sa ON sa.id = ss.student_assignment_id
WHERE sa.student = ?
ORDER BY sa.assignment, ss.time
`

type GetScoreSnapshotsRow struct {
	Assignment string
	Time       int64
	Value      float64
}

func (q *Queries) GetScoreSnapshots(ctx context.Context, student string) ([]GetScoreSnapshotsRow, error) {
	rows, err := q.db.QueryContext(ctx, getScoreSnapshots, student)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GetScoreSnapshotsRow
	for rows.Next() {
		var i GetScoreSnapshotsRow
		if err := rows.Scan(&i.Assignment, &i.Time, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
