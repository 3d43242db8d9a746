package gradescope

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/url"
	"testing"

	"gradescope-backend/lib/fetch"
	"gradescope-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned bodies by endpoint, standing in for a logged-in
// fetch.Client.
type fakeFetcher struct {
	pages map[string]string
	posts map[string]url.Values
}

func (f *fakeFetcher) Get(ctx context.Context, endpoint string) (fetch.Response, error) {
	body, ok := f.pages[endpoint]
	if !ok {
		return fetch.Response{}, fmt.Errorf("GET %s: status 404", endpoint)
	}
	return fetch.Response{Status: 200, Body: []byte(body)}, nil
}

func (f *fakeFetcher) PostForm(ctx context.Context, endpoint string, form url.Values) (fetch.Response, error) {
	if f.posts == nil {
		f.posts = map[string]url.Values{}
	}
	f.posts[endpoint] = form
	return fetch.Response{Status: 200}, nil
}

const accountPage = `
<div class="courseList">
	<a class="courseBox" href="/courses/702597">CS310 001-002-003</a>
	<a class="courseBox" href="/courses/709120">CS310 004-006</a>
	<a class="courseBox--new" href="/courses/new">New Course</a>
</div>`

const coursePage = `
<header class="courseHeader">
	<h1>CS310</h1>
	<div class="courseHeader--term">Spring 2024</div>
</header>`

const assignmentsPage = `
<div data-react-class="AssignmentsTable" data-react-props='{
	"table_data": [
		{"id": "header_1", "title": "Projects", "url": ""},
		{"id": "assignment_4023169", "title": "Project 4",
		 "url": "/courses/702597/assignments/4023169", "is_published": true}
	]
}'></div>`

const gradeExport = `Name,SID,Email,Total Score,Max Points,Status,Submission ID,View Count,1: Violations (10.0 pts),2: Style (5.0 pts)
Joe Student,jl27,jl27@princeton.edu,17.75,15.0,Graded,22534979,4,9.75,3
Jane Student,jd1,jd1@princeton.edu,,15.0,Ungraded,22534980,0,,
`

const membershipExport = `Name,Email,Role,Sections
Joe Student,jl27@princeton.edu,Student,001
Jane Student,jd1@princeton.edu,Student,004
`

const submissionsPage = `
<table class="js-programmingAssignmentSubmissionsTable">
<tbody>
	<tr>
		<td><a href="/submissions/1">Joe Student</a></td>
		<td><time datetime="2024-02-04 20:57:57 -0800">Feb 4</time></td>
		<td>
			<span class="sectionsColumnCell--sectionSpan">001</span>
			<span class="sectionsColumnCell--sectionSpan">Smith</span>
		</td>
	</tr>
</tbody>
</table>`

const gradingDashboard = `
<div data-react-class="GradingDashboard" data-react-props='{
	"presenter": {"assignments": {"4023169": {"questions": {
		"q1": {"id": 81, "title": "Violations",
		       "link": "/courses/702597/questions/81/grade",
		       "submissionsLink": "courses/702597/questions/81/submissions"},
		"q2": {"id": 7, "title": "Style",
		       "link": "/courses/702597/questions/7/grade",
		       "submissionsLink": "courses/702597/questions/7/submissions"}
	}}}}
}'></div>`

const questionSubmissionsPage = `
<table>
	<tr><th>Student</th></tr>
	<tr><td><a href="/courses/702597/submissions/22534979/grade">Joe Student (jl27@princeton.edu)</a></td></tr>
</table>`

func testClient() *Client {
	return NewClient(&fakeFetcher{pages: map[string]string{
		"account":                                   accountPage,
		"courses/702597":                            coursePage,
		"courses/702597/assignments":                assignmentsPage,
		"courses/702597/assignments/4023169/grade":  gradingDashboard,
		"courses/702597/memberships.csv":            membershipExport,
		"/courses/702597/assignments/4023169/submissions": submissionsPage,
		"courses/702597/questions/81/submissions":   questionSubmissionsPage,
	}})
}

func TestCourses(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/gradescope")
	defer cleanup()

	ids, err := testClient().Courses(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"702597", "709120"}, ids)
}

func TestCourseName(t *testing.T) {
	course, err := testClient().CourseName(context.Background(), "702597")
	require.NoError(t, err)
	require.Equal(t, Course{Id: "702597", Name: "CS310", Term: "S2024"}, course)
}

func TestAssignments(t *testing.T) {
	assignments, err := testClient().Assignments(context.Background(), "702597")
	require.NoError(t, err)
	require.Equal(t, []Assignment{
		{Id: "4023169", Name: "Project 4", URL: "/courses/702597/assignments/4023169"},
	}, assignments)

	assignment, ok, err := testClient().AssignmentByName(context.Background(), "702597", "Project 4")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "4023169", assignment.Id)

	_, ok, err = testClient().AssignmentByName(context.Background(), "702597", "Project 5")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAssignmentGrades(t *testing.T) {
	client := NewClient(&fakeFetcher{pages: map[string]string{
		"courses/702597/assignments/4023169/grade": gradeExport,
	}})

	records, err := client.AssignmentGrades(context.Background(), "702597", "4023169")
	require.NoError(t, err)
	require.Len(t, records, 2)

	joe := records[0]
	require.Equal(t, "Joe Student", joe.Name)
	require.Equal(t, "jl27", joe.SID)
	require.True(t, joe.Graded)
	require.Equal(t, 17.75, joe.TotalScore)
	require.Equal(t, []QuestionScore{
		{Name: "1: Violations (10.0 pts)", Score: 9.75, Scored: true},
		{Name: "2: Style (5.0 pts)", Score: 3, Scored: true},
	}, joe.Questions)

	jane := records[1]
	require.False(t, jane.Graded)
	require.Equal(t, 0.0, jane.TotalScore)
	require.False(t, jane.Questions[0].Scored)
}

func TestRoster(t *testing.T) {
	roster, err := testClient().Roster(context.Background(), "702597")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	require.Equal(t, "jl27@princeton.edu", roster[0]["Email"])
	require.Equal(t, "004", roster[1]["Sections"])
}

func TestSubmissions(t *testing.T) {
	submissions, err := testClient().Submissions(context.Background(), "702597", "Project 4")
	require.NoError(t, err)
	require.Equal(t, []Submission{
		{
			Name: "Joe Student",
			// 20:57 PST renders as 23:57 eastern
			Time:    "2024-02-04 23:57:57",
			Section: "001",
			Grader:  "Smith",
		},
	}, submissions)
}

func TestAssignmentQuestions(t *testing.T) {
	questions, err := testClient().AssignmentQuestions(context.Background(), "702597", "Project 4")
	require.NoError(t, err)

	// decoded off a map, so the client orders them by id itself
	require.Equal(t, []Question{
		{
			Id:             "7",
			Name:           "Style",
			GradeURL:       "/courses/702597/questions/7/grade",
			SubmissionsURL: "courses/702597/questions/7/submissions",
		},
		{
			Id:             "81",
			Name:           "Violations",
			GradeURL:       "/courses/702597/questions/81/grade",
			SubmissionsURL: "courses/702597/questions/81/submissions",
		},
	}, questions)
}

func TestQuestionSubmissions(t *testing.T) {
	submissions, err := testClient().QuestionSubmissions(
		context.Background(), "702597", "Project 4", "Violations",
	)
	require.NoError(t, err)
	require.Equal(t, []QuestionSubmission{
		{
			Name:         "Joe Student",
			Email:        "jl27@princeton.edu",
			SubmissionID: "22534979",
			URL:          "/courses/702597/submissions/22534979/grade",
		},
	}, submissions)
}

func TestInviteMany(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{}}
	client := NewClient(fetcher)

	err := client.InviteMany(context.Background(), "702597", RoleStudent, []Invite{
		{Email: "jl27@princeton.edu", Name: "Joe Student"},
	})
	require.NoError(t, err)

	form := fetcher.posts["courses/702597/memberships/many"]
	require.Equal(t, "Joe Student", form.Get("students[0][name]"))
	require.Equal(t, "jl27@princeton.edu", form.Get("students[0][email]"))
	require.Equal(t, "0", form.Get("role"))
}

func TestCourseGrades(t *testing.T) {
	client := NewClient(&fakeFetcher{pages: map[string]string{
		"courses/702597/assignments":               assignmentsPage,
		"courses/702597/assignments/4023169/grade": gradeExport,
	}})

	grades, err := client.CourseGrades(context.Background(), "702597", CourseGradesOptions{
		OnlyGraded: true,
		UseEmail:   true,
	})
	require.NoError(t, err)
	require.Equal(t, map[string]map[string]float64{
		"jl27@princeton.edu": {"Project 4": 17.75},
	}, grades)

	grades, err = client.CourseGrades(context.Background(), "702597", CourseGradesOptions{})
	require.NoError(t, err)
	require.Len(t, grades, 2)
	require.Contains(t, grades, "jd1")
}

type evaluationSheet struct {
	name string
	body string
}

func evaluationArchive(t *testing.T, sheets []evaluationSheet) string {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, sheet := range sheets {
		f, err := w.Create(sheet.name)
		require.NoError(t, err)
		_, err = f.Write([]byte(sheet.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.String()
}

func TestAssignmentEvaluations(t *testing.T) {
	archive := evaluationArchive(t, []evaluationSheet{
		{
			name: "Violations.csv",
			body: "Assignment Submission ID,Score,Grader,Comments,R1: Missing header\n" +
				"22534979,9.75,Smith,missing collab statement,false\n" +
				"22534980,,,,\n",
		},
		{
			name: "Style.csv",
			body: "Assignment Submission ID,Score,Grader,Comments\n" +
				"22534979,3,Smith,\n",
		},
		// matches no question column, skipped with a warning
		{
			name: "Summary.csv",
			body: "Assignment Submission ID,Score\n22534979,17.75\n",
		},
	})

	client := NewClient(&fakeFetcher{pages: map[string]string{
		"courses/702597/assignments/4023169/grade":              gradeExport,
		"courses/702597/assignments/4023169/export_evaluations": archive,
	}})

	records, err := client.AssignmentEvaluations(context.Background(), "702597", "4023169")
	require.NoError(t, err)
	require.Len(t, records, 2)

	joe := records[0]
	require.Equal(t, "Joe Student", joe.Name)
	require.Len(t, joe.Evaluations, 2)
	require.Equal(t, QuestionEvaluation{
		Question: "1: Violations (10.0 pts)",
		Score:    9.75,
		Scored:   true,
		Grader:   "Smith",
		Comments: "missing collab statement",
		Rubric:   map[string]string{"R1: Missing header": "false"},
	}, joe.Evaluations[0])
	require.Equal(t, "2: Style (5.0 pts)", joe.Evaluations[1].Question)
	require.Equal(t, 3.0, joe.Evaluations[1].Score)

	jane := records[1]
	require.Len(t, jane.Evaluations, 1)
	require.False(t, jane.Evaluations[0].Scored)
}

func TestAssignmentEvaluationsScoreMismatch(t *testing.T) {
	archive := evaluationArchive(t, []evaluationSheet{
		{
			name: "Violations.csv",
			body: "Assignment Submission ID,Score,Grader,Comments\n" +
				"22534979,8,Smith,\n",
		},
	})

	client := NewClient(&fakeFetcher{pages: map[string]string{
		"courses/702597/assignments/4023169/grade":              gradeExport,
		"courses/702597/assignments/4023169/export_evaluations": archive,
	}})

	_, err := client.AssignmentEvaluations(context.Background(), "702597", "4023169")
	require.ErrorContains(t, err, "disagrees")
}

func TestDaysEarly(t *testing.T) {
	days, err := DaysEarly("2024-02-04 23:59:59", "2024-02-06 23:59:59")
	require.NoError(t, err)
	require.Equal(t, -2, days)

	days, err = DaysEarly("2024-02-04 23:59:59", "2024-02-04 00:00:01")
	require.NoError(t, err)
	require.Equal(t, 0, days)

	days, err = DaysEarly("2024-04-21 23:59:59", "2024-04-19 11:00:00")
	require.NoError(t, err)
	require.Equal(t, 2, days)
}
