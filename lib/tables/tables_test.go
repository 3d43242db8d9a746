package tables

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	out, err := ParseCSV([]byte(
		"Name,SID,Email,Total Score\n" +
			"Joe Student,jl27,jl27@princeton.edu,17.75\n" +
			"Jane Student,jd1, jd1@princeton.edu,\n",
	))
	require.NoError(t, err)

	require.Equal(t, []string{"Name", "SID", "Email", "Total Score"}, out.Headers)
	require.Len(t, out.Rows, 2)
	require.Equal(t, "17.75", out.Rows[0]["Total Score"])
	require.Equal(t, "jd1@princeton.edu", out.Rows[1]["Email"])
	require.Equal(t, "", out.Rows[1]["Total Score"])
}

func TestParseCSVEmpty(t *testing.T) {
	out, err := ParseCSV(nil)
	require.NoError(t, err)
	require.Len(t, out.Rows, 0)
}

const submissionsTable = `
<table class="js-programmingAssignmentSubmissionsTable">
	<thead><tr><th>Name</th><th>Time</th><th>Sections</th></tr></thead>
	<tbody>
		<tr>
			<td><a href="/submissions/1">Joe Student</a></td>
			<td><time datetime="2024-02-04 20:57:57 -0800">Feb 4</time></td>
			<td>
				<span class="sectionsColumnCell--sectionSpan">001</span>
				<span class="sectionsColumnCell--sectionSpan">Smith</span>
			</td>
		</tr>
		<tr>
			<td><a href="/submissions/2">Jane Student</a></td>
			<td><time datetime="2024-02-05 01:12:00 -0800">Feb 5</time></td>
			<td></td>
		</tr>
	</tbody>
</table>`

func TestFromSelection(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(submissionsTable))
	require.NoError(t, err)

	table := FromSelection(doc.Find("table.js-programmingAssignmentSubmissionsTable"))
	require.Equal(t, []string{"Name", "Time", "Sections"}, table.Headers)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	anchor, ok := first.Anchor()
	require.True(t, ok)
	require.Equal(t, "Joe Student", anchor.Name)
	require.Equal(t, "/submissions/1", anchor.Href)
	require.Equal(t, "2024-02-04 20:57:57 -0800", first.Datetime())
	require.Equal(t, []string{"001", "Smith"}, first.Spans())

	second := table.Rows[1]
	anchor, ok = second.Anchor()
	require.True(t, ok)
	require.Equal(t, "Jane Student", anchor.Name)
	require.Nil(t, second.Spans())
}

func TestFromSelectionNoTbody(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<table>
			<tr><th>Who</th></tr>
			<tr><td>Joe Student (jl27@princeton.edu)</td></tr>
		</table>`))
	require.NoError(t, err)

	table := FromSelection(doc.Selection)
	require.Equal(t, []string{"Who"}, table.Headers)
	require.Len(t, table.Rows, 1)
	require.Equal(t, "Joe Student (jl27@princeton.edu)", table.Rows[0].First().Text)
}

func TestReactProps(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div data-react-class="AssignmentsTable"
			data-react-props='{"table_data":[{"id":"assignment_3922368","title":"Project 4"}]}'>
		</div>`))
	require.NoError(t, err)

	var props struct {
		TableData []struct {
			Id    string `json:"id"`
			Title string `json:"title"`
		} `json:"table_data"`
	}
	err = ReactProps(doc, "AssignmentsTable", &props)
	require.NoError(t, err)
	require.Len(t, props.TableData, 1)
	require.Equal(t, "assignment_3922368", props.TableData[0].Id)

	err = ReactProps(doc, "GradingDashboard", &props)
	require.Error(t, err)
}
