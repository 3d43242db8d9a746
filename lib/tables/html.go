package tables

import (
	"gradescope-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Cell keeps everything the scrapers ever read out of a table cell: the
// cleaned text, any anchors, the datetime attribute of the first <time>
// element, and the text of each <span> (gradescope stuffs section/grader
// info into sibling spans).
type Cell struct {
	Text     string
	Anchors  []htmlutil.Anchor
	Datetime string
	Spans    []string
}

type Row struct {
	Cells []Cell
}

// First returns the first cell of the row, or a zero cell for ragged rows.
func (r Row) First() Cell {
	if len(r.Cells) == 0 {
		return Cell{}
	}
	return r.Cells[0]
}

// Anchor returns the first anchor anywhere in the row.
func (r Row) Anchor() (htmlutil.Anchor, bool) {
	for _, c := range r.Cells {
		if len(c.Anchors) > 0 {
			return c.Anchors[0], true
		}
	}
	return htmlutil.Anchor{}, false
}

// Datetime returns the datetime attribute of the first <time> element
// anywhere in the row.
func (r Row) Datetime() string {
	for _, c := range r.Cells {
		if c.Datetime != "" {
			return c.Datetime
		}
	}
	return ""
}

// Spans returns every span text in the row, in document order.
func (r Row) Spans() []string {
	var spans []string
	for _, c := range r.Cells {
		spans = append(spans, c.Spans...)
	}
	return spans
}

type Table struct {
	Headers []string
	Rows    []Row
}

// FromSelection extracts a table from the first <table> in sel. Header
// cells come from <th> elements, body rows from <tbody> <tr> elements (or
// all non-header rows when there is no tbody).
func FromSelection(sel *goquery.Selection) Table {
	table := sel.Filter("table").First()
	if table.Length() == 0 {
		table = sel.Find("table").First()
	}

	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.CleanText(th.Text()))
	})

	body := table.Find("tbody")
	rowSel := body.Find("tr")
	if body.Length() == 0 {
		rowSel = table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
			return tr.Find("th").Length() == 0
		})
	}

	var rows []Row
	rowSel.Each(func(_ int, tr *goquery.Selection) {
		var cells []Cell
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, extractCell(td))
		})
		if len(cells) > 0 {
			rows = append(rows, Row{Cells: cells})
		}
	})

	return Table{Headers: headers, Rows: rows}
}

func extractCell(td *goquery.Selection) Cell {
	cell := Cell{
		Text: htmlutil.CleanText(td.Text()),
	}

	td.Find("a").Each(func(_ int, a *goquery.Selection) {
		cell.Anchors = append(cell.Anchors, htmlutil.Anchor{
			Name: htmlutil.CleanText(a.Text()),
			Href: a.AttrOr("href", ""),
		})
	})
	cell.Datetime = td.Find("time").First().AttrOr("datetime", "")
	td.Find("span").Each(func(_ int, span *goquery.Selection) {
		cell.Spans = append(cell.Spans, htmlutil.CleanText(span.Text()))
	})

	return cell
}
