package tables

import (
	"encoding/json"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ReactProps pulls the json payload out of a server-rendered react mount
// point, i.e. <div data-react-class="AssignmentsTable"
// data-react-props="...">. Gradescope ships most of its dashboards this
// way instead of as plain tables.
func ReactProps(doc *goquery.Document, reactClass string, out any) error {
	div := doc.Find(fmt.Sprintf(`div[data-react-class=%q]`, reactClass)).First()
	if div.Length() == 0 {
		return fmt.Errorf("no react mount point for class %q", reactClass)
	}
	props, ok := div.Attr("data-react-props")
	if !ok {
		return fmt.Errorf("react mount point %q has no props", reactClass)
	}
	return json.Unmarshal([]byte(props), out)
}
