package linker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLinkNames(t *testing.T) {
	testCases := []struct {
		scraped []string
		roster  []string
		// links with Correlation == 0 are compared without asserting
		// the correlation value
		expected []Link
	}{
		{
			scraped: []string{"Joe Student", "Jane Student"},
			roster:  []string{"joe student", "Jane  Student"},
			expected: []Link{
				{Scraped: "Joe Student", Roster: "joe student", Correlation: 1},
				{Scraped: "Jane Student", Roster: "Jane  Student", Correlation: 1},
			},
		},
		{
			scraped: []string{"Jon Smith"},
			roster:  []string{"John Smith", "Mary Major"},
			expected: []Link{
				{Scraped: "Jon Smith", Roster: "John Smith"},
			},
		},
		{
			// exact matches claim roster entries before fuzzy ones run
			scraped: []string{"J. Smith", "John Smith"},
			roster:  []string{"John Smith", "Jane Doe"},
			expected: []Link{
				{Scraped: "John Smith", Roster: "John Smith", Correlation: 1},
				{Scraped: "J. Smith", Roster: "Jane Doe"},
			},
		},
		{
			scraped:  nil,
			roster:   []string{"John Smith"},
			expected: nil,
		},
	}

	ignoreCorrelation := cmpopts.IgnoreFields(Link{}, "Correlation")
	sortLinks := cmpopts.SortSlices(func(a, b Link) bool {
		return a.Scraped < b.Scraped
	})

	for _, test := range testCases {
		got := LinkNames(test.scraped, test.roster)
		if diff := cmp.Diff(test.expected, got, ignoreCorrelation, sortLinks); diff != "" {
			t.Fatalf("unexpected links (-want +got):\n%s", diff)
		}
		for i, link := range got {
			if i < len(test.expected) && test.expected[i].Correlation != 0 {
				continue
			}
			if link.Correlation <= 0 || link.Correlation > 1 {
				t.Fatalf("correlation out of range: %+v", link)
			}
		}
	}
}
