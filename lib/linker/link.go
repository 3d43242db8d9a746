// Package linker joins names scraped off the submissions tables with roster
// entries. Platforms rarely spell a student the same way twice, so exact
// matches are taken first and the rest are paired greedily by string
// similarity.
package linker

import (
	"gradescope-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

type Link struct {
	Scraped string
	Roster  string
	// 1 for an exact match, otherwise the Jaro-Winkler similarity of the
	// pair
	Correlation float64
}

// LinkNames pairs each scraped name with its most likely roster name. Every
// scraped name gets at most one roster name and vice versa; scraped names
// with no similarity to any unclaimed roster entry are left out.
func LinkNames(scraped, roster []string) []Link {
	var result []Link
	matchedScraped := make(map[string]struct{})
	matchedRoster := make(map[string]struct{})

	for _, s := range scraped {
		for _, r := range roster {
			if _, taken := matchedRoster[r]; taken {
				continue
			}
			if textutil.NormalizeName(s) != textutil.NormalizeName(r) {
				continue
			}
			result = append(result, Link{
				Scraped:     s,
				Roster:      r,
				Correlation: 1,
			})
			matchedScraped[s] = struct{}{}
			matchedRoster[r] = struct{}{}
			break
		}
	}

	for _, s := range scraped {
		if _, taken := matchedScraped[s]; taken {
			continue
		}

		var bestSimilarity float64
		var bestRoster string
		for _, r := range roster {
			if _, taken := matchedRoster[r]; taken {
				continue
			}
			similarity := matchr.JaroWinkler(
				textutil.NormalizeName(s),
				textutil.NormalizeName(r),
				false,
			)
			if similarity > bestSimilarity {
				bestSimilarity = similarity
				bestRoster = r
			}
		}

		if bestSimilarity > 0 {
			result = append(result, Link{
				Scraped:     s,
				Roster:      bestRoster,
				Correlation: bestSimilarity,
			})
			matchedScraped[s] = struct{}{}
			matchedRoster[bestRoster] = struct{}{}
		}
	}

	return result
}
