// Package normalize converts tokens between the vocabularies different
// platforms use for the same data, e.g. section names as gradescope spells
// them vs. as the registrar's roster export spells them. Conversions are
// declared pairwise between named units; units without a direct declaration
// are still convertible when a chain of declarations connects them.
package normalize

import "fmt"

// Entry is a single token conversion inside a record's mapping. Entry order
// is significant: reverse lookups return the From of the first entry whose
// To matches, so two entries sharing a To resolve to the earlier one.
type Entry struct {
	From string
	To   string
}

// Record declares a conversion between two units. The declared direction
// only affects how the mapping is read; a record connects its units both
// ways.
type Record struct {
	Source      string
	Destination string
	Mapping     []Entry
}

// Set is an ordered, immutable collection of normalization records.
// Construct one at startup and share it freely, methods never mutate it.
type Set struct {
	records []Record
}

// NewSet validates the given records and returns a Set over a copy of them.
// A record missing a source, destination, or mapping is rejected here rather
// than surfacing as a confusing miss at lookup time.
func NewSet(records []Record) (Set, error) {
	for i, r := range records {
		if r.Source == "" {
			return Set{}, fmt.Errorf("normalization record %d: missing source unit", i)
		}
		if r.Destination == "" {
			return Set{}, fmt.Errorf("normalization record %d: missing destination unit", i)
		}
		if r.Mapping == nil {
			return Set{}, fmt.Errorf(
				"normalization record %d (%s -> %s): missing mapping",
				i, r.Source, r.Destination,
			)
		}
	}
	out := make([]Record, len(records))
	copy(out, records)
	return Set{records: out}, nil
}

// MappingFromPairs builds mapping entries from [from, to] pairs, preserving
// their order. Convenient for configuration formats where objects don't
// guarantee key order.
func MappingFromPairs(pairs [][2]string) []Entry {
	entries := make([]Entry, len(pairs))
	for i, p := range pairs {
		entries[i] = Entry{From: p[0], To: p[1]}
	}
	return entries
}

// FindPath returns a simple path of unit names from src to dst inclusive,
// or nil when the two units aren't connected by any chain of records.
//
// The search is a depth-first walk over the undirected graph induced by the
// records, visiting neighbors in declaration order (each record contributes
// its destination before its source). The first path found wins, which is
// not necessarily the shortest one. Callers relying on a particular route
// should order their records accordingly.
func (s Set) FindPath(src, dst string) []string {
	graph := map[string][]string{}
	for _, r := range s.records {
		graph[r.Source] = append(graph[r.Source], r.Destination)
		graph[r.Destination] = append(graph[r.Destination], r.Source)
	}
	return dfs(graph, src, dst, nil)
}

func dfs(graph map[string][]string, start, end string, path []string) []string {
	// the base case fires before any expansion, so a search where
	// src == dst yields the single-node path even when a longer loop
	// back to src exists.
	if start == end {
		found := make([]string, len(path)+1)
		copy(found, path)
		found[len(path)] = end
		return found
	}

	for _, visited := range path {
		if visited == start {
			return nil
		}
	}
	// every branch gets its own copy so sibling branches never see each
	// other's visited nodes.
	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = start

	for _, neighbor := range graph[start] {
		if found := dfs(graph, neighbor, end, next); found != nil {
			return found
		}
	}
	return nil
}

// applyDirect converts word across a single edge. Only the first record
// declared between the two units is ever consulted: in the declared
// direction it is a forward lookup of word among the entry Froms, against
// the declared direction it is a scan for the first entry whose To equals
// word.
func (s Set) applyDirect(word, src, dst string) (string, bool) {
	for _, r := range s.records {
		if r.Source == src && r.Destination == dst {
			for _, e := range r.Mapping {
				if e.From == word {
					return e.To, true
				}
			}
			return "", false
		}
		if r.Source == dst && r.Destination == src {
			for _, e := range r.Mapping {
				if e.To == word {
					return e.From, true
				}
			}
			return "", false
		}
	}
	return "", false
}

func (s Set) walk(word string, path []string) (string, bool) {
	result := word
	for i := 0; i+1 < len(path); i++ {
		var ok bool
		result, ok = s.applyDirect(result, path[i], path[i+1])
		if !ok {
			// a single missing hop fails the whole chain, there is
			// no partial-conversion result.
			return "", false
		}
	}
	return result, true
}

// Normalize converts word from the src unit's vocabulary to the dst unit's
// by resolving a path of records and applying each hop in order, feeding
// every hop's output into the next. It reports false when no path connects
// the units or when any hop has no mapping for its input.
func (s Set) Normalize(word, src, dst string) (string, bool) {
	path := s.FindPath(src, dst)
	if path == nil {
		return "", false
	}
	return s.walk(word, path)
}

// NormalizeOrEcho is Normalize with a fallback: when the units are connected
// but the token has no mapping somewhere along the path, the original word
// is returned unchanged. Disconnected units still report false, the echo
// only rescues conversion misses on a resolvable path.
func (s Set) NormalizeOrEcho(word, src, dst string) (string, bool) {
	path := s.FindPath(src, dst)
	if path == nil {
		return "", false
	}
	result, ok := s.walk(word, path)
	if !ok {
		return word, true
	}
	return result, true
}
