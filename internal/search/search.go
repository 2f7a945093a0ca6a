// Package search filters, orders and scores an in-memory program catalog.
// Nothing here touches the store; callers hand in a snapshot and get a new
// slice back.
package search

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"community-sport/backend/internal/domain/program"
)

// Filters enumerates the recognized search options. Zero values disable a filter.
type Filters struct {
	Query    string
	Sport    string
	AgeGroup string
	// MaxCost is raw user input. It only applies when it parses to a
	// non-negative number.
	MaxCost       string
	Accessibility []string
}

// MaxCostValue reports the parsed cost ceiling, if any.
func (f Filters) MaxCostValue() (float64, bool) {
	raw := strings.TrimSpace(f.MaxCost)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Search returns the programs matching f, free programs first and then by
// ascending cost.
func Search(programs []program.Program, f Filters) []program.Program {
	out := make([]program.Program, 0, len(programs))

	words := queryWords(f.Query)
	maxCost, hasMax := f.MaxCostValue()

	for _, p := range programs {
		if len(words) > 0 && !matchesAll(p, words) {
			continue
		}
		if f.Sport != "" && p.Sport != f.Sport {
			continue
		}
		if f.AgeGroup != "" && !p.HasAgeGroup(f.AgeGroup) {
			continue
		}
		if hasMax && p.Cost > maxCost {
			continue
		}
		if len(f.Accessibility) > 0 && !hasAny(p.Accessibility, f.Accessibility) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return costLess(out[i], out[j])
	})
	return out
}

// costLess puts free programs ahead of paid ones, then orders by cost.
func costLess(a, b program.Program) bool {
	if a.IsFree() != b.IsFree() {
		return a.IsFree()
	}
	return a.Cost < b.Cost
}

// queryWord is a lower-cased query word with its word-boundary pattern.
type queryWord struct {
	text     string
	boundary *regexp.Regexp
}

func newQueryWord(w string) queryWord {
	return queryWord{text: w, boundary: regexp.MustCompile(`\b` + regexp.QuoteMeta(w))}
}

// queryWords splits q and compiles each word's boundary pattern once per search.
func queryWords(q string) []queryWord {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(q)))
	out := make([]queryWord, 0, len(fields))
	for _, w := range fields {
		out = append(out, newQueryWord(w))
	}
	return out
}

// searchFields lists the non-empty text a query is matched against.
func searchFields(p program.Program) []string {
	fields := []string{p.Title, p.Sport, p.Description, p.Venue.Name, p.Venue.Suburb, p.Venue.Address}
	fields = append(fields, p.InclusivityTags...)
	fields = append(fields, p.Accessibility...)
	fields = append(fields, p.AgeGroups...)
	if p.IsFree() {
		fields = append(fields, "free")
	}
	fields = append(fields, p.CostUnit)

	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

func matchesAll(p program.Program, words []queryWord) bool {
	fields := searchFields(p)
	text := strings.Join(fields, " ")
	for _, w := range words {
		if !matchesWord(text, fields, w) {
			return false
		}
	}
	return true
}

// matchesWord tries, in order: substring of the joined text, a word-boundary
// match on a single field, then a token prefix/contains match for words of
// three or more characters.
func matchesWord(text string, fields []string, qw queryWord) bool {
	w := qw.text
	if strings.Contains(text, w) {
		return true
	}

	for _, f := range fields {
		if qw.boundary.MatchString(f) {
			return true
		}
		if len(w) < 3 {
			continue
		}
		for _, tok := range strings.Fields(f) {
			if strings.HasPrefix(tok, w) || strings.Contains(tok, w) {
				return true
			}
		}
	}
	return false
}

func hasAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
