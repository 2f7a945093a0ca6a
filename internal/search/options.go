package search

import (
	"sort"

	"community-sport/backend/internal/domain/program"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var accessibilityLabels = map[string]string{
	"wheelchair-access":   "Wheelchair accessible",
	"accessible-toilets":  "Accessible toilets",
	"pool-lift":           "Pool lift",
	"family-change-rooms": "Family change rooms",
	"quiet-area":          "Quiet area",
	"pet-friendly":        "Pet friendly",
	"pram-access":         "Pram accessible",
	"baby-change":         "Baby change facilities",
	"seating-available":   "Seating available",
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AccessibilityLabel returns the display label for tag, or tag itself.
func AccessibilityLabel(tag string) string {
	if l, ok := accessibilityLabels[tag]; ok {
		return l
	}
	return tag
}

func SportOptions(programs []program.Program) []string {
	set := map[string]struct{}{}
	for _, p := range programs {
		if p.Sport != "" {
			set[p.Sport] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func AgeGroupOptions(programs []program.Program) []string {
	set := map[string]struct{}{}
	for _, p := range programs {
		for _, g := range p.AgeGroups {
			if g != "" {
				set[g] = struct{}{}
			}
		}
	}
	return sortedKeys(set)
}

// AccessibilityOptions lists distinct accessibility tags with labels, ordered
// by label using English collation.
func AccessibilityOptions(programs []program.Program) []Option {
	seen := map[string]struct{}{}
	out := []Option{}
	for _, p := range programs {
		for _, tag := range p.Accessibility {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, Option{Value: tag, Label: AccessibilityLabel(tag)})
		}
	}

	c := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Label, out[j].Label) < 0
	})
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
