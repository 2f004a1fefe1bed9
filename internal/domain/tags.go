package domain

import (
	"slices"
	"strings"
	"unicode"
)

// Delimiter separates tag tokens in a raw tag string.
type Delimiter rune

const (
	Space Delimiter = ' '
	Comma Delimiter = ','
)

// CanonicalTag returns the form used for uniqueness comparisons and storage.
func CanonicalTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeTags parses raw into an ordered, deduplicated set of canonical tag names.
// Space splits on any whitespace run, Comma splits on commas only.
// Examples:
//   - "Go  web go" (Space) -> ["go", "web"]
//   - " Go, ,Web" (Comma) -> ["go", "web"]
func NormalizeTags(raw string, d Delimiter) []string {
	var tokens []string
	switch d {
	case Comma:
		tokens = strings.Split(raw, ",")
	default:
		tokens = strings.FieldsFunc(raw, unicode.IsSpace)
	}
	return dedupe(tokens)
}

// ParseTagString accepts the user-facing space separated form and the internal comma
// separated form, or any mix of the two.
func ParseTagString(raw string) []string {
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	return dedupe(tokens)
}

// BuildTagString joins tags back into a single string, e.g. for an edit form.
func BuildTagString(tags []string, d Delimiter) string {
	return strings.Join(tags, string(d))
}

func dedupe(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		name := CanonicalTag(tok)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// TagDelta is the change a tag or untag operation makes to a tag set.
type TagDelta struct {
	Add    []string
	Remove []string
}

// ParseTagDelta parses the add and remove strings once. A tag named in both is
// only removed: untag is the more explicit action.
func ParseTagDelta(add, remove string) TagDelta {
	rm := ParseTagString(remove)
	var adds []string
	for _, name := range ParseTagString(add) {
		if !slices.Contains(rm, name) {
			adds = append(adds, name)
		}
	}
	return TagDelta{Add: adds, Remove: rm}
}

// DiffTags computes what has to change on existing for the given add and remove strings.
// Tags already present are not re-added, and only present tags are reported as removed.
func DiffTags(existing []string, add, remove string) TagDelta {
	return ParseTagDelta(add, remove).For(existing)
}

// For narrows the delta to one concrete tag set.
func (d TagDelta) For(existing []string) TagDelta {
	var out TagDelta
	for _, name := range d.Add {
		if !slices.Contains(existing, name) {
			out.Add = append(out.Add, name)
		}
	}
	for _, name := range d.Remove {
		if slices.Contains(existing, name) {
			out.Remove = append(out.Remove, name)
		}
	}
	return out
}

// IsEmpty reports whether applying the delta would change nothing.
func (d TagDelta) IsEmpty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

// Apply returns a new tag set: existing order kept, removed tags dropped, added tags appended.
func (d TagDelta) Apply(existing []string) []string {
	out := make([]string, 0, len(existing)+len(d.Add))
	for _, name := range existing {
		if !slices.Contains(d.Remove, name) {
			out = append(out, name)
		}
	}
	for _, name := range d.Add {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
