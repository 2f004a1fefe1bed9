package domain

import (
	"slices"
	"strings"
	"unicode"
)

const (
	tagPrefix        = "tag:"
	excludeTagPrefix = "-tag:"
	keywordUntagged  = "untagged"
	keywordUnread    = "unread"
)

// Filter is the structured form of a search query. The zero value matches everything.
type Filter struct {
	Terms        []string // free-text terms, all required
	Tags         []string // canonical tag names, all required
	ExcludedTags []string // canonical tag names, none allowed
	UntaggedOnly bool
	UnreadOnly   bool
}

// IsEmpty reports whether the filter restricts nothing.
func (f Filter) IsEmpty() bool {
	return len(f.Terms) == 0 && len(f.Tags) == 0 && len(f.ExcludedTags) == 0 &&
		!f.UntaggedOnly && !f.UnreadOnly
}

// String renders the filter back into query syntax; ParseQuery(f.String()) yields f.
func (f Filter) String() string {
	parts := make([]string, 0, len(f.Terms)+len(f.Tags)+len(f.ExcludedTags)+2)
	for _, term := range f.Terms {
		if strings.ContainsFunc(term, unicode.IsSpace) || isKeywordToken(term) {
			term = `"` + term + `"`
		}
		parts = append(parts, term)
	}
	for _, name := range f.Tags {
		parts = append(parts, tagPrefix+name)
	}
	for _, name := range f.ExcludedTags {
		parts = append(parts, excludeTagPrefix+name)
	}
	if f.UntaggedOnly {
		parts = append(parts, keywordUntagged)
	}
	if f.UnreadOnly {
		parts = append(parts, keywordUnread)
	}
	return strings.Join(parts, " ")
}

// ParseQuery interprets a free-text query. It never fails: anything it does not
// recognise becomes a search term.
// Examples:
//   - "tag:work unread" -> Tags ["work"], UnreadOnly
//   - `go "error handling" -tag:old` -> Terms ["go", "error handling"], ExcludedTags ["old"]
//   - "tag:" -> Terms ["tag:"]
func ParseQuery(input string) Filter {
	var f Filter
	for _, tok := range tokenize(input) {
		if tok.quoted {
			f.Terms = append(f.Terms, tok.text)
			continue
		}

		lower := strings.ToLower(tok.text)
		switch {
		case strings.HasPrefix(lower, excludeTagPrefix):
			if name := CanonicalTag(tok.text[len(excludeTagPrefix):]); name != "" {
				f.ExcludedTags = appendUnique(f.ExcludedTags, name)
				continue
			}
		case strings.HasPrefix(lower, tagPrefix):
			if name := CanonicalTag(tok.text[len(tagPrefix):]); name != "" {
				f.Tags = appendUnique(f.Tags, name)
				continue
			}
		case lower == keywordUntagged:
			f.UntaggedOnly = true
			continue
		case lower == keywordUnread:
			f.UnreadOnly = true
			continue
		}
		f.Terms = append(f.Terms, tok.text)
	}
	return f
}

type token struct {
	text   string
	quoted bool
}

// tokenize splits on whitespace; a double-quoted run is one token. An unterminated
// quote runs to the end of the input.
func tokenize(input string) []token {
	var (
		tokens  []token
		cur     strings.Builder
		inQuote bool
	)
	flush := func(quoted bool) {
		text := strings.TrimSpace(cur.String())
		cur.Reset()
		if text != "" {
			tokens = append(tokens, token{text: text, quoted: quoted})
		}
	}

	for _, r := range input {
		switch {
		case r == '"':
			flush(inQuote)
			inQuote = !inQuote
		case unicode.IsSpace(r) && !inQuote:
			flush(false)
		default:
			cur.WriteRune(r)
		}
	}
	flush(inQuote)
	return tokens
}

func isKeywordToken(s string) bool {
	lower := strings.ToLower(s)
	return lower == keywordUntagged || lower == keywordUnread ||
		strings.HasPrefix(lower, tagPrefix) || strings.HasPrefix(lower, excludeTagPrefix)
}

func appendUnique(list []string, name string) []string {
	if slices.Contains(list, name) {
		return list
	}
	return append(list, name)
}
