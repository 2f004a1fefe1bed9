package domain

import (
	"slices"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		delimiter Delimiter
		expected  []string
	}{
		{
			name:      "space separated",
			raw:       "go web",
			delimiter: Space,
			expected:  []string{"go", "web"},
		},
		{
			name:      "comma separated with blanks",
			raw:       " go, ,web,",
			delimiter: Comma,
			expected:  []string{"go", "web"},
		},
		{
			name:      "case-insensitive dedupe keeps first occurrence",
			raw:       "Web go WEB Go",
			delimiter: Space,
			expected:  []string{"web", "go"},
		},
		{
			name:      "runs of whitespace",
			raw:       "  go\t\tweb\n",
			delimiter: Space,
			expected:  []string{"go", "web"},
		},
		{
			name:      "empty input",
			raw:       "   ",
			delimiter: Space,
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.raw, tt.delimiter)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("NormalizeTags(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestNormalizeTags_EquivalentInputs(t *testing.T) {
	cases := []struct {
		raw       string
		delimiter Delimiter
	}{
		{"go web", Space},
		{"go,web", Comma},
		{"GO  Web go", Space},
		{" Go , WEB ,,", Comma},
	}

	want := NormalizeTags(cases[0].raw, cases[0].delimiter)
	for _, c := range cases[1:] {
		if got := NormalizeTags(c.raw, c.delimiter); !slices.Equal(got, want) {
			t.Errorf("NormalizeTags(%q) = %v, want %v", c.raw, got, want)
		}
	}
}

func TestParseTagString_MixedDelimiters(t *testing.T) {
	got := ParseTagString("go, web  Rust,go")
	want := []string{"go", "web", "rust"}
	if !slices.Equal(got, want) {
		t.Errorf("ParseTagString() = %v, want %v", got, want)
	}
}

func TestBuildTagString(t *testing.T) {
	if got := BuildTagString([]string{"go", "web"}, Space); got != "go web" {
		t.Errorf("BuildTagString(Space) = %q", got)
	}
	if got := BuildTagString([]string{"go", "web"}, Comma); got != "go,web" {
		t.Errorf("BuildTagString(Comma) = %q", got)
	}
}

func TestDiffTags(t *testing.T) {
	tests := []struct {
		name       string
		existing   []string
		add        string
		remove     string
		wantAdd    []string
		wantRemove []string
	}{
		{
			name:       "present tags are not re-added",
			existing:   []string{"a", "b"},
			add:        "b c",
			remove:     "a",
			wantAdd:    []string{"c"},
			wantRemove: []string{"a"},
		},
		{
			name:       "removal wins over add",
			existing:   []string{"a"},
			add:        "x a",
			remove:     "x",
			wantAdd:    nil,
			wantRemove: nil,
		},
		{
			name:       "absent tags are not reported as removed",
			existing:   []string{"a"},
			add:        "",
			remove:     "zzz A",
			wantAdd:    nil,
			wantRemove: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DiffTags(tt.existing, tt.add, tt.remove)
			if !slices.Equal(d.Add, tt.wantAdd) {
				t.Errorf("Add = %v, want %v", d.Add, tt.wantAdd)
			}
			if !slices.Equal(d.Remove, tt.wantRemove) {
				t.Errorf("Remove = %v, want %v", d.Remove, tt.wantRemove)
			}
		})
	}
}

func TestTagDelta_Apply(t *testing.T) {
	d := ParseTagDelta("x y", "b")
	got := d.Apply([]string{"a", "b", "x"})
	want := []string{"a", "x", "y"}
	if !slices.Equal(got, want) {
		t.Errorf("Apply() = %v, want %v", got, want)
	}

	// The delta is reusable across tag sets.
	got = d.Apply(nil)
	if !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("Apply(nil) = %v", got)
	}
}

func TestTagDelta_IsEmpty(t *testing.T) {
	if !DiffTags([]string{"a"}, "a", "").IsEmpty() {
		t.Error("adding an existing tag should be empty")
	}
	if DiffTags([]string{"a"}, "b", "").IsEmpty() {
		t.Error("adding a new tag should not be empty")
	}
}
