package ident

import "testing"

func TestID_Equal(t *testing.T) {
	testCases := []struct {
		name string
		a, b ID
		want bool
	}{
		{"identical", "u-1", "u-1", true},
		{"case insensitive", "ABC-def", "abc-DEF", true},
		{"surrounding space", " u-1 ", "u-1", true},
		{"different", "u-1", "u-2", false},
		{"both empty", "", "", false},
		{"one empty", "u-1", "", false},
		{"blank", "  ", "  ", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("%q.Equal(%q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestNew_Unique(t *testing.T) {
	a, b := New(), New()
	if a.IsZero() || b.IsZero() {
		t.Fatal("New returned zero ID")
	}
	if a.Equal(b) {
		t.Error("two New IDs should differ")
	}
}

func TestContains(t *testing.T) {
	ids := []ID{"a", "B"}
	if !Contains(ids, "b") {
		t.Error("Contains should match case-insensitively")
	}
	if Contains(ids, "c") {
		t.Error("Contains(c) = true, want false")
	}
	if Contains(nil, "a") {
		t.Error("Contains on nil slice should be false")
	}
}

func TestFromStrings_SkipsBlank(t *testing.T) {
	got := FromStrings([]string{"a", " ", "", " b "})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1] != "b" {
		t.Errorf("got[1] = %q, want %q", got[1], "b")
	}
	if s := Strings(got); s[0] != "a" || s[1] != "b" {
		t.Errorf("Strings = %v", s)
	}
}
