package randx

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	t.Parallel()

	first := NewID()
	second := NewID()

	if len(first) != 36 {
		t.Errorf("NewID() length = %d, want 36", len(first))
	}
	if first == second {
		t.Error("NewID() produced the same identifier twice")
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces  Everywhere  ", "spaces-everywhere"},
		{"Go 1.25 Released!", "go-1-25-released"},
		{"UPPER case TITLE", "upper-case-title"},
		{"---dashes---", "dashes"},
		{"already-a-slug", "already-a-slug"},
	}

	for _, tc := range cases {
		if got := Slug(tc.title); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestSlugSuffix(t *testing.T) {
	t.Parallel()

	suffix, err := SlugSuffix()
	if err != nil {
		t.Fatalf("SlugSuffix() error = %v", err)
	}

	if len(suffix) != SlugSuffixLength {
		t.Errorf("SlugSuffix() length = %d, want %d", len(suffix), SlugSuffixLength)
	}
	for _, c := range suffix {
		if !strings.ContainsRune(Base62Chars, c) {
			t.Errorf("SlugSuffix() contains %q, outside the Base62 set", c)
		}
	}
}
