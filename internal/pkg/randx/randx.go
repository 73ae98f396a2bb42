/*
Package randx provides identifier and slug generation.

It produces UUID identifiers for stored records, cryptographically random
Base62 suffixes for de-duplicating slugs, and URL slugs derived from post
titles.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// SlugSuffixLength is the length of the random suffix appended to a slug
	// that collides with an existing one.
	SlugSuffixLength = 6
)

var (
	nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)
	edgeDashes  = regexp.MustCompile(`(^-|-$)`)
)

// NewID generates a UUID v4 string used as the identifier for stored records.
func NewID() string {
	return uuid.New().String()
}

// Slug derives a URL slug from a post title: lowercase, with every run of
// non-alphanumeric characters collapsed to a single dash.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = nonAlnumRun.ReplaceAllString(s, "-")
	s = edgeDashes.ReplaceAllString(s, "")
	return s
}

// SlugSuffix generates a Base62 suffix using crypto/rand, appended to slugs
// that would otherwise collide.
func SlugSuffix() (string, error) {
	result := make([]byte, SlugSuffixLength)

	for i := 0; i < SlugSuffixLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for slug suffix: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}
