package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reFootnote   = regexp.MustCompile(`\[(?:[0-9]+|[a-z]|note \d+|N \d+|nb \d+)\]`)
	reNonAllowed = regexp.MustCompile(`[^a-z0-9\s]`)
	reSpaces     = regexp.MustCompile(`\s+`)
	footnoteMark = strings.NewReplacer("†", "", "‡", "", "§", "", "¤", "")
)

// CleanText trims surrounding whitespace, non-breaking spaces included.
func CleanText(input string) string {
	return strings.TrimSpace(input)
}

// StripFootnotes removes encyclopedia reference markers such as "[3]" and
// trailing dagger symbols, then collapses whitespace.
func StripFootnotes(input string) string {
	s := reFootnote.ReplaceAllString(input, "")
	s = footnoteMark.Replace(s)
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeName folds case, accents and punctuation so that spellings of the
// same title from different sources compare equal.
func NormalizeName(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, input)
	if err != nil {
		s = input
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = reNonAllowed.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func DiceCoefficient(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	pairs := func(s string) []string {
		r := []rune(s)
		if len(r) < 2 {
			return nil
		}
		out := make([]string, 0, len(r)-1)
		for i := 0; i < len(r)-1; i++ {
			out = append(out, string(r[i:i+2]))
		}
		return out
	}

	aPairs := pairs(a)
	bPairs := pairs(b)
	if len(aPairs) == 0 || len(bPairs) == 0 {
		return 0
	}

	bCount := map[string]int{}
	for _, p := range bPairs {
		bCount[p]++
	}
	inter := 0
	for _, p := range aPairs {
		if bCount[p] > 0 {
			inter++
			bCount[p]--
		}
	}

	return float64(2*inter) / float64(len(aPairs)+len(bPairs))
}
