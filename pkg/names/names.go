// Package names cleans up player-chosen character names before they are
// shown in the narrative or written to a save record.
package names

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxLength is the longest name, in runes, that Normalize accepts.
const MaxLength = 32

var (
	ErrEmpty   = errors.New("name cannot be empty")
	ErrTooLong = fmt.Errorf("name cannot be longer than %d characters", MaxLength)
)

// replacements maps words that should not appear in a hero's name to
// family-friendly alternatives.
var replacements = map[string]string{
	"fuck":     "fudge",
	"shit":     "shoot",
	"damn":     "dang",
	"hell":     "heck",
	"ass":      "butt",
	"bitch":    "jerk",
	"bastard":  "rascal",
	"crap":     "crud",
	"asshole":  "jerk",
	"dumbass":  "dummy",
	"bullshit": "baloney",
}

var wordPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(replacements))
	for word := range replacements {
		m[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return m
}()

// Normalize trims the name, drops non-printable characters, collapses runs of
// whitespace, replaces profanity and capitalises each word.
// "  sir   robin\t" becomes "Sir Robin".
func Normalize(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, raw)

	name := strings.Join(strings.Fields(cleaned), " ")
	if name == "" {
		return "", ErrEmpty
	}
	if len([]rune(name)) > MaxLength {
		return "", ErrTooLong
	}

	// Casers are stateful, so one is built per call.
	return cases.Title(language.English, cases.NoLower).String(Filter(name)), nil
}

// Filter replaces profanity in s, keeping the case pattern of the match.
func Filter(s string) string {
	for word, re := range wordPatterns {
		replacement := replacements[word]
		s = re.ReplaceAllStringFunc(s, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return s
}

// ContainsProfanity reports whether s has any filtered word in it.
func ContainsProfanity(s string) bool {
	for _, re := range wordPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of the original word to the replacement
func preserveCase(original, replacement string) string {
	switch {
	case strings.ToUpper(original) == original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return strings.ToLower(replacement)
	default:
		return cases.Title(language.English).String(replacement)
	}
}
