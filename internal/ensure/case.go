// Package ensure holds the primitive checks rule predicates are built from:
// letter case, enum membership, length and emptiness.
package ensure

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Case is a named letter-case style.
type Case string

// Supported cases
const (
	LowerCase    Case = "lower-case"
	UpperCase    Case = "upper-case"
	CamelCase    Case = "camel-case"
	KebabCase    Case = "kebab-case"
	PascalCase   Case = "pascal-case"
	SentenceCase Case = "sentence-case"
	SnakeCase    Case = "snake-case"
	StartCase    Case = "start-case"
)

// caseAliases maps accepted spellings to their canonical case.
var caseAliases = map[string]Case{
	"lower-case":    LowerCase,
	"lowercase":     LowerCase,
	"lowerCase":     LowerCase,
	"upper-case":    UpperCase,
	"uppercase":     UpperCase,
	"camel-case":    CamelCase,
	"kebab-case":    KebabCase,
	"pascal-case":   PascalCase,
	"sentence-case": SentenceCase,
	"sentencecase":  SentenceCase,
	"snake-case":    SnakeCase,
	"start-case":    StartCase,
}

// quoted segments may hold proper names and are ignored by case checks
var quotedSegment = regexp.MustCompile("`.*?`|\".*?\"|'.*?'")

// ParseCase resolves a case name, accepting the usual aliases.
func ParseCase(name string) (Case, error) {
	c, ok := caseAliases[name]
	if !ok {
		return "", fmt.Errorf("unknown case %q", name)
	}
	return c, nil
}

// IsCase reports whether s is already written in the given case.
// Quoted segments are stripped first. A value that transforms to an empty
// string or starts with a digit counts as matching.
func IsCase(s string, c Case) bool {
	input := strings.TrimSpace(quotedSegment.ReplaceAllString(s, ""))
	transformed := ToCase(input, c)
	if transformed == "" {
		return true
	}
	if r, _ := utf8.DecodeRuneInString(transformed); unicode.IsDigit(r) {
		return true
	}
	return transformed == input
}

// ToCase converts s to the given case.
func ToCase(s string, c Case) string {
	switch c {
	case LowerCase:
		return strings.ToLower(s)
	case UpperCase:
		return strings.ToUpper(s)
	case SentenceCase:
		return upperFirst(s)
	case StartCase:
		ws := Words(s)
		for i, w := range ws {
			ws[i] = upperFirst(w)
		}
		return strings.Join(ws, " ")
	case CamelCase:
		return camel(s)
	case PascalCase:
		return upperFirst(camel(s))
	case KebabCase:
		return strings.ToLower(strings.Join(Words(s), "-"))
	case SnakeCase:
		return strings.ToLower(strings.Join(Words(s), "_"))
	default:
		return s
	}
}

// Words splits s into words on separators and case transitions:
// "fooBar baz-QUX" -> [foo Bar baz QUX], "XMLParser" -> [XML Parser].
func Words(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if len(current) > 0 {
			prev := current[len(current)-1]
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	return words
}

func camel(s string) string {
	var sb strings.Builder
	for i, w := range Words(s) {
		w = strings.ToLower(w)
		if i > 0 {
			w = upperFirst(w)
		}
		sb.WriteString(w)
	}
	return sb.String()
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// StartsWithLetter reports whether s starts with an ASCII letter.
// Values starting with anything else, accented letters included, are not
// case checked.
func StartsWithLetter(s string) bool {
	if s == "" {
		return false
	}
	b := s[0] | 0x20
	return b >= 'a' && b <= 'z'
}
