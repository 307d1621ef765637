package rules

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/JNZader/gocommitlint/internal/ensure"
	"github.com/JNZader/gocommitlint/internal/parser"
)

// ValueKind describes the parameter a rule takes.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueString
	ValueStrings
	ValueCases
)

// Definition is a rule the evaluator knows how to check.
type Definition struct {
	Name        string
	Description string
	Kind        ValueKind
	// Default is used when a rule is configured without a value.
	Default any
	check   func(c *parser.Commit, when Condition, value any) bool
}

var scopeDelimiters = regexp.MustCompile(`[/\\,]`)

var definitions = map[string]*Definition{}

func register(d *Definition) {
	definitions[d.Name] = d
}

// Lookup returns the definition of a rule by name.
func Lookup(name string) (*Definition, bool) {
	d, ok := definitions[name]
	return d, ok
}

// Names returns every known rule name, sorted.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseValue validates a raw configuration value against the rule's kind.
func (d *Definition) parseValue(raw any) (any, error) {
	if raw == nil {
		if d.Kind != ValueNone && d.Default == nil {
			return nil, fmt.Errorf("%w: a value is required", ErrInvalidValue)
		}
		return d.Default, nil
	}

	switch d.Kind {
	case ValueNone:
		return nil, nil
	case ValueInt:
		n, ok := toInt(raw)
		if !ok || n < 0 {
			return nil, fmt.Errorf("%w: expected a non-negative integer, got %v", ErrInvalidValue, raw)
		}
		return n, nil
	case ValueString:
		s, ok := raw.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("%w: expected a non-empty string, got %v", ErrInvalidValue, raw)
		}
		return s, nil
	case ValueStrings:
		list, ok := toStrings(raw)
		if !ok || len(list) == 0 {
			return nil, fmt.Errorf("%w: expected a non-empty list of strings, got %v", ErrInvalidValue, raw)
		}
		return list, nil
	case ValueCases:
		names, ok := toStrings(raw)
		if !ok || len(names) == 0 {
			return nil, fmt.Errorf("%w: expected a case name or list of case names, got %v", ErrInvalidValue, raw)
		}
		cases := make([]ensure.Case, len(names))
		for i, name := range names {
			c, err := ensure.ParseCase(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
			cases[i] = c
		}
		return cases, nil
	default:
		return nil, fmt.Errorf("%w: unsupported kind %d", ErrInvalidValue, d.Kind)
	}
}

// FormatValue renders a rule value for messages and listings.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(val, ", ")
	case []ensure.Case:
		parts := make([]string, len(val))
		for i, c := range val {
			parts[i] = string(c)
		}
		return strings.Join(parts, ", ")
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

func toStrings(v any) ([]string, bool) {
	switch list := v.(type) {
	case string:
		return []string{list}, true
	case []string:
		return append([]string(nil), list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// matchCases passes with always when any case matches, with never when none does.
func matchCases(s string, when Condition, value any) bool {
	cases, _ := value.([]ensure.Case)
	matched := false
	for _, c := range cases {
		if ensure.IsCase(s, c) {
			matched = true
			break
		}
	}
	return when.apply(matched)
}

func emptyRule(name, field string, get func(*parser.Commit) string) *Definition {
	return &Definition{
		Name:        name,
		Description: field + " is empty",
		Kind:        ValueNone,
		check: func(c *parser.Commit, when Condition, _ any) bool {
			return when.apply(!ensure.NotEmpty(get(c)))
		},
	}
}

func maxLengthRule(name, field string, get func(*parser.Commit) string) *Definition {
	return &Definition{
		Name:        name,
		Description: field + " has at most N characters",
		Kind:        ValueInt,
		check: func(c *parser.Commit, _ Condition, value any) bool {
			s := get(c)
			return s == "" || ensure.MaxLength(s, value.(int))
		},
	}
}

func minLengthRule(name, field string, get func(*parser.Commit) string) *Definition {
	return &Definition{
		Name:        name,
		Description: field + " has at least N characters",
		Kind:        ValueInt,
		check: func(c *parser.Commit, _ Condition, value any) bool {
			s := get(c)
			return s == "" || ensure.MinLength(s, value.(int))
		},
	}
}

func maxLineLengthRule(name, field string, get func(*parser.Commit) string) *Definition {
	return &Definition{
		Name:        name,
		Description: field + " lines have at most N characters",
		Kind:        ValueInt,
		check: func(c *parser.Commit, _ Condition, value any) bool {
			s := get(c)
			return s == "" || ensure.MaxLineLength(s, value.(int))
		},
	}
}

func caseRule(name, field string, letterOnly bool, get func(*parser.Commit) string) *Definition {
	return &Definition{
		Name:        name,
		Description: field + " is in the given case",
		Kind:        ValueCases,
		check: func(c *parser.Commit, when Condition, value any) bool {
			s := get(c)
			if s == "" || (letterOnly && !ensure.StartsWithLetter(s)) {
				return true
			}
			return matchCases(s, when, value)
		},
	}
}

func headerOf(c *parser.Commit) string  { return c.Header }
func typOf(c *parser.Commit) string     { return c.Type }
func scopeOf(c *parser.Commit) string   { return c.Scope }
func subjectOf(c *parser.Commit) string { return c.Subject }
func bodyOf(c *parser.Commit) string    { return c.Body }
func footerOf(c *parser.Commit) string  { return c.Footer }

func init() {
	register(&Definition{
		Name:        "body-leading-blank",
		Description: "body begins with a blank line",
		Kind:        ValueNone,
		check: func(c *parser.Commit, when Condition, _ any) bool {
			if c.Body == "" {
				return true
			}
			lines := parser.ToLines(c.Raw)
			return when.apply(len(lines) > 1 && lines[1] == "")
		},
	})
	register(&Definition{
		Name:        "footer-leading-blank",
		Description: "footer begins with a blank line",
		Kind:        ValueNone,
		check: func(c *parser.Commit, when Condition, _ any) bool {
			if c.Footer == "" {
				return true
			}
			rawLines := parser.ToLines(c.Raw)
			first := parser.ToLines(c.Footer)[0]
			offset := -1
			for i, line := range rawLines {
				if line == first {
					offset = i
					break
				}
			}
			return when.apply(offset > 0 && rawLines[offset-1] == "")
		},
	})

	register(emptyRule("body-empty", "body", bodyOf))
	register(maxLengthRule("body-max-length", "body", bodyOf))
	register(maxLineLengthRule("body-max-line-length", "body", bodyOf))
	register(minLengthRule("body-min-length", "body", bodyOf))

	register(emptyRule("footer-empty", "footer", footerOf))
	register(maxLengthRule("footer-max-length", "footer", footerOf))
	register(maxLineLengthRule("footer-max-line-length", "footer", footerOf))
	register(minLengthRule("footer-min-length", "footer", footerOf))

	register(caseRule("header-case", "header", true, headerOf))
	register(&Definition{
		Name:        "header-full-stop",
		Description: "header ends with the given character",
		Kind:        ValueString,
		Default:     ".",
		check: func(c *parser.Commit, when Condition, value any) bool {
			return when.apply(strings.HasSuffix(c.Header, value.(string)))
		},
	})
	register(maxLengthRule("header-max-length", "header", headerOf))
	register(minLengthRule("header-min-length", "header", headerOf))
	register(&Definition{
		Name:        "header-trim",
		Description: "header has no surrounding whitespace",
		Kind:        ValueNone,
		check: func(c *parser.Commit, _ Condition, _ any) bool {
			return ensure.Trimmed(c.Header)
		},
	})

	register(&Definition{
		Name:        "references-empty",
		Description: "message references no issues",
		Kind:        ValueNone,
		check: func(c *parser.Commit, when Condition, _ any) bool {
			return when.apply(len(c.References) == 0)
		},
	})

	register(&Definition{
		Name:        "scope-case",
		Description: "every scope segment is in the given case",
		Kind:        ValueCases,
		check: func(c *parser.Commit, when Condition, value any) bool {
			if c.Scope == "" {
				return true
			}
			// Passes when, for some listed case, "all segments match" holds
			// under the condition. "API/web" is therefore not upper-case.
			segments := scopeDelimiters.Split(c.Scope, -1)
			for _, cs := range value.([]ensure.Case) {
				all := true
				for _, s := range segments {
					if !ensure.IsCase(s, cs) {
						all = false
						break
					}
				}
				if when.apply(all) {
					return true
				}
			}
			return false
		},
	})
	register(emptyRule("scope-empty", "scope", scopeOf))
	register(&Definition{
		Name:        "scope-enum",
		Description: "every scope is one of the given values",
		Kind:        ValueStrings,
		check: func(c *parser.Commit, when Condition, value any) bool {
			if c.Scope == "" {
				return true
			}
			allowed := value.([]string)
			for _, s := range scopeDelimiters.Split(c.Scope, -1) {
				if !when.apply(ensure.Enum(s, allowed)) {
					return false
				}
			}
			return true
		},
	})
	register(maxLengthRule("scope-max-length", "scope", scopeOf))
	register(minLengthRule("scope-min-length", "scope", scopeOf))

	register(&Definition{
		Name:        "signed-off-by",
		Description: "message ends with a sign-off line",
		Kind:        ValueString,
		Default:     "Signed-off-by:",
		check: func(c *parser.Commit, when Condition, value any) bool {
			var last string
			for _, line := range parser.ToLines(c.Raw) {
				if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
					continue
				}
				last = line
			}
			return when.apply(strings.HasPrefix(last, value.(string)))
		},
	})

	register(caseRule("subject-case", "subject", true, subjectOf))
	register(emptyRule("subject-empty", "subject", subjectOf))
	register(&Definition{
		Name:        "subject-exclamation-mark",
		Description: "header marks a breaking change with !",
		Kind:        ValueNone,
		check: func(c *parser.Commit, when Condition, _ any) bool {
			return when.apply(strings.Contains(c.Header, "!:"))
		},
	})
	register(&Definition{
		Name:        "subject-full-stop",
		Description: "subject ends with the given character",
		Kind:        ValueString,
		Default:     ".",
		check: func(c *parser.Commit, when Condition, value any) bool {
			if c.Subject == "" {
				return true
			}
			return when.apply(strings.HasSuffix(c.Subject, value.(string)))
		},
	})
	register(maxLengthRule("subject-max-length", "subject", subjectOf))
	register(minLengthRule("subject-min-length", "subject", subjectOf))

	register(caseRule("type-case", "type", false, typOf))
	register(emptyRule("type-empty", "type", typOf))
	register(&Definition{
		Name:        "type-enum",
		Description: "type is one of the given values",
		Kind:        ValueStrings,
		check: func(c *parser.Commit, when Condition, value any) bool {
			if c.Type == "" {
				return true
			}
			return when.apply(ensure.Enum(c.Type, value.([]string)))
		},
	})
	register(maxLengthRule("type-max-length", "type", typOf))
	register(minLengthRule("type-min-length", "type", typOf))
}
