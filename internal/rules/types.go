package rules

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Severity indicates how a failed rule is reported.
type Severity int

const (
	SeverityDisabled Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDisabled:
		return "off"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the declared severities.
func (s Severity) Valid() bool {
	return s >= SeverityDisabled && s <= SeverityError
}

// ParseSeverity accepts 0, 1, 2 or their names (off, warning, warn, error).
func ParseSeverity(v any) (Severity, error) {
	switch val := v.(type) {
	case Severity:
		if val.Valid() {
			return val, nil
		}
	case int:
		if s := Severity(val); s.Valid() {
			return s, nil
		}
	case int64:
		if s := Severity(val); s.Valid() {
			return s, nil
		}
	case uint64:
		if val <= uint64(SeverityError) {
			return Severity(val), nil
		}
	case float64:
		if val == math.Trunc(val) {
			if s := Severity(val); s.Valid() {
				return s, nil
			}
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "0", "off", "disabled":
			return SeverityDisabled, nil
		case "1", "warn", "warning":
			return SeverityWarning, nil
		case "2", "error":
			return SeverityError, nil
		}
	}
	return SeverityDisabled, fmt.Errorf("%w: %v (must be 0, 1 or 2)", ErrInvalidSeverity, v)
}

// Condition is the polarity a rule applies with.
type Condition string

const (
	Always Condition = "always"
	Never  Condition = "never"
)

// ParseCondition accepts "always" or "never". Nil means always.
func ParseCondition(v any) (Condition, error) {
	if v == nil {
		return Always, nil
	}
	s, ok := v.(string)
	if ok {
		switch Condition(s) {
		case Always, Never:
			return Condition(s), nil
		}
	}
	return "", fmt.Errorf("%w: %v (must be always or never)", ErrInvalidCondition, v)
}

// apply turns "the property holds" into "the rule passes" for a condition.
func (c Condition) apply(holds bool) bool {
	if c == Never {
		return !holds
	}
	return holds
}

// Errors returned while building rule sets.
var (
	ErrUnknownRule      = errors.New("unknown rule")
	ErrInvalidSeverity  = errors.New("invalid severity")
	ErrInvalidCondition = errors.New("invalid condition")
	ErrInvalidValue     = errors.New("invalid rule value")
	ErrUnknownPreset    = errors.New("unknown preset")
	ErrPresetCycle      = errors.New("preset extends cycle")
	ErrPresetTooLarge   = errors.New("preset too large")
)

// LoadError reports a rule that could not be configured.
type LoadError struct {
	Rule string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
