package parser

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// Preset names
const (
	PresetConventionalCommits = "conventional-commits"
	PresetAngular             = "angular"
)

// ErrUnknownPreset is returned when a parser preset name is not registered.
var ErrUnknownPreset = errors.New("unknown parser preset")

var (
	presetsOnce sync.Once
	presets     map[string]*Options
)

var (
	defaultNoteKeywords     = []string{"BREAKING CHANGE", "BREAKING-CHANGE"}
	defaultIssuePrefixes    = []string{"#"}
	defaultReferenceActions = []string{
		"close", "closes", "closed",
		"fix", "fixes", "fixed",
		"resolve", "resolves", "resolved",
	}
	defaultRevertPattern = regexp.MustCompile(`^(?:Revert|revert:)\s"?([\s\S]+?)"?\s*This reverts commit (\w*)\.`)
	defaultMergePattern  = regexp.MustCompile(`^Merge pull request #(\d+) from (.*)$`)
)

// registry builds the preset table exactly once for the process lifetime.
func registry() map[string]*Options {
	presetsOnce.Do(func() {
		presets = map[string]*Options{
			PresetConventionalCommits: conventionalCommits(),
			PresetAngular:             angular(),
		}
	})
	return presets
}

// LoadPreset returns the named parser preset.
func LoadPreset(name string) (*Options, error) {
	opts, ok := registry()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, name, Presets())
	}
	return opts, nil
}

// MustLoadPreset is LoadPreset for static preset names. It panics on error.
func MustLoadPreset(name string) *Options {
	opts, err := LoadPreset(name)
	if err != nil {
		panic(err)
	}
	return opts
}

// Default returns the conventional-commits preset.
func Default() *Options {
	return MustLoadPreset(PresetConventionalCommits)
}

// Presets returns the registered preset names, sorted.
func Presets() []string {
	names := make([]string, 0, len(registry()))
	for name := range registry() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func conventionalCommits() *Options {
	return (&Options{
		Name:                  PresetConventionalCommits,
		HeaderPattern:         regexp.MustCompile(`^(\w*)(?:\((.*)\))?!?: (.*)$`),
		BreakingHeaderPattern: regexp.MustCompile(`^(\w*)(?:\((.*)\))?!: (.*)$`),
		HeaderCorrespondence:  []string{"type", "scope", "subject"},
		NoteKeywords:          defaultNoteKeywords,
		IssuePrefixes:         defaultIssuePrefixes,
		ReferenceActions:      defaultReferenceActions,
		RevertPattern:         defaultRevertPattern,
		MergePattern:          defaultMergePattern,
	}).compile()
}

// angular predates the "!" breaking marker.
func angular() *Options {
	return (&Options{
		Name:                 PresetAngular,
		HeaderPattern:        regexp.MustCompile(`^(\w*)(?:\((.*)\))?: (.*)$`),
		HeaderCorrespondence: []string{"type", "scope", "subject"},
		NoteKeywords:         []string{"BREAKING CHANGE"},
		IssuePrefixes:        defaultIssuePrefixes,
		ReferenceActions:     defaultReferenceActions,
		RevertPattern:        defaultRevertPattern,
		MergePattern:         defaultMergePattern,
	}).compile()
}
