package rules

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed presets/*.yaml
var embeddedPresets embed.FS

// DefaultPreset is the preset used when none is configured.
const DefaultPreset = "conventional-ptbr"

// presetFile is the YAML shape of a preset.
type presetFile struct {
	Name         string    `yaml:"name"`
	Extends      []string  `yaml:"extends"`
	ParserPreset string    `yaml:"parserPreset"`
	Locale       string    `yaml:"locale"`
	Rules        yaml.Node `yaml:"rules"`
}

// preset is a preset with its extends chain already merged.
type preset struct {
	name         string
	parserPreset string
	locale       string
	entries      []Entry
}

// Loader resolves presets by built-in name, file path or HTTPS URL.
type Loader struct {
	fs      afero.Fs
	fetcher *fetcher

	mu    sync.Mutex
	cache map[string]*preset
}

// NewLoader creates a loader reading preset files from fsys.
// A nil fsys means the OS filesystem.
func NewLoader(fsys afero.Fs) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Loader{
		fs:      fsys,
		fetcher: newFetcher(),
		cache:   make(map[string]*preset),
	}
}

// Load resolves source and its extends chain into a validated rule set.
func (l *Loader) Load(ctx context.Context, source string) (*RuleSet, error) {
	if source == "" {
		source = DefaultPreset
	}

	p, err := l.resolve(ctx, source, nil)
	if err != nil {
		return nil, err
	}

	return New(p.name, p.parserPreset, p.locale, p.entries)
}

// LoadBytes builds a rule set from preset YAML. Extends entries are
// resolved through the loader.
func (l *Loader) LoadBytes(ctx context.Context, name string, data []byte) (*RuleSet, error) {
	p, err := l.build(ctx, name, data, []string{name})
	if err != nil {
		return nil, err
	}
	return New(p.name, p.parserPreset, p.locale, p.entries)
}

// Builtin loads one of the embedded presets.
func Builtin(name string) (*RuleSet, error) {
	if !IsBuiltin(name) {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, name, BuiltinPresets())
	}
	return NewLoader(afero.NewMemMapFs()).Load(context.Background(), name)
}

// MustBuiltin is Builtin for static preset names. It panics on error.
func MustBuiltin(name string) *RuleSet {
	rs, err := Builtin(name)
	if err != nil {
		panic(err)
	}
	return rs
}

// BuiltinPresets returns the names of the embedded presets.
func BuiltinPresets() []string {
	entries, err := embeddedPresets.ReadDir("presets")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// IsBuiltin reports whether name is an embedded preset.
func IsBuiltin(name string) bool {
	_, err := fs.Stat(embeddedPresets, "presets/"+name+".yaml")
	return err == nil
}

func (l *Loader) resolve(ctx context.Context, source string, stack []string) (*preset, error) {
	for _, s := range stack {
		if s == source {
			return nil, fmt.Errorf("%w: %s -> %s", ErrPresetCycle, strings.Join(stack, " -> "), source)
		}
	}

	l.mu.Lock()
	cached, ok := l.cache[source]
	l.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}

	next := append(append([]string(nil), stack...), source)
	p, err := l.build(ctx, source, data, next)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", source, err)
	}

	l.mu.Lock()
	l.cache[source] = p
	l.mu.Unlock()

	return p, nil
}

func (l *Loader) build(ctx context.Context, source string, data []byte, stack []string) (*preset, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}

	own, err := decodeRules(&file.Rules)
	if err != nil {
		return nil, err
	}

	merged := &preset{name: file.Name}
	for _, parent := range file.Extends {
		base, err := l.resolve(ctx, parent, stack)
		if err != nil {
			return nil, err
		}
		merged.entries = mergeEntries(merged.entries, base.entries)
		if base.parserPreset != "" {
			merged.parserPreset = base.parserPreset
		}
		if base.locale != "" {
			merged.locale = base.locale
		}
	}

	merged.entries = mergeEntries(merged.entries, own)
	if file.ParserPreset != "" {
		merged.parserPreset = file.ParserPreset
	}
	if file.Locale != "" {
		merged.locale = file.Locale
	}
	if merged.name == "" {
		merged.name = source
	}

	return merged, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if IsBuiltin(source) {
		return embeddedPresets.ReadFile("presets/" + source + ".yaml")
	}

	if isURL(source) {
		return l.fetcher.fetch(ctx, source)
	}

	data, err := afero.ReadFile(l.fs, source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !looksLikePath(source) {
			return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, source, BuiltinPresets())
		}
		return nil, fmt.Errorf("reading preset %s: %w", source, err)
	}
	return data, nil
}

// decodeRules walks the rules mapping in document order.
func decodeRules(node *yaml.Node) ([]Entry, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("rules must be a mapping of rule name to [severity, when, value], line %d", node.Line)
	}

	entries := make([]Entry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value

		var list []any
		if err := node.Content[i+1].Decode(&list); err != nil {
			return nil, &LoadError{Rule: name, Err: fmt.Errorf("%w: line %d: %v", ErrInvalidValue, node.Content[i+1].Line, err)}
		}

		e, err := NewEntryFromList(name, list)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func looksLikePath(source string) bool {
	ext := path.Ext(source)
	return strings.ContainsAny(source, `/\`) || ext == ".yaml" || ext == ".yml"
}
