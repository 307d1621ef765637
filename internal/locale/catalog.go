// Package locale holds the message catalogs rule failures are reported with.
//
// Catalogs are plain data embedded from messages/<tag>.yaml. Each maps a rule
// name to an "always" and a "never" template; {{value}} in a template is
// replaced with the rule's configured value.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/JNZader/gocommitlint/internal/rules"
)

//go:embed messages/*.yaml
var embeddedMessages embed.FS

// Fallback is the locale used when nothing better matches.
const Fallback = "en"

const valuePlaceholder = "{{value}}"

// Errors returned by catalogs.
var (
	ErrMissingMessage = errors.New("missing message")
	ErrInvalidLocale  = errors.New("invalid locale")
)

type template struct {
	Always string `yaml:"always"`
	Never  string `yaml:"never"`
}

type catalogFile struct {
	Locale   string              `yaml:"locale"`
	Messages map[string]template `yaml:"messages"`
}

// Catalog maps rules to localized message templates. It is read-only once loaded.
type Catalog struct {
	tag      language.Tag
	messages map[string]template
}

var (
	registryOnce sync.Once
	registry     []*Catalog
	registryErr  error
	matcher      language.Matcher
)

func loadRegistry() {
	entries, err := embeddedMessages.ReadDir("messages")
	if err != nil {
		registryErr = err
		return
	}

	for _, entry := range entries {
		data, err := fs.ReadFile(embeddedMessages, "messages/"+entry.Name())
		if err != nil {
			registryErr = err
			return
		}
		c, err := Parse(data)
		if err != nil {
			registryErr = fmt.Errorf("catalog %s: %w", entry.Name(), err)
			return
		}
		registry = append(registry, c)
	}

	// The matcher falls back to its first tag.
	sort.SliceStable(registry, func(i, j int) bool {
		return registry[i].Tag() == Fallback && registry[j].Tag() != Fallback
	})

	tags := make([]language.Tag, len(registry))
	for i, c := range registry {
		tags[i] = c.tag
	}
	matcher = language.NewMatcher(tags)
}

// Parse decodes a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	tag, err := language.Parse(file.Locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidLocale, file.Locale, err)
	}

	for name, tmpl := range file.Messages {
		if tmpl.Always == "" && tmpl.Never == "" {
			return nil, fmt.Errorf("%w: %s has no template", ErrMissingMessage, name)
		}
	}

	return &Catalog{tag: tag, messages: file.Messages}, nil
}

// Load returns the embedded catalog that best matches tag, such as "pt-BR",
// "pt" or "en-US". An empty tag selects the fallback.
func Load(tag string) (*Catalog, error) {
	registryOnce.Do(loadRegistry)
	if registryErr != nil {
		return nil, registryErr
	}

	if strings.TrimSpace(tag) == "" {
		tag = Fallback
	}

	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidLocale, tag, err)
	}

	_, index, _ := matcher.Match(t)
	return registry[index], nil
}

// MustLoad is Load for static tags. It panics on error.
func MustLoad(tag string) *Catalog {
	c, err := Load(tag)
	if err != nil {
		panic(err)
	}
	return c
}

// Available returns the tags of the embedded catalogs, sorted.
func Available() []string {
	registryOnce.Do(loadRegistry)

	tags := make([]string, 0, len(registry))
	for _, c := range registry {
		tags = append(tags, c.Tag())
	}
	sort.Strings(tags)
	return tags
}

// Tag returns the catalog's BCP 47 tag.
func (c *Catalog) Tag() string {
	return c.tag.String()
}

// Has reports whether the catalog has a template for rule.
func (c *Catalog) Has(rule string) bool {
	_, ok := c.messages[rule]
	return ok
}

// Message renders the failure message for rule under the given condition.
// A rule with a single template uses it for both conditions.
func (c *Catalog) Message(rule string, when rules.Condition, value any) (string, error) {
	tmpl, ok := c.messages[rule]
	if !ok {
		return "", fmt.Errorf("%w: %s (locale %s)", ErrMissingMessage, rule, c.Tag())
	}

	text := tmpl.Always
	if (when == rules.Never && tmpl.Never != "") || text == "" {
		text = tmpl.Never
	}

	return strings.ReplaceAll(text, valuePlaceholder, rules.FormatValue(value)), nil
}

// Validate checks that every enabled rule in rs has a template.
func (c *Catalog) Validate(rs *rules.RuleSet) error {
	var missing []string
	for _, e := range rs.Enabled() {
		if !c.Has(e.Name) {
			missing = append(missing, e.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: locale %s lacks %s", ErrMissingMessage, c.Tag(), strings.Join(missing, ", "))
	}
	return nil
}
