package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/JNZader/gocommitlint/internal/cache"
	"github.com/JNZader/gocommitlint/internal/lint"
	"github.com/JNZader/gocommitlint/internal/locale"
	"github.com/JNZader/gocommitlint/internal/parser"
	"github.com/JNZader/gocommitlint/internal/report"
	"github.com/JNZader/gocommitlint/internal/rules"
)

// loadRuleSet resolves the configured preset and applies the rule
// overrides from config.
func loadRuleSet(ctx context.Context) (*rules.RuleSet, error) {
	source := cfg.Lint.Source()
	set, err := rules.NewLoader(appFs).Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("loading preset %s: %w", source, err)
	}

	set, err = cfg.Lint.Overrides().Apply(set)
	if err != nil {
		return nil, fmt.Errorf("applying rule overrides: %w", err)
	}

	log.WithFields(map[string]any{"preset": set.Name(), "rules": len(set.Enabled())}).Debug("rule set loaded")
	return set, nil
}

// newLinter builds a linter for set with the configured locale, parser,
// cache and worker settings.
func newLinter(set *rules.RuleSet, useCache bool) (*lint.Linter, error) {
	opts := []lint.Option{
		lint.WithLogger(log),
		lint.WithWorkers(cfg.Worker.MaxConcurrency),
	}

	if cfg.Lint.Locale != "" {
		cat, err := locale.Load(cfg.Lint.Locale)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lint.WithCatalog(cat))
	}

	if cfg.Parser.Preset != "" {
		p, err := parser.LoadPreset(cfg.Parser.Preset)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lint.WithParserOptions(p))
	}

	if useCache && cfg.Cache.Enabled {
		c, err := newReportCache()
		if err != nil {
			return nil, err
		}
		opts = append(opts, lint.WithCache(c))
	}

	return lint.New(set, opts...)
}

func newReportCache() (cache.Cache[lint.Report], error) {
	if cfg.Cache.Dir == "" {
		return cache.NewLRUCache[lint.Report](cfg.Cache.MaxEntries, cfg.Cache.TTL), nil
	}

	c, err := cache.NewFileCache[lint.Report](appFs, cfg.Cache.Dir, cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", cfg.Cache.Dir, err)
	}
	return c, nil
}

func newReporter() (report.Reporter, error) {
	return report.NewReporter(cfg.Output.Format, report.Options{
		Color:   cfg.Output.Color && !color.NoColor,
		Verbose: isVerbose(),
	})
}
