package lint

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JNZader/gocommitlint/internal/cache"
	"github.com/JNZader/gocommitlint/internal/locale"
	"github.com/JNZader/gocommitlint/internal/logger"
	"github.com/JNZader/gocommitlint/internal/metrics"
	"github.com/JNZader/gocommitlint/internal/parser"
	"github.com/JNZader/gocommitlint/internal/rules"
	"github.com/JNZader/gocommitlint/internal/worker"
)

// batchSize groups messages per worker task in LintAll.
const batchSize = 16

// Linter is a rule set bound to its parser preset and catalog. It is safe for
// concurrent use.
type Linter struct {
	set        *rules.RuleSet
	entries    []rules.Entry
	parserOpts *parser.Options
	catalog    *locale.Catalog
	cache      cache.Cache[Report]
	metrics    *metrics.Collector
	log        *logger.Logger
	workers    int

	// fingerprint identifies the configured rules in cache keys. Two rule
	// sets with the same name may differ after overrides.
	fingerprint string
}

// Option configures a Linter.
type Option func(*Linter)

// WithCatalog sets the message catalog instead of the rule set's locale.
func WithCatalog(c *locale.Catalog) Option {
	return func(l *Linter) { l.catalog = c }
}

// WithParserOptions sets the parser preset instead of the rule set's.
func WithParserOptions(o *parser.Options) Option {
	return func(l *Linter) { l.parserOpts = o }
}

// WithCache reuses reports for messages already linted.
func WithCache(c cache.Cache[Report]) Option {
	return func(l *Linter) { l.cache = c }
}

// WithMetrics records counts and timings in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(l *Linter) { l.metrics = c }
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *logger.Logger) Option {
	return func(l *Linter) { l.log = log }
}

// WithWorkers bounds LintAll concurrency. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(l *Linter) { l.workers = n }
}

// New builds a linter for set. It fails when the parser preset is unknown or
// the catalog lacks a message for an enabled rule.
func New(set *rules.RuleSet, opts ...Option) (*Linter, error) {
	l := &Linter{set: set}
	for _, opt := range opts {
		opt(l)
	}

	if l.parserOpts == nil {
		p, err := parser.LoadPreset(set.ParserPreset())
		if err != nil {
			return nil, err
		}
		l.parserOpts = p
	}

	if l.catalog == nil {
		c, err := locale.Load(set.Locale())
		if err != nil {
			return nil, err
		}
		l.catalog = c
	}
	if err := l.catalog.Validate(set); err != nil {
		return nil, fmt.Errorf("rule set %s: %w", set.Name(), err)
	}

	if l.metrics == nil {
		l.metrics = metrics.Global()
	}
	if l.log == nil {
		l.log = logger.Default()
	}

	l.entries = set.Enabled()
	l.fingerprint = fingerprint(set, l.parserOpts, l.catalog)
	l.log = l.log.WithFields(map[string]any{"preset": set.Name(), "locale": l.catalog.Tag()})

	return l, nil
}

// RuleSet returns the rule set the linter evaluates.
func (l *Linter) RuleSet() *rules.RuleSet { return l.set }

// Catalog returns the catalog messages are rendered from.
func (l *Linter) Catalog() *locale.Catalog { return l.catalog }

// Lint evaluates one message.
func (l *Linter) Lint(message string) Report {
	timer := l.metrics.Timer(metrics.MetricLintDuration).Start()
	defer timer.Stop()

	var key string
	if l.cache != nil {
		key = cache.ComputeKey(l.fingerprint, message)
		if r, ok, err := l.cache.Get(key); err == nil && ok {
			l.metrics.Counter(metrics.MetricCacheHits).Inc()
			l.record(r)
			return r.clone()
		}
		l.metrics.Counter(metrics.MetricCacheMisses).Inc()
	}

	r := evaluate(message, l.entries, l.parserOpts, l.catalog)

	if l.cache != nil {
		if err := l.cache.Set(key, r); err != nil {
			l.log.Warn("caching report: %v", err)
		}
	}

	l.record(r)
	return r.clone()
}

// LintAll evaluates messages concurrently and returns the reports in input
// order. It stops early, returning ctx's error, when ctx is done.
func (l *Linter) LintAll(ctx context.Context, messages []string) ([]Report, error) {
	reports := make([]Report, len(messages))
	if len(messages) == 0 {
		return reports, nil
	}

	runID := uuid.NewString()
	log := l.log.WithField("run", runID[:8])
	log.Debug("linting %d messages", len(messages))

	timer := l.metrics.Timer(metrics.MetricBatchDuration).Start()
	defer timer.Stop()

	tasks := make([]worker.Task, len(messages))
	for i := range messages {
		tasks[i] = worker.NewFuncTask("msg-"+strconv.Itoa(i), func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = l.Lint(messages[i])
			return nil
		})
	}

	cfg := worker.Config{Workers: l.workers}
	stats, err := worker.Run(ctx, cfg, worker.Chunk(runID[:8], tasks, batchSize))
	l.metrics.Gauge(metrics.MetricWorkers).Set(float64(stats.Workers))
	if err != nil {
		log.Debug("lint run stopped: %v", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	log.Debug("linted %d messages (%s)", len(messages), stats)
	return reports, nil
}

func (l *Linter) record(r Report) {
	l.metrics.Counter(metrics.MetricMessagesLinted).Inc()
	if r.Valid {
		l.metrics.Counter(metrics.MetricMessagesValid).Inc()
	}
	l.metrics.Counter(metrics.MetricRuleErrors).Add(int64(len(r.Errors)))
	l.metrics.Counter(metrics.MetricRuleWarnings).Add(int64(len(r.Warnings)))

	if l.log.Enabled(logger.LevelDebug) {
		for _, res := range r.Problems() {
			l.log.WithFields(map[string]any{"rule": res.Name, "level": res.Level}).Debug("rule failed")
		}
	}
}

func fingerprint(set *rules.RuleSet, opts *parser.Options, cat *locale.Catalog) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s|%s", set.Name(), opts.Name, cat.Tag())
	for _, e := range set.Enabled() {
		fmt.Fprintf(&sb, "|%s:%d:%s:%s", e.Name, e.Severity, e.When, rules.FormatValue(e.Value))
	}
	return cache.ComputeKey(sb.String())
}
