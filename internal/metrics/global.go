package metrics

import "sync"

var (
	globalCollector *Collector
	once            sync.Once
)

// Global returns the process-wide collector.
func Global() *Collector {
	once.Do(func() {
		globalCollector = NewCollector()
	})
	return globalCollector
}

// Metric names.
const (
	MetricMessagesLinted = "gocommitlint_messages_total"
	MetricMessagesValid  = "gocommitlint_messages_valid_total"
	MetricRuleErrors     = "gocommitlint_rule_errors_total"
	MetricRuleWarnings   = "gocommitlint_rule_warnings_total"
	MetricLintDuration   = "gocommitlint_lint_duration"
	MetricBatchDuration  = "gocommitlint_batch_duration"

	MetricCacheHits   = "gocommitlint_cache_hits_total"
	MetricCacheMisses = "gocommitlint_cache_misses_total"

	MetricWorkers = "gocommitlint_workers"
)
