/*
Package observability provides lifecycle hooks for monitoring machine runs.

Metrics exports Prometheus counters and histograms; LoggingHooks writes every
step and halt to a structured logger. Both return domain.LifecycleHooks and can
be merged with any other observer.
*/
package observability
