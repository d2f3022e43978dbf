/*
Package observability provides Prometheus instrumentation for the
reconciliation engine, surfaced as domain.LifecycleHooks so the core stays
free of metrics dependencies.
*/
package observability
