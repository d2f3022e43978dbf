/*
Package nodedev is a collection of node plugins for a visual dataflow
authoring tool, built around a reusable flatten-and-reconcile engine.

A node exposes typed parameter slots and a process step driven by the host
engine. The YAML loader node reads a nested document, flattens it into dotted
and indexed key paths, optionally filters the keys, and mirrors each entry as
a managed output slot in the host's parameter registry — creating, updating
and deleting slots with a minimal diff on every pass.

The Host type in this package is the library entry point: it registers nodes
and serializes their execution. The engine itself lives in pkg/flatten and
pkg/reconcile; registry and document-source backends live under pkg/adapters.
*/
package nodedev
