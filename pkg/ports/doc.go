/*
Package ports defines the driven-side interfaces of the engine.

The reconciler talks to the host's parameter registry and the document source
only through these interfaces, so storage backends (memory, redis) and
document formats can be swapped without touching the core.
*/
package ports
