// Package stores provides the status cache that persists operation results
// for later correlation. It is a SQLite-backed store with WAL mode and
// embedded migrations, keyed by the same operation keys and transition
// magic strings the executor reports, so the scheduler can re-associate
// results with planner intent after a restart.
package stores
