// Package history records completed batch runs in SQLite.
//
// Recording is best-effort: a history failure is logged and never blocks or
// fails a batch. The database is a convenience archive, not operational
// state; delete it freely to reset.
package history
