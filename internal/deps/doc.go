// Package deps probes the external encoder binaries before a batch starts.
//
// Availability is checked exactly once at startup; the resulting statuses act
// as an immutable capability passed into the driver, so per-file processing
// never depends on ambient PATH state.
package deps
