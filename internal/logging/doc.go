// Package logging builds the slog loggers used across oggfix.
//
// Two output formats are supported: a compact console format
// (timestamp LEVEL component: message key=value ...) and JSON for
// machine consumption. Component loggers carry a standardized
// "component" attribute that the console handler folds into the
// message prefix.
package logging
