// Package batch implements the safe transform-and-replace loop.
//
// A run discovers candidate .ogg files, re-encodes each one to a sibling
// temp path through a Transformer, preserves the original as .ogg.bak, and
// swaps the temp output into place. Failures are isolated per file: the
// original is left untouched, the temp artifact is removed, and the run
// continues. The canonical path never holds a truncated file.
package batch
