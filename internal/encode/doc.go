// Package encode wraps the external encoder tool chains behind the
// Transformer interface.
//
// Two implementations exist: a one-stage ffmpeg re-encode and a two-stage
// ffmpeg decode + oggenc encode for loaders that require oggenc's header
// layout. Both run the binaries through an Executor so tests can substitute
// a stub for os/exec.
package encode
