package encode_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"oggfix/internal/config"
	"oggfix/internal/encode"
)

// stubExecutor records invocations and optionally creates the output file
// each tool would have produced.
type stubExecutor struct {
	calls   [][]string
	bins    []string
	lines   []string
	err     error
	failOn  string
	noWrite bool
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	s.bins = append(s.bins, binary)
	s.calls = append(s.calls, append([]string(nil), args...))
	for _, line := range s.lines {
		if onOutput != nil {
			onOutput(line)
		}
	}
	if s.err != nil && (s.failOn == "" || s.failOn == binary) {
		return s.err
	}
	if s.noWrite {
		return nil
	}
	return os.WriteFile(outputArg(binary, args), []byte("encoded"), 0o644)
}

// outputArg extracts the produced file path: ffmpeg writes its last
// argument, oggenc writes the value following -o.
func outputArg(binary string, args []string) string {
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return args[len(args)-1]
}

func TestFFmpegTransformBuildsCompatibilityArgs(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.ogg")
	out := filepath.Join(dir, "a.tmp.ogg")

	exec := &stubExecutor{}
	tr, err := encode.NewFFmpeg("ffmpeg", 6, 44100, encode.WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewFFmpeg returned error: %v", err)
	}

	if err := tr.Transform(context.Background(), in, out); err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	if len(exec.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(exec.calls))
	}
	got := strings.Join(exec.calls[0], " ")
	for _, want := range []string{
		"-i " + in,
		"-c:a libvorbis",
		"-q:a 6",
		"-map_metadata -1",
		"-ar 44100",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("args missing %q: %s", want, got)
		}
	}
	if exec.calls[0][len(exec.calls[0])-1] != out {
		t.Fatalf("output path must be the final argument: %s", got)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

func TestFFmpegTransformSurfacesToolFailureWithOutputTail(t *testing.T) {
	dir := t.TempDir()
	exec := &stubExecutor{err: errors.New("exit status 1"), lines: []string{"Invalid data found"}}
	tr, err := encode.NewFFmpeg("ffmpeg", 6, 44100, encode.WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewFFmpeg returned error: %v", err)
	}

	err = tr.Transform(context.Background(), filepath.Join(dir, "a.ogg"), filepath.Join(dir, "a.tmp.ogg"))
	if err == nil {
		t.Fatal("expected error from failing tool")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected tool output in error, got: %v", err)
	}
}

func TestFFmpegTransformFailsWhenNoOutputProduced(t *testing.T) {
	dir := t.TempDir()
	exec := &stubExecutor{noWrite: true}
	tr, err := encode.NewFFmpeg("ffmpeg", 6, 44100, encode.WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewFFmpeg returned error: %v", err)
	}

	err = tr.Transform(context.Background(), filepath.Join(dir, "a.ogg"), filepath.Join(dir, "a.tmp.ogg"))
	if err == nil || !strings.Contains(err.Error(), "no output file") {
		t.Fatalf("expected missing-output error, got: %v", err)
	}
}

func TestTwoStageTransformRunsDecodeThenEncode(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "b.ogg")
	out := filepath.Join(dir, "b.tmp.ogg")

	exec := &stubExecutor{}
	tr, err := encode.NewTwoStage("ffmpeg", "oggenc", 5, 48000, encode.WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewTwoStage returned error: %v", err)
	}

	if err := tr.Transform(context.Background(), in, out); err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	if len(exec.bins) != 2 || exec.bins[0] != "ffmpeg" || exec.bins[1] != "oggenc" {
		t.Fatalf("unexpected invocation order: %v", exec.bins)
	}

	decode := strings.Join(exec.calls[0], " ")
	if !strings.Contains(decode, "-ar 48000") || !strings.HasSuffix(decode, ".wav") {
		t.Fatalf("unexpected decode args: %s", decode)
	}

	enc := strings.Join(exec.calls[1], " ")
	if !strings.Contains(enc, "-q 5") || !strings.Contains(enc, "-o "+out) {
		t.Fatalf("unexpected encode args: %s", enc)
	}

	// Intermediate WAV directory must be gone after the transform.
	wavDir := filepath.Dir(exec.calls[0][len(exec.calls[0])-1])
	if _, err := os.Stat(wavDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp dir removed, got err=%v", err)
	}
}

func TestTwoStageTransformCleansUpWhenDecodeFails(t *testing.T) {
	dir := t.TempDir()
	exec := &stubExecutor{err: errors.New("boom"), failOn: "ffmpeg"}
	tr, err := encode.NewTwoStage("ffmpeg", "oggenc", 6, 44100, encode.WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewTwoStage returned error: %v", err)
	}

	err = tr.Transform(context.Background(), filepath.Join(dir, "b.ogg"), filepath.Join(dir, "b.tmp.ogg"))
	if err == nil || !strings.Contains(err.Error(), "ffmpeg decode") {
		t.Fatalf("expected decode failure, got: %v", err)
	}
	if len(exec.bins) != 1 {
		t.Fatalf("oggenc must not run after decode failure, invocations: %v", exec.bins)
	}
}

func TestForConfigSelectsPipeline(t *testing.T) {
	cfg := config.Default()
	tr, err := encode.ForConfig(&cfg, encode.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("ForConfig returned error: %v", err)
	}
	if _, ok := tr.(*encode.FFmpeg); !ok {
		t.Fatalf("expected *encode.FFmpeg, got %T", tr)
	}

	cfg.Encode.Pipeline = config.PipelineOggenc
	tr, err = encode.ForConfig(&cfg, encode.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("ForConfig returned error: %v", err)
	}
	if _, ok := tr.(*encode.TwoStage); !ok {
		t.Fatalf("expected *encode.TwoStage, got %T", tr)
	}
}
