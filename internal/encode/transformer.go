package encode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"oggfix/internal/config"
)

const tailLines = 8

// Transformer produces a re-encoded copy of one audio file at outputPath.
// On success outputPath holds a complete, non-empty file; on failure the
// caller owns cleanup of whatever partial output may exist there.
type Transformer interface {
	Transform(ctx context.Context, inputPath, outputPath string) error
}

// ForConfig builds the transformer matching the configured pipeline.
func ForConfig(cfg *config.Config, opts ...Option) (Transformer, error) {
	switch cfg.Encode.Pipeline {
	case config.PipelineFFmpeg:
		return NewFFmpeg(cfg.Encode.FFmpegBinary, cfg.Encode.Quality, cfg.Encode.SampleRate, opts...)
	case config.PipelineOggenc:
		return NewTwoStage(cfg.Encode.FFmpegBinary, cfg.Encode.OggencBinary, cfg.Encode.Quality, cfg.Encode.SampleRate, opts...)
	default:
		return nil, fmt.Errorf("unknown pipeline %q", cfg.Encode.Pipeline)
	}
}

// FFmpeg re-encodes in a single pass with ffmpeg's libvorbis encoder,
// stripping all metadata. Stripping the comment header is what repairs the
// "invalid ogg-comment version" loader error.
type FFmpeg struct {
	binary     string
	quality    int
	sampleRate int
	exec       Executor
}

// NewFFmpeg constructs the one-stage transformer.
func NewFFmpeg(binary string, quality, sampleRate int, opts ...Option) (*FFmpeg, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	s := applyOptions(opts)
	return &FFmpeg{binary: binary, quality: quality, sampleRate: sampleRate, exec: s.exec}, nil
}

// Transform re-encodes inputPath to outputPath.
func (f *FFmpeg) Transform(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-y", "-hide_banner", "-nostdin",
		"-i", inputPath,
		"-c:a", "libvorbis",
		"-q:a", strconv.Itoa(f.quality),
		"-map_metadata", "-1",
		"-ar", strconv.Itoa(f.sampleRate),
		outputPath,
	}
	tail := newOutputTail(tailLines)
	if err := f.exec.Run(ctx, f.binary, args, tail.Append); err != nil {
		return toolError("ffmpeg", err, tail)
	}
	return verifyOutput(outputPath, "ffmpeg")
}

// TwoStage decodes to WAV with ffmpeg and encodes with oggenc. Some engine
// loaders only accept the header layout oggenc emits, so the general tool is
// demoted to decode duty and the specialized encoder owns the final stage.
type TwoStage struct {
	ffmpegBinary string
	oggencBinary string
	quality      int
	sampleRate   int
	exec         Executor
}

// NewTwoStage constructs the ffmpeg+oggenc transformer.
func NewTwoStage(ffmpegBinary, oggencBinary string, quality, sampleRate int, opts ...Option) (*TwoStage, error) {
	ffmpegBinary = strings.TrimSpace(ffmpegBinary)
	oggencBinary = strings.TrimSpace(oggencBinary)
	if ffmpegBinary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	if oggencBinary == "" {
		return nil, errors.New("oggenc binary required")
	}
	s := applyOptions(opts)
	return &TwoStage{
		ffmpegBinary: ffmpegBinary,
		oggencBinary: oggencBinary,
		quality:      quality,
		sampleRate:   sampleRate,
		exec:         s.exec,
	}, nil
}

// Transform decodes inputPath to an intermediate WAV in a private temp
// directory, encodes it to outputPath, and removes the intermediate on every
// exit path.
func (t *TwoStage) Transform(ctx context.Context, inputPath, outputPath string) (err error) {
	tmpDir, err := os.MkdirTemp("", "oggfix-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if removeErr := os.RemoveAll(tmpDir); removeErr != nil && err == nil {
			err = fmt.Errorf("remove temp dir: %w", removeErr)
		}
	}()

	wavPath := filepath.Join(tmpDir, "decoded.wav")

	decodeArgs := []string{
		"-y", "-hide_banner", "-nostdin",
		"-i", inputPath,
		"-ar", strconv.Itoa(t.sampleRate),
		wavPath,
	}
	tail := newOutputTail(tailLines)
	if runErr := t.exec.Run(ctx, t.ffmpegBinary, decodeArgs, tail.Append); runErr != nil {
		return toolError("ffmpeg decode", runErr, tail)
	}
	if verifyErr := verifyOutput(wavPath, "ffmpeg decode"); verifyErr != nil {
		return verifyErr
	}

	encodeArgs := []string{
		wavPath,
		"-q", strconv.Itoa(t.quality),
		"-o", outputPath,
	}
	tail = newOutputTail(tailLines)
	if runErr := t.exec.Run(ctx, t.oggencBinary, encodeArgs, tail.Append); runErr != nil {
		return toolError("oggenc", runErr, tail)
	}
	return verifyOutput(outputPath, "oggenc")
}

func toolError(stage string, err error, tail *outputTail) error {
	lines := tail.Lines()
	if len(lines) == 0 {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return fmt.Errorf("%s: %w: %s", stage, err, strings.Join(lines, " | "))
}

func verifyOutput(path, stage string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s produced no output file", stage)
		}
		return fmt.Errorf("inspect %s output: %w", stage, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s produced an empty output file", stage)
	}
	return nil
}
