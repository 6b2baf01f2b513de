package config

import (
	"fmt"
)

// Validate checks that the configuration holds values the encoder tools accept.
func (c *Config) Validate() error {
	switch c.Encode.Pipeline {
	case PipelineFFmpeg, PipelineOggenc:
	default:
		return fmt.Errorf("encode.pipeline: unsupported value %q (expected %q or %q)",
			c.Encode.Pipeline, PipelineFFmpeg, PipelineOggenc)
	}

	// Vorbis VBR quality scale as accepted by both libvorbis and oggenc.
	if c.Encode.Quality < 0 || c.Encode.Quality > 10 {
		return fmt.Errorf("encode.quality: %d out of range 0-10", c.Encode.Quality)
	}

	if c.Encode.SampleRate < 8000 || c.Encode.SampleRate > 192000 {
		return fmt.Errorf("encode.sample_rate: %d out of range 8000-192000", c.Encode.SampleRate)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}

	return nil
}
