package config

const (
	defaultLogDir       = "~/.local/share/oggfix/logs"
	defaultPipeline     = PipelineFFmpeg
	defaultQuality      = 6
	defaultSampleRate   = 44100
	defaultFFmpegBinary = "ffmpeg"
	defaultOggencBinary = "oggenc"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Encode: Encode{
			Pipeline:     defaultPipeline,
			Quality:      defaultQuality,
			SampleRate:   defaultSampleRate,
			FFmpegBinary: defaultFFmpegBinary,
			OggencBinary: defaultOggencBinary,
		},
		Backup: Backup{
			Enabled: true,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
