package deps

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"oggfix/internal/config"
)

// ErrToolsUnavailable reports that one or more required encoder binaries are
// missing. The batch never starts when this is returned.
var ErrToolsUnavailable = errors.New("required external tools unavailable")

// Requirement defines an external binary oggfix relies on.
type Requirement struct {
	Name        string
	Command     string
	VersionFlag string
	Description string
	Install     string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Install     string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the binaries the configured pipeline needs. ffmpeg is
// always required; oggenc becomes required only for the two-stage pipeline.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ffmpeg",
			Command:     cfg.Encode.FFmpegBinary,
			VersionFlag: "-version",
			Description: "decodes and re-encodes audio",
			Install:     "https://ffmpeg.org/download.html (apt install ffmpeg / brew install ffmpeg / winget install ffmpeg)",
		},
		{
			Name:        "oggenc",
			Command:     cfg.Encode.OggencBinary,
			VersionFlag: "--version",
			Description: "encodes WAV to Ogg Vorbis with engine-compatible headers",
			Install:     "apt install vorbis-tools / brew install vorbis-tools / https://www.rarewares.org/ogg-oggenc.php",
			Optional:    cfg.Encode.Pipeline != config.PipelineOggenc,
		},
	}
}

// Check evaluates the provided requirements and reports availability. Each
// binary is resolved on PATH and then probed with its version flag so a
// present-but-broken installation is caught before any file is touched.
func Check(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Install:     req.Install,
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved

		version, err := probeVersion(ctx, resolved, req.VersionFlag)
		if err != nil {
			status.Detail = fmt.Sprintf("version probe failed: %v", err)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Detail = version
		results = append(results, status)
	}
	return results
}

// Verify runs Check and converts missing required tools into an
// ErrToolsUnavailable with installation guidance.
func Verify(ctx context.Context, requirements []Requirement) ([]Status, error) {
	statuses := Check(ctx, requirements)
	var missing []string
	for _, status := range statuses {
		if status.Available || status.Optional {
			continue
		}
		missing = append(missing, fmt.Sprintf("%s (%s); install: %s", status.Name, status.Detail, status.Install))
	}
	if len(missing) > 0 {
		return statuses, fmt.Errorf("%w: %s", ErrToolsUnavailable, strings.Join(missing, "; "))
	}
	return statuses, nil
}

func probeVersion(ctx context.Context, binary, flag string) (string, error) {
	if strings.TrimSpace(flag) == "" {
		return "", nil
	}
	out, err := exec.CommandContext(ctx, binary, flag).CombinedOutput()
	if err != nil {
		return "", err
	}
	return firstLine(string(out)), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
