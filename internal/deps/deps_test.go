package deps_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"oggfix/internal/config"
	"oggfix/internal/deps"
)

func TestRequirementsFFmpegAlwaysRequired(t *testing.T) {
	cfg := config.Default()
	reqs := deps.Requirements(&cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Name != "ffmpeg" || reqs[0].Optional {
		t.Fatalf("ffmpeg must be a required tool: %+v", reqs[0])
	}
	if reqs[1].Name != "oggenc" || !reqs[1].Optional {
		t.Fatalf("oggenc should be optional for the ffmpeg pipeline: %+v", reqs[1])
	}
}

func TestRequirementsOggencRequiredForTwoStagePipeline(t *testing.T) {
	cfg := config.Default()
	cfg.Encode.Pipeline = config.PipelineOggenc
	reqs := deps.Requirements(&cfg)
	if reqs[1].Optional {
		t.Fatal("oggenc must be required for the oggenc pipeline")
	}
}

func TestCheckReportsMissingBinary(t *testing.T) {
	statuses := deps.Check(context.Background(), []deps.Requirement{
		{Name: "ffmpeg", Command: "definitely-not-a-real-binary-name"},
	})
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected unavailable status")
	}
	if !strings.Contains(statuses[0].Detail, "not found") {
		t.Fatalf("unexpected detail: %q", statuses[0].Detail)
	}
}

func TestCheckReportsUnconfiguredCommand(t *testing.T) {
	statuses := deps.Check(context.Background(), []deps.Requirement{{Name: "oggenc", Command: "  "}})
	if statuses[0].Available {
		t.Fatal("expected unavailable status")
	}
	if statuses[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", statuses[0].Detail)
	}
}

func TestVerifyFailsOnMissingRequiredTool(t *testing.T) {
	_, err := deps.Verify(context.Background(), []deps.Requirement{
		{Name: "ffmpeg", Command: "definitely-not-a-real-binary-name", Install: "install ffmpeg"},
	})
	if !errors.Is(err, deps.ErrToolsUnavailable) {
		t.Fatalf("expected ErrToolsUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "install ffmpeg") {
		t.Fatalf("expected remediation guidance in error, got: %v", err)
	}
}

func TestVerifyIgnoresMissingOptionalTool(t *testing.T) {
	statuses, err := deps.Verify(context.Background(), []deps.Requirement{
		{Name: "oggenc", Command: "definitely-not-a-real-binary-name", Optional: true},
	})
	if err != nil {
		t.Fatalf("optional tool must not fail verification: %v", err)
	}
	if statuses[0].Available {
		t.Fatal("expected unavailable status for missing optional tool")
	}
}
