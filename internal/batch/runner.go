package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"oggfix/internal/encode"
	"oggfix/internal/fileutil"
	"oggfix/internal/logging"
)

const lockFileName = ".oggfix.lock"

// Options configures a Runner.
type Options struct {
	// Backup copies the original bytes to <name>.ogg.bak before replacing.
	// An existing backup is preserved, never overwritten: the first backup
	// taken is the only copy guaranteed to predate any transform.
	Backup bool
	// DryRun discovers and reports without touching any file.
	DryRun bool
	Logger *slog.Logger
}

// Runner drives the batch transform-and-replace loop. It is strictly
// sequential: each file's external tool invocation completes (or is observed
// to fail) before the next file begins.
type Runner struct {
	transformer encode.Transformer
	backup      bool
	dryRun      bool
	logger      *slog.Logger
}

// NewRunner constructs a Runner around the given transformer.
func NewRunner(transformer encode.Transformer, opts Options) (*Runner, error) {
	if transformer == nil {
		return nil, errors.New("runner requires a transformer")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		transformer: transformer,
		backup:      opts.Backup,
		dryRun:      opts.DryRun,
		logger:      logging.NewComponentLogger(logger, "batch"),
	}, nil
}

// Run processes every candidate .ogg under root. Per-file failures are
// recorded and skipped over; only a missing root or a lock conflict aborts
// before any file is touched. The returned summary is complete even when
// ctx is cancelled mid-run.
func (r *Runner) Run(ctx context.Context, root string, recursive bool) (*Summary, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve target directory: %w", err)
	}

	files, err := Discover(absRoot, recursive)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Root:      absRoot,
		Recursive: recursive,
		DryRun:    r.dryRun,
		Found:     len(files),
		StartedAt: time.Now().UTC(),
	}

	if len(files) == 0 {
		summary.FinishedAt = time.Now().UTC()
		r.logger.Info("no .ogg files found", logging.String("dir", absRoot))
		return summary, nil
	}

	if !r.dryRun {
		unlock, err := r.acquireLock(absRoot)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	r.logger.Info("processing batch",
		logging.String("dir", absRoot),
		logging.Int("found", len(files)),
		logging.Bool("recursive", recursive))

	for i, path := range files {
		if ctx.Err() != nil {
			r.logger.Warn("interrupted", logging.Int("remaining", len(files)-i))
			break
		}
		result := r.processFile(ctx, absRoot, path, i+1, len(files))
		summary.record(result)
	}

	summary.FinishedAt = time.Now().UTC()
	r.logger.Info("batch complete",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)))
	return summary, nil
}

// acquireLock guards the target tree against a second concurrent oggfix run.
// External modification of individual files by other programs is a known,
// accepted limitation of a single-operator CLI tool.
func (r *Runner) acquireLock(root string) (func(), error) {
	lockPath := filepath.Join(root, lockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire directory lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another oggfix run is processing %s", root)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release directory lock", logging.Error(err))
		}
		_ = os.Remove(lockPath)
	}, nil
}

func (r *Runner) processFile(ctx context.Context, root, path string, index, total int) Result {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	log := r.logger.With(
		logging.String("file", rel),
		logging.Int("index", index),
		logging.Int("total", total))

	log.Info("processing")

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Error("file vanished before processing")
			return Result{Path: rel, Reason: ReasonFileNotFound, Err: err}
		}
		log.Error("cannot inspect file", logging.Error(err))
		return Result{Path: rel, Reason: ReasonIO, Err: err}
	}

	if r.dryRun {
		log.Info("would re-encode")
		return Result{Path: rel}
	}

	tempPath := TempPath(path)
	if err := r.transformer.Transform(ctx, path, tempPath); err != nil {
		removeTemp(tempPath)
		log.Error("external tool failed", logging.Error(err))
		return Result{Path: rel, Reason: ReasonExternalTool, Err: err}
	}

	if r.backup {
		if err := r.ensureBackup(path, info.Mode().Perm(), log); err != nil {
			removeTemp(tempPath)
			return Result{Path: rel, Reason: ReasonIO, Err: err}
		}
	}

	if err := fileutil.ReplaceFile(tempPath, path); err != nil {
		removeTemp(tempPath)
		log.Error("replace failed", logging.Error(err))
		return Result{Path: rel, Reason: ReasonIO, Err: err}
	}

	log.Info("re-encoded")
	return Result{Path: rel}
}

// ensureBackup copies the original, untransformed bytes next to the file.
// A backup left by an earlier run wins; it is the only copy known to hold
// pre-transform audio.
func (r *Runner) ensureBackup(path string, perm fs.FileMode, log *slog.Logger) error {
	backupPath := BackupPath(path)
	if _, err := os.Lstat(backupPath); err == nil {
		log.Debug("backup already present, preserving", logging.String("backup", filepath.Base(backupPath)))
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("inspect backup: %w", err)
	}
	if err := fileutil.CopyFileMode(path, backupPath, perm); err != nil {
		log.Error("backup failed", logging.Error(err))
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// removeTemp deletes a partial temp output. Discovery always skips the
// .tmp. marker, so a failed removal cannot poison a later run.
func removeTemp(path string) {
	_ = os.Remove(path)
}
