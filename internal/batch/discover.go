package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrDirectoryNotFound reports that the target root does not exist or is not
// a directory. Nothing is touched when this is returned.
var ErrDirectoryNotFound = errors.New("target directory not found")

const (
	oggExtension = ".ogg"
	backupSuffix = ".bak"
	// tempMarker matches the sibling temp outputs this tool writes; files
	// carrying it are leftovers from an interrupted run, never sources.
	tempMarker = ".tmp."
)

// Discover returns the .ogg files under root, sorted lexicographically for a
// deterministic processing order. Backup files and temp artifacts from prior
// runs are excluded. With recursive set, nested directories are walked.
func Discover(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, root)
		}
		return nil, fmt.Errorf("stat target directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, root)
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if isCandidate(d.Name()) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk target directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read target directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if isCandidate(entry.Name()) {
				files = append(files, filepath.Join(root, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func isCandidate(name string) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, oggExtension) {
		return false
	}
	if strings.HasSuffix(lower, backupSuffix) {
		return false
	}
	if strings.Contains(lower, tempMarker) {
		return false
	}
	return true
}

// DiscoverBackups returns the .ogg.bak files under root, sorted
// lexicographically. Used by restore to walk backups back over their
// originals.
func DiscoverBackups(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, root)
		}
		return nil, fmt.Errorf("stat target directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, root)
	}

	isBackup := func(name string) bool {
		return strings.HasSuffix(strings.ToLower(name), oggExtension+backupSuffix)
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isBackup(d.Name()) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk target directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read target directory: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && isBackup(entry.Name()) {
				files = append(files, filepath.Join(root, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// OriginalPath returns the canonical path a backup was taken from:
// dir/name.ogg.bak becomes dir/name.ogg.
func OriginalPath(backupPath string) string {
	return strings.TrimSuffix(backupPath, backupSuffix)
}

// TempPath returns the sibling temp output path for an input file:
// dir/name.ogg becomes dir/name.tmp.ogg.
func TempPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".tmp" + ext
}

// BackupPath returns the sibling backup path for an input file:
// dir/name.ogg becomes dir/name.ogg.bak.
func BackupPath(path string) string {
	return path + backupSuffix
}
