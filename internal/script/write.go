package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/thiagokokada/relpick/internal/failure"
)

const (
	ScriptMode = 0o755
	tmpPrefix  = ".relpick-"
)

// WriteFile replaces path with content. The data is written to a temporary
// file in the same directory and renamed over path, so readers see either the
// old file or the complete new one. On failure no file is left behind.
func WriteFile(path string, content []byte, perm fs.FileMode) error {
	op := fmt.Sprintf("write %s", path)
	if path == "" {
		return failure.Usage(op, errors.New("output path not specified"))
	}
	logOverwrite(path, content)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, tmpPrefix+filepath.Base(path)+"-*")
	if err != nil {
		return failure.IO(op, err)
	}
	tmpName := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return failure.IO(op, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return failure.IO(op, err)
	}
	if err := tmp.Sync(); err != nil {
		return failure.IO(op, err)
	}
	if err := tmp.Close(); err != nil {
		return failure.IO(op, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return failure.IO(op, err)
	}
	ok = true
	return nil
}

// logOverwrite logs, at debug level, how an existing file at path is about
// to change.
func logOverwrite(path string, content []byte) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	old, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if bytes.Equal(old, content) {
		slog.Debug("Output is unchanged", slog.String("path", path))
		return
	}
	diff, err := Diff(path, string(old), string(content))
	if err != nil {
		slog.Debug("Could not diff existing output", slog.String("path", path), slog.Any("error", err))
		return
	}
	slog.Debug("Overwriting existing output", slog.String("path", path), slog.String("diff", diff))
}

// Diff returns a unified diff from before to after, labelled with path.
func Diff(path, before, after string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + filepath.Base(path),
		ToFile:   "b/" + filepath.Base(path),
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}
