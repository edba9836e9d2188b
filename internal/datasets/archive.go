package datasets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/JaimeStill/veritas/internal/images"
)

// Extract unpacks the zip archive at archivePath into dest and returns the
// number of files written. Entries resolving outside dest are rejected;
// entries naming dest itself (such as "./") are skipped.
func Extract(ctx context.Context, archivePath, dest string) (int, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrArchiveOpen, err)
	}
	defer r.Close()

	root := filepath.Clean(dest)
	written := 0

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		target := filepath.Join(root, f.Name)
		rel, err := filepath.Rel(root, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			return written, fmt.Errorf("%w: entry %q escapes extraction root", ErrArchiveOpen, f.Name)
		}
		if rel == "." {
			continue
		}

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0755); err != nil {
				return written, fmt.Errorf("create %s: %w", f.Name, err)
			}
			continue
		case !mode.IsRegular():
			continue
		}

		if err := extractFile(f, target); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent of %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open entry %s: %v", ErrArchiveOpen, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.Name, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("%w: read entry %s: %v", ErrArchiveOpen, f.Name, err)
	}
	return nil
}

// Discover locates the real and fake class folders below root. Immediate
// children are matched first by case-insensitive substring; unresolved
// classes are then searched one level deeper without replacing a class
// already found. Entries are visited in lexical order.
func Discover(root string) (Folders, error) {
	var found Folders

	top, err := subdirs(root)
	if err != nil {
		return found, fmt.Errorf("%w: %v", ErrArchiveOpen, err)
	}
	match(&found, root, top)

	if found.Real == "" || found.Fake == "" {
		for _, name := range top {
			parent := filepath.Join(root, name)
			children, err := subdirs(parent)
			if err != nil {
				continue
			}
			match(&found, parent, children)
		}
	}

	var missing []string
	if found.Real == "" {
		missing = append(missing, string(images.ClassReal))
	}
	if found.Fake == "" {
		missing = append(missing, string(images.ClassFake))
	}
	if len(missing) > 0 {
		return found, fmt.Errorf("%w: %s", ErrMissingClassFolders, strings.Join(missing, ", "))
	}

	return found, nil
}

func match(found *Folders, parent string, names []string) {
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(lower, string(images.ClassReal)) && found.Real == "" {
			found.Real = filepath.Join(parent, name)
		} else if strings.Contains(lower, string(images.ClassFake)) && found.Fake == "" {
			found.Fake = filepath.Join(parent, name)
		}
	}
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Candidates returns the names of regular image files directly inside dir.
// Other entries are skipped and logged.
func Candidates(dir string, logger *slog.Logger) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			logger.Info("skipping non-file entry", "dir", dir, "name", e.Name())
			continue
		}
		if !IsImage(e.Name()) {
			logger.Info("skipping non-image file", "dir", dir, "name", e.Name())
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}
