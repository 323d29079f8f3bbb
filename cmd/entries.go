package cmd

import (
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/alde/comically/pkg/converter"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
}

// skipEntry filters out archive junk: hidden files, macOS resource forks and
// thumbnail caches.
func skipEntry(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(name, ".") ||
		strings.Contains(name, "__MACOSX") ||
		strings.Contains(lower, "thumbs.db") ||
		strings.Contains(lower, ".ds_store")
}

func isImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// collectEntries lists the page images under root as slash-separated paths
// relative to root, sorted in byte order.
func collectEntries(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "input directory")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("input %s is not a directory", root)
	}

	var entries []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if skipEntry(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isImageFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", root)
	}

	sort.Strings(entries)
	return entries, nil
}

// readEntries yields the contents of each entry lazily. A file that cannot be
// read is yielded with its error so the batch can skip it.
func readEntries(root string, entries []string, inputBytes *int64) iter.Seq2[converter.ArchiveEntry, error] {
	return func(yield func(converter.ArchiveEntry, error) bool) {
		for _, rel := range entries {
			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			entry := converter.ArchiveEntry{Path: path.Clean(rel), Data: data}
			if err != nil {
				if !yield(entry, errors.Wrapf(err, "reading %s", rel)) {
					return
				}
				continue
			}
			*inputBytes += int64(len(data))
			if !yield(entry, nil) {
				return
			}
		}
	}
}
