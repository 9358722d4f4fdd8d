package mods

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CheesyCanine05/smapi/internal/logging"
)

// Discover enumerates the immediate child directories of root and applies
// the "unwrap single-child wrapper" rule to each: while a candidate
// directory contains no files and exactly one subdirectory, it is replaced
// by that subdirectory. This makes mod distributions that are zipped with
// an extra enclosing folder load correctly without the user having to move
// anything.
//
// A missing or unreadable root is returned as an error. An individual
// child directory that cannot be read (e.g. one without read permission) is
// skipped and logged rather than aborting discovery of the rest. Entries
// that are not plain directories, symlinks included, are not candidates.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading mods root %q: %w", root, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	folders := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(root, name)
		resolved, err := unwrapSingleChildWrapper(path)
		if err != nil {
			logging.Warnf("Discoverer: skipping unreadable folder %q: %v", path, err)
			continue
		}
		folders = append(folders, resolved)
	}

	logging.Debugf("Discoverer: candidate folders under %q: [%s]", root, strings.Join(names, ", "))
	return folders, nil
}

// unwrapSingleChildWrapper walks down through directories that contain no
// files and exactly one subdirectory, returning the innermost real mod
// folder. The walk is bounded by filesystem depth; symlinks, if present,
// follow OS semantics and are not specially detected for cycles.
func unwrapSingleChildWrapper(path string) (string, error) {
	for {
		entries, err := os.ReadDir(path)
		if err != nil {
			return "", err
		}

		var fileCount, dirCount int
		var onlyChildDir string
		for _, e := range entries {
			if e.IsDir() {
				dirCount++
				onlyChildDir = e.Name()
			} else {
				fileCount++
			}
		}

		if fileCount != 0 || dirCount != 1 {
			return path, nil
		}
		path = filepath.Join(path, onlyChildDir)
	}
}
