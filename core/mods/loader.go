package mods

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/CheesyCanine05/smapi/internal/logging"
	"github.com/titanous/json5"
)

// ManifestFileName is the filename the loader looks for inside every
// candidate mod folder.
const ManifestFileName = "manifest.json"

// LoadManifest reads and parses a single mod folder's manifest file. It
// distinguishes the three documented outcomes: a valid manifest, a file
// that exists but fails to parse, and a missing file. JSON5 is used
// instead of strict JSON so that the same trailing-comma/comment leniency
// real-world manifests rely on is preserved.
func LoadManifest(folderPath string) (*Manifest, error) {
	path := filepath.Join(folderPath, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errManifestMissing
		}
		return nil, fmt.Errorf("parsing its manifest failed: %w", err)
	}

	var m Manifest
	if err := json5.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing its manifest failed: %w", err)
	}
	if m.UniqueID.IsBlank() && m.Name == "" && m.Version.IsZero() {
		return nil, errManifestInvalid
	}
	return &m, nil
}

// sentinel loader errors. Their messages are already the exact user-facing
// strings, so LoadMetadata records err.Error() as-is.
var (
	errManifestMissing = fmt.Errorf("it doesn't have a manifest.")
	errManifestInvalid = fmt.Errorf("its manifest is invalid.")
)

// LoadMetadata builds one ModMetadata for a single mod folder: it reads the
// manifest, looks up the compatibility record, derives the display name,
// and applies the update-key override rule. It never returns an error — all
// failures become a Failed ModMetadata, per the loader's contract that it
// never throws past its boundary.
func LoadMetadata(root, folderPath string, db *Database) *ModMetadata {
	manifest, err := LoadManifest(folderPath)
	if err != nil {
		displayName := relativeDisplayName(root, folderPath)
		meta := NewFoundMetadata(displayName, folderPath, nil, nil)
		meta.SetStatus(StatusFailed, err.Error())
		return meta
	}

	var dataRecord *CompatibilityRecord
	if db != nil {
		if rec, ok := db.Get(manifest.UniqueID); ok {
			dataRecord = &rec
		}
	}

	displayName := firstNonBlank(
		manifest.Name,
		displayNameFromRecord(dataRecord),
		relativeDisplayName(root, folderPath),
	)

	if dataRecord != nil && dataRecord.UpdateKey != "" {
		manifest.UpdateKeys = []string{dataRecord.UpdateKey}
	}

	meta := NewFoundMetadata(displayName, folderPath, manifest, dataRecord)
	return meta
}

func displayNameFromRecord(rec *CompatibilityRecord) string {
	if rec == nil {
		return ""
	}
	return rec.DisplayName
}

// firstNonBlank returns the first candidate that is non-empty once
// whitespace-trimmed.
func firstNonBlank(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}

func relativeDisplayName(root, folderPath string) string {
	rel, err := filepath.Rel(root, folderPath)
	if err != nil {
		return folderPath
	}
	return rel
}

// LoadAll loads metadata for every discovered folder. Manifest reads for
// independent folders are dispatched across a bounded worker pool — the
// only concurrency in the pipeline — then merged back into the input order
// before returning, so the rest of the pipeline sees a deterministic,
// single-threaded sequence exactly as if the reads had been sequential.
func LoadAll(root string, folders []string, db *Database) []*ModMetadata {
	if len(folders) == 0 {
		return nil
	}

	numWorkers := min(len(folders), runtime.NumCPU())
	if numWorkers < 1 {
		numWorkers = 1
	}

	type indexedFolder struct {
		index int
		path  string
	}
	tasks := make(chan indexedFolder, len(folders))
	results := make([]*ModMetadata, len(folders))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				results[task.index] = LoadMetadata(root, task.path, db)
			}
		}()
	}
	for i, folder := range folders {
		tasks <- indexedFolder{index: i, path: folder}
	}
	close(tasks)
	wg.Wait()

	for _, meta := range results {
		if meta.IsFailed() {
			logging.Warnf("Loader: %s failed: %s", meta.DisplayName, meta.Error())
		} else {
			logging.Infof("Loader: loaded %s (%s)", meta.DisplayName, meta.UniqueID())
		}
	}
	return results
}
