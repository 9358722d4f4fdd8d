// Package mods implements the mod loading pipeline: discovery of candidate
// mod folders, manifest parsing, compatibility classification, validation,
// and dependency-ordered load-order resolution.
package mods

import (
	"fmt"
	"strings"

	"github.com/CheesyCanine05/smapi/core/mods/version"
)

// UniqueID wraps a mod's unique identifier so that equality and map-keying
// are case-insensitive everywhere in the pipeline, per the spec's identity
// rule. The zero value is the empty ID.
type UniqueID string

// Normalize returns the canonical (lowercased, trimmed) form used as a map
// key. Two UniqueIDs compare equal iff their Normalize() values match.
func (id UniqueID) Normalize() string {
	return strings.ToLower(strings.TrimSpace(string(id)))
}

// Equal reports whether id and other refer to the same mod, ignoring case
// and surrounding whitespace.
func (id UniqueID) Equal(other UniqueID) bool {
	return id.Normalize() == other.Normalize()
}

func (id UniqueID) String() string { return string(id) }

// IsBlank reports whether id is empty once trimmed.
func (id UniqueID) IsBlank() bool {
	return strings.TrimSpace(string(id)) == ""
}

// ManifestDependency declares a dependency of a mod on another mod, by
// unique ID, with an optional minimum version floor.
type ManifestDependency struct {
	UniqueID       UniqueID                 `json:"UniqueID"`
	MinimumVersion *version.SemanticVersion `json:"MinimumVersion,omitempty"`
	IsRequired     *bool                    `json:"IsRequired,omitempty"`
}

// Required reports whether the dependency must be present, defaulting to
// true when the manifest did not specify IsRequired.
func (d ManifestDependency) Required() bool {
	if d.IsRequired == nil {
		return true
	}
	return *d.IsRequired
}

// ContentPackFor declares that a manifest describes a content pack bound to
// a parent mod.
type ContentPackFor struct {
	UniqueID       UniqueID                 `json:"UniqueID"`
	MinimumVersion *version.SemanticVersion `json:"MinimumVersion,omitempty"`
}

// Manifest is the parsed contents of a mod folder's manifest file.
type Manifest struct {
	Name              string                   `json:"Name"`
	UniqueID          UniqueID                 `json:"UniqueID"`
	Version           version.SemanticVersion  `json:"Version"`
	MinimumApiVersion *version.SemanticVersion `json:"MinimumApiVersion,omitempty"`
	EntryDll          string                   `json:"EntryDll,omitempty"`
	ContentPackFor    *ContentPackFor          `json:"ContentPackFor,omitempty"`
	Dependencies      []ManifestDependency     `json:"Dependencies,omitempty"`
	UpdateKeys        []string                 `json:"UpdateKeys,omitempty"`
	Author            string                   `json:"Author,omitempty"`
	Description       string                   `json:"Description,omitempty"`
}

// CompatibilityStatus classifies how the compatibility database views a
// mod's current release.
type CompatibilityStatus int

const (
	// StatusOk means the mod is known and has no compatibility concerns.
	StatusOk CompatibilityStatus = iota
	// StatusObsolete means the mod should no longer be loaded at all.
	StatusObsolete
	// StatusAssumeBroken means the mod is presumed incompatible until an
	// update is installed.
	StatusAssumeBroken
)

func (s CompatibilityStatus) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusObsolete:
		return "Obsolete"
	case StatusAssumeBroken:
		return "AssumeBroken"
	default:
		return "Unknown"
	}
}

// CompatibilityRecord is the curated compatibility entry for one mod,
// looked up by unique ID.
type CompatibilityRecord struct {
	Status             CompatibilityStatus
	ReasonPhrase       string
	StatusUpperVersion *version.SemanticVersion
	AlternativeURL     string
	DisplayName        string
	UpdateKey          string
}

// Status is the terminal classification of a ModMetadata record once the
// pipeline has finished with it.
type Status int

const (
	// StatusFound means the mod is ready to load.
	StatusFound Status = iota
	// StatusFailed means the mod could not be loaded; Error explains why.
	StatusFailed
)

func (s Status) String() string {
	if s == StatusFound {
		return "Found"
	}
	return "Failed"
}

// ModMetadata is the pipeline's unit of work: one candidate mod folder,
// carried through discovery, loading, validation, and resolution. It is
// never dropped — every metadata record created flows through to the final
// output with either Found or Failed status, and once it has been marked
// Failed with a non-empty error, later stages may not overwrite that error.
type ModMetadata struct {
	DisplayName   string
	DirectoryPath string
	Manifest      *Manifest
	DataRecord    *CompatibilityRecord

	status Status
	err    string
}

// NewFoundMetadata constructs a metadata record in the Found state.
func NewFoundMetadata(displayName, directoryPath string, manifest *Manifest, dataRecord *CompatibilityRecord) *ModMetadata {
	return &ModMetadata{
		DisplayName:   displayName,
		DirectoryPath: directoryPath,
		Manifest:      manifest,
		DataRecord:    dataRecord,
		status:        StatusFound,
	}
}

// Status returns the metadata's current lifecycle status.
func (m *ModMetadata) Status() Status { return m.status }

// Error returns the human-readable failure reason, or "" if Status() is
// Found.
func (m *ModMetadata) Error() string { return m.err }

// IsFound reports whether the record is still viable for loading.
func (m *ModMetadata) IsFound() bool { return m.status == StatusFound }

// IsFailed reports whether the record has been marked Failed.
func (m *ModMetadata) IsFailed() bool { return m.status == StatusFailed }

// SetStatus transitions the record's status. It is the single mutation
// point for ModMetadata and is idempotent once Failed: once an error has
// been recorded, subsequent calls attempting to overwrite it are no-ops,
// so the first failure always wins.
func (m *ModMetadata) SetStatus(status Status, err string) {
	if m.status == StatusFailed {
		return
	}
	m.status = status
	if status == StatusFailed {
		m.err = err
	}
}

// UniqueID returns the manifest's unique ID, or "" if no manifest was
// loaded (e.g. the folder had no manifest at all).
func (m *ModMetadata) UniqueID() UniqueID {
	if m.Manifest == nil {
		return ""
	}
	return m.Manifest.UniqueID
}

// String implements fmt.Stringer for logging.
func (m *ModMetadata) String() string {
	return fmt.Sprintf("%s [%s]", m.DisplayName, m.status)
}
