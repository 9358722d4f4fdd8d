package mods

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CheesyCanine05/smapi/core/mods/compatdata"
	"github.com/CheesyCanine05/smapi/core/mods/version"
)

// Database is a static, case-insensitive lookup from unique ID to
// compatibility record. Construction and contents are outside the core
// pipeline's concern; the resolver and validator only ever read from it.
type Database struct {
	records map[string]CompatibilityRecord // keyed by UniqueID.Normalize()
}

// NewDatabase builds a Database from an in-memory set of records, keyed by
// their UniqueID. When several IDs normalize to the same key, only one of
// their records is kept; which one is not defined.
func NewDatabase(records map[UniqueID]CompatibilityRecord) *Database {
	db := &Database{records: make(map[string]CompatibilityRecord, len(records))}
	for id, rec := range records {
		db.records[id.Normalize()] = rec
	}
	return db
}

// LoadDefault parses the embedded starter compatibility database shipped
// with the pipeline.
func LoadDefault() (*Database, error) {
	return ParseDatabase(compatdata.Default())
}

// rawCompatibilityRecord mirrors the on-disk JSON shape for one entry.
type rawCompatibilityRecord struct {
	UniqueID           string  `json:"UniqueID"`
	Status             string  `json:"Status"`
	ReasonPhrase       string  `json:"ReasonPhrase"`
	StatusUpperVersion *string `json:"StatusUpperVersion"`
	AlternativeURL     string  `json:"AlternativeURL"`
	DisplayName        string  `json:"DisplayName"`
	UpdateKey          string  `json:"UpdateKey"`
}

type rawDatabase struct {
	Records []rawCompatibilityRecord `json:"records"`
}

// ParseDatabase parses a compatibility database document of the shape
// {"records": [...]}, as produced by the embedded default and by hosts that
// curate their own table.
func ParseDatabase(data []byte) (*Database, error) {
	var raw rawDatabase
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing compatibility database: %w", err)
	}

	records := make(map[UniqueID]CompatibilityRecord, len(raw.Records))
	for _, r := range raw.Records {
		if strings.TrimSpace(r.UniqueID) == "" {
			return nil, fmt.Errorf("parsing compatibility database: entry missing UniqueID")
		}
		status, err := parseCompatibilityStatus(r.Status)
		if err != nil {
			return nil, fmt.Errorf("parsing compatibility database entry %q: %w", r.UniqueID, err)
		}

		rec := CompatibilityRecord{
			Status:         status,
			ReasonPhrase:   r.ReasonPhrase,
			AlternativeURL: r.AlternativeURL,
			DisplayName:    r.DisplayName,
			UpdateKey:      r.UpdateKey,
		}
		if r.StatusUpperVersion != nil {
			v, err := version.Parse(*r.StatusUpperVersion)
			if err != nil {
				return nil, fmt.Errorf("parsing compatibility database entry %q: %w", r.UniqueID, err)
			}
			rec.StatusUpperVersion = &v
		}
		records[UniqueID(r.UniqueID)] = rec
	}
	return NewDatabase(records), nil
}

func parseCompatibilityStatus(s string) (CompatibilityStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ok":
		return StatusOk, nil
	case "obsolete":
		return StatusObsolete, nil
	case "assumebroken", "assume-broken", "assume_broken":
		return StatusAssumeBroken, nil
	default:
		return StatusOk, fmt.Errorf("unknown compatibility status %q", s)
	}
}

// Get returns the compatibility record for id, if any.
func (db *Database) Get(id UniqueID) (CompatibilityRecord, bool) {
	if db == nil {
		return CompatibilityRecord{}, false
	}
	rec, ok := db.records[id.Normalize()]
	return rec, ok
}

// DisplayNameFor returns the record's display name for id, if known.
func (db *Database) DisplayNameFor(id UniqueID) (string, bool) {
	rec, ok := db.Get(id)
	if !ok || rec.DisplayName == "" {
		return "", false
	}
	return rec.DisplayName, true
}

// ModPageURLFor returns the best-known canonical page URL for id: the
// record's alternative URL if present, else none. This is the resolver's
// collaborator when labeling missing-dependency diagnostics.
func (db *Database) ModPageURLFor(id UniqueID) (string, bool) {
	rec, ok := db.Get(id)
	if !ok || rec.AlternativeURL == "" {
		return "", false
	}
	return rec.AlternativeURL, true
}

// UpdateKeyVendorURL resolves a "vendor:id" update key to its canonical mod
// page URL. Recognized vendors are Chucklefish, GitHub, and Nexus; unknown
// vendors yield ok=false. Hosts may ignore this and inject their own
// mapping function into the validator instead (see §6 of the spec).
func UpdateKeyVendorURL(updateKey string) (string, bool) {
	vendor, id, found := strings.Cut(updateKey, ":")
	if !found || strings.TrimSpace(vendor) == "" || strings.TrimSpace(id) == "" {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(vendor)) {
	case "chucklefish":
		return fmt.Sprintf("https://community.playstarbound.com/resources/%s", id), true
	case "github":
		return fmt.Sprintf("https://github.com/%s/releases", id), true
	case "nexus":
		return fmt.Sprintf("https://www.nexusmods.com/stardewvalley/mods/%s", id), true
	default:
		return "", false
	}
}
