package mods

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CheesyCanine05/smapi/core/mods/version"
)

// UpdateURLFunc resolves an update key to a canonical mod page URL. Hosts
// inject their own vendor table; UpdateKeyVendorURL is provided as a ready
// default.
type UpdateURLFunc func(updateKey string) (string, bool)

// invalidFilenameChars mirrors the characters that are illegal in a
// filename on at least one major OS; EntryDll is validated against this set
// rather than against the host's actual filesystem rules, so the check is
// stable across platforms.
const invalidFilenameChars = `<>:"/\|?*`

// Validate applies all non-topological checks to metas in place: the
// compatibility policy, minimum framework version, entry-point/content-pack
// shape, required fields, and finally cross-record unique-ID uniqueness.
// Already-Failed records are left untouched by the per-record checks but
// still participate in the uniqueness pass.
func Validate(metas []*ModMetadata, apiVersion version.SemanticVersion, updateURLFor UpdateURLFunc) {
	for _, meta := range metas {
		if meta.IsFailed() {
			continue
		}
		validateOne(meta, apiVersion, updateURLFor)
	}
	enforceUniqueness(metas)
}

func validateOne(meta *ModMetadata, apiVersion version.SemanticVersion, updateURLFor UpdateURLFunc) {
	if checkCompatibilityPolicy(meta, updateURLFor) {
		return
	}
	if checkFrameworkVersion(meta, apiVersion) {
		return
	}
	if checkEntryPointShape(meta) {
		return
	}
	if checkRequiredFields(meta) {
		return
	}
}

// checkCompatibilityPolicy returns true if it failed the record.
func checkCompatibilityPolicy(meta *ModMetadata, updateURLFor UpdateURLFunc) bool {
	rec := meta.DataRecord
	if rec == nil {
		return false
	}

	switch rec.Status {
	case StatusObsolete:
		meta.SetStatus(StatusFailed, fmt.Sprintf("it's obsolete: %s", rec.ReasonPhrase))
		return true

	case StatusAssumeBroken:
		urls := assumeBrokenURLs(meta, rec, updateURLFor)
		reason := rec.ReasonPhrase
		if strings.TrimSpace(reason) == "" {
			reason = "it's outdated"
		}

		clause := "newer version"
		if rec.StatusUpperVersion != nil && !rec.StatusUpperVersion.Equal(meta.Manifest.Version) {
			clause = fmt.Sprintf("version newer than %s", rec.StatusUpperVersion.String())
		}

		meta.SetStatus(StatusFailed, fmt.Sprintf(
			"%s. Please check for a %s at %s", reason, clause, strings.Join(urls, " or "),
		))
		return true

	default:
		return false
	}
}

func assumeBrokenURLs(meta *ModMetadata, rec *CompatibilityRecord, updateURLFor UpdateURLFunc) []string {
	var urls []string
	if updateURLFor != nil {
		for _, key := range meta.Manifest.UpdateKeys {
			if url, ok := updateURLFor(key); ok {
				urls = append(urls, url)
			}
		}
	}
	if rec.AlternativeURL != "" {
		urls = append(urls, rec.AlternativeURL)
	}
	urls = append(urls, "https://smapi.io/compat")
	return urls
}

func checkFrameworkVersion(meta *ModMetadata, apiVersion version.SemanticVersion) bool {
	minVersion := meta.Manifest.MinimumApiVersion
	if minVersion == nil || !minVersion.IsNewerThan(apiVersion) {
		return false
	}
	meta.SetStatus(StatusFailed, fmt.Sprintf(
		"it needs a newer version of the mod loader (needs %s, you have %s); please update the mod loader to use this mod.",
		minVersion.String(), apiVersion.String(),
	))
	return true
}

func checkEntryPointShape(meta *ModMetadata) bool {
	m := meta.Manifest
	hasEntry := strings.TrimSpace(m.EntryDll) != ""
	hasContentPack := m.ContentPackFor != nil

	switch {
	case !hasEntry && !hasContentPack:
		meta.SetStatus(StatusFailed, "manifest has no entry-point or content-pack field")
		return true
	case hasEntry && hasContentPack:
		meta.SetStatus(StatusFailed, "manifest sets both EntryDll and ContentPackFor, which are mutually exclusive")
		return true
	case hasEntry:
		if strings.ContainsAny(m.EntryDll, invalidFilenameChars) {
			meta.SetStatus(StatusFailed, fmt.Sprintf("manifest has an invalid EntryDll filename %q", m.EntryDll))
			return true
		}
		entryPath := filepath.Join(meta.DirectoryPath, m.EntryDll)
		if _, err := os.Stat(entryPath); err != nil {
			meta.SetStatus(StatusFailed, fmt.Sprintf("its EntryDll %q doesn't exist", m.EntryDll))
			return true
		}
		return false
	default: // hasContentPack
		if m.ContentPackFor.UniqueID.IsBlank() {
			meta.SetStatus(StatusFailed, "its ContentPackFor field doesn't specify a unique ID")
			return true
		}
		return false
	}
}

func checkRequiredFields(meta *ModMetadata) bool {
	m := meta.Manifest
	var missing []string
	if strings.TrimSpace(m.Name) == "" {
		missing = append(missing, "Name")
	}
	if m.Version.IsZero() {
		missing = append(missing, "Version")
	}
	if m.UniqueID.IsBlank() {
		missing = append(missing, "UniqueID")
	}
	if len(missing) == 0 {
		return false
	}
	meta.SetStatus(StatusFailed, fmt.Sprintf("manifest is missing required fields (%s)", strings.Join(missing, ", ")))
	return true
}

// enforceUniqueness groups all records (including already-failed ones) by
// their manifest's trimmed, case-insensitive unique ID, and fails every
// still-Found member of any group with more than one entry.
func enforceUniqueness(metas []*ModMetadata) {
	groups := make(map[string][]*ModMetadata)
	var order []string
	for _, meta := range metas {
		if meta.Manifest == nil || meta.Manifest.UniqueID.IsBlank() {
			continue
		}
		key := meta.Manifest.UniqueID.Normalize()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], meta)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) <= 1 {
			continue
		}
		names := make([]string, len(group))
		for i, meta := range group {
			names[i] = meta.DisplayName
		}
		sort.Strings(names)
		id := group[0].Manifest.UniqueID
		message := fmt.Sprintf("its unique ID '%s' is used by multiple mods (%s)", id, strings.Join(names, ", "))
		for _, meta := range group {
			if meta.IsFound() {
				meta.SetStatus(StatusFailed, message)
			}
		}
	}
}
