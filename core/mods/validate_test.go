package mods

import (
	"path/filepath"
	"testing"

	"github.com/CheesyCanine05/smapi/core/mods/version"
)

func foundManifestMeta(t *testing.T, dir string, manifest *Manifest, rec *CompatibilityRecord) *ModMetadata {
	t.Helper()
	mustMkdir(t, dir)
	return NewFoundMetadata(manifest.Name, dir, manifest, rec)
}

func TestValidateObsoleteFails(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Name: "Old Mod", UniqueID: "a.old", Version: version.New(1, 0, 0), EntryDll: "x.dll"}
	mustWriteFile(t, filepath.Join(dir, "x.dll"), "bin")
	rec := &CompatibilityRecord{Status: StatusObsolete, ReasonPhrase: "it was replaced"}
	meta := foundManifestMeta(t, dir, m, rec)

	Validate([]*ModMetadata{meta}, version.New(4, 0, 0), UpdateKeyVendorURL)

	if !meta.IsFailed() {
		t.Fatal("expected Failed")
	}
	if meta.Error() != "it's obsolete: it was replaced" {
		t.Errorf("Error() = %q", meta.Error())
	}
}

func TestValidateAssumeBrokenBuildsURLList(t *testing.T) {
	// S5 from the scenario catalog.
	dir := t.TempDir()
	m := &Manifest{
		Name: "A", UniqueID: "a.a", Version: version.New(1, 5, 0), EntryDll: "x.dll",
		UpdateKeys: []string{"Nexus:42"},
	}
	mustWriteFile(t, filepath.Join(dir, "x.dll"), "bin")
	upper := version.New(2, 0, 0)
	rec := &CompatibilityRecord{
		Status: StatusAssumeBroken, ReasonPhrase: "crashes on load",
		StatusUpperVersion: &upper, AlternativeURL: "https://alt",
	}
	meta := foundManifestMeta(t, dir, m, rec)

	Validate([]*ModMetadata{meta}, version.New(4, 0, 0), UpdateKeyVendorURL)

	want := "crashes on load. Please check for a version newer than 2.0.0 at https://www.nexusmods.com/stardewvalley/mods/42 or https://alt or https://smapi.io/compat"
	if meta.Error() != want {
		t.Errorf("Error() = %q, want %q", meta.Error(), want)
	}
}

func TestValidateFrameworkTooOld(t *testing.T) {
	dir := t.TempDir()
	min := version.New(5, 0, 0)
	m := &Manifest{Name: "A", UniqueID: "a.a", Version: version.New(1, 0, 0), EntryDll: "x.dll", MinimumApiVersion: &min}
	mustWriteFile(t, filepath.Join(dir, "x.dll"), "bin")
	meta := foundManifestMeta(t, dir, m, nil)

	Validate([]*ModMetadata{meta}, version.New(4, 0, 0), UpdateKeyVendorURL)

	if !meta.IsFailed() {
		t.Fatal("expected Failed")
	}
}

func TestValidateEntryPointAndContentPackExclusivity(t *testing.T) {
	dir := t.TempDir()

	neither := &Manifest{Name: "A", UniqueID: "a.a", Version: version.New(1, 0, 0)}
	metaNeither := foundManifestMeta(t, dir, neither, nil)

	both := &Manifest{
		Name: "B", UniqueID: "a.b", Version: version.New(1, 0, 0), EntryDll: "x.dll",
		ContentPackFor: &ContentPackFor{UniqueID: "a.parent"},
	}
	metaBoth := foundManifestMeta(t, dir, both, nil)

	Validate([]*ModMetadata{metaNeither, metaBoth}, version.New(4, 0, 0), UpdateKeyVendorURL)

	if metaNeither.Error() != "manifest has no entry-point or content-pack field" {
		t.Errorf("Error() = %q", metaNeither.Error())
	}
	if metaBoth.Error() != "manifest sets both EntryDll and ContentPackFor, which are mutually exclusive" {
		t.Errorf("Error() = %q", metaBoth.Error())
	}
}

func TestValidateEntryPointFileMissing(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Name: "A", UniqueID: "a.a", Version: version.New(1, 0, 0), EntryDll: "missing.dll"}
	meta := foundManifestMeta(t, dir, m, nil)

	Validate([]*ModMetadata{meta}, version.New(4, 0, 0), UpdateKeyVendorURL)

	if !meta.IsFailed() {
		t.Fatal("expected Failed for a missing entry dll")
	}
}

func TestValidateRequiredFieldsMissing(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{EntryDll: "x.dll"}
	mustWriteFile(t, filepath.Join(dir, "x.dll"), "bin")
	meta := foundManifestMeta(t, dir, m, nil)

	Validate([]*ModMetadata{meta}, version.New(4, 0, 0), UpdateKeyVendorURL)

	if meta.Error() != "manifest is missing required fields (Name, Version, UniqueID)" {
		t.Errorf("Error() = %q", meta.Error())
	}
}

func TestValidateDuplicateUniqueIDs(t *testing.T) {
	// S6 from the scenario catalog.
	dirA := t.TempDir()
	dirB := t.TempDir()
	a := &Manifest{Name: "A", UniqueID: "com.example.foo", Version: version.New(1, 0, 0), EntryDll: "x.dll"}
	b := &Manifest{Name: "B", UniqueID: "Com.Example.Foo", Version: version.New(1, 0, 0), EntryDll: "x.dll"}
	mustWriteFile(t, filepath.Join(dirA, "x.dll"), "bin")
	mustWriteFile(t, filepath.Join(dirB, "x.dll"), "bin")
	metaA := foundManifestMeta(t, dirA, a, nil)
	metaB := foundManifestMeta(t, dirB, b, nil)

	Validate([]*ModMetadata{metaA, metaB}, version.New(4, 0, 0), UpdateKeyVendorURL)

	if !metaA.IsFailed() || !metaB.IsFailed() {
		t.Fatal("expected both records to fail on duplicate unique ID")
	}
	for _, meta := range []*ModMetadata{metaA, metaB} {
		if meta.Error() == "" {
			t.Errorf("expected a duplicate-id error on %s", meta.DisplayName)
		}
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Name: "A", UniqueID: "a.a", Version: version.New(1, 0, 0), EntryDll: "x.dll"}
	rec := &CompatibilityRecord{Status: StatusObsolete, ReasonPhrase: "replaced"}
	meta := foundManifestMeta(t, dir, m, rec)
	meta.SetStatus(StatusFailed, "earlier stage failure")

	Validate([]*ModMetadata{meta}, version.New(4, 0, 0), UpdateKeyVendorURL)

	if meta.Error() != "earlier stage failure" {
		t.Errorf("Error() = %q, want the original failure preserved", meta.Error())
	}
}
