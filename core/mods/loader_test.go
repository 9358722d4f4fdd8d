package mods

import (
	"path/filepath"
	"testing"
)

func TestLoadMetadataValidManifest(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ModA")
	mustWriteFile(t, filepath.Join(dir, "manifest.json"), `{
		"Name": "Mod A",
		"UniqueID": "author.moda",
		"Version": "1.0.0",
		"EntryDll": "ModA.dll"
	}`)
	mustWriteFile(t, filepath.Join(dir, "ModA.dll"), "binary")

	meta := LoadMetadata(root, dir, nil)
	if !meta.IsFound() {
		t.Fatalf("expected Found, got Failed: %s", meta.Error())
	}
	if meta.DisplayName != "Mod A" {
		t.Errorf("DisplayName = %q, want %q", meta.DisplayName, "Mod A")
	}
	if meta.UniqueID() != "author.moda" {
		t.Errorf("UniqueID() = %q", meta.UniqueID())
	}
}

func TestLoadMetadataMissingManifest(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ModB")
	mustMkdir(t, dir)

	meta := LoadMetadata(root, dir, nil)
	if !meta.IsFailed() {
		t.Fatal("expected Failed for a folder with no manifest")
	}
	if meta.Error() != "it doesn't have a manifest." {
		t.Errorf("Error() = %q", meta.Error())
	}
	if meta.DisplayName != "ModB" {
		t.Errorf("DisplayName = %q, want folder-relative path", meta.DisplayName)
	}
}

func TestLoadMetadataInvalidManifest(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ModC")
	mustWriteFile(t, filepath.Join(dir, "manifest.json"), "null")

	meta := LoadMetadata(root, dir, nil)
	if !meta.IsFailed() {
		t.Fatal("expected Failed for a null manifest")
	}
	if meta.Error() != "its manifest is invalid." {
		t.Errorf("Error() = %q", meta.Error())
	}
}

func TestLoadMetadataParseFailure(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ModD")
	mustWriteFile(t, filepath.Join(dir, "manifest.json"), "{not json")

	meta := LoadMetadata(root, dir, nil)
	if !meta.IsFailed() {
		t.Fatal("expected Failed for unparsable manifest")
	}
	if got := meta.Error(); len(got) < len("parsing its manifest failed: ") || got[:len("parsing its manifest failed: ")] != "parsing its manifest failed: " {
		t.Errorf("Error() = %q, want parse-failure prefix", got)
	}
}

func TestLoadMetadataDisplayNameFallsBackToCompatDB(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ModE")
	mustWriteFile(t, filepath.Join(dir, "manifest.json"), `{
		"UniqueID": "author.mode",
		"Version": "1.0.0",
		"EntryDll": "ModE.dll"
	}`)
	mustWriteFile(t, filepath.Join(dir, "ModE.dll"), "binary")

	db := NewDatabase(map[UniqueID]CompatibilityRecord{
		"author.mode": {DisplayName: "Mod E (curated)"},
	})

	meta := LoadMetadata(root, dir, db)
	if meta.DisplayName != "Mod E (curated)" {
		t.Errorf("DisplayName = %q, want database display name", meta.DisplayName)
	}
}

func TestLoadMetadataUpdateKeyOverridesManifest(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ModF")
	mustWriteFile(t, filepath.Join(dir, "manifest.json"), `{
		"Name": "Mod F",
		"UniqueID": "author.modf",
		"Version": "1.0.0",
		"EntryDll": "ModF.dll",
		"UpdateKeys": ["Nexus:1"]
	}`)
	mustWriteFile(t, filepath.Join(dir, "ModF.dll"), "binary")

	db := NewDatabase(map[UniqueID]CompatibilityRecord{
		"author.modf": {UpdateKey: "Nexus:999"},
	})

	meta := LoadMetadata(root, dir, db)
	if len(meta.Manifest.UpdateKeys) != 1 || meta.Manifest.UpdateKeys[0] != "Nexus:999" {
		t.Errorf("UpdateKeys = %v, want [Nexus:999]", meta.Manifest.UpdateKeys)
	}
}

func TestLoadAllPreservesInputOrder(t *testing.T) {
	root := t.TempDir()
	var folders []string
	for _, name := range []string{"ModA", "ModB", "ModC", "ModD"} {
		dir := filepath.Join(root, name)
		mustWriteFile(t, filepath.Join(dir, "manifest.json"), `{
			"Name": "`+name+`",
			"UniqueID": "author.`+name+`",
			"Version": "1.0.0",
			"EntryDll": "mod.dll"
		}`)
		mustWriteFile(t, filepath.Join(dir, "mod.dll"), "binary")
		folders = append(folders, dir)
	}

	metas := LoadAll(root, folders, nil)
	if len(metas) != 4 {
		t.Fatalf("got %d metas, want 4", len(metas))
	}
	for i, name := range []string{"ModA", "ModB", "ModC", "ModD"} {
		if metas[i].DisplayName != name {
			t.Errorf("metas[%d].DisplayName = %q, want %q", i, metas[i].DisplayName, name)
		}
	}
}
