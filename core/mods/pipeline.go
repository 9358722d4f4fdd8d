package mods

import (
	"github.com/CheesyCanine05/smapi/core/mods/version"
	"github.com/CheesyCanine05/smapi/internal/logging"
)

// Pipeline bundles the host-supplied collaborators the resolver and
// validator need but don't own: the current framework version, the
// compatibility database, and the update-key-to-URL mapping.
type Pipeline struct {
	APIVersion   version.SemanticVersion
	Database     *Database
	UpdateURLFor UpdateURLFunc
}

// NewPipeline constructs a Pipeline with the given framework version and
// compatibility database. UpdateKeyVendorURL is used as the default
// update-key resolver; override Pipeline.UpdateURLFor to supply a host's
// own table.
func NewPipeline(apiVersion version.SemanticVersion, db *Database) *Pipeline {
	return &Pipeline{
		APIVersion:   apiVersion,
		Database:     db,
		UpdateURLFor: UpdateKeyVendorURL,
	}
}

// Run executes the full pipeline over root: discovery, manifest loading,
// validation, and dependency resolution, in that order, returning mods in
// final load order. No metadata record is ever dropped from the returned
// sequence.
func (p *Pipeline) Run(root string) ([]*ModMetadata, error) {
	folders, err := Discover(root)
	if err != nil {
		return nil, err
	}
	logging.Infof("Discoverer: found %d candidate mod folder(s) under %q", len(folders), root)

	metas := LoadAll(root, folders, p.Database)
	Validate(metas, p.APIVersion, p.UpdateURLFor)
	ordered := Resolve(metas, p.Database)

	var found, failed int
	for _, meta := range ordered {
		if meta.IsFound() {
			found++
		} else {
			failed++
		}
	}
	logging.Infof("Pipeline: resolved load order for %d mod(s) (%d found, %d failed)", len(ordered), found, failed)

	return ordered, nil
}
