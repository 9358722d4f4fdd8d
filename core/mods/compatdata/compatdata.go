// Package compatdata embeds the starter compatibility database shipped with
// the pipeline, mirroring the teacher's app/embeds package (which embeds a
// default dependency-override table). A host is free to ignore this and
// supply its own curated database instead.
package compatdata

import _ "embed"

//go:embed default_compatibility.json
var embeddedDefault []byte

// Default returns the raw bytes of the embedded starter compatibility
// database, ready to be parsed by mods.ParseDatabase.
func Default() []byte {
	return embeddedDefault
}
