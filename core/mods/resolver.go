package mods

import (
	"fmt"
	"sort"
	"strings"

	"github.com/CheesyCanine05/smapi/core/mods/version"
)

// resolveState is the dependency resolver's per-mod traversal state, kept
// separate from ModMetadata's own Found/Failed status so the graph walk can
// reason about Queued/Checking/Sorted without touching the metadata's
// single status-transition operation until a terminal state is reached.
type resolveState int

const (
	stateQueued resolveState = iota
	stateChecking
	stateSorted
	stateFailed
)

// dependencyEdge is one resolved edge out of a mod: either a manifest
// dependency or the implicit edge a content pack carries to its parent.
// target is nil when no loaded mod matches id.
type dependencyEdge struct {
	id         UniqueID
	required   bool
	minVersion *version.SemanticVersion
	target     *ModMetadata
}

type resolver struct {
	state map[*ModMetadata]resolveState
	byID  map[string]*ModMetadata
	db    *Database
	stack []*ModMetadata
}

// Resolve computes the load order for a validated metadata sequence: a
// depth-first topological sort with cycle detection, missing-dependency
// diagnosis, minimum-version enforcement, and transitive failure
// propagation. Records already Failed at input are carried through
// unchanged and placed last in the returned order.
//
// A mod is only pushed to the stack once its dependencies have already been
// pushed (or have failed), so the stack itself is already dependency-first
// post-order — A, then B which depends on A, then C which depends on B.
// Reversing it would invert the order into dependents-first, which
// contradicts both the topological-correctness invariant and the documented
// scenarios (S1 expects "A, B, C"), so the stack is returned as built.
func Resolve(metas []*ModMetadata, db *Database) []*ModMetadata {
	r := &resolver{
		state: make(map[*ModMetadata]resolveState, len(metas)),
		byID:  make(map[string]*ModMetadata, len(metas)),
		db:    db,
	}

	for _, meta := range metas {
		if meta.Manifest != nil && !meta.Manifest.UniqueID.IsBlank() {
			r.byID[meta.Manifest.UniqueID.Normalize()] = meta
		}
	}

	var preFailed []*ModMetadata
	for _, meta := range metas {
		if meta.IsFailed() {
			r.state[meta] = stateFailed
			preFailed = append(preFailed, meta)
		}
	}

	for _, meta := range metas {
		if meta.IsFound() {
			r.visit(meta, nil)
		}
	}

	return append(r.stack, preFailed...)
}

func (r *resolver) push(meta *ModMetadata) {
	r.stack = append(r.stack, meta)
}

// visit implements the per-mod traversal described by the component's
// state machine. chain carries the ancestor records visited so far in this
// recursion, oldest first, not including meta itself.
func (r *resolver) visit(meta *ModMetadata, chain []*ModMetadata) resolveState {
	switch r.state[meta] {
	case stateSorted, stateFailed:
		return r.state[meta]
	case stateChecking:
		panic(fmt.Sprintf("internal error: cycle not caught by caller for mod %q", meta.DisplayName))
	}

	r.state[meta] = stateChecking
	edges := r.dependencyEdges(meta)

	if len(edges) == 0 {
		r.push(meta)
		r.state[meta] = stateSorted
		return stateSorted
	}

	if msg, failed := r.checkMissingRequired(edges); failed {
		return r.fail(meta, msg)
	}
	if msg, failed := r.checkMinimumVersions(edges); failed {
		return r.fail(meta, msg)
	}

	childChain := append(append([]*ModMetadata{}, chain...), meta)
	for _, edge := range edges {
		if edge.target == nil {
			continue // optional dependency not installed; already handled if required
		}
		if r.state[edge.target] == stateChecking {
			names := make([]string, len(childChain))
			for i, m := range childChain {
				names[i] = m.DisplayName
			}
			msg := fmt.Sprintf("its dependencies have a circular reference: %s => %s",
				strings.Join(names, " => "), edge.target.DisplayName)

			// Every mod on the cycle — not just the one whose edge closes
			// the loop — gets the circular-reference message: find where
			// the target itself sits in the chain and fail everything from
			// there to the current mod. fail is idempotent once a mod is
			// terminal, so an ancestor's own in-flight visit later sees its
			// state already Failed and leaves this message untouched.
			cycleStart := 0
			for i, m := range childChain {
				if m == edge.target {
					cycleStart = i
					break
				}
			}
			for _, m := range childChain[cycleStart:] {
				r.fail(m, msg)
			}
			return stateFailed
		}

		result := r.visit(edge.target, childChain)
		if result == stateFailed {
			msg := fmt.Sprintf("it needs the '%s' mod, which couldn't be loaded.", edge.target.DisplayName)
			return r.fail(meta, msg)
		}
	}

	r.push(meta)
	r.state[meta] = stateSorted
	return stateSorted
}

// fail marks meta Failed with message and pushes it to the stack. It is
// idempotent once meta has reached a terminal state, so re-failing a mod
// that a cycle already closed (or that was already pushed) neither
// duplicates it on the stack nor overwrites its first failure message.
func (r *resolver) fail(meta *ModMetadata, message string) resolveState {
	if r.state[meta] == stateFailed || r.state[meta] == stateSorted {
		return r.state[meta]
	}
	r.push(meta)
	r.state[meta] = stateFailed
	meta.SetStatus(StatusFailed, message)
	return stateFailed
}

func (r *resolver) dependencyEdges(meta *ModMetadata) []dependencyEdge {
	m := meta.Manifest
	edges := make([]dependencyEdge, 0, len(m.Dependencies)+1)
	for _, dep := range m.Dependencies {
		edges = append(edges, dependencyEdge{
			id:         dep.UniqueID,
			required:   dep.Required(),
			minVersion: dep.MinimumVersion,
			target:     r.byID[dep.UniqueID.Normalize()],
		})
	}
	if m.ContentPackFor != nil {
		edges = append(edges, dependencyEdge{
			id:         m.ContentPackFor.UniqueID,
			required:   true,
			minVersion: m.ContentPackFor.MinimumVersion,
			target:     r.byID[m.ContentPackFor.UniqueID.Normalize()],
		})
	}
	return edges
}

// checkMissingRequired collects every required edge whose target is absent
// and, if any, builds the failure message with labels sorted alphabetically
// by display name.
func (r *resolver) checkMissingRequired(edges []dependencyEdge) (string, bool) {
	var labels []string
	for _, edge := range edges {
		if edge.required && edge.target == nil {
			labels = append(labels, r.missingDependencyLabel(edge.id))
		}
	}
	if len(labels) == 0 {
		return "", false
	}
	sort.Strings(labels)
	return fmt.Sprintf("it requires mods which aren't installed (%s)", strings.Join(labels, ", ")), true
}

func (r *resolver) missingDependencyLabel(id UniqueID) string {
	displayName, ok := r.db.DisplayNameFor(id)
	if !ok || displayName == "" {
		displayName = id.String()
	}
	if url, ok := r.db.ModPageURLFor(id); ok {
		return fmt.Sprintf("%s: %s", displayName, url)
	}
	return displayName
}

// checkMinimumVersions collects every edge whose target exists but whose
// declared minimum version is newer than the target's manifest version.
func (r *resolver) checkMinimumVersions(edges []dependencyEdge) (string, bool) {
	var parts []string
	for _, edge := range edges {
		if edge.target == nil || edge.minVersion == nil {
			continue
		}
		if edge.minVersion.IsNewerThan(edge.target.Manifest.Version) {
			parts = append(parts, fmt.Sprintf("%s (needs %s or later)", edge.target.DisplayName, edge.minVersion.String()))
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return fmt.Sprintf("it needs newer versions of some mods: %s", strings.Join(parts, ", ")), true
}
