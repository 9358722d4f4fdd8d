// Package version implements the semantic-version value type used
// throughout the mod loading pipeline: manifests declare their own version
// and the minimum versions they require of dependencies and of the host
// framework, and every comparison in the pipeline funnels through here.
package version

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SemanticVersion is three non-negative integers plus an optional
// prerelease tag. Unlike a full SemVer implementation, prerelease tags are
// compared as plain strings rather than dot-separated identifiers — that
// is all the pipeline's ordering contract requires.
type SemanticVersion struct {
	Major, Minor, Patch int
	Prerelease          string
	hasPrerelease       bool
}

// Zero is the sentinel version manifests use to mean "no version was set".
var Zero = SemanticVersion{}

// New constructs a released (non-prerelease) version.
func New(major, minor, patch int) SemanticVersion {
	return SemanticVersion{Major: major, Minor: minor, Patch: patch}
}

// NewPrerelease constructs a version carrying a prerelease tag.
func NewPrerelease(major, minor, patch int, prerelease string) SemanticVersion {
	return SemanticVersion{Major: major, Minor: minor, Patch: patch, Prerelease: prerelease, hasPrerelease: true}
}

// Parse reads "major.minor[.patch][-prerelease]". The patch component may
// be omitted and defaults to zero, matching manifests that only ship
// "1.0" style versions.
func Parse(s string) (SemanticVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SemanticVersion{}, fmt.Errorf("version string is empty")
	}

	var v SemanticVersion
	core := s
	if dashIdx := strings.IndexByte(s, '-'); dashIdx != -1 {
		core = s[:dashIdx]
		v.Prerelease = s[dashIdx+1:]
		v.hasPrerelease = true
		if v.Prerelease == "" {
			return SemanticVersion{}, fmt.Errorf("invalid version %q: empty prerelease tag", s)
		}
	}

	parts := strings.Split(core, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return SemanticVersion{}, fmt.Errorf("invalid version %q: expected major.minor[.patch]", s)
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return SemanticVersion{}, fmt.Errorf("invalid version %q: component %q is not a non-negative integer", s, part)
		}
		nums[i] = n
	}
	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

// MustParse is Parse but panics on error; used for constants in tests.
func MustParse(s string) SemanticVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v is the "0.0" absent-version sentinel.
func (v SemanticVersion) IsZero() bool {
	return v.Major == 0 && v.Minor == 0 && v.Patch == 0 && !v.hasPrerelease
}

// HasPrerelease reports whether v carries a prerelease tag.
func (v SemanticVersion) HasPrerelease() bool {
	return v.hasPrerelease
}

// String renders "major.minor.patch" with an optional "-prerelease" suffix.
func (v SemanticVersion) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.hasPrerelease {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other. Ordering is lexicographic on (major, minor, patch); a version with
// a prerelease tag is strictly less than the same triple without one;
// prerelease tags otherwise compare lexicographically as plain strings.
func (v SemanticVersion) Compare(other SemanticVersion) int {
	if v.Major != other.Major {
		return cmpInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return cmpInt(v.Minor, other.Minor)
	}
	if v.Patch != other.Patch {
		return cmpInt(v.Patch, other.Patch)
	}
	if v.hasPrerelease != other.hasPrerelease {
		if v.hasPrerelease {
			return -1
		}
		return 1
	}
	if !v.hasPrerelease {
		return 0
	}
	return strings.Compare(v.Prerelease, other.Prerelease)
}

// Equal reports whether v and other compare equal.
func (v SemanticVersion) Equal(other SemanticVersion) bool {
	return v.Compare(other) == 0
}

// IsNewerThan is the strict greater-than relation.
func (v SemanticVersion) IsNewerThan(other SemanticVersion) bool {
	return v.Compare(other) > 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MarshalJSON renders the version as its string form.
func (v SemanticVersion) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON accepts a manifest version string like "1.2.3" or "1.2".
func (v *SemanticVersion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("version must be a JSON string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
