package common

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// Version is a major.minor.patch triple. Pre-release and build metadata are
// not modelled.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion extracts the first X.Y.Z substring from free-form text such as
// "Docker version 20.10.5, build abc123".
func ParseVersion(text string) (Version, error) {
	match := versionPattern.FindString(text)
	if match == "" {
		return Version{}, fmt.Errorf("no version number found in %q", text)
	}

	var parts [3]int
	for i, field := range strings.SplitN(match, ".", 3) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version component %q: %w", field, err)
		}
		parts[i] = n
	}

	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// MustParseVersion is ParseVersion for compile-time constants
func MustParseVersion(text string) Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 comparing v to other component by component
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmp.Compare(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmp.Compare(v.Minor, other.Minor)
	default:
		return cmp.Compare(v.Patch, other.Patch)
	}
}

// AtLeast reports whether v >= min
func (v Version) AtLeast(min Version) bool {
	return v.Compare(min) >= 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// VersionOK reports whether the version found in output satisfies required
// ("X.Y.Z"). Output without a recognisable version never satisfies.
func VersionOK(output, required string) bool {
	have, err := ParseVersion(output)
	if err != nil {
		return false
	}
	want, err := ParseVersion(required)
	if err != nil {
		return false
	}
	return have.AtLeast(want)
}
