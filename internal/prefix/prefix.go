// Package prefix generates and recognizes the numeric "_<N>" tokens shuffle
// puts in front of file names.
//
// A prefixed name is "_" + label + original, e.g. "_3report.pdf". Recognition
// is a heuristic: any name that starts with an underscore followed by an ASCII
// digit is treated as prefixed, so "_2024notes.txt" strips to "notes.txt" even
// if it was never prefixed by shuffle.
package prefix

import (
	"math/rand/v2"
	"regexp"
	"strconv"
)

// Marker is the character that introduces a prefix.
const Marker = "_"

var pattern = regexp.MustCompile(`^_[0-9]+`)

// Generate returns a uniformly random permutation of 1..count rendered as
// decimal strings. Returns an empty, non-nil slice when count <= 0.
func Generate(count int) []string {
	return GenerateWith(rand.Perm, count)
}

// GenerateWith is [Generate] with the permutation source injected.
// perm must return a permutation of 0..n-1.
func GenerateWith(perm func(n int) []int, count int) []string {
	if count <= 0 {
		return []string{}
	}

	order := perm(count)
	labels := make([]string, len(order))

	for i, n := range order {
		labels[i] = strconv.Itoa(n + 1)
	}

	return labels
}

// Apply returns name with label prefixed: "_" + label + name.
func Apply(label, name string) string {
	return Marker + label + name
}

// Has reports whether name looks prefixed.
func Has(name string) bool {
	return pattern.MatchString(name)
}

// Strip removes a leading "_<digits>" token from name.
// The bool is false (and name is returned unchanged) when name has no prefix.
func Strip(name string) (string, bool) {
	loc := pattern.FindStringIndex(name)
	if loc == nil {
		return name, false
	}

	return name[loc[1]:], true
}
