// Package folders derives an implicit folder tree from the flat folder-path
// strings stored on file records. Nothing here touches the database: callers
// fetch the path list and these functions compute ancestor closures and
// one-level breakdowns in memory.
package folders

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// MaxPathLength limits a normalized folder path.
const MaxPathLength = 100

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9/_-]+$`)

// Path is a normalized folder path: slash-delimited, no leading or trailing
// slashes, empty string means root. Construct it via Clean so handlers cannot
// pass raw user input deeper into the service layer.
type Path string

// Clean trims surrounding whitespace and slashes from a raw folder string.
func Clean(raw string) Path {
	return Path(strings.Trim(strings.TrimSpace(raw), "/"))
}

// IsRoot reports whether p is the root folder.
func (p Path) IsRoot() bool { return p == "" }

func (p Path) String() string { return string(p) }

// ValidateName checks a user-supplied folder name. The empty name is valid
// (root). Allowed characters are letters, digits, hyphen, underscore and the
// slash separator; consecutive slashes and paths longer than MaxPathLength
// are rejected. The returned error wraps common.ErrorValidation.
func ValidateName(raw string) error {
	clean := Clean(raw)
	if clean.IsRoot() {
		return nil
	}
	if !nameRe.MatchString(string(clean)) {
		return fmt.Errorf("%w: folder name can only contain letters, numbers, hyphens, underscores, and forward slashes", common.ErrorValidation)
	}
	if strings.Contains(string(clean), "//") {
		return fmt.Errorf("%w: folder name cannot contain consecutive slashes", common.ErrorValidation)
	}
	if len(clean) > MaxPathLength {
		return fmt.Errorf("%w: folder path is too long (max %d characters)", common.ErrorValidation, MaxPathLength)
	}
	return nil
}

// All returns the ancestor-closed set of folder paths implied by paths:
// every non-empty input path plus every prefix of its segments, each exactly
// once, sorted lexicographically. Empty inputs (root) are discarded.
func All(paths []string) []string {
	set := make(map[string]struct{})

	for _, p := range paths {
		if p == "" {
			continue
		}
		parts := strings.Split(p, "/")
		for i := 1; i < len(parts); i++ {
			set[strings.Join(parts[:i], "/")] = struct{}{}
		}
		set[p] = struct{}{}
	}

	result := make([]string, 0, len(set))
	for p := range set {
		result = append(result, p)
	}
	sort.Strings(result)
	return result
}

// Children filters an ancestor-closed path set down to the immediate child
// folder names of current: at root, paths without any slash; elsewhere,
// paths under current with exactly one more segment. Returned names are the
// final segments, sorted and deduplicated, and never include current itself.
func Children(all []string, current Path) []string {
	prefix := string(current) + "/"
	set := make(map[string]struct{})

	for _, p := range all {
		if current.IsRoot() {
			if !strings.Contains(p, "/") {
				set[p] = struct{}{}
			}
			continue
		}
		rest, ok := strings.CutPrefix(p, prefix)
		if ok && rest != "" && !strings.Contains(rest, "/") {
			set[rest] = struct{}{}
		}
	}

	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
