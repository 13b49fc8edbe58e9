// Package slugid derives unique, URL-safe DOM ids for edit-form tabs.
package slugid

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// MakeID returns a tab id for a group name: "tab-" plus the slugified name,
// with trailing hyphens stripped. When the id is already taken, or the name
// slugifies to nothing and the id degenerates to a bare "tab", the 1-based
// creation index nr is appended.
//
// The collision check runs against existing as-is; the caller registers the
// returned id afterwards. Two names that slugify identically therefore keep
// the plain id for the first occurrence and suffix only the second.
func MakeID(name string, existing map[string]struct{}, nr int) string {
	id := strings.TrimRight("tab-"+slug.Make(name), "-")
	if _, taken := existing[id]; taken || id == "tab" {
		id = fmt.Sprintf("%s-%d", id, nr)
	}
	return id
}
