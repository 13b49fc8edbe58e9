package edit

import (
	"bytes"
	"encoding/json"

	"github.com/foldcms/fold/internal/slugid"
)

// Group is one tab of the edit form.
type Group struct {
	Label    string   `json:"label"`
	ID       string   `json:"id"`
	IsActive bool     `json:"is_active"`
	Fields   []string `json:"fields"`
}

// Groups is an ordered, keyed registry of tab groups. Keys are unique; tab
// ids are unique within one registry (collisions resolved by slugid). The
// first group created is the active one.
type Groups struct {
	order []string
	byKey map[string]*Group
	ids   map[string]struct{}
}

func NewGroups() *Groups {
	return &Groups{
		byKey: make(map[string]*Group),
		ids:   make(map[string]struct{}),
	}
}

// Ensure returns the group registered under key, creating it with the given
// label if it does not exist yet. Creation order determines tab order and
// the is_active flag.
func (g *Groups) Ensure(key, label string) *Group {
	if grp, ok := g.byKey[key]; ok {
		return grp
	}
	nr := len(g.order) + 1
	id := slugid.MakeID(key, g.ids, nr)
	grp := &Group{
		Label:    label,
		ID:       id,
		IsActive: nr == 1,
		Fields:   []string{},
	}
	g.order = append(g.order, key)
	g.byKey[key] = grp
	g.ids[id] = struct{}{}
	return grp
}

// Append adds a field reference to the group registered under key. The group
// must exist.
func (g *Groups) Append(key, field string) {
	g.byKey[key].Fields = append(g.byKey[key].Fields, field)
}

// Get returns the group for key, or nil.
func (g *Groups) Get(key string) *Group { return g.byKey[key] }

// Has reports whether a group exists for key.
func (g *Groups) Has(key string) bool { _, ok := g.byKey[key]; return ok }

// Keys returns the group keys in creation order.
func (g *Groups) Keys() []string { return append([]string(nil), g.order...) }

// Len returns the number of groups.
func (g *Groups) Len() int { return len(g.order) }

// MarshalJSON renders the registry as a JSON object keyed by group name,
// preserving creation order. Plain maps would serialize keys sorted, which
// would break tab ordering for the template layer.
func (g *Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range g.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(g.byKey[key])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
