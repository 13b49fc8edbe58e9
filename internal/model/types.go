package model

import "time"

// Content statuses, in canonical order. Status transition checks and the
// allowed-status list presented to the edit form always follow this order.
const (
	StatusPublished = "published"
	StatusHeld      = "held"
	StatusDraft     = "draft"
	StatusTimed     = "timed"
)

// AllStatuses lists every content status in canonical order.
var AllStatuses = []string{StatusPublished, StatusHeld, StatusDraft, StatusTimed}

// User represents an account in the system.
type User struct {
	UserID      string   `json:"userId"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName,omitempty"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// FieldDef describes a single field of a content type. Group defaults to
// "ungrouped" when the configuration does not assign one.
type FieldDef struct {
	Type       string `json:"type" yaml:"type"`
	Label      string `json:"label,omitempty" yaml:"label"`
	Group      string `json:"group,omitempty" yaml:"group"`
	Uploadable bool   `json:"uploadable,omitempty" yaml:"uploadable"`

	// CanUpload is an annotation computed per request from the current
	// actor's upload permission; it is never read from configuration.
	CanUpload bool `json:"canUpload"`
}

// RelationDef describes an outgoing relation a content type offers on its
// edit form.
type RelationDef struct {
	Label    string `json:"label,omitempty" yaml:"label"`
	Group    string `json:"group,omitempty" yaml:"group"`
	Multiple bool   `json:"multiple,omitempty" yaml:"multiple"`
	Limit    int    `json:"limit,omitempty" yaml:"limit"`
}

// TaxonomyDef is the process-wide definition of a taxonomy, referenced by
// name from content types.
type TaxonomyDef struct {
	Key         string `json:"key" yaml:"-"`
	Label       string `json:"label,omitempty" yaml:"label"`
	Group       string `json:"group,omitempty" yaml:"group"`
	BehavesLike string `json:"behaves_like,omitempty" yaml:"behaves_like"`
	AllowSpaces bool   `json:"allow_spaces,omitempty" yaml:"allow_spaces"`
	MultipleSel bool   `json:"multiple,omitempty" yaml:"multiple"`
}

// ContentType is the static schema for one kind of content record.
// FieldOrder and RelationOrder preserve configuration-file ordering, which
// map iteration would otherwise lose.
type ContentType struct {
	Key           string                  `json:"key"`
	Slug          string                  `json:"slug"`
	SingularName  string                  `json:"singular_name,omitempty"`
	Name          string                  `json:"name,omitempty"`
	Groups        []string                `json:"groups,omitempty"`
	ShowTabs      bool                    `json:"show_tabs"`
	Fields        map[string]*FieldDef    `json:"fields"`
	FieldOrder    []string                `json:"-"`
	Relations     map[string]*RelationDef `json:"relations,omitempty"`
	RelationOrder []string                `json:"-"`
	Taxonomy      []string                `json:"taxonomy,omitempty"`
	Templates     []string                `json:"templates,omitempty"`
}

// TemplateFields is the secondary field schema attached to a record's chosen
// display template, with its per-record values.
type TemplateFields struct {
	Template   string               `json:"template,omitempty"`
	Fields     map[string]*FieldDef `json:"fields,omitempty"`
	FieldOrder []string             `json:"-"`
	Values     map[string]any       `json:"values,omitempty"`
}

// Content is one record of a content type.
type Content struct {
	ID             string          `json:"id"`
	ContentType    string          `json:"contenttype"`
	Slug           string          `json:"slug,omitempty"`
	Status         string          `json:"status"`
	OwnerID        string          `json:"ownerid,omitempty"`
	Username       string          `json:"username,omitempty"`
	DateCreated    *time.Time      `json:"datecreated,omitempty"`
	DateChanged    *time.Time      `json:"datechanged,omitempty"`
	DatePublish    *time.Time      `json:"datepublish,omitempty"`
	DateDepublish  *time.Time      `json:"datedepublish,omitempty"`
	Values         map[string]any  `json:"values,omitempty"`
	TemplateFields *TemplateFields `json:"templatefields,omitempty"`
}

// IsNew reports whether the record has not been persisted yet.
func (c *Content) IsNew() bool { return c.ID == "" }

// Relation is one edge in the relation graph between two records. Inverted
// edges are recorded from the target's perspective.
type Relation struct {
	FromContentType string `json:"fromContenttype"`
	FromID          string `json:"fromId"`
	ToContentType   string `json:"toContenttype"`
	ToID            string `json:"toId"`
	Inverted        bool   `json:"inverted"`
}
