package edit

import "github.com/foldcms/fold/internal/model"

// Capabilities are the per-request permission flags exposed to the template
// layer.
type Capabilities struct {
	Upload          bool `json:"upload"`
	Publish         bool `json:"publish"`
	Depublish       bool `json:"depublish"`
	ChangeOwnership bool `json:"change_ownership"`
}

// Flags are the presence flags derived from the schema and record.
type Flags struct {
	IncomingRelations bool `json:"incoming_relations"`
	Relations         bool `json:"relations"`
	Tabs              bool `json:"tabs"`
	Taxonomy          bool `json:"taxonomy"`
	TemplateFields    bool `json:"templatefields"`
}

// DateValues carries the formatted publish/depublish dates.
type DateValues struct {
	DatePublish   string `json:"datepublish"`
	DateDepublish string `json:"datedepublish"`
}

// Context is everything the template layer needs to render the edit form.
// The JSON key set is a wire contract and must not change.
type Context struct {
	IncomingNotInverted map[string][]*model.Content `json:"incoming_not_inv"`
	ContentType         *model.ContentType          `json:"contenttype"`
	Content             *model.Content              `json:"content"`
	AllowedStatus       []string                    `json:"allowed_status"`
	ContentOwner        *model.User                 `json:"contentowner"`
	Fields              []string                    `json:"fields"`
	FieldTemplates      []string                    `json:"fieldtemplates"`
	FieldTypes          []string                    `json:"fieldtypes"`
	Groups              *Groups                     `json:"groups"`
	Can                 Capabilities                `json:"can"`
	Has                 Flags                       `json:"has"`
	Values              DateValues                  `json:"values"`
	RelationsList       map[string][]*model.Content `json:"relations_list"`
}
