// Package edit computes the edit-form render context for a content record:
// the tab grouping of its fields and the permissions, status transitions,
// related records and publish dates the template layer needs.
package edit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/foldcms/fold/internal/model"
)

// Authorizer answers permission questions for the current actor.
type Authorizer interface {
	IsAllowed(ctx context.Context, permission string) bool
	IsStatusTransitionAllowed(ctx context.Context, from, to, contentType, id string) bool
}

// UserDirectory resolves users for ownership display.
type UserDirectory interface {
	Current(ctx context.Context) (*model.User, error)
	ByID(ctx context.Context, id string) (*model.User, error)
}

// Translator resolves a label key to the active locale, returning fallback
// when the key is unknown.
type Translator interface {
	Translate(key, fallback string) string
}

// Notifier delivers informational notices to the editor.
type Notifier interface {
	Info(msg string)
}

// ContentSource is the slice of content storage the assembler reads from.
type ContentSource interface {
	GetByID(ctx context.Context, contentType, id string) (*model.Content, error)
	List(ctx context.Context, contentType string, limit int) ([]*model.Content, error)
	Incoming(ctx context.Context, contentType, id string) ([]*model.Relation, error)
}

// Deps wires an Assembler.
type Deps struct {
	Auth       Authorizer
	Users      UserDirectory
	Translator Translator
	Notifier   Notifier
	Source     ContentSource
	FieldTypes []string
	Taxonomies map[string]*model.TaxonomyDef

	Policy GroupingPolicy

	// SkipSelfRelations drops incoming relations whose source content type
	// equals the record's own. Kept as an explicit switch since the two
	// historical behaviors disagreed.
	SkipSelfRelations bool

	// RelationsListLimit caps relation picker listings when a relation
	// declares no limit of its own. Zero means the package default.
	RelationsListLimit int
}

const defaultRelationsListLimit = 20

// Assembler produces the full edit-form context. It never mutates the
// record or schema passed to Assemble; the returned Context carries
// transformed copies instead.
type Assembler struct {
	deps Deps
}

type nopNotifier struct{}

func (nopNotifier) Info(string) {}

// NewAssembler creates an assembler. Policy defaults to PolicyEager.
func NewAssembler(deps Deps) *Assembler {
	if !deps.Policy.Valid() {
		deps.Policy = PolicyEager
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.RelationsListLimit <= 0 {
		deps.RelationsListLimit = defaultRelationsListLimit
	}
	return &Assembler{deps: deps}
}

// WithNotifier returns a copy of the assembler delivering notices to n,
// for request-scoped notification collection.
func (a *Assembler) WithNotifier(n Notifier) *Assembler {
	deps := a.deps
	deps.Notifier = n
	return &Assembler{deps: deps}
}

// Assemble computes the render context for one edit-form request. With
// duplicate set, the returned record copy has its identity, slug, dates and
// ownership cleared and a notice is emitted; the stored record is untouched.
func (a *Assembler) Assemble(ctx context.Context, record *model.Content, schema *model.ContentType, duplicate bool) (*Context, error) {
	d := a.deps
	rec := record.Clone()
	ct := schema.Clone()

	isNew := rec.IsNew()
	oldStatus := rec.Status

	allowed := make([]string, 0, len(model.AllStatuses))
	for _, status := range model.AllStatuses {
		if d.Auth.IsStatusTransitionAllowed(ctx, oldStatus, status, ct.Key, rec.ID) {
			allowed = append(allowed, status)
		}
	}

	if duplicate {
		rec.ID = ""
		rec.Slug = ""
		rec.DateCreated = nil
		rec.DatePublish = nil
		rec.DateDepublish = nil
		rec.DateChanged = nil
		rec.Username = ""
		rec.OwnerID = ""

		msg := d.Translator.Translate("contenttypes.generic.duplicated-finalize",
			"Content duplicated from %contenttype%; save to finalize the copy.")
		d.Notifier.Info(strings.ReplaceAll(msg, "%contenttype%", ct.Key))
	}

	owner, err := a.resolveOwner(ctx, rec, isNew || duplicate)
	if err != nil {
		return nil, fmt.Errorf("resolve owner: %w", err)
	}

	incoming, err := a.incomingNotInverted(ctx, schema.Key, record)
	if err != nil {
		return nil, fmt.Errorf("incoming relations: %w", err)
	}

	canUpload := d.Auth.IsAllowed(ctx, "files:uploads")
	ct.Fields = annotateCanUpload(ct.Fields, canUpload)
	if tf := rec.TemplateFields; tf != nil && len(tf.Fields) > 0 {
		tf.Fields = annotateCanUpload(tf.Fields, canUpload)
	}

	can := Capabilities{
		Upload:          canUpload,
		Publish:         d.Auth.IsAllowed(ctx, "contenttype:"+ct.Key+":publish:"+rec.ID),
		Depublish:       d.Auth.IsAllowed(ctx, "contenttype:"+ct.Key+":depublish:"+rec.ID),
		ChangeOwnership: d.Auth.IsAllowed(ctx, "contenttype:"+ct.Key+":change-ownership:"+rec.ID),
	}
	has := Flags{
		IncomingRelations: len(incoming) > 0,
		Relations:         len(ct.Relations) > 0,
		Tabs:              ct.ShowTabs,
		Taxonomy:          len(ct.Taxonomy) > 0,
		TemplateFields:    rec.TemplateFields != nil && len(rec.TemplateFields.Fields) > 0,
	}

	relList, err := relationsList(ctx, d.Source, ct, d.RelationsListLimit)
	if err != nil {
		return nil, fmt.Errorf("relations list: %w", err)
	}

	grouper := &Grouper{Policy: d.Policy, Taxonomies: d.Taxonomies, Translator: d.Translator}

	return &Context{
		IncomingNotInverted: incoming,
		ContentType:         ct,
		Content:             rec,
		AllowedStatus:       allowed,
		ContentOwner:        owner,
		Fields:              d.FieldTypes,
		FieldTemplates:      templateFieldTemplates(ct, rec),
		FieldTypes:          usedFieldTypes(ct, rec, has),
		Groups:              grouper.BuildGroups(ct, has, rec, incoming),
		Can:                 can,
		Has:                 has,
		Values: DateValues{
			DatePublish:   publishingDate(rec.DatePublish, true),
			DateDepublish: publishingDate(rec.DateDepublish, false),
		},
		RelationsList: relList,
	}, nil
}

// resolveOwner picks the creator for brand-new and duplicated records, and
// the stored owner otherwise. A stored owner that no longer exists resolves
// to nil rather than failing the whole form.
func (a *Assembler) resolveOwner(ctx context.Context, rec *model.Content, creatorOwns bool) (*model.User, error) {
	if creatorOwns {
		return a.deps.Users.Current(ctx)
	}
	owner, err := a.deps.Users.ByID(ctx, rec.OwnerID)
	if errors.Is(err, model.ErrNotFound) {
		log.Warn().Str("ownerId", rec.OwnerID).Str("contentId", rec.ID).Msg("content owner not found")
		return nil, nil
	}
	return owner, err
}

// incomingNotInverted resolves the records pointing at this one through
// non-inverted relation edges, keyed by source content type. Dangling edges
// are tolerated: a source record deleted since the edge was written is
// skipped.
func (a *Assembler) incomingNotInverted(ctx context.Context, contentType string, rec *model.Content) (map[string][]*model.Content, error) {
	incoming := map[string][]*model.Content{}
	if rec.IsNew() {
		return incoming, nil
	}
	edges, err := a.deps.Source.Incoming(ctx, contentType, rec.ID)
	if err != nil {
		return nil, err
	}
	for _, edge := range edges {
		if edge.Inverted {
			continue
		}
		if a.deps.SkipSelfRelations && edge.FromContentType == contentType {
			continue
		}
		source, err := a.deps.Source.GetByID(ctx, edge.FromContentType, edge.FromID)
		if errors.Is(err, model.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		incoming[edge.FromContentType] = append(incoming[edge.FromContentType], source)
	}
	return incoming, nil
}
