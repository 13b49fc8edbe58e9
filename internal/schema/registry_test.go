package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foldcms/fold/internal/model"
)

const contentTypesYAML = `
pages:
  name: Pages
  singular_name: Page
  groups: [content, media]
  fields:
    title:
      type: text
      group: content
    teaser:
      type: textarea
      group: content
    image:
      type: image
      group: media
      uploadable: true
    body:
      type: html
  relations:
    entries:
      label: Entries
      multiple: true
  taxonomy: [tags]
  templates: [page.html, wide.html]
entries:
  name: Entries
  fields:
    title:
      type: text
`

const taxonomyYAML = `
tags:
  label: Tags
  behaves_like: tags
categories:
  label: Categories
  behaves_like: grouping
  group: sorting
`

func TestParsePreservesOrderAndDefaults(t *testing.T) {
	reg, err := Parse([]byte(contentTypesYAML), []byte(taxonomyYAML))
	require.NoError(t, err)

	cts := reg.ContentTypes()
	require.Len(t, cts, 2)
	assert.Equal(t, "pages", cts[0].Key)
	assert.Equal(t, "entries", cts[1].Key)

	pages := cts[0]
	assert.Equal(t, "pages", pages.Slug)
	assert.True(t, pages.ShowTabs)
	assert.Equal(t, []string{"title", "teaser", "image", "body"}, pages.FieldOrder)
	assert.Equal(t, "ungrouped", pages.Fields["body"].Group, "missing group defaults to ungrouped")
	assert.True(t, pages.Fields["image"].Uploadable)
	assert.Equal(t, []string{"entries"}, pages.RelationOrder)

	entries := cts[1]
	assert.Nil(t, entries.Groups)
	assert.Empty(t, entries.Taxonomy)
}

func TestParseTaxonomies(t *testing.T) {
	reg, err := Parse([]byte(contentTypesYAML), []byte(taxonomyYAML))
	require.NoError(t, err)

	tax := reg.Taxonomies()
	require.Contains(t, tax, "tags")
	assert.Equal(t, "tags", tax["tags"].Key)
	assert.Equal(t, "sorting", tax["categories"].Group)
}

func TestContentTypeNotFound(t *testing.T) {
	reg, err := Parse([]byte(contentTypesYAML), []byte(taxonomyYAML))
	require.NoError(t, err)

	_, err = reg.ContentType("missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestParseRejectsUndeclaredFieldGroup(t *testing.T) {
	bad := `
pages:
  groups: [content]
  fields:
    title:
      type: text
      group: nosuchgroup
`
	_, err := Parse([]byte(bad), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestParseRejectsUnknownTaxonomy(t *testing.T) {
	bad := `
pages:
  fields:
    title:
      type: text
  taxonomy: [nosuchtaxonomy]
`
	_, err := Parse([]byte(bad), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestShowTabsDisabled(t *testing.T) {
	raw := `
pages:
  show_tabs: false
  fields:
    title:
      type: text
`
	reg, err := Parse([]byte(raw), nil)
	require.NoError(t, err)
	ct, err := reg.ContentType("pages")
	require.NoError(t, err)
	assert.False(t, ct.ShowTabs)
}

func TestFieldTypesRegistry(t *testing.T) {
	reg, err := Parse([]byte(contentTypesYAML), []byte(taxonomyYAML))
	require.NoError(t, err)

	types := reg.FieldTypes()
	assert.Contains(t, types, "text")
	assert.Contains(t, types, "templateselect")
	assert.Contains(t, types, "relationship")
}
