package model

// Clone returns a deep copy of the field definition.
func (f *FieldDef) Clone() *FieldDef {
	if f == nil {
		return nil
	}
	out := *f
	return &out
}

func cloneFields(fields map[string]*FieldDef) map[string]*FieldDef {
	if fields == nil {
		return nil
	}
	out := make(map[string]*FieldDef, len(fields))
	for name, f := range fields {
		out[name] = f.Clone()
	}
	return out
}

// Clone returns a deep copy of the content type, so per-request annotations
// never leak into the shared schema configuration.
func (ct *ContentType) Clone() *ContentType {
	if ct == nil {
		return nil
	}
	out := *ct
	out.Groups = append([]string(nil), ct.Groups...)
	out.FieldOrder = append([]string(nil), ct.FieldOrder...)
	out.RelationOrder = append([]string(nil), ct.RelationOrder...)
	out.Taxonomy = append([]string(nil), ct.Taxonomy...)
	out.Templates = append([]string(nil), ct.Templates...)
	out.Fields = cloneFields(ct.Fields)
	if ct.Relations != nil {
		out.Relations = make(map[string]*RelationDef, len(ct.Relations))
		for name, r := range ct.Relations {
			c := *r
			out.Relations[name] = &c
		}
	}
	return &out
}

// Clone returns a deep copy of the template fields.
func (tf *TemplateFields) Clone() *TemplateFields {
	if tf == nil {
		return nil
	}
	out := *tf
	out.Fields = cloneFields(tf.Fields)
	out.FieldOrder = append([]string(nil), tf.FieldOrder...)
	if tf.Values != nil {
		out.Values = make(map[string]any, len(tf.Values))
		for k, v := range tf.Values {
			out.Values[k] = v
		}
	}
	return &out
}

// Clone returns a copy of the record. Field values are copied one level
// deep, which is enough to keep duplicate-clearing and annotation from
// touching the caller's instance.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	out := *c
	if c.Values != nil {
		out.Values = make(map[string]any, len(c.Values))
		for k, v := range c.Values {
			out.Values[k] = v
		}
	}
	out.TemplateFields = c.TemplateFields.Clone()
	return &out
}
