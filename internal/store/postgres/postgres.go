// Package postgres provides the Postgres-backed store for shared
// deployments.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/foldcms/fold/internal/model"
	"github.com/foldcms/fold/internal/store"
)

const ddl = `
CREATE TABLE IF NOT EXISTS users (
    user_id      TEXT PRIMARY KEY,
    username     TEXT NOT NULL UNIQUE,
    display_name TEXT,
    email        TEXT,
    roles        JSONB
);
CREATE TABLE IF NOT EXISTS contents (
    id                  TEXT NOT NULL,
    content_type        TEXT NOT NULL,
    slug                TEXT,
    status              TEXT NOT NULL,
    owner_id            TEXT,
    username            TEXT,
    date_created        TIMESTAMPTZ,
    date_changed        TIMESTAMPTZ,
    date_publish        TIMESTAMPTZ,
    date_depublish      TIMESTAMPTZ,
    values_json         JSONB,
    templatefields_json JSONB,
    PRIMARY KEY (content_type, id)
);
CREATE TABLE IF NOT EXISTS relations (
    from_content_type TEXT NOT NULL,
    from_id           TEXT NOT NULL,
    to_content_type   TEXT NOT NULL,
    to_id             TEXT NOT NULL,
    inverted          BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_relations_to   ON relations (to_content_type, to_id);
CREATE INDEX IF NOT EXISTS idx_relations_from ON relations (from_content_type, from_id);
`

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store over an open handle and bootstraps
// the schema.
func NewWithDB(db *sql.DB) (store.Store, error) {
	if _, err := db.Exec(ddl); err != nil {
		return nil, fmt.Errorf("bootstrap postgres schema: %w", err)
	}
	return &pgStore{db: db}, nil
}

type pgStore struct{ db *sql.DB }

func (s *pgStore) Contents() store.Contents   { return &contents{db: s.db} }
func (s *pgStore) Relations() store.Relations { return &relations{db: s.db} }
func (s *pgStore) Users() store.Users         { return &users{db: s.db} }

// HealthPing implements store.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func encodeJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// --- Contents ---

type contents struct{ db *sql.DB }

type templateFieldsRecord struct {
	Template   string                     `json:"template,omitempty"`
	Fields     map[string]*model.FieldDef `json:"fields,omitempty"`
	FieldOrder []string                   `json:"fieldOrder,omitempty"`
	Values     map[string]any             `json:"values,omitempty"`
}

func encodeTemplateFields(tf *model.TemplateFields) (any, error) {
	if tf == nil {
		return nil, nil
	}
	return encodeJSON(templateFieldsRecord{
		Template:   tf.Template,
		Fields:     tf.Fields,
		FieldOrder: tf.FieldOrder,
		Values:     tf.Values,
	})
}

func (c *contents) Create(ctx context.Context, m *model.Content) (*model.Content, error) {
	out := m.Clone()
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	values, err := encodeJSON(out.Values)
	if err != nil {
		return nil, err
	}
	tf, err := encodeTemplateFields(out.TemplateFields)
	if err != nil {
		return nil, err
	}
	_, err = c.db.ExecContext(ctx, `
        INSERT INTO contents (id, content_type, slug, status, owner_id, username,
            date_created, date_changed, date_publish, date_depublish, values_json, templatefields_json)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    `, out.ID, out.ContentType, out.Slug, out.Status, out.OwnerID, out.Username,
		out.DateCreated, out.DateChanged, out.DatePublish, out.DateDepublish, values, tf)
	if err != nil {
		return nil, err
	}
	return out, nil
}

const contentColumns = `id, content_type, slug, status, owner_id, username,
    date_created, date_changed, date_publish, date_depublish, values_json, templatefields_json`

func (c *contents) GetByID(ctx context.Context, contentType, id string) (*model.Content, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE content_type=$1 AND id=$2`, contentType, id)
	out, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %s/%s: %w", contentType, id, model.ErrNotFound)
	}
	return out, err
}

func (c *contents) Update(ctx context.Context, m *model.Content) (*model.Content, error) {
	values, err := encodeJSON(m.Values)
	if err != nil {
		return nil, err
	}
	tf, err := encodeTemplateFields(m.TemplateFields)
	if err != nil {
		return nil, err
	}
	res, err := c.db.ExecContext(ctx, `
        UPDATE contents SET slug=$1, status=$2, owner_id=$3, username=$4,
            date_created=$5, date_changed=$6, date_publish=$7, date_depublish=$8,
            values_json=$9, templatefields_json=$10
        WHERE content_type=$11 AND id=$12
    `, m.Slug, m.Status, m.OwnerID, m.Username,
		m.DateCreated, m.DateChanged, m.DatePublish, m.DateDepublish,
		values, tf, m.ContentType, m.ID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("content %s/%s: %w", m.ContentType, m.ID, model.ErrNotFound)
	}
	return m.Clone(), nil
}

func (c *contents) List(ctx context.Context, contentType string, limit int) ([]*model.Content, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE content_type=$1 ORDER BY date_created DESC, id LIMIT $2`,
		contentType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Content
	for rows.Next() {
		rec, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (c *contents) Delete(ctx context.Context, contentType, id string) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM contents WHERE content_type=$1 AND id=$2`, contentType, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("content %s/%s: %w", contentType, id, model.ErrNotFound)
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanContent(row rowScanner) (*model.Content, error) {
	var (
		out                          model.Content
		slugCol, ownerID, username   sql.NullString
		created, changed, pub, depub *time.Time
		valuesJSON, tfJSON           []byte
	)
	if err := row.Scan(&out.ID, &out.ContentType, &slugCol, &out.Status, &ownerID, &username,
		&created, &changed, &pub, &depub, &valuesJSON, &tfJSON); err != nil {
		return nil, err
	}
	out.Slug = slugCol.String
	out.OwnerID = ownerID.String
	out.Username = username.String
	out.DateCreated = created
	out.DateChanged = changed
	out.DatePublish = pub
	out.DateDepublish = depub

	if len(valuesJSON) > 0 {
		if err := json.Unmarshal(valuesJSON, &out.Values); err != nil {
			return nil, err
		}
	}
	if len(tfJSON) > 0 {
		var tf templateFieldsRecord
		if err := json.Unmarshal(tfJSON, &tf); err != nil {
			return nil, err
		}
		out.TemplateFields = &model.TemplateFields{
			Template:   tf.Template,
			Fields:     tf.Fields,
			FieldOrder: tf.FieldOrder,
			Values:     tf.Values,
		}
	}
	return &out, nil
}

// --- Relations ---

type relations struct{ db *sql.DB }

func (r *relations) Add(ctx context.Context, rel *model.Relation) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO relations (from_content_type, from_id, to_content_type, to_id, inverted)
        VALUES ($1,$2,$3,$4,$5)
    `, rel.FromContentType, rel.FromID, rel.ToContentType, rel.ToID, rel.Inverted)
	return err
}

func (r *relations) Replace(ctx context.Context, contentType, id string, edges []*model.Relation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM relations WHERE from_content_type=$1 AND from_id=$2`, contentType, id); err != nil {
		return err
	}
	for _, rel := range edges {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO relations (from_content_type, from_id, to_content_type, to_id, inverted)
            VALUES ($1,$2,$3,$4,$5)
        `, contentType, id, rel.ToContentType, rel.ToID, rel.Inverted); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *relations) Incoming(ctx context.Context, contentType, id string) ([]*model.Relation, error) {
	return r.query(ctx,
		`SELECT from_content_type, from_id, to_content_type, to_id, inverted
         FROM relations WHERE to_content_type=$1 AND to_id=$2`, contentType, id)
}

func (r *relations) Outgoing(ctx context.Context, contentType, id string) ([]*model.Relation, error) {
	return r.query(ctx,
		`SELECT from_content_type, from_id, to_content_type, to_id, inverted
         FROM relations WHERE from_content_type=$1 AND from_id=$2`, contentType, id)
}

func (r *relations) query(ctx context.Context, q, contentType, id string) ([]*model.Relation, error) {
	rows, err := r.db.QueryContext(ctx, q, contentType, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Relation
	for rows.Next() {
		var rel model.Relation
		if err := rows.Scan(&rel.FromContentType, &rel.FromID, &rel.ToContentType, &rel.ToID, &rel.Inverted); err != nil {
			return nil, err
		}
		out = append(out, &rel)
	}
	return out, rows.Err()
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	out := *m
	if out.UserID == "" {
		out.UserID = uuid.New().String()
	}
	roles, err := encodeJSON(out.Roles)
	if err != nil {
		return nil, err
	}
	_, err = u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, username, display_name, email, roles)
        VALUES ($1,$2,$3,$4,$5)
    `, out.UserID, out.Username, out.DisplayName, out.Email, roles)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx,
		`SELECT user_id, username, display_name, email, roles FROM users WHERE user_id=$1`, userID)
	out, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
	}
	return out, err
}

func (u *users) List(ctx context.Context) ([]*model.User, error) {
	rows, err := u.db.QueryContext(ctx,
		`SELECT user_id, username, display_name, email, roles FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		usr, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, usr)
	}
	return out, rows.Err()
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		out                model.User
		displayName, email sql.NullString
		roles              []byte
	)
	if err := row.Scan(&out.UserID, &out.Username, &displayName, &email, &roles); err != nil {
		return nil, err
	}
	out.DisplayName = displayName.String
	out.Email = email.String
	if len(roles) > 0 {
		if err := json.Unmarshal(roles, &out.Roles); err != nil {
			return nil, err
		}
	}
	return &out, nil
}
