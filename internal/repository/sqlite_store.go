package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"aiinterviewer/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS archived_sessions (
	id   TEXT PRIMARY KEY,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS responses (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	ordinal    INTEGER NOT NULL,
	data       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_responses_session ON responses(session_id, ordinal);
CREATE TABLE IF NOT EXISTS insights (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	turn_index INTEGER NOT NULL,
	text       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_insights_session ON insights(session_id, id);
CREATE TABLE IF NOT EXISTS summaries (
	session_id TEXT PRIMARY KEY,
	data       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS templates (
	id       TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL DEFAULT '',
	built_in INTEGER NOT NULL DEFAULT 0,
	name     TEXT NOT NULL,
	data     TEXT NOT NULL
);
`

// SQLiteStore keeps every record of a single-node deployment in one SQLite file.
// Live sessions carry an expiry and read as missing once it passes.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

var (
	_ ResponseRepo   = (*SQLiteStore)(nil)
	_ SummaryRepo    = (*SQLiteStore)(nil)
	_ TemplateRepo   = (*SQLiteStore)(nil)
	_ SessionArchive = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens path (":memory:" works) and applies the schema
func NewSQLiteStore(path string, sessionTTL time.Duration) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store: empty path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite store: open")
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "sqlite store: %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "sqlite store: migrate")
	}
	return &SQLiteStore{db: db, ttl: sessionTTL, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// PutSession writes the whole session record and refreshes its expiry
func (s *SQLiteStore) PutSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "sqlite store: encode session")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at
	`, session.ID, string(data), s.now().Add(s.ttl).UnixMilli())
	return errors.Wrap(err, "sqlite store: put session")
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var data string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, `SELECT data, expires_at FROM sessions WHERE id = ?`, id).Scan(&data, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "sqlite store: get session")
	}
	if s.now().UnixMilli() >= expiresAt {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		return nil, nil
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, errors.Wrap(err, "sqlite store: decode session")
	}
	return &session, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return errors.Wrap(err, "sqlite store: delete session")
}

func (s *SQLiteStore) ArchiveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "sqlite store: encode archived session")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO archived_sessions (id, data) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, session.ID, string(data))
	return errors.Wrap(err, "sqlite store: archive session")
}

func (s *SQLiteStore) GetArchivedSession(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	found, err := s.getJSON(ctx, `SELECT data FROM archived_sessions WHERE id = ?`, id, &session)
	if err != nil || !found {
		return nil, errors.Wrap(err, "sqlite store: get archived session")
	}
	return &session, nil
}

func (s *SQLiteStore) SaveResponse(ctx context.Context, resp *model.ResponseRecord) error {
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = s.now()
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return errors.Wrap(err, "sqlite store: encode response")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO responses (id, session_id, ordinal, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, resp.ID, resp.SessionID, resp.Ordinal, string(data))
	return errors.Wrap(err, "sqlite store: save response")
}

func (s *SQLiteStore) AppendInsight(ctx context.Context, insight *model.InsightRecord) error {
	if insight.CreatedAt.IsZero() {
		insight.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO insights (session_id, turn_index, text, created_at) VALUES (?, ?, ?, ?)
	`, insight.SessionID, insight.TurnIndex, insight.Text, insight.CreatedAt.UnixMilli())
	return errors.Wrap(err, "sqlite store: append insight")
}

func (s *SQLiteStore) ListResponses(ctx context.Context, sessionID string) ([]*model.ResponseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM responses WHERE session_id = ? ORDER BY ordinal`, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite store: list responses")
	}
	defer rows.Close()

	var out []*model.ResponseRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "sqlite store: scan response")
		}
		var resp model.ResponseRecord
		if err := json.Unmarshal([]byte(data), &resp); err != nil {
			return nil, errors.Wrap(err, "sqlite store: decode response")
		}
		out = append(out, &resp)
	}
	return out, errors.Wrap(rows.Err(), "sqlite store: list responses")
}

func (s *SQLiteStore) ListInsights(ctx context.Context, sessionID string) ([]*model.InsightRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, turn_index, text, created_at FROM insights WHERE session_id = ? ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite store: list insights")
	}
	defer rows.Close()

	var out []*model.InsightRecord
	for rows.Next() {
		var rec model.InsightRecord
		var createdAt int64
		if err := rows.Scan(&rec.SessionID, &rec.TurnIndex, &rec.Text, &createdAt); err != nil {
			return nil, errors.Wrap(err, "sqlite store: scan insight")
		}
		rec.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, &rec)
	}
	return out, errors.Wrap(rows.Err(), "sqlite store: list insights")
}

func (s *SQLiteStore) SaveSummary(ctx context.Context, summary *model.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrap(err, "sqlite store: encode summary")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO summaries (session_id, data) VALUES (?, ?)
		ON CONFLICT(session_id) DO NOTHING
	`, summary.SessionID, string(data))
	return errors.Wrap(err, "sqlite store: save summary")
}

func (s *SQLiteStore) GetSummary(ctx context.Context, sessionID string) (*model.Summary, error) {
	var summary model.Summary
	found, err := s.getJSON(ctx, `SELECT data FROM summaries WHERE session_id = ?`, sessionID, &summary)
	if err != nil || !found {
		return nil, errors.Wrap(err, "sqlite store: get summary")
	}
	return &summary, nil
}

func (s *SQLiteStore) CreateTemplate(ctx context.Context, tpl *model.Template) (string, error) {
	if tpl.ID == "" {
		tpl.ID = uuid.New().String()
	}
	tpl.CreatedAt = s.now()
	tpl.UpdatedAt = tpl.CreatedAt
	data, err := json.Marshal(tpl)
	if err != nil {
		return "", errors.Wrap(err, "sqlite store: encode template")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (id, owner_id, built_in, name, data) VALUES (?, ?, ?, ?, ?)
	`, tpl.ID, tpl.OwnerID, boolInt(tpl.BuiltIn), tpl.Name, string(data))
	if err != nil {
		return "", errors.Wrap(err, "sqlite store: create template")
	}
	return tpl.ID, nil
}

func (s *SQLiteStore) UpsertTemplate(ctx context.Context, tpl *model.Template) error {
	now := s.now()
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = now
	}
	tpl.UpdatedAt = now
	data, err := json.Marshal(tpl)
	if err != nil {
		return errors.Wrap(err, "sqlite store: encode template")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (id, owner_id, built_in, name, data) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			built_in = excluded.built_in,
			name = excluded.name,
			data = excluded.data
	`, tpl.ID, tpl.OwnerID, boolInt(tpl.BuiltIn), tpl.Name, string(data))
	return errors.Wrap(err, "sqlite store: upsert template")
}

func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	var tpl model.Template
	found, err := s.getJSON(ctx, `SELECT data FROM templates WHERE id = ?`, id, &tpl)
	if err != nil || !found {
		return nil, errors.Wrap(err, "sqlite store: get template")
	}
	return &tpl, nil
}

func (s *SQLiteStore) ListTemplates(ctx context.Context, ownerID string) ([]*model.Template, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM templates WHERE built_in = 1 OR owner_id = ? ORDER BY built_in DESC, name
	`, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite store: list templates")
	}
	defer rows.Close()

	var out []*model.Template
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "sqlite store: scan template")
		}
		var tpl model.Template
		if err := json.Unmarshal([]byte(data), &tpl); err != nil {
			return nil, errors.Wrap(err, "sqlite store: decode template")
		}
		out = append(out, &tpl)
	}
	return out, errors.Wrap(rows.Err(), "sqlite store: list templates")
}

func (s *SQLiteStore) getJSON(ctx context.Context, query, id string, dst interface{}) (bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return false, err
	}
	return true, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
