package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finchat/internal/state"
	"finchat/pkg/sqlite"
)

// SQLiteStore persists sessions as JSON blobs in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    state TEXT NOT NULL,
    companies TEXT NOT NULL DEFAULT '',
    turns INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// NewSQLiteStore opens (creating if needed) the session database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*state.ConversationState, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM sessions WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var st state.ConversationState
	if err := json.Unmarshal([]byte(blob), &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &st, nil
}

func (s *SQLiteStore) Save(ctx context.Context, st *state.ConversationState) error {
	if st == nil || st.SessionID == "" {
		return fmt.Errorf("session id is required")
	}

	blob, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", st.SessionID, err)
	}
	companies, _ := json.Marshal(st.Companies)

	_, err = s.db.ExecContext(ctx, `
INSERT INTO sessions (id, state, companies, turns)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    state=excluded.state,
    companies=excluded.companies,
    turns=excluded.turns,
    updated_at=CURRENT_TIMESTAMP
`, st.SessionID, string(blob), string(companies), len(st.Messages))
	if err != nil {
		return fmt.Errorf("save session %s: %w", st.SessionID, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, companies, turns, created_at, updated_at
FROM sessions
ORDER BY updated_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var (
			info      Info
			companies string
			created   time.Time
			updated   time.Time
		)
		if err := rows.Scan(&info.ID, &companies, &info.Turns, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		info.CreatedAt = created
		info.UpdatedAt = updated
		if companies != "" {
			_ = json.Unmarshal([]byte(companies), &info.Companies)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
