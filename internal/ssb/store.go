package ssb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jask/mmmmm/internal/database"
)

// Store persists feeds.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Append adds c as the next message of author.
func (s *Store) Append(ctx context.Context, author FeedID, c Content, at time.Time) (Msg, error) {
	if err := c.Validate(); err != nil {
		return Msg{}, err
	}
	var m Msg
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var last sql.NullInt64
		if err := tx.QueryRowContext(ctx, `SELECT MAX(sequence) FROM messages WHERE author = ?`, author).Scan(&last); err != nil {
			return err
		}
		seq := last.Int64 + 1
		m = Msg{
			Key:       MsgKey(author, seq),
			Author:    author,
			Sequence:  seq,
			Timestamp: at.UTC(),
			Content:   c,
		}
		_, err := tx.ExecContext(ctx, `
		INSERT INTO messages(key, author, sequence, ts, type, text)
		VALUES (?, ?, ?, ?, ?, ?)
		`, m.Key, m.Author, m.Sequence, m.Timestamp.UnixMilli(), c.Type, c.Text)
		return err
	})
	if err != nil {
		return Msg{}, err
	}
	return m, nil
}

// Recent returns the newest limit messages, oldest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Msg, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT key, author, sequence, ts, type, text FROM (
		SELECT * FROM messages ORDER BY ts DESC, sequence DESC LIMIT ?
	) ORDER BY ts ASC, sequence ASC
	`, limit)
	if err != nil {
		return nil, err
	}
	return scanMsgs(rows)
}

// ByAuthor returns the feed of author in sequence order.
func (s *Store) ByAuthor(ctx context.Context, author FeedID) ([]Msg, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT key, author, sequence, ts, type, text
	FROM messages WHERE author = ? ORDER BY sequence ASC
	`, author)
	if err != nil {
		return nil, err
	}
	return scanMsgs(rows)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n)
	return n, err
}

func scanMsgs(rows *sql.Rows) ([]Msg, error) {
	defer rows.Close()
	var out []Msg
	for rows.Next() {
		var m Msg
		var ts int64
		if err := rows.Scan(&m.Key, &m.Author, &m.Sequence, &ts, &m.Content.Type, &m.Content.Text); err != nil {
			return nil, err
		}
		m.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
