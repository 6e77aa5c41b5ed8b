package storage

import (
	"context"
	"database/sql"
	"errors"
)

// LoadTopics returns every topic ordered by id.
func (s *Store) LoadTopics(ctx context.Context) ([]Topic, error) {
	c, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	rows, err := c.QueryContext(ctx, `SELECT `+topicColumns+` FROM topic ORDER BY id ASC;`)
	if err != nil {
		return nil, queryErr("load topics", err)
	}
	defer rows.Close()

	var topics []Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, queryErr("load topics", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("load topics", err)
	}
	return topics, nil
}

// AddTopic inserts a topic and returns it as stored.
func (s *Store) AddTopic(ctx context.Context, name, description string) (Topic, error) {
	c, err := s.conn(ctx)
	if err != nil {
		return Topic{}, err
	}
	defer c.Close()

	now := s.timestamp()
	res, err := c.ExecContext(ctx,
		`INSERT INTO topic (name, description, created_at, updated_at) VALUES (?, ?, ?, ?);`,
		name, description, now, now,
	)
	if err != nil {
		return Topic{}, queryErr("add topic", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Topic{}, queryErr("add topic", err)
	}
	t, err := getTopic(ctx, c, id)
	if err != nil {
		return Topic{}, queryErr("add topic", err)
	}
	return t, nil
}

// DeleteTopic removes a custom topic along with its tasks and reports how many
// topics were deleted. Built-in topics are left alone and report 0.
func (s *Store) DeleteTopic(ctx context.Context, id int64) (int64, error) {
	c, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer c.Close()

	t, err := getTopic(ctx, c, id)
	if err != nil {
		return 0, queryErr("delete topic", err)
	}
	if t.Kind.Protected() {
		return 0, nil
	}

	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return 0, queryErr("delete topic", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task WHERE topic_id = ?;`, id); err != nil {
		return 0, queryErr("delete topic", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM topic WHERE id = ?;`, id)
	if err != nil {
		return 0, queryErr("delete topic", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, queryErr("delete topic", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, queryErr("delete topic", err)
	}
	return n, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTopic(ctx context.Context, q queryRower, id int64) (Topic, error) {
	row := q.QueryRowContext(ctx, `SELECT `+topicColumns+` FROM topic WHERE id = ?;`, id)
	t, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Topic{}, ErrNotFound
	}
	return t, err
}
