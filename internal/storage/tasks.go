package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// LoadTasks returns the tasks visible under topic, ordered by id. Favourites
// shows favourite tasks from every topic, Default shows everything, and any
// other topic shows its own tasks.
func (s *Store) LoadTasks(ctx context.Context, topic Topic) ([]Task, error) {
	c, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	query := `SELECT ` + taskColumns + ` FROM task`
	var args []any
	switch topic.Kind {
	case KindFavourites:
		query += ` WHERE favourite = 1`
	case KindDefault:
	default:
		query += ` WHERE topic_id = ?`
		args = append(args, topic.ID)
	}
	query += ` ORDER BY id ASC;`

	rows, err := c.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryErr("load tasks", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, queryErr("load tasks", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("load tasks", err)
	}
	return tasks, nil
}

// AddTask inserts an open, non-favourite task under topicID.
func (s *Store) AddTask(ctx context.Context, topicID int64, name, description string) (Task, error) {
	c, err := s.conn(ctx)
	if err != nil {
		return Task{}, err
	}
	defer c.Close()

	now := s.timestamp()
	res, err := c.ExecContext(ctx,
		`INSERT INTO task (topic_id, name, description, completed, favourite, created_at, updated_at)
		 VALUES (?, ?, ?, 0, 0, ?, ?);`,
		topicID, name, description, now, now,
	)
	if err != nil {
		return Task{}, queryErr("add task", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, queryErr("add task", err)
	}
	t, err := getTask(ctx, c, id)
	if err != nil {
		return Task{}, queryErr("add task", err)
	}
	return t, nil
}

// UpdateTask writes the non-nil fields of u and refreshes updated_at.
func (s *Store) UpdateTask(ctx context.Context, id int64, u TaskUpdate) (Task, error) {
	c, err := s.conn(ctx)
	if err != nil {
		return Task{}, err
	}
	defer c.Close()

	sets := []string{}
	args := []any{}
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*u.Completed))
	}
	if u.Favourite != nil {
		sets = append(sets, "favourite = ?")
		args = append(args, boolToInt(*u.Favourite))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.timestamp(), id)

	res, err := c.ExecContext(ctx, `UPDATE task SET `+strings.Join(sets, ", ")+` WHERE id = ?;`, args...)
	if err != nil {
		return Task{}, queryErr("update task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Task{}, queryErr("update task", err)
	}
	if n == 0 {
		return Task{}, queryErr("update task", ErrNotFound)
	}
	t, err := getTask(ctx, c, id)
	if err != nil {
		return Task{}, queryErr("update task", err)
	}
	return t, nil
}

// ToggleTaskCompletion flips the completed flag of a task.
func (s *Store) ToggleTaskCompletion(ctx context.Context, id int64) (Task, error) {
	return s.toggle(ctx, id, "completed", "toggle task completion")
}

// ToggleTaskFavourite flips the favourite flag of a task.
func (s *Store) ToggleTaskFavourite(ctx context.Context, id int64) (Task, error) {
	return s.toggle(ctx, id, "favourite", "toggle task favourite")
}

// toggle reads, flips and writes one boolean column inside a transaction.
// column is always one of the two literals above.
func (s *Store) toggle(ctx context.Context, id int64, column, op string) (Task, error) {
	c, err := s.conn(ctx)
	if err != nil {
		return Task{}, err
	}
	defer c.Close()

	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return Task{}, queryErr(op, err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx, `SELECT `+column+` FROM task WHERE id = ?;`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, queryErr(op, ErrNotFound)
	}
	if err != nil {
		return Task{}, queryErr(op, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE task SET `+column+` = ?, updated_at = ? WHERE id = ?;`,
		boolToInt(current != 1), s.timestamp(), id,
	); err != nil {
		return Task{}, queryErr(op, err)
	}
	t, err := getTask(ctx, tx, id)
	if err != nil {
		return Task{}, queryErr(op, err)
	}
	if err := tx.Commit(); err != nil {
		return Task{}, queryErr(op, err)
	}
	return t, nil
}

// DeleteTask removes a task and reports the number of rows deleted.
func (s *Store) DeleteTask(ctx context.Context, id int64) (int64, error) {
	c, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer c.Close()

	res, err := c.ExecContext(ctx, `DELETE FROM task WHERE id = ?;`, id)
	if err != nil {
		return 0, queryErr("delete task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, queryErr("delete task", err)
	}
	return n, nil
}

func getTask(ctx context.Context, q queryRower, id int64) (Task, error) {
	row := q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM task WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}
