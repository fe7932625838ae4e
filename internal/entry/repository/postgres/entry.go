package postgres

import (
	"context"

	"github.com/google/uuid"

	repo "energy-accounting-bot/internal/entry/repository"
	"energy-accounting-bot/internal/model"
)

// CreateEntry inserts the entry row and one row per task inside a single
// transaction. Nothing becomes visible unless everything commits.
func (r *implRepository) CreateEntry(ctx context.Context, opt repo.CreateEntryOptions) (model.Entry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s: begin: %v", r.dsn("CreateEntry"), err)
		return model.Entry{}, repo.ErrFailedToInsert
	}
	defer tx.Rollback()

	entryID := uuid.NewString()
	const insertEntry = `
		INSERT INTO energy_entries (id, tg_user_id, audit_tg_user_name, tg_group_id, audit_tg_group_name, hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, insertEntry,
		entryID, opt.OwnerID, opt.OwnerDisplayName, opt.GroupID, opt.GroupLabel, opt.Hours, opt.CreatedAt,
	); err != nil {
		r.l.Errorf(ctx, "%s: entry: %v", r.dsn("CreateEntry"), err)
		return model.Entry{}, repo.ErrFailedToInsert
	}

	const insertTask = `INSERT INTO entry_tasks (id, entry_id, position, description) VALUES ($1, $2, $3, $4)`
	for i, task := range opt.Tasks {
		if _, err := tx.ExecContext(ctx, insertTask, uuid.NewString(), entryID, i, task.Description); err != nil {
			r.l.Errorf(ctx, "%s: task: %v", r.dsn("CreateEntry"), err)
			return model.Entry{}, repo.ErrFailedToInsert
		}
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s: commit: %v", r.dsn("CreateEntry"), err)
		return model.Entry{}, repo.ErrFailedToInsert
	}

	return model.Entry{
		ID:               entryID,
		OwnerID:          opt.OwnerID,
		OwnerDisplayName: opt.OwnerDisplayName,
		GroupID:          opt.GroupID,
		GroupLabel:       opt.GroupLabel,
		Hours:            opt.Hours,
		Tasks:            opt.Tasks,
		CreatedAt:        opt.CreatedAt,
	}, nil
}

// ListEntriesSince returns a group's entries created on or after the cutoff,
// with their tasks attached, oldest first.
func (r *implRepository) ListEntriesSince(ctx context.Context, opt repo.ListEntriesSinceOptions) ([]model.Entry, error) {
	const query = `
		SELECT id, tg_user_id, audit_tg_user_name, tg_group_id, audit_tg_group_name, hours, created_at
		FROM energy_entries
		WHERE tg_group_id = $1 AND created_at >= $2
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, opt.GroupID, opt.Since)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListEntriesSince"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var entries []model.Entry
	index := make(map[string]int)
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.OwnerDisplayName, &e.GroupID, &e.GroupLabel, &e.Hours, &e.CreatedAt); err != nil {
			r.l.Errorf(ctx, "%s: scan: %v", r.dsn("ListEntriesSince"), err)
			return nil, repo.ErrFailedToList
		}
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s: rows: %v", r.dsn("ListEntriesSince"), err)
		return nil, repo.ErrFailedToList
	}
	if len(entries) == 0 {
		return nil, nil
	}

	const taskQuery = `
		SELECT t.entry_id, t.description
		FROM entry_tasks t
		JOIN energy_entries e ON e.id = t.entry_id
		WHERE e.tg_group_id = $1 AND e.created_at >= $2
		ORDER BY e.created_at, t.position`

	taskRows, err := r.db.QueryContext(ctx, taskQuery, opt.GroupID, opt.Since)
	if err != nil {
		r.l.Errorf(ctx, "%s: tasks: %v", r.dsn("ListEntriesSince"), err)
		return nil, repo.ErrFailedToList
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var entryID, description string
		if err := taskRows.Scan(&entryID, &description); err != nil {
			r.l.Errorf(ctx, "%s: task scan: %v", r.dsn("ListEntriesSince"), err)
			return nil, repo.ErrFailedToList
		}
		if i, ok := index[entryID]; ok {
			entries[i].Tasks = append(entries[i].Tasks, model.Task{Description: description})
		}
	}
	if err := taskRows.Err(); err != nil {
		r.l.Errorf(ctx, "%s: task rows: %v", r.dsn("ListEntriesSince"), err)
		return nil, repo.ErrFailedToList
	}

	return entries, nil
}
