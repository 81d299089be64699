package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-workspace-service/internal/model"
)

// TrashRepository stores deleted-node snapshots as JSONB documents. Owner and
// parent ids are denormalized into columns so the trash view and the
// restore/purge cascades stay indexable without unpacking the snapshot.
type TrashRepository struct {
	pool *pgxpool.Pool
}

func NewTrashRepository(pool *pgxpool.Pool) *TrashRepository {
	return &TrashRepository{pool: pool}
}

func (r *TrashRepository) Get(ctx context.Context, id string) (model.TrashEntry, error) {
	var entry model.TrashEntry
	var snapshot []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, node, is_deleted_directly, deleted_at
		 FROM trash_entries WHERE id = $1`, id).
		Scan(&entry.ID, &snapshot, &entry.IsDeletedDirectly, &entry.DeletedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.TrashEntry{}, model.ErrTrashEntryNotFound
	}
	if err != nil {
		return model.TrashEntry{}, fmt.Errorf("get trash entry: %w", err)
	}

	if err := json.Unmarshal(snapshot, &entry.Node); err != nil {
		return model.TrashEntry{}, fmt.Errorf("decode trash snapshot: %w", err)
	}
	return entry, nil
}

// InsertMany writes one delete-cascade level as a single batch.
func (r *TrashRepository) InsertMany(ctx context.Context, entries []model.TrashEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		snapshot, err := json.Marshal(entry.Node)
		if err != nil {
			return fmt.Errorf("encode trash snapshot: %w", err)
		}
		batch.Queue(
			`INSERT INTO trash_entries (id, node, owner_id, parent_id, is_deleted_directly, deleted_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			entry.ID, snapshot, entry.Node.OwnerID, entry.Node.ParentID,
			entry.IsDeletedDirectly, entry.DeletedAt)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert trash entries: %w", err)
	}
	return nil
}

func (r *TrashRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.pool.Exec(ctx, `DELETE FROM trash_entries WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete trash entries: %w", err)
	}
	return nil
}

func (r *TrashRepository) FindByParentIDs(ctx context.Context, parentIDs []string) ([]model.TrashEntry, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, node, is_deleted_directly, deleted_at
		 FROM trash_entries WHERE parent_id = ANY($1)`, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("find trash by parent: %w", err)
	}
	defer rows.Close()

	return collectTrashEntries(rows)
}

func (r *TrashRepository) ListDeletedDirectly(ctx context.Context, ownerID string) ([]model.TrashEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, node, is_deleted_directly, deleted_at
		 FROM trash_entries
		 WHERE owner_id = $1 AND is_deleted_directly
		 ORDER BY deleted_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list trash: %w", err)
	}
	defer rows.Close()

	return collectTrashEntries(rows)
}

func collectTrashEntries(rows pgx.Rows) ([]model.TrashEntry, error) {
	entries := make([]model.TrashEntry, 0)
	for rows.Next() {
		var entry model.TrashEntry
		var snapshot []byte
		if err := rows.Scan(&entry.ID, &snapshot, &entry.IsDeletedDirectly, &entry.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan trash entry: %w", err)
		}
		if err := json.Unmarshal(snapshot, &entry.Node); err != nil {
			return nil, fmt.Errorf("decode trash snapshot: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
