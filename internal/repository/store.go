package repository

import (
	"context"

	"go-workspace-service/internal/model"
)

// NodeStore persists live tree nodes. It offers per-document atomic writes
// and per-level bulk writes only; nothing here spans more than one cascade
// level, which is what makes partial cascades possible (and accepted).
type NodeStore interface {
	Insert(ctx context.Context, node model.Node) error
	InsertMany(ctx context.Context, nodes []model.Node) error
	Get(ctx context.Context, id string) (model.Node, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, node model.Node) error
	UpdateMany(ctx context.Context, nodes []model.Node) error
	DeleteMany(ctx context.Context, ids []string) error

	// FindByParentIDs returns every live node whose parent is in parentIDs.
	// This is the frontier-expansion query of the cascade engine.
	FindByParentIDs(ctx context.Context, parentIDs []string) ([]model.Node, error)

	// UpdateACL bulk-writes the share fields onto every id in ids.
	UpdateACL(ctx context.Context, ids []string, isPublic bool, allowedUsers []string, allowedEmails []string) error

	// FindPage fetches one window of nodes matching the probe in the store's
	// natural order. Callers pass limit = pageSize+1 to detect a next page
	// without a count query.
	FindPage(ctx context.Context, probe model.NodeProbe, offset int, limit int) ([]model.Node, error)
}

// TrashStore persists soft-deleted node snapshots under the original node id.
type TrashStore interface {
	Get(ctx context.Context, id string) (model.TrashEntry, error)
	InsertMany(ctx context.Context, entries []model.TrashEntry) error
	DeleteMany(ctx context.Context, ids []string) error

	// FindByParentIDs returns trashed snapshots whose node's parent is in
	// parentIDs, used by restore and permanent-delete cascades.
	FindByParentIDs(ctx context.Context, parentIDs []string) ([]model.TrashEntry, error)

	// ListDeletedDirectly returns the entries a user explicitly deleted,
	// i.e. what the trash view shows. Cascaded descendants are excluded.
	ListDeletedDirectly(ctx context.Context, ownerID string) ([]model.TrashEntry, error)
}
