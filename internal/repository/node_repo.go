package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-workspace-service/internal/model"
)

const nodeColumns = `id, name, owner_id, parent_id, path, path_names, kind, extension,
	 storage_ref, uploaded_at, is_public, allowed_users, allowed_emails, tags, is_starred, size`

type NodeRepository struct {
	pool *pgxpool.Pool
}

func NewNodeRepository(pool *pgxpool.Pool) *NodeRepository {
	return &NodeRepository{pool: pool}
}

func (r *NodeRepository) Insert(ctx context.Context, node model.Node) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO nodes (`+nodeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		nodeArgs(node)...)
	if err != nil {
		return fmt.Errorf("insert node: %w", err)
	}
	return nil
}

func (r *NodeRepository) InsertMany(ctx context.Context, nodes []model.Node) error {
	if len(nodes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, node := range nodes {
		batch.Queue(
			`INSERT INTO nodes (`+nodeColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			 ON CONFLICT (id) DO NOTHING`,
			nodeArgs(node)...)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert nodes: %w", err)
	}
	return nil
}

func (r *NodeRepository) Get(ctx context.Context, id string) (model.Node, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = $1`, id)

	node, err := scanNode(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Node{}, model.ErrNodeNotFound
	}
	if err != nil {
		return model.Node{}, fmt.Errorf("get node: %w", err)
	}
	return node, nil
}

func (r *NodeRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM nodes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check node exists: %w", err)
	}
	return exists, nil
}

func (r *NodeRepository) Update(ctx context.Context, node model.Node) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE nodes
		 SET name = $2, owner_id = $3, parent_id = $4, path = $5, path_names = $6,
		     kind = $7, extension = $8, storage_ref = $9, uploaded_at = $10,
		     is_public = $11, allowed_users = $12, allowed_emails = $13,
		     tags = $14, is_starred = $15, size = $16
		 WHERE id = $1`,
		nodeArgs(node)...)
	if err != nil {
		return fmt.Errorf("update node: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNodeNotFound
	}
	return nil
}

// UpdateMany writes one cascade level as a single batch. Each statement is
// atomic on its own; the batch as a whole is not a transaction.
func (r *NodeRepository) UpdateMany(ctx context.Context, nodes []model.Node) error {
	if len(nodes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, node := range nodes {
		batch.Queue(
			`UPDATE nodes
			 SET name = $2, owner_id = $3, parent_id = $4, path = $5, path_names = $6,
			     kind = $7, extension = $8, storage_ref = $9, uploaded_at = $10,
			     is_public = $11, allowed_users = $12, allowed_emails = $13,
			     tags = $14, is_starred = $15, size = $16
			 WHERE id = $1`,
			nodeArgs(node)...)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("update nodes: %w", err)
	}
	return nil
}

func (r *NodeRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.pool.Exec(ctx, `DELETE FROM nodes WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete nodes: %w", err)
	}
	return nil
}

func (r *NodeRepository) FindByParentIDs(ctx context.Context, parentIDs []string) ([]model.Node, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE parent_id = ANY($1)`, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("find nodes by parent: %w", err)
	}
	defer rows.Close()

	return collectNodes(rows)
}

func (r *NodeRepository) UpdateACL(ctx context.Context, ids []string, isPublic bool, allowedUsers []string, allowedEmails []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.pool.Exec(ctx,
		`UPDATE nodes
		 SET is_public = $2, allowed_users = $3, allowed_emails = $4
		 WHERE id = ANY($1)`,
		ids, isPublic, emptyIfNil(allowedUsers), emptyIfNil(allowedEmails))
	if err != nil {
		return fmt.Errorf("update node acl: %w", err)
	}
	return nil
}

// FindPage builds a sparse WHERE clause from only the probe fields that are
// set. No ORDER BY is imposed; the window follows the store's natural order.
func (r *NodeRepository) FindPage(ctx context.Context, probe model.NodeProbe, offset int, limit int) ([]model.Node, error) {
	where := make([]string, 0, 5)
	args := make([]any, 0, 5)
	argIdx := 1

	if probe.Name != nil {
		where = append(where, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", argIdx))
		args = append(args, *probe.Name)
		argIdx++
	}
	if probe.ParentID != nil {
		where = append(where, fmt.Sprintf("parent_id = $%d", argIdx))
		args = append(args, *probe.ParentID)
		argIdx++
	}
	if probe.OwnerID != nil {
		where = append(where, fmt.Sprintf("owner_id = $%d", argIdx))
		args = append(args, *probe.OwnerID)
		argIdx++
	}
	if probe.Kind != nil {
		where = append(where, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, string(*probe.Kind))
		argIdx++
	}
	if probe.IsStarred != nil {
		where = append(where, fmt.Sprintf("is_starred = $%d", argIdx))
		args = append(args, *probe.IsStarred)
		argIdx++
	}

	query := `SELECT ` + nodeColumns + ` FROM nodes`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` OFFSET $%d LIMIT $%d`, argIdx, argIdx+1)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find node page: %w", err)
	}
	defer rows.Close()

	return collectNodes(rows)
}

func nodeArgs(node model.Node) []any {
	return []any{
		node.ID, node.Name, node.OwnerID, node.ParentID, node.Path, node.PathNames,
		string(node.Kind), node.Extension, node.StorageRef, node.UploadedAt,
		node.IsPublic, emptyIfNil(node.AllowedUsers), emptyIfNil(node.AllowedEmails),
		emptyIfNil(node.Tags), node.IsStarred, node.Size,
	}
}

func scanNode(row pgx.Row) (model.Node, error) {
	var node model.Node
	var kind string
	err := row.Scan(
		&node.ID, &node.Name, &node.OwnerID, &node.ParentID, &node.Path, &node.PathNames,
		&kind, &node.Extension, &node.StorageRef, &node.UploadedAt,
		&node.IsPublic, &node.AllowedUsers, &node.AllowedEmails,
		&node.Tags, &node.IsStarred, &node.Size,
	)
	if err != nil {
		return model.Node{}, err
	}
	node.Kind = model.Kind(kind)
	return node, nil
}

func collectNodes(rows pgx.Rows) ([]model.Node, error) {
	nodes := make([]model.Node, 0)
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
