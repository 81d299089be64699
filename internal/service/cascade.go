package service

import (
	"context"
	"fmt"
	"time"

	"go-workspace-service/internal/model"
)

// The cascade engine walks a subtree strictly level by level: apply the
// level's transform as one batch, fetch every node whose parent is in the
// level, stop when that fetch comes back empty. Recursion depth never
// exceeds tree depth and no transaction spans more than one level, so a
// failure mid-walk leaves lower levels untouched. That partial state is an
// accepted property of the store, not something the engine compensates for.

// propagatePaths recomputes path/pathNames for every descendant of the
// frontier nodes, whose own fields must already be up to date. Documents are
// leaves: they get their fields rewritten when discovered as children and
// contribute nothing to the next frontier.
func (s *WorkspaceService) propagatePaths(ctx context.Context, frontier []model.Node) error {
	for len(frontier) > 0 {
		children, err := s.nodes.FindByParentIDs(ctx, nodeIDs(frontier))
		if err != nil {
			return fmt.Errorf("expand frontier: %w", err)
		}
		if len(children) == 0 {
			return nil
		}

		parents := make(map[string]model.Node, len(frontier))
		for _, parent := range frontier {
			parents[parent.ID] = parent
		}

		for i := range children {
			parent, ok := parents[children[i].ParentID]
			if !ok {
				continue
			}
			children[i].Path = parent.ChildPath()
			children[i].PathNames = parent.ChildPathNames()
		}

		if err := s.nodes.UpdateMany(ctx, children); err != nil {
			return fmt.Errorf("write level: %w", err)
		}

		frontier = children
	}
	return nil
}

// cascadeDelete moves root and every descendant from the node store into the
// trash store, one level per batch. Only root is flagged as deleted
// directly; that flag is what the trash listing shows.
func (s *WorkspaceService) cascadeDelete(ctx context.Context, root model.Node) error {
	frontier := []model.Node{root}
	deletedDirectly := true

	for len(frontier) > 0 {
		now := time.Now().UTC()
		entries := make([]model.TrashEntry, len(frontier))
		for i, node := range frontier {
			entries[i] = model.TrashEntry{
				ID:                node.ID,
				Node:              node,
				IsDeletedDirectly: deletedDirectly,
				DeletedAt:         now,
			}
		}

		ids := nodeIDs(frontier)
		if err := s.nodes.DeleteMany(ctx, ids); err != nil {
			return fmt.Errorf("remove level from node store: %w", err)
		}
		if err := s.trash.InsertMany(ctx, entries); err != nil {
			return fmt.Errorf("write level to trash: %w", err)
		}

		children, err := s.nodes.FindByParentIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("expand frontier: %w", err)
		}

		frontier = children
		deletedDirectly = false
	}
	return nil
}

// cascadeRestore is the inverse of cascadeDelete: each level's snapshots
// become live nodes again and leave the trash store, following the parent
// chain recorded in the snapshots.
func (s *WorkspaceService) cascadeRestore(ctx context.Context, root model.TrashEntry) error {
	frontier := []model.TrashEntry{root}

	for len(frontier) > 0 {
		ids := entryIDs(frontier)

		children, err := s.trash.FindByParentIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("expand trash frontier: %w", err)
		}

		nodes := make([]model.Node, len(frontier))
		for i, entry := range frontier {
			nodes[i] = entry.Node
		}

		if err := s.nodes.InsertMany(ctx, nodes); err != nil {
			return fmt.Errorf("restore level to node store: %w", err)
		}
		if err := s.trash.DeleteMany(ctx, ids); err != nil {
			return fmt.Errorf("remove level from trash: %w", err)
		}

		frontier = children
	}
	return nil
}

// cascadePurge erases a trashed subtree for good.
func (s *WorkspaceService) cascadePurge(ctx context.Context, root model.TrashEntry) error {
	frontier := []model.TrashEntry{root}

	for len(frontier) > 0 {
		ids := entryIDs(frontier)

		children, err := s.trash.FindByParentIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("expand trash frontier: %w", err)
		}

		if err := s.trash.DeleteMany(ctx, ids); err != nil {
			return fmt.Errorf("purge level: %w", err)
		}

		frontier = children
	}
	return nil
}

// cascadeShare bulk-writes the ACL onto each level of the subtree rooted at
// rootID, the root itself included.
func (s *WorkspaceService) cascadeShare(ctx context.Context, rootID string, isPublic bool, allowedUsers []string, allowedEmails []string) error {
	ids := []string{rootID}

	for len(ids) > 0 {
		if err := s.nodes.UpdateACL(ctx, ids, isPublic, allowedUsers, allowedEmails); err != nil {
			return fmt.Errorf("write level acl: %w", err)
		}

		children, err := s.nodes.FindByParentIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("expand frontier: %w", err)
		}

		ids = nodeIDs(children)
	}
	return nil
}

func nodeIDs(nodes []model.Node) []string {
	ids := make([]string, len(nodes))
	for i, node := range nodes {
		ids[i] = node.ID
	}
	return ids
}

func entryIDs(entries []model.TrashEntry) []string {
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	return ids
}
