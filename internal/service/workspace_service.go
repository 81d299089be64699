package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-workspace-service/internal/identity"
	"go-workspace-service/internal/model"
	"go-workspace-service/internal/repository"
	"go-workspace-service/internal/storage"
)

// WorkspaceService owns every mutation and query of the workspace tree.
// All operations are synchronous: a cascade runs to completion (or fails
// partway) within the calling request.
type WorkspaceService struct {
	nodes      repository.NodeStore
	trash      repository.TrashStore
	objects    storage.ObjectStorage
	identities identity.Resolver
}

func NewWorkspaceService(nodes repository.NodeStore, trash repository.TrashStore, objects storage.ObjectStorage, identities identity.Resolver) *WorkspaceService {
	return &WorkspaceService{nodes: nodes, trash: trash, objects: objects, identities: identities}
}

// resolveNode loads a node and authorizes requesterID against it. Every
// operation that addresses a node by id goes through here.
func (s *WorkspaceService) resolveNode(ctx context.Context, id string, requesterID string, isReadAction bool) (model.Node, error) {
	node, err := s.nodes.Get(ctx, id)
	if err != nil {
		return model.Node{}, err
	}

	if err := authorize(node, requesterID, isReadAction); err != nil {
		return model.Node{}, err
	}
	return node, nil
}

// CreateWorkspace creates a root folder. Roots hang off the "~" sentinel and
// need no parent lookup.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, name string, ownerID string) (model.Node, error) {
	workspace := model.Node{
		ID:            uuid.NewString(),
		Name:          name,
		OwnerID:       ownerID,
		ParentID:      model.RootParentID,
		Path:          model.RootParentID,
		PathNames:     model.RootParentID,
		Kind:          model.KindFolder,
		UploadedAt:    time.Now().UTC(),
		AllowedUsers:  []string{},
		AllowedEmails: []string{},
		Tags:          []string{},
	}

	if err := s.nodes.Insert(ctx, workspace); err != nil {
		return model.Node{}, err
	}
	return workspace, nil
}

// CreateDirectory creates a subfolder. The new folder inherits the parent's
// owner, so a folder tree has a single owner throughout.
func (s *WorkspaceService) CreateDirectory(ctx context.Context, parentID string, name string, requesterID string) (model.Node, error) {
	parent, err := s.resolveNode(ctx, parentID, requesterID, false)
	if err != nil {
		return model.Node{}, err
	}
	if !parent.IsFolder() {
		return model.Node{}, fmt.Errorf("%w: directories can only be created inside folders", model.ErrInvalidOperation)
	}

	directory := model.Node{
		ID:            uuid.NewString(),
		Name:          name,
		OwnerID:       parent.OwnerID,
		ParentID:      parent.ID,
		Path:          parent.ChildPath(),
		PathNames:     parent.ChildPathNames(),
		Kind:          model.KindFolder,
		UploadedAt:    time.Now().UTC(),
		AllowedUsers:  []string{},
		AllowedEmails: []string{},
		Tags:          []string{},
	}

	if err := s.nodes.Insert(ctx, directory); err != nil {
		return model.Node{}, err
	}
	return directory, nil
}

// CreateDocument registers an uploaded object as a document node. The node
// id is the object key issued by IssueUploadURL.
func (s *WorkspaceService) CreateDocument(ctx context.Context, parentID string, req model.CreateDocumentRequest, requesterID string) (model.Node, error) {
	if strings.TrimSpace(req.ID) == "" {
		return model.Node{}, fmt.Errorf("%w: document id is required", model.ErrInvalidInput)
	}

	parent, err := s.resolveNode(ctx, parentID, requesterID, false)
	if err != nil {
		return model.Node{}, err
	}
	if !parent.IsFolder() {
		return model.Node{}, fmt.Errorf("%w: documents can only be created inside folders", model.ErrInvalidOperation)
	}

	document := model.Node{
		ID:            req.ID,
		Name:          req.Name,
		OwnerID:       requesterID,
		ParentID:      parent.ID,
		Path:          parent.ChildPath(),
		PathNames:     parent.ChildPathNames(),
		Kind:          model.KindFromExtension(req.Extension),
		Extension:     req.Extension,
		StorageRef:    req.URL,
		Size:          req.Size,
		UploadedAt:    time.Now().UTC(),
		AllowedUsers:  []string{},
		AllowedEmails: []string{},
		Tags:          []string{},
	}

	if err := s.nodes.Insert(ctx, document); err != nil {
		return model.Node{}, err
	}
	return document, nil
}

// ListWorkspaces returns one page of ownerID's root workspaces wrapped in a
// synthetic "My Workspaces" folder.
func (s *WorkspaceService) ListWorkspaces(ctx context.Context, ownerID string, params model.SearchParams) (model.FolderPage, error) {
	slice, err := s.Search(ctx, ownerID, model.RootParentID, params)
	if err != nil {
		return model.FolderPage{}, err
	}

	return model.FolderPage{
		Name:      "My Workspaces",
		Path:      model.RootParentID,
		PathNames: model.RootParentID,
		Files:     slice.Items,
		HasNext:   slice.HasNext,
		IsOwner:   true,
	}, nil
}

// ListChildren returns one page of a folder's children. Requires read access
// to the folder; the children themselves are not filtered further, matching
// the subtree-wide ACL the share cascade maintains.
func (s *WorkspaceService) ListChildren(ctx context.Context, parentID string, requesterID string, params model.SearchParams) (model.FolderPage, error) {
	folder, err := s.resolveNode(ctx, parentID, requesterID, true)
	if err != nil {
		return model.FolderPage{}, err
	}
	if !folder.IsFolder() {
		return model.FolderPage{}, fmt.Errorf("%w: only folders have children", model.ErrInvalidOperation)
	}

	slice, err := s.Search(ctx, "", parentID, params)
	if err != nil {
		return model.FolderPage{}, err
	}

	return model.FolderPage{
		Name:      folder.Name,
		Path:      folder.Path,
		PathNames: folder.PathNames,
		Files:     slice.Items,
		HasNext:   slice.HasNext,
		IsOwner:   folder.IsOwnedBy(requesterID),
	}, nil
}

// GetTrash lists the entries ownerID deleted directly. Cascaded descendants
// stay hidden; they come back with their subtree root on restore.
func (s *WorkspaceService) GetTrash(ctx context.Context, ownerID string) ([]model.TrashEntry, error) {
	return s.trash.ListDeletedDirectly(ctx, ownerID)
}

// IsOwner reports whether requesterID could write the node. Any failure,
// lookup included, is folded into false.
func (s *WorkspaceService) IsOwner(ctx context.Context, id string, requesterID string) bool {
	_, err := s.resolveNode(ctx, id, requesterID, false)
	return err == nil
}

// Rename changes a node's display name. Renaming a folder triggers the path
// cascade so every descendant's pathNames picks up the new name.
func (s *WorkspaceService) Rename(ctx context.Context, id string, name string, requesterID string) error {
	node, err := s.resolveNode(ctx, id, requesterID, false)
	if err != nil {
		return err
	}

	node.Name = name
	if err := s.nodes.Update(ctx, node); err != nil {
		return err
	}

	if node.IsFolder() {
		return s.propagatePaths(ctx, []model.Node{node})
	}
	return nil
}

// Move reparents a node under newParentID and rewrites its own path chain,
// then cascades the new chain to any descendants.
func (s *WorkspaceService) Move(ctx context.Context, id string, newParentID string, requesterID string) error {
	node, err := s.resolveNode(ctx, id, requesterID, false)
	if err != nil {
		return err
	}

	destination, err := s.resolveNode(ctx, newParentID, requesterID, false)
	if err != nil {
		return err
	}
	if !destination.IsFolder() {
		return fmt.Errorf("%w: move target must be a folder", model.ErrInvalidOperation)
	}

	// A destination inside the moved subtree would create a parent-link
	// cycle, and the path cascade terminates only on acyclic parent links.
	// The materialized id chain makes this one string check.
	if destination.ID == node.ID || strings.Contains(destination.Path+"/", "/"+node.ID+"/") {
		return fmt.Errorf("%w: cannot move a folder into its own subtree", model.ErrInvalidOperation)
	}

	node.ParentID = destination.ID
	node.Path = destination.ChildPath()
	node.PathNames = destination.ChildPathNames()

	if err := s.nodes.Update(ctx, node); err != nil {
		return err
	}

	if node.IsFolder() {
		return s.propagatePaths(ctx, []model.Node{node})
	}
	return nil
}

// UpdateTags replaces a node's tag list. No cascade.
func (s *WorkspaceService) UpdateTags(ctx context.Context, id string, tags []string, requesterID string) error {
	if len(tags) > model.MaxTags {
		return fmt.Errorf("%w: at most %d tags are allowed", model.ErrInvalidInput, model.MaxTags)
	}

	node, err := s.resolveNode(ctx, id, requesterID, false)
	if err != nil {
		return err
	}

	node.Tags = tags
	return s.nodes.Update(ctx, node)
}

// UpdateStar flips a node's starred flag. No cascade.
func (s *WorkspaceService) UpdateStar(ctx context.Context, id string, starred bool, requesterID string) error {
	node, err := s.resolveNode(ctx, id, requesterID, false)
	if err != nil {
		return err
	}

	node.IsStarred = starred
	return s.nodes.Update(ctx, node)
}

// Share writes a new ACL onto the node. Emails are resolved to user ids
// first; ids are what authorization checks, emails are kept for display.
// Folders cascade the ACL over the whole subtree; documents are updated in
// place, skipping the pointless children lookup.
func (s *WorkspaceService) Share(ctx context.Context, id string, req model.ShareRequest, requesterID string) error {
	node, err := s.resolveNode(ctx, id, requesterID, false)
	if err != nil {
		return err
	}

	allowedIDs, err := s.identities.ResolveIDs(ctx, req.AllowedUsers)
	if err != nil {
		return fmt.Errorf("resolve user emails: %w", err)
	}

	if node.IsFolder() {
		return s.cascadeShare(ctx, node.ID, req.IsPublic, allowedIDs, req.AllowedUsers)
	}

	node.IsPublic = req.IsPublic
	node.AllowedUsers = allowedIDs
	node.AllowedEmails = req.AllowedUsers
	return s.nodes.Update(ctx, node)
}

// Delete soft-deletes a node and its whole subtree into the trash store.
func (s *WorkspaceService) Delete(ctx context.Context, id string, requesterID string) error {
	node, err := s.resolveNode(ctx, id, requesterID, false)
	if err != nil {
		return err
	}

	return s.cascadeDelete(ctx, node)
}

// Restore brings a trashed subtree back. The snapshot's parent must still be
// live (roots trivially satisfy this); otherwise nothing is touched.
func (s *WorkspaceService) Restore(ctx context.Context, id string, requesterID string) error {
	entry, err := s.trash.Get(ctx, id)
	if err != nil {
		return err
	}

	if entry.Node.ParentID != model.RootParentID {
		parentExists, err := s.nodes.Exists(ctx, entry.Node.ParentID)
		if err != nil {
			return err
		}
		if !parentExists {
			return model.ErrParentNotExist
		}
	}

	if err := authorize(entry.Node, requesterID, false); err != nil {
		return err
	}

	return s.cascadeRestore(ctx, entry)
}

// DeletePermanent erases a trashed subtree for good. Documents skip the
// children lookup.
func (s *WorkspaceService) DeletePermanent(ctx context.Context, id string, requesterID string) error {
	entry, err := s.trash.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := authorize(entry.Node, requesterID, false); err != nil {
		return err
	}

	if entry.Node.IsFolder() {
		return s.cascadePurge(ctx, entry)
	}
	return s.trash.DeleteMany(ctx, []string{entry.ID})
}

// Download returns a presigned URL for a document's object.
func (s *WorkspaceService) Download(ctx context.Context, id string, requesterID string) (model.DownloadInfo, error) {
	node, err := s.resolveNode(ctx, id, requesterID, true)
	if err != nil {
		return model.DownloadInfo{}, err
	}
	if node.IsFolder() {
		return model.DownloadInfo{}, fmt.Errorf("%w: only documents can be downloaded", model.ErrInvalidOperation)
	}

	url, err := s.objects.IssueGetURL(ctx, node.ID)
	if err != nil {
		return model.DownloadInfo{}, fmt.Errorf("issue download url: %w", err)
	}

	return model.DownloadInfo{Name: node.Name, Extension: node.Extension, URL: url}, nil
}

// DocumentMetadata returns the stored object's metadata (content type,
// length, user metadata) for a document the requester can read.
func (s *WorkspaceService) DocumentMetadata(ctx context.Context, id string, requesterID string) (map[string]string, error) {
	node, err := s.resolveNode(ctx, id, requesterID, true)
	if err != nil {
		return nil, err
	}
	if node.IsFolder() {
		return nil, fmt.Errorf("%w: folders have no stored object", model.ErrInvalidOperation)
	}

	metadata, err := s.objects.Metadata(ctx, node.ID)
	if err != nil {
		return nil, fmt.Errorf("read object metadata: %w", err)
	}
	return metadata, nil
}

// IssueUploadURL generates a fresh object key and a presigned PUT URL for
// it. The caller uploads, then registers the document with the key as id.
func (s *WorkspaceService) IssueUploadURL(ctx context.Context) (model.UploadTicket, error) {
	key := uuid.NewString()

	url, err := s.objects.IssuePutURL(ctx, key)
	if err != nil {
		return model.UploadTicket{}, fmt.Errorf("issue upload url: %w", err)
	}

	return model.UploadTicket{Key: key, URL: url}, nil
}
