package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-workspace-service/internal/model"
	"go-workspace-service/internal/repository"
	"go-workspace-service/internal/storage"
)

const ownerID = "owner-1"

type stubResolver struct {
	byEmail map[string]string
}

func (r *stubResolver) ResolveIDs(_ context.Context, emails []string) ([]string, error) {
	ids := make([]string, 0, len(emails))
	for _, email := range emails {
		if id, ok := r.byEmail[email]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fixture struct {
	service *WorkspaceService
	nodes   *repository.MemoryNodeStore
	trash   *repository.MemoryTrashStore
	objects *storage.MockStorage
}

func newFixture() *fixture {
	nodes := repository.NewMemoryNodeStore()
	trash := repository.NewMemoryTrashStore()
	objects := &storage.MockStorage{}
	resolver := &stubResolver{byEmail: map[string]string{
		"ana@example.com": "user-ana",
		"ben@example.com": "user-ben",
	}}

	return &fixture{
		service: NewWorkspaceService(nodes, trash, objects, resolver),
		nodes:   nodes,
		trash:   trash,
		objects: objects,
	}
}

// buildTree creates workspace -> docs -> reports plus a document in each
// folder and returns the three folders.
func buildTree(t *testing.T, f *fixture) (model.Node, model.Node, model.Node) {
	t.Helper()
	ctx := context.Background()

	workspace, err := f.service.CreateWorkspace(ctx, "Projects", ownerID)
	require.NoError(t, err)

	docs, err := f.service.CreateDirectory(ctx, workspace.ID, "Docs", ownerID)
	require.NoError(t, err)

	reports, err := f.service.CreateDirectory(ctx, docs.ID, "Reports", ownerID)
	require.NoError(t, err)

	_, err = f.service.CreateDocument(ctx, docs.ID, model.CreateDocumentRequest{
		ID: "doc-notes", Name: "notes", Extension: "txt",
	}, ownerID)
	require.NoError(t, err)

	_, err = f.service.CreateDocument(ctx, reports.ID, model.CreateDocumentRequest{
		ID: "doc-q1", Name: "q1", Extension: "pdf",
	}, ownerID)
	require.NoError(t, err)

	return workspace, docs, reports
}

func TestCreateWorkspace(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	workspace, err := f.service.CreateWorkspace(ctx, "Projects", ownerID)
	require.NoError(t, err)

	require.Equal(t, model.RootParentID, workspace.ParentID)
	require.Equal(t, model.RootParentID, workspace.Path)
	require.Equal(t, model.RootParentID, workspace.PathNames)
	require.Equal(t, model.KindFolder, workspace.Kind)
	require.Equal(t, ownerID, workspace.OwnerID)
	require.NotEmpty(t, workspace.ID)
}

func TestCreateDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("builds path chain from the parent", func(t *testing.T) {
		f := newFixture()
		workspace, docs, reports := buildTree(t, f)

		require.Equal(t, model.RootParentID+"/"+workspace.ID, docs.Path)
		require.Equal(t, model.RootParentID+"/Projects", docs.PathNames)
		require.Equal(t, docs.Path+"/"+docs.ID, reports.Path)
		require.Equal(t, docs.PathNames+"/Docs", reports.PathNames)
	})

	t.Run("inherits the parent owner", func(t *testing.T) {
		f := newFixture()
		workspace, _, _ := buildTree(t, f)

		child, err := f.service.CreateDirectory(ctx, workspace.ID, "Shared", ownerID)
		require.NoError(t, err)
		require.Equal(t, ownerID, child.OwnerID)
	})

	t.Run("rejects a document parent", func(t *testing.T) {
		f := newFixture()
		buildTree(t, f)

		_, err := f.service.CreateDirectory(ctx, "doc-notes", "Nested", ownerID)
		require.ErrorIs(t, err, model.ErrInvalidOperation)
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		f := newFixture()
		workspace, _, _ := buildTree(t, f)

		_, err := f.service.CreateDirectory(ctx, workspace.ID, "Nested", "stranger")
		require.ErrorIs(t, err, model.ErrAccessDenied)
	})

	t.Run("rejects an anonymous caller", func(t *testing.T) {
		f := newFixture()
		workspace, _, _ := buildTree(t, f)

		_, err := f.service.CreateDirectory(ctx, workspace.ID, "Nested", "")
		require.ErrorIs(t, err, model.ErrUnauthenticated)
	})
}

func TestCreateDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("classifies kind from the extension", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		doc, err := f.service.CreateDocument(ctx, docs.ID, model.CreateDocumentRequest{
			ID: "doc-deck", Name: "deck", Extension: "pptx",
		}, ownerID)
		require.NoError(t, err)
		require.Equal(t, model.KindPresentation, doc.Kind)
		require.Equal(t, docs.ChildPath(), doc.Path)
	})

	t.Run("requires an id", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		_, err := f.service.CreateDocument(ctx, docs.ID, model.CreateDocumentRequest{Name: "deck"}, ownerID)
		require.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestRename(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rewrites descendant path names", func(t *testing.T) {
		f := newFixture()
		workspace, docs, reports := buildTree(t, f)

		require.NoError(t, f.service.Rename(ctx, workspace.ID, "Archive", ownerID))

		updatedDocs, err := f.nodes.Get(ctx, docs.ID)
		require.NoError(t, err)
		require.Equal(t, model.RootParentID+"/Archive", updatedDocs.PathNames)

		updatedReports, err := f.nodes.Get(ctx, reports.ID)
		require.NoError(t, err)
		require.Equal(t, model.RootParentID+"/Archive/Docs", updatedReports.PathNames)

		updatedDoc, err := f.nodes.Get(ctx, "doc-q1")
		require.NoError(t, err)
		require.Equal(t, model.RootParentID+"/Archive/Docs/Reports", updatedDoc.PathNames)
	})

	t.Run("renaming a document touches nothing else", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		require.NoError(t, f.service.Rename(ctx, "doc-notes", "meeting-notes", ownerID))

		doc, err := f.nodes.Get(ctx, "doc-notes")
		require.NoError(t, err)
		require.Equal(t, "meeting-notes", doc.Name)
		require.Equal(t, docs.ChildPath(), doc.Path)
	})
}

func TestMove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rebuilds the subtree path chain under the destination", func(t *testing.T) {
		f := newFixture()
		workspace, docs, reports := buildTree(t, f)

		require.NoError(t, f.service.Move(ctx, reports.ID, workspace.ID, ownerID))

		moved, err := f.nodes.Get(ctx, reports.ID)
		require.NoError(t, err)
		require.Equal(t, workspace.ID, moved.ParentID)
		require.Equal(t, workspace.ChildPath(), moved.Path)
		require.Equal(t, workspace.ChildPathNames(), moved.PathNames)

		doc, err := f.nodes.Get(ctx, "doc-q1")
		require.NoError(t, err)
		require.Equal(t, moved.ChildPath(), doc.Path)
		require.Equal(t, moved.ChildPathNames(), doc.PathNames)

		// Siblings left behind are untouched.
		unchanged, err := f.nodes.Get(ctx, "doc-notes")
		require.NoError(t, err)
		require.Equal(t, docs.ChildPath(), unchanged.Path)
	})

	t.Run("rejects a document destination", func(t *testing.T) {
		f := newFixture()
		_, _, reports := buildTree(t, f)

		err := f.service.Move(ctx, reports.ID, "doc-notes", ownerID)
		require.ErrorIs(t, err, model.ErrInvalidOperation)
	})

	t.Run("rejects a destination inside the moved subtree", func(t *testing.T) {
		f := newFixture()
		_, docs, reports := buildTree(t, f)

		err := f.service.Move(ctx, docs.ID, reports.ID, ownerID)
		require.ErrorIs(t, err, model.ErrInvalidOperation)

		// The rejected move must leave the tree untouched.
		unchanged, err := f.nodes.Get(ctx, docs.ID)
		require.NoError(t, err)
		require.Equal(t, docs.ParentID, unchanged.ParentID)
		require.Equal(t, docs.Path, unchanged.Path)

		child, err := f.nodes.Get(ctx, reports.ID)
		require.NoError(t, err)
		require.Equal(t, reports.Path, child.Path)
	})

	t.Run("rejects itself as destination", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		err := f.service.Move(ctx, docs.ID, docs.ID, ownerID)
		require.ErrorIs(t, err, model.ErrInvalidOperation)
	})

	t.Run("rejects a deep descendant destination", func(t *testing.T) {
		f := newFixture()
		workspace, docs, reports := buildTree(t, f)

		deep, err := f.service.CreateDirectory(ctx, reports.ID, "Q1", ownerID)
		require.NoError(t, err)

		err = f.service.Move(ctx, workspace.ID, deep.ID, ownerID)
		require.ErrorIs(t, err, model.ErrInvalidOperation)

		err = f.service.Move(ctx, docs.ID, deep.ID, ownerID)
		require.ErrorIs(t, err, model.ErrInvalidOperation)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("moves the whole subtree to trash", func(t *testing.T) {
		f := newFixture()
		workspace, docs, _ := buildTree(t, f)

		require.NoError(t, f.service.Delete(ctx, docs.ID, ownerID))

		_, err := f.nodes.Get(ctx, docs.ID)
		require.ErrorIs(t, err, model.ErrNodeNotFound)
		_, err = f.nodes.Get(ctx, "doc-q1")
		require.ErrorIs(t, err, model.ErrNodeNotFound)

		// Workspace itself stays live.
		_, err = f.nodes.Get(ctx, workspace.ID)
		require.NoError(t, err)

		require.Equal(t, 4, f.trash.Len())
	})

	t.Run("only the subtree root is listed in trash", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		require.NoError(t, f.service.Delete(ctx, docs.ID, ownerID))

		listed, err := f.service.GetTrash(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Equal(t, docs.ID, listed[0].ID)
		require.True(t, listed[0].IsDeletedDirectly)
	})

	t.Run("non-owner cannot delete a public node", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		require.NoError(t, f.service.Share(ctx, docs.ID, model.ShareRequest{IsPublic: true}, ownerID))

		err := f.service.Delete(ctx, docs.ID, "stranger")
		require.ErrorIs(t, err, model.ErrAccessDenied)
	})
}

func TestRestore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("brings the whole subtree back", func(t *testing.T) {
		f := newFixture()
		_, docs, reports := buildTree(t, f)

		require.NoError(t, f.service.Delete(ctx, docs.ID, ownerID))
		require.NoError(t, f.service.Restore(ctx, docs.ID, ownerID))

		require.Equal(t, 0, f.trash.Len())

		restored, err := f.nodes.Get(ctx, reports.ID)
		require.NoError(t, err)
		require.Equal(t, docs.ID, restored.ParentID)

		_, err = f.nodes.Get(ctx, "doc-q1")
		require.NoError(t, err)
	})

	t.Run("fails without mutating when the parent is gone", func(t *testing.T) {
		f := newFixture()
		workspace, docs, _ := buildTree(t, f)

		require.NoError(t, f.service.Delete(ctx, docs.ID, ownerID))
		require.NoError(t, f.service.Delete(ctx, workspace.ID, ownerID))

		trashedBefore := f.trash.Len()
		nodesBefore := f.nodes.Len()

		err := f.service.Restore(ctx, docs.ID, ownerID)
		require.ErrorIs(t, err, model.ErrParentNotExist)
		require.Equal(t, trashedBefore, f.trash.Len())
		require.Equal(t, nodesBefore, f.nodes.Len())
	})

	t.Run("a root workspace never needs a live parent", func(t *testing.T) {
		f := newFixture()
		workspace, _, _ := buildTree(t, f)

		require.NoError(t, f.service.Delete(ctx, workspace.ID, ownerID))
		require.NoError(t, f.service.Restore(ctx, workspace.ID, ownerID))

		restored, err := f.nodes.Get(ctx, workspace.ID)
		require.NoError(t, err)
		require.Equal(t, model.RootParentID, restored.ParentID)
	})
}

func TestDeletePermanent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("erases the trashed subtree", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		require.NoError(t, f.service.Delete(ctx, docs.ID, ownerID))
		require.NoError(t, f.service.DeletePermanent(ctx, docs.ID, ownerID))

		require.Equal(t, 0, f.trash.Len())
	})

	t.Run("a single document leaves its siblings trashed", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		require.NoError(t, f.service.Delete(ctx, docs.ID, ownerID))
		trashedBefore := f.trash.Len()

		require.NoError(t, f.service.DeletePermanent(ctx, "doc-notes", ownerID))
		require.Equal(t, trashedBefore-1, f.trash.Len())
	})

	t.Run("unknown entry", func(t *testing.T) {
		f := newFixture()

		err := f.service.DeletePermanent(ctx, "missing", ownerID)
		require.ErrorIs(t, err, model.ErrTrashEntryNotFound)
	})
}

func TestShare(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("cascades the resolved ACL over the subtree", func(t *testing.T) {
		f := newFixture()
		_, docs, reports := buildTree(t, f)

		err := f.service.Share(ctx, docs.ID, model.ShareRequest{
			IsPublic:     false,
			AllowedUsers: []string{"ana@example.com", "ben@example.com"},
		}, ownerID)
		require.NoError(t, err)

		for _, id := range []string{docs.ID, reports.ID, "doc-notes", "doc-q1"} {
			node, err := f.nodes.Get(ctx, id)
			require.NoError(t, err)
			require.Equal(t, []string{"user-ana", "user-ben"}, node.AllowedUsers)
			require.Equal(t, []string{"ana@example.com", "ben@example.com"}, node.AllowedEmails)
			require.False(t, node.IsPublic)
		}
	})

	t.Run("sharing a document is a single update", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		err := f.service.Share(ctx, "doc-notes", model.ShareRequest{IsPublic: true}, ownerID)
		require.NoError(t, err)

		doc, err := f.nodes.Get(ctx, "doc-notes")
		require.NoError(t, err)
		require.True(t, doc.IsPublic)

		folder, err := f.nodes.Get(ctx, docs.ID)
		require.NoError(t, err)
		require.False(t, folder.IsPublic)
	})

	t.Run("shared user gains read access but not write", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		err := f.service.Share(ctx, docs.ID, model.ShareRequest{
			AllowedUsers: []string{"ana@example.com"},
		}, ownerID)
		require.NoError(t, err)

		_, err = f.service.ListChildren(ctx, docs.ID, "user-ana", model.SearchParams{})
		require.NoError(t, err)

		err = f.service.Rename(ctx, docs.ID, "Hijacked", "user-ana")
		require.ErrorIs(t, err, model.ErrAccessDenied)
	})
}

func TestListChildren(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("wraps the page in folder metadata", func(t *testing.T) {
		f := newFixture()
		_, docs, reports := buildTree(t, f)

		page, err := f.service.ListChildren(ctx, docs.ID, ownerID, model.SearchParams{})
		require.NoError(t, err)

		require.Equal(t, "Docs", page.Name)
		require.Equal(t, docs.Path, page.Path)
		require.True(t, page.IsOwner)
		require.False(t, page.HasNext)
		require.Len(t, page.Files, 2)
		require.Equal(t, reports.ID, page.Files[0].ID)
	})

	t.Run("anonymous caller reads a public folder as non-owner", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		require.NoError(t, f.service.Share(ctx, docs.ID, model.ShareRequest{IsPublic: true}, ownerID))

		page, err := f.service.ListChildren(ctx, docs.ID, "", model.SearchParams{})
		require.NoError(t, err)
		require.False(t, page.IsOwner)
	})

	t.Run("anonymous caller on a private folder", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		_, err := f.service.ListChildren(ctx, docs.ID, "", model.SearchParams{})
		require.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("documents have no children", func(t *testing.T) {
		f := newFixture()
		buildTree(t, f)

		_, err := f.service.ListChildren(ctx, "doc-notes", ownerID, model.SearchParams{})
		require.ErrorIs(t, err, model.ErrInvalidOperation)
	})
}

func TestListWorkspaces(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	workspace, _, _ := buildTree(t, f)
	other, err := f.service.CreateWorkspace(ctx, "Personal", "someone-else")
	require.NoError(t, err)

	page, err := f.service.ListWorkspaces(ctx, ownerID, model.SearchParams{})
	require.NoError(t, err)

	require.Equal(t, "My Workspaces", page.Name)
	require.Equal(t, model.RootParentID, page.Path)
	require.True(t, page.IsOwner)
	require.Len(t, page.Files, 1)
	require.Equal(t, workspace.ID, page.Files[0].ID)
	require.NotEqual(t, other.ID, page.Files[0].ID)
}

func TestIsOwner(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	workspace, _, _ := buildTree(t, f)

	require.True(t, f.service.IsOwner(ctx, workspace.ID, ownerID))
	require.False(t, f.service.IsOwner(ctx, workspace.ID, "stranger"))
	require.False(t, f.service.IsOwner(ctx, workspace.ID, ""))
	require.False(t, f.service.IsOwner(ctx, "missing", ownerID))
}

func TestUpdateTags(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	buildTree(t, f)

	require.NoError(t, f.service.UpdateTags(ctx, "doc-notes", []string{"work", "draft"}, ownerID))

	doc, err := f.nodes.Get(ctx, "doc-notes")
	require.NoError(t, err)
	require.Equal(t, []string{"work", "draft"}, doc.Tags)

	tooMany := make([]string, model.MaxTags+1)
	err = f.service.UpdateTags(ctx, "doc-notes", tooMany, ownerID)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestUpdateStar(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	buildTree(t, f)

	require.NoError(t, f.service.UpdateStar(ctx, "doc-notes", true, ownerID))

	doc, err := f.nodes.Get(ctx, "doc-notes")
	require.NoError(t, err)
	require.True(t, doc.IsStarred)
}

func TestDownload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns a presigned URL for the document key", func(t *testing.T) {
		f := newFixture()
		buildTree(t, f)

		f.objects.On("IssueGetURL", mock.Anything, "doc-notes").Return("https://bucket.example/doc-notes?sig=abc", nil)

		info, err := f.service.Download(ctx, "doc-notes", ownerID)
		require.NoError(t, err)
		require.Equal(t, "notes", info.Name)
		require.Equal(t, "txt", info.Extension)
		require.Equal(t, "https://bucket.example/doc-notes?sig=abc", info.URL)
		f.objects.AssertExpectations(t)
	})

	t.Run("folders cannot be downloaded", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		_, err := f.service.Download(ctx, docs.ID, ownerID)
		require.ErrorIs(t, err, model.ErrInvalidOperation)
	})
}

func TestDocumentMetadata(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns object metadata", func(t *testing.T) {
		f := newFixture()
		buildTree(t, f)

		f.objects.On("Metadata", mock.Anything, "doc-notes").Return(map[string]string{
			"content-type":   "text/plain",
			"content-length": "42",
		}, nil)

		metadata, err := f.service.DocumentMetadata(ctx, "doc-notes", ownerID)
		require.NoError(t, err)
		require.Equal(t, "text/plain", metadata["content-type"])
		f.objects.AssertExpectations(t)
	})

	t.Run("folders have no object", func(t *testing.T) {
		f := newFixture()
		_, docs, _ := buildTree(t, f)

		_, err := f.service.DocumentMetadata(ctx, docs.ID, ownerID)
		require.ErrorIs(t, err, model.ErrInvalidOperation)
	})
}

func TestIssueUploadURL(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	f.objects.On("IssuePutURL", mock.Anything, mock.AnythingOfType("string")).Return("https://bucket.example/upload?sig=xyz", nil)

	ticket, err := f.service.IssueUploadURL(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ticket.Key)
	require.Equal(t, "https://bucket.example/upload?sig=xyz", ticket.URL)
	f.objects.AssertExpectations(t)
}
