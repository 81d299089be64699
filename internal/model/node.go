package model

import "time"

// RootParentID is the sentinel parent of a root workspace. A root node also
// carries it as its path and pathNames.
const RootParentID = "~"

// MaxTags is the largest number of tags a node may carry.
const MaxTags = 10

// Node is a single entry of the workspace tree: a folder or a document.
// For documents the id doubles as the object key in external storage.
//
// Path is the chain of ancestor ids and PathNames the chain of ancestor
// display names, both starting at RootParentID and excluding the node
// itself. They are denormalized caches of the ParentID graph; the cascade
// engine regenerates them after rename and move.
type Node struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OwnerID       string    `json:"owner_id"`
	ParentID      string    `json:"parent_id"`
	Path          string    `json:"path"`
	PathNames     string    `json:"path_names"`
	Kind          Kind      `json:"kind"`
	Extension     string    `json:"extension"`
	StorageRef    string    `json:"storage_ref,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
	IsPublic      bool      `json:"is_public"`
	AllowedUsers  []string  `json:"allowed_users"`
	AllowedEmails []string  `json:"allowed_emails"` // display only, not authoritative
	Tags          []string  `json:"tags"`
	IsStarred     bool      `json:"is_starred"`
	Size          int64     `json:"size"`
}

func (n Node) IsFolder() bool {
	return n.Kind == KindFolder
}

func (n Node) IsOwnedBy(userID string) bool {
	return userID != "" && n.OwnerID == userID
}

// AllowsUser reports whether userID appears in the node's ACL.
func (n Node) AllowsUser(userID string) bool {
	if userID == "" {
		return false
	}
	for _, allowed := range n.AllowedUsers {
		if allowed == userID {
			return true
		}
	}
	return false
}

// ChildPath returns the ancestor-id chain for a child of n.
func (n Node) ChildPath() string {
	return n.Path + "/" + n.ID
}

// ChildPathNames returns the ancestor-name chain for a child of n.
func (n Node) ChildPathNames() string {
	return n.PathNames + "/" + n.Name
}
