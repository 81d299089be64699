package model

import "time"

// TrashEntry is the snapshot of a node taken at the moment of deletion. It
// shares the node's id: an id lives in the node store or the trash store,
// never both.
type TrashEntry struct {
	ID                string    `json:"id"`
	Node              Node      `json:"node"`
	IsDeletedDirectly bool      `json:"is_deleted_directly"` // true only for the subtree root the caller deleted
	DeletedAt         time.Time `json:"deleted_at"`
}
