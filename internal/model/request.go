package model

type NameRequest struct {
	Name string `json:"name"`
}

type MoveRequest struct {
	NewParentID string `json:"new_parent_id"`
}

type TagsRequest struct {
	Tags []string `json:"tags"`
}

type StarRequest struct {
	IsStarred bool `json:"is_starred"`
}

// ShareRequest carries the ACL to cascade. AllowedUsers holds emails; the
// identity service resolves them to user ids before anything is written.
type ShareRequest struct {
	IsPublic     bool     `json:"is_public"`
	AllowedUsers []string `json:"allowed_users"`
}

// CreateDocumentRequest registers an already-uploaded object as a document
// node. ID is the object key issued by get-upload-url.
type CreateDocumentRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	URL       string `json:"url"`
	Size      int64  `json:"size"`
}
