package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// FolderPage is the listing of one folder: its own identity plus one slice
// of children.
type FolderPage struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	PathNames string `json:"path_names"`
	Files     []Node `json:"files"`
	HasNext   bool   `json:"has_next"`
	IsOwner   bool   `json:"is_owner"`
}

// OwnershipInfo is the isOwner probe result. A wrapper rather than a bare
// bool so a negative result survives the response envelope's omitempty.
type OwnershipInfo struct {
	IsOwner bool `json:"is_owner"`
}

type DownloadInfo struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	URL       string `json:"url"`
}

// UploadTicket pairs a freshly generated object key with a presigned PUT
// URL. The caller uploads, then registers the document under Key.
type UploadTicket struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
