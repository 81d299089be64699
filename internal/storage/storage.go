package storage

import "context"

// ObjectStorage is the boundary to the binary object store. The workspace
// service never touches object bytes itself; it only hands out presigned
// URLs and reads object metadata.
type ObjectStorage interface {
	// IssuePutURL returns a presigned URL the caller can upload the object
	// under objectKey with.
	IssuePutURL(ctx context.Context, objectKey string) (string, error)

	// IssueGetURL returns a short-lived presigned download URL.
	IssueGetURL(ctx context.Context, objectKey string) (string, error)

	// Metadata returns the stored object's metadata map.
	Metadata(ctx context.Context, objectKey string) (map[string]string, error)
}
