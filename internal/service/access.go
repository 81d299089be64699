package service

import "go-workspace-service/internal/model"

// authorize decides whether requesterID may act on node. The owner may do
// anything. A non-owner may only read, and only if the node is public or
// their id is on the ACL. Writes are owner-only regardless of ACL.
//
// An empty requesterID is an anonymous caller: a denial then surfaces as
// ErrUnauthenticated (log in first) instead of ErrAccessDenied.
func authorize(node model.Node, requesterID string, isReadAction bool) error {
	if node.IsOwnedBy(requesterID) {
		return nil
	}

	if isReadAction && (node.IsPublic || node.AllowsUser(requesterID)) {
		return nil
	}

	if requesterID == "" {
		return model.ErrUnauthenticated
	}
	return model.ErrAccessDenied
}
