package identity

import "context"

// Resolver maps user emails to the identifiers the ACLs store. Backed by the
// user service; emails are display data, ids are authoritative.
type Resolver interface {
	ResolveIDs(ctx context.Context, emails []string) ([]string, error)
}
