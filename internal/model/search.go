package model

import "time"

// DefaultPageSize is used when a search request does not specify a size.
const DefaultPageSize = 5

// SearchParams are the optional criteria a caller may supply. Zero values
// impose no constraint.
type SearchParams struct {
	Query     string
	Kind      string
	IsStarred *bool
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// NodeProbe is a sparse match template built from only the supplied search
// criteria. Nil fields are ignored by the store; Name matches as a
// case-insensitive substring, everything else exactly.
type NodeProbe struct {
	Name      *string
	ParentID  *string
	OwnerID   *string
	Kind      *Kind
	IsStarred *bool
}

// NodeSlice is one page of results plus a flag telling whether more matching
// rows exist, obtained without a count query.
type NodeSlice struct {
	Items   []Node `json:"items"`
	HasNext bool   `json:"has_next"`
}
