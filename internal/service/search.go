package service

import (
	"context"
	"fmt"
	"time"

	"go-workspace-service/internal/model"
)

// Search returns one page of nodes matching the supplied criteria plus a
// has-next flag, obtained by fetching pageSize+1 rows instead of running a
// count query. ownerID and parentID are optional exact constraints; empty
// strings impose none.
//
// A date range is applied to the already-fetched page, not pushed into the
// store query, so a page can come back shorter than pageSize while hasNext
// is still true. Known interaction, kept as is.
func (s *WorkspaceService) Search(ctx context.Context, ownerID string, parentID string, params model.SearchParams) (model.NodeSlice, error) {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	page := params.Page
	if page < 0 {
		page = 0
	}

	probe := buildProbe(ownerID, parentID, params)

	rows, err := s.nodes.FindPage(ctx, probe, page*pageSize, pageSize+1)
	if err != nil {
		return model.NodeSlice{}, fmt.Errorf("search nodes: %w", err)
	}

	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}

	rows = filterByDate(rows, params.StartDate, params.EndDate)

	return model.NodeSlice{Items: rows, HasNext: hasNext}, nil
}

func buildProbe(ownerID string, parentID string, params model.SearchParams) model.NodeProbe {
	var probe model.NodeProbe

	if params.Query != "" {
		probe.Name = &params.Query
	}
	if parentID != "" {
		probe.ParentID = &parentID
	}
	if ownerID != "" {
		probe.OwnerID = &ownerID
	}
	if params.Kind != "" {
		kind := model.ParseKind(params.Kind)
		probe.Kind = &kind
	}
	probe.IsStarred = params.IsStarred

	return probe
}

func filterByDate(nodes []model.Node, startDate *time.Time, endDate *time.Time) []model.Node {
	if startDate == nil && endDate == nil {
		return nodes
	}

	filtered := make([]model.Node, 0, len(nodes))
	for _, node := range nodes {
		afterStart := startDate == nil || node.UploadedAt.After(*startDate)
		beforeEnd := endDate == nil || node.UploadedAt.Before(*endDate)
		if afterStart && beforeEnd {
			filtered = append(filtered, node)
		}
	}
	return filtered
}
