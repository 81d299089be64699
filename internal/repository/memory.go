package repository

import (
	"context"
	"strings"
	"sync"

	"go-workspace-service/internal/model"
)

// MemoryNodeStore is an in-memory NodeStore used by service tests. Natural
// order is insertion order, which keeps paging assertions deterministic.
type MemoryNodeStore struct {
	mu    sync.Mutex
	nodes map[string]model.Node
	order []string
}

func NewMemoryNodeStore() *MemoryNodeStore {
	return &MemoryNodeStore{nodes: map[string]model.Node{}}
}

func (s *MemoryNodeStore) Insert(_ context.Context, node model.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertLocked(node)
	return nil
}

func (s *MemoryNodeStore) InsertMany(_ context.Context, nodes []model.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, node := range nodes {
		s.insertLocked(node)
	}
	return nil
}

func (s *MemoryNodeStore) insertLocked(node model.Node) {
	if _, exists := s.nodes[node.ID]; !exists {
		s.order = append(s.order, node.ID)
	}
	s.nodes[node.ID] = node
}

func (s *MemoryNodeStore) Get(_ context.Context, id string) (model.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		return model.Node{}, model.ErrNodeNotFound
	}
	return node, nil
}

func (s *MemoryNodeStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.nodes[id]
	return ok, nil
}

func (s *MemoryNodeStore) Update(_ context.Context, node model.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[node.ID]; !ok {
		return model.ErrNodeNotFound
	}
	s.nodes[node.ID] = node
	return nil
}

func (s *MemoryNodeStore) UpdateMany(_ context.Context, nodes []model.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, node := range nodes {
		if _, ok := s.nodes[node.ID]; ok {
			s.nodes[node.ID] = node
		}
	}
	return nil
}

func (s *MemoryNodeStore) DeleteMany(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.nodes, id)
	}
	s.compactOrderLocked()
	return nil
}

func (s *MemoryNodeStore) FindByParentIDs(_ context.Context, parentIDs []string) ([]model.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parents := toSet(parentIDs)
	found := make([]model.Node, 0)
	for _, id := range s.order {
		node, ok := s.nodes[id]
		if !ok {
			continue
		}
		if _, isChild := parents[node.ParentID]; isChild {
			found = append(found, node)
		}
	}
	return found, nil
}

func (s *MemoryNodeStore) UpdateACL(_ context.Context, ids []string, isPublic bool, allowedUsers []string, allowedEmails []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	targets := toSet(ids)
	for id := range targets {
		node, ok := s.nodes[id]
		if !ok {
			continue
		}
		node.IsPublic = isPublic
		node.AllowedUsers = append([]string(nil), allowedUsers...)
		node.AllowedEmails = append([]string(nil), allowedEmails...)
		s.nodes[id] = node
	}
	return nil
}

func (s *MemoryNodeStore) FindPage(_ context.Context, probe model.NodeProbe, offset int, limit int) ([]model.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]model.Node, 0)
	for _, id := range s.order {
		node, ok := s.nodes[id]
		if !ok || !matchesProbe(node, probe) {
			continue
		}
		matched = append(matched, node)
	}

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryNodeStore) compactOrderLocked() {
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.nodes[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
}

func matchesProbe(node model.Node, probe model.NodeProbe) bool {
	if probe.Name != nil && !strings.Contains(strings.ToLower(node.Name), strings.ToLower(*probe.Name)) {
		return false
	}
	if probe.ParentID != nil && node.ParentID != *probe.ParentID {
		return false
	}
	if probe.OwnerID != nil && node.OwnerID != *probe.OwnerID {
		return false
	}
	if probe.Kind != nil && node.Kind != *probe.Kind {
		return false
	}
	if probe.IsStarred != nil && node.IsStarred != *probe.IsStarred {
		return false
	}
	return true
}

// MemoryTrashStore is the in-memory TrashStore counterpart.
type MemoryTrashStore struct {
	mu      sync.Mutex
	entries map[string]model.TrashEntry
	order   []string
}

func NewMemoryTrashStore() *MemoryTrashStore {
	return &MemoryTrashStore{entries: map[string]model.TrashEntry{}}
}

func (s *MemoryTrashStore) Get(_ context.Context, id string) (model.TrashEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return model.TrashEntry{}, model.ErrTrashEntryNotFound
	}
	return entry, nil
}

func (s *MemoryTrashStore) InsertMany(_ context.Context, entries []model.TrashEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		if _, exists := s.entries[entry.ID]; !exists {
			s.order = append(s.order, entry.ID)
		}
		s.entries[entry.ID] = entry
	}
	return nil
}

func (s *MemoryTrashStore) DeleteMany(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.entries, id)
	}

	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.entries[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
	return nil
}

func (s *MemoryTrashStore) FindByParentIDs(_ context.Context, parentIDs []string) ([]model.TrashEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parents := toSet(parentIDs)
	found := make([]model.TrashEntry, 0)
	for _, id := range s.order {
		entry, ok := s.entries[id]
		if !ok {
			continue
		}
		if _, isChild := parents[entry.Node.ParentID]; isChild {
			found = append(found, entry)
		}
	}
	return found, nil
}

func (s *MemoryTrashStore) ListDeletedDirectly(_ context.Context, ownerID string) ([]model.TrashEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := make([]model.TrashEntry, 0)
	for _, id := range s.order {
		entry, ok := s.entries[id]
		if !ok {
			continue
		}
		if entry.IsDeletedDirectly && entry.Node.OwnerID == ownerID {
			found = append(found, entry)
		}
	}
	return found, nil
}

// Len reports the number of stored entries; test helper.
func (s *MemoryTrashStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Len reports the number of stored nodes; test helper.
func (s *MemoryNodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
