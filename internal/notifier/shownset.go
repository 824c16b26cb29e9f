// Package notifier is the polling client that surfaces due notifications
// at most once per client.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
)

// ShownSet holds the ids already surfaced, in the order they were shown.
type ShownSet struct {
	order []int64
	index map[int64]struct{}
}

func NewShownSet(ids ...int64) *ShownSet {
	s := &ShownSet{index: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *ShownSet) Has(id int64) bool {
	_, ok := s.index[id]
	return ok
}

// Add appends id and reports whether it was new.
func (s *ShownSet) Add(id int64) bool {
	if s.Has(id) {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Remove drops id. Used to roll back an Add whose save failed.
func (s *ShownSet) Remove(id int64) {
	if !s.Has(id) {
		return
	}
	delete(s.index, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *ShownSet) Len() int { return len(s.order) }

// IDs returns a copy of the ids in insertion order.
func (s *ShownSet) IDs() []int64 {
	out := make([]int64, len(s.order))
	copy(out, s.order)
	return out
}

func (s *ShownSet) MarshalJSON() ([]byte, error) {
	if s.order == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.order)
}

func (s *ShownSet) UnmarshalJSON(data []byte) error {
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("decode shown set: %w", err)
	}
	*s = *NewShownSet(ids...)
	return nil
}

// Store persists a ShownSet across restarts. Load returns an empty set when
// nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (*ShownSet, error)
	Save(ctx context.Context, s *ShownSet) error
}
