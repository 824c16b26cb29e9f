package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-gym-api/internal/domain"
)

type objectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// ObjectStore keeps the ShownSet as a single JSON object, for clients
// without a durable local disk.
type ObjectStore struct {
	objects objectStore
	key     string
}

func NewObjectStore(objects objectStore, key string) *ObjectStore {
	return &ObjectStore{objects: objects, key: key}
}

func (o *ObjectStore) Load(ctx context.Context) (*ShownSet, error) {
	data, err := o.objects.Get(ctx, o.key)
	if errors.Is(err, domain.ErrNotFound) {
		return NewShownSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load shown set: %w", err)
	}
	set := NewShownSet()
	if err := json.Unmarshal(data, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (o *ObjectStore) Save(ctx context.Context, s *ShownSet) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode shown set: %w", err)
	}
	return o.objects.Put(ctx, o.key, data, "application/json")
}
