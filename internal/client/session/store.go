package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/anonsession/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/anonsession/internal/common"
)

// Store persists the identifier between runs. Load returns "" when nothing
// has been saved yet.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, uid string) error
	Clear(ctx context.Context) error
}

type MemoryStore struct {
	mu  sync.Mutex
	uid string
}

func (m *MemoryStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uid, nil
}

func (m *MemoryStore) Save(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uid = uid
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	return m.Save(context.Background(), "")
}

// MetadataStore keeps the identifier under the "uid" key of the local
// metadata repository.
type MetadataStore struct {
	repo metadata.Repository
}

func NewMetadataStore(repo metadata.Repository) *MetadataStore {
	return &MetadataStore{repo: repo}
}

func (s *MetadataStore) Load(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.UIDCookieName)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *MetadataStore) Save(ctx context.Context, uid string) error {
	return s.repo.Set(ctx, common.UIDCookieName, []byte(uid))
}

func (s *MetadataStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, common.UIDCookieName)
}
