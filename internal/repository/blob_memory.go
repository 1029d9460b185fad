package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/set-night/shopassist/internal/domain"
)

type memoryBlob struct {
	obj  domain.BlobObject
	data []byte
}

// MemoryBlobStore keeps blobs in process memory. Used when no database is
// configured; contents are lost on restart.
type MemoryBlobStore struct {
	mu        sync.RWMutex
	publicURL string
	blobs     map[string]map[string]memoryBlob
	now       func() time.Time
}

func NewMemoryBlobStore(publicURL string) *MemoryBlobStore {
	return &MemoryBlobStore{
		publicURL: publicURL,
		blobs:     make(map[string]map[string]memoryBlob),
		now:       time.Now,
	}
}

func (s *MemoryBlobStore) Upload(_ context.Context, clip domain.AudioClip, category string) (string, error) {
	if len(clip.Data) == 0 {
		return "", domain.ErrEmptyBlob
	}
	if err := validateKey(category, clip.Name); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.blobs[category]
	if !ok {
		bucket = make(map[string]memoryBlob)
		s.blobs[category] = bucket
	}
	u := BlobURL(s.publicURL, category, clip.Name)
	bucket[clip.Name] = memoryBlob{
		obj: domain.BlobObject{
			Category:    category,
			Name:        clip.Name,
			ContentType: contentTypeOr(clip),
			Size:        int64(len(clip.Data)),
			URL:         u,
			CreatedAt:   s.now(),
		},
		data: slices.Clone(clip.Data),
	}
	return u, nil
}

func (s *MemoryBlobStore) List(_ context.Context, category string) ([]domain.BlobObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BlobObject, 0, len(s.blobs[category]))
	for _, b := range s.blobs[category] {
		out = append(out, b.obj)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryBlobStore) Delete(_ context.Context, category, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.blobs[category]
	if _, ok := bucket[name]; !ok {
		return domain.ErrBlobNotFound
	}
	delete(bucket, name)
	return nil
}

func (s *MemoryBlobStore) Open(_ context.Context, category, name string) (domain.BlobObject, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blobs[category][name]
	if !ok {
		return domain.BlobObject{}, nil, domain.ErrBlobNotFound
	}
	return b.obj, slices.Clone(b.data), nil
}
