package blocklist

import (
	"context"
	"sync"

	"luminora-backend/internal/platform/filestore"
)

const blockedIPsFile = "blocked_ips"

type fileRepository struct {
	store *filestore.Store

	mu  sync.RWMutex
	ips []string
}

// NewFilestore loads the blocked-IP snapshot and returns a repository over it.
func NewFilestore(store *filestore.Store) (Repository, error) {
	r := &fileRepository{store: store, ips: []string{}}
	if err := store.Load(blockedIPsFile, &r.ips); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *fileRepository) Contains(ctx context.Context, ip string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, blocked := range r.ips {
		if blocked == ip {
			return true, nil
		}
	}
	return false, nil
}

func (r *fileRepository) Add(ctx context.Context, ip string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, blocked := range r.ips {
		if blocked == ip {
			return nil
		}
	}

	r.ips = append(r.ips, ip)
	return r.store.Save(blockedIPsFile, r.ips)
}
