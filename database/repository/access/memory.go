package accessRepo

import (
	"sort"
	"strings"
	"sync"

	"barakah/models"
)

// MemoryAccessRepo is an in-process AccessRepository used when MongoDB is
// not configured and in tests.
type MemoryAccessRepo struct {
	mu     sync.RWMutex
	grants map[string]models.AccessGrant
}

func NewMemoryAccessRepo() *MemoryAccessRepo {
	return &MemoryAccessRepo{grants: make(map[string]models.AccessGrant)}
}

func (r *MemoryAccessRepo) Save(grant *models.AccessGrant) (*models.AccessGrant, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stored, ok := r.grants[grant.SessionID]; ok {
		return &stored, false, nil
	}
	grant.Email = strings.ToLower(grant.Email)
	stored := *grant
	stored.APIKey = ""
	r.grants[grant.SessionID] = stored
	return grant, true, nil
}

func (r *MemoryAccessRepo) GetBySession(sessionID string) (*models.AccessGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.grants[sessionID]; ok {
		return &g, nil
	}
	return nil, nil
}

func (r *MemoryAccessRepo) GetByEmail(email string) ([]models.AccessGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	grants := []models.AccessGrant{}
	for _, g := range r.grants {
		if g.Email == email {
			grants = append(grants, g)
		}
	}
	sort.Slice(grants, func(i, j int) bool { return grants[i].GrantedAt.After(grants[j].GrantedAt) })
	return grants, nil
}

func (r *MemoryAccessRepo) GetByAPIKeyHash(hash string) (*models.AccessGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.grants {
		if hash != "" && g.APIKeyHash == hash {
			return &g, nil
		}
	}
	return nil, nil
}

func (r *MemoryAccessRepo) ClaimAPIKey(sessionID, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.grants[sessionID]
	if !ok || g.APIKeyHash != "" {
		return false, nil
	}
	g.APIKeyHash = hash
	r.grants[sessionID] = g
	return true, nil
}
