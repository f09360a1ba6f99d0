package memory

// Package memory provides in-process adapters for single-instance deployments
// and tests. Nothing here survives a restart.

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/social-login-api/internal/domain/auth"
)

// IdentityRepo is an in-memory identity registry. A single mutex covers the
// check-then-insert in FindOrCreate, so concurrent first logins for the same
// (provider, provider id) pair resolve to one stored identity.
type IdentityRepo struct {
	mu       sync.Mutex
	byKey    map[identityKey]string
	byID     map[string]domainauth.Identity
	now      func() time.Time
	newID    func() string
}

type identityKey struct {
	provider   domainauth.Provider
	providerID string
}

// NewIdentityRepo creates an empty in-memory identity registry.
func NewIdentityRepo() *IdentityRepo {
	return &IdentityRepo{
		byKey: make(map[identityKey]string),
		byID:  make(map[string]domainauth.Identity),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// NewIdentityRepoWithClock creates a registry with a custom clock (useful for tests).
func NewIdentityRepoWithClock(now func() time.Time) *IdentityRepo {
	repo := NewIdentityRepo()
	repo.now = now
	return repo
}

// FindOrCreate returns the identity for (provider, profile.ProviderID),
// creating it on first login. Profile data from later logins is discarded:
// identities are immutable after creation.
func (r *IdentityRepo) FindOrCreate(
	_ context.Context,
	provider domainauth.Provider,
	profile domainauth.NormalizedProfile,
) (domainauth.Identity, error) {
	if profile.ProviderID == "" {
		return domainauth.Identity{}, domainauth.ErrProfileIncomplete
	}

	key := identityKey{provider: provider, providerID: profile.ProviderID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byKey[key]; ok {
		return r.byID[id], nil
	}

	identity := domainauth.Identity{
		ID:         r.newID(),
		Provider:   provider,
		ProviderID: profile.ProviderID,
		Name:       profile.Name,
		Email:      profile.Email,
		AvatarURL:  profile.AvatarURL,
		CreatedAt:  r.now().UTC(),
	}
	r.byKey[key] = identity.ID
	r.byID[identity.ID] = identity
	return identity, nil
}

// FindByID returns the identity with the given id.
func (r *IdentityRepo) FindByID(_ context.Context, id string) (domainauth.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byID[id]
	if !ok {
		return domainauth.Identity{}, domainauth.ErrIdentityNotFound
	}
	return identity, nil
}

// Len reports the number of stored identities.
func (r *IdentityRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
