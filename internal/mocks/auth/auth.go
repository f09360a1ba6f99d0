package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	domainauth "github.com/target/social-login-api/internal/domain/auth"
	"github.com/target/social-login-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.OAuthProvider      = (*MockProvider)(nil)
	_ ports.IdentityRepository = (*MemoryIdentityRepo)(nil)
	_ ports.StateStore         = (*MemoryStateStore)(nil)
	_ ports.TokenCodec         = (*MockTokenCodec)(nil)
)

// MockProvider simulates an OAuth2 provider with deterministic responses.
// Any Func field overrides the canned behavior for that call.
type MockProvider struct {
	ProviderName     domainauth.Provider
	ExchangeCodeFunc func(ctx context.Context, code string) (string, error)
	FetchProfileFunc func(ctx context.Context, accessToken string) (domainauth.NormalizedProfile, error)

	// Canned values for predictable testing
	AuthURLBase    string
	AccessToken    string
	DefaultProfile domainauth.NormalizedProfile

	// Call tracking
	ExchangeCalls int
	ProfileCalls  int
}

// NewMockProvider creates a MockProvider with sensible defaults.
func NewMockProvider(name domainauth.Provider) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		AuthURLBase:  "https://mock-provider/authorize",
		AccessToken:  "mock-access-token",
		DefaultProfile: domainauth.NormalizedProfile{
			ProviderID: "mock-subject-1",
			Name:       "Mock User",
			Email:      "mock.user@example.com",
			AvatarURL:  "https://mock-provider/avatar.png",
		},
	}
}

func (m *MockProvider) Name() domainauth.Provider { return m.ProviderName }

func (m *MockProvider) AuthorizationURL(state string) string {
	return m.AuthURLBase + "?state=" + state
}

func (m *MockProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	m.ExchangeCalls++
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	if code == "" {
		return "", errors.New("mock: empty code")
	}
	return m.AccessToken, nil
}

func (m *MockProvider) FetchProfile(ctx context.Context, accessToken string) (domainauth.NormalizedProfile, error) {
	m.ProfileCalls++
	if m.FetchProfileFunc != nil {
		return m.FetchProfileFunc(ctx, accessToken)
	}
	return m.DefaultProfile, nil
}

// MemoryIdentityRepo is an in-memory identity registry for unit tests.
type MemoryIdentityRepo struct {
	FindOrCreateFunc func(ctx context.Context, provider domainauth.Provider, profile domainauth.NormalizedProfile) (domainauth.Identity, error)
	FindByIDFunc     func(ctx context.Context, id string) (domainauth.Identity, error)

	mu         sync.Mutex
	identities map[string]domainauth.Identity
	nextID     int
}

// NewMemoryIdentityRepo creates a new in-memory identity registry.
func NewMemoryIdentityRepo() *MemoryIdentityRepo {
	return &MemoryIdentityRepo{identities: make(map[string]domainauth.Identity)}
}

func (m *MemoryIdentityRepo) FindOrCreate(
	ctx context.Context,
	provider domainauth.Provider,
	profile domainauth.NormalizedProfile,
) (domainauth.Identity, error) {
	if m.FindOrCreateFunc != nil {
		return m.FindOrCreateFunc(ctx, provider, profile)
	}
	if profile.ProviderID == "" {
		return domainauth.Identity{}, domainauth.ErrProfileIncomplete
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, identity := range m.identities {
		if identity.Provider == provider && identity.ProviderID == profile.ProviderID {
			return identity, nil
		}
	}
	m.nextID++
	identity := domainauth.Identity{
		ID:         "identity-" + strconv.Itoa(m.nextID),
		Provider:   provider,
		ProviderID: profile.ProviderID,
		Name:       profile.Name,
		Email:      profile.Email,
		AvatarURL:  profile.AvatarURL,
		CreatedAt:  time.Now().UTC(),
	}
	m.identities[identity.ID] = identity
	return identity, nil
}

func (m *MemoryIdentityRepo) FindByID(ctx context.Context, id string) (domainauth.Identity, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	identity, ok := m.identities[id]
	if !ok {
		return domainauth.Identity{}, domainauth.ErrIdentityNotFound
	}
	return identity, nil
}

// Seed stores an identity directly, bypassing FindOrCreate.
func (m *MemoryIdentityRepo) Seed(identity domainauth.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[identity.ID] = identity
}

// MemoryStateStore is an in-memory single-use state store for unit tests.
type MemoryStateStore struct {
	SaveFunc    func(ctx context.Context, state string, ttl time.Duration) error
	ConsumeFunc func(ctx context.Context, state string) (bool, error)

	mu     sync.Mutex
	states map[string]struct{}
}

// NewMemoryStateStore creates a new in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]struct{})}
}

func (m *MemoryStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, state, ttl)
	}
	if state == "" {
		return errors.New("mock: empty state")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state] = struct{}{}
	return nil
}

func (m *MemoryStateStore) Consume(ctx context.Context, state string) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, state)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.states[state]; !ok {
		return false, nil
	}
	delete(m.states, state)
	return true, nil
}

// MockTokenCodec mints reversible fake tokens of the form "token-for:<id>".
type MockTokenCodec struct {
	IssueFunc  func(identity domainauth.Identity) (string, error)
	VerifyFunc func(token string) (domainauth.Claims, error)
}

const tokenPrefix = "token-for:"

func (m *MockTokenCodec) Issue(identity domainauth.Identity) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(identity)
	}
	if identity.ID == "" {
		return "", errors.New("mock: identity id required")
	}
	return tokenPrefix + identity.ID, nil
}

func (m *MockTokenCodec) Verify(token string) (domainauth.Claims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	if len(token) <= len(tokenPrefix) || token[:len(tokenPrefix)] != tokenPrefix {
		return domainauth.Claims{}, domainauth.ErrTokenInvalid
	}
	return domainauth.Claims{Subject: token[len(tokenPrefix):]}, nil
}
