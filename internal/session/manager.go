package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// Manager bridges the auth provider's session to the application-wide
// profile. The profile is fetched once when the session becomes
// authenticated and cached until sign-out.
type Manager struct {
	mu sync.Mutex

	client port.ProfileClient

	session *domain.Session
	profile *domain.Profile
}

func NewManager(client port.ProfileClient) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}

	return &Manager{client: client}, nil
}

// OnAuthenticated stores the session and fetches the profile from the
// endpoint matching the session role. A failed fetch keeps the session
// intact: the caller may retry without forcing a re-login.
func (m *Manager) OnAuthenticated(ctx context.Context, session domain.Session) error {
	m.mu.Lock()
	m.session = &session
	m.profile = nil
	m.mu.Unlock()

	profile, err := m.fetchProfile(ctx, session)
	if err != nil {
		return fmt.Errorf("fetchProfile: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// the session may have been cleared while the fetch was in flight
	if m.session == nil || m.session.AccessToken != session.AccessToken {
		return nil
	}
	m.profile = &profile

	return nil
}

func (m *Manager) fetchProfile(ctx context.Context, session domain.Session) (domain.Profile, error) {
	if session.IsAdmin() {
		return m.client.GetAdminProfile(ctx, session.AccessToken)
	}
	return m.client.GetCustomerProfile(ctx, session.AccessToken)
}

// SetSession stores the session without touching the backend. A cached
// profile survives only when the token is unchanged.
func (m *Manager) SetSession(session domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil && m.session.AccessToken == session.AccessToken {
		return
	}

	m.session = &session
	m.profile = nil
}

// OnUnauthenticated clears the cached profile and session.
func (m *Manager) OnUnauthenticated() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	m.profile = nil
}

func (m *Manager) Session() (domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return domain.Session{}, false
	}
	return *m.session, true
}

func (m *Manager) Profile() (domain.Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.profile == nil {
		return domain.Profile{}, false
	}
	return *m.profile, true
}

// UpdateProfile writes through to the backend and refreshes the cache.
func (m *Manager) UpdateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	session, ok := m.Session()
	if !ok {
		return domain.Profile{}, fmt.Errorf("no active session")
	}

	updated, err := m.client.UpdateProfile(ctx, session.AccessToken, profile)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("client.UpdateProfile: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = &updated

	return updated, nil
}

// Logout clears local state first, then tells the provider. Local state is
// gone no matter what the remote call does; a remote failure is returned
// only so the caller can log it.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	session := m.session
	m.session = nil
	m.profile = nil
	m.mu.Unlock()

	if session == nil {
		return nil
	}

	if err := m.client.SignOut(ctx, session.AccessToken); err != nil {
		return fmt.Errorf("client.SignOut: %w", err)
	}

	return nil
}
