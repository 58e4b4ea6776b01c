package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProfileClient records which endpoint was hit and can fail on demand.
type fakeProfileClient struct {
	customerProfile domain.Profile
	adminProfile    domain.Profile

	fetchErr   error
	signOutErr error

	customerCalls int
	adminCalls    int
	signOutCalls  int
}

func (f *fakeProfileClient) GetCustomerProfile(_ context.Context, _ string) (domain.Profile, error) {
	f.customerCalls++
	if f.fetchErr != nil {
		return domain.Profile{}, f.fetchErr
	}
	return f.customerProfile, nil
}

func (f *fakeProfileClient) GetAdminProfile(_ context.Context, _ string) (domain.Profile, error) {
	f.adminCalls++
	if f.fetchErr != nil {
		return domain.Profile{}, f.fetchErr
	}
	return f.adminProfile, nil
}

func (f *fakeProfileClient) UpdateProfile(_ context.Context, _ string, profile domain.Profile) (domain.Profile, error) {
	return profile, nil
}

func (f *fakeProfileClient) SignOut(_ context.Context, _ string) error {
	f.signOutCalls++
	return f.signOutErr
}

func customerSession() domain.Session {
	return domain.Session{
		Subject:     gofakeit.UUID(),
		Role:        domain.RoleCustomer,
		AccessToken: gofakeit.UUID(),
	}
}

func TestManager_OnAuthenticated_RoleDispatch(t *testing.T) {
	tests := []struct {
		name          string
		role          domain.Role
		wantCustomer  int
		wantAdmin     int
		wantProfileID string
	}{
		{name: "customer role hits customer endpoint", role: domain.RoleCustomer, wantCustomer: 1, wantProfileID: "cust-1"},
		{name: "admin role hits admin endpoint", role: domain.RoleAdmin, wantAdmin: 1, wantProfileID: "admin-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProfileClient{
				customerProfile: domain.Profile{ID: "cust-1"},
				adminProfile:    domain.Profile{ID: "admin-1"},
			}
			manager, err := session.NewManager(fake)
			require.NoError(t, err)

			s := customerSession()
			s.Role = tt.role

			require.NoError(t, manager.OnAuthenticated(t.Context(), s))

			assert.Equal(t, tt.wantCustomer, fake.customerCalls)
			assert.Equal(t, tt.wantAdmin, fake.adminCalls)

			profile, ok := manager.Profile()
			require.True(t, ok)
			assert.Equal(t, tt.wantProfileID, profile.ID)
		})
	}
}

func TestManager_FailedFetchKeepsSession(t *testing.T) {
	fake := &fakeProfileClient{fetchErr: errors.New("backend down")}
	manager, err := session.NewManager(fake)
	require.NoError(t, err)

	s := customerSession()
	err = manager.OnAuthenticated(t.Context(), s)
	require.Error(t, err)

	// token stays intact so the caller can retry without a re-login
	got, ok := manager.Session()
	require.True(t, ok)
	assert.Equal(t, s.AccessToken, got.AccessToken)

	_, ok = manager.Profile()
	assert.False(t, ok)

	// retry succeeds once the backend recovers
	fake.fetchErr = nil
	require.NoError(t, manager.OnAuthenticated(t.Context(), s))
	_, ok = manager.Profile()
	assert.True(t, ok)
}

func TestManager_OnUnauthenticated(t *testing.T) {
	fake := &fakeProfileClient{customerProfile: domain.Profile{ID: "cust-1"}}
	manager, err := session.NewManager(fake)
	require.NoError(t, err)

	require.NoError(t, manager.OnAuthenticated(t.Context(), customerSession()))
	manager.OnUnauthenticated()

	_, ok := manager.Session()
	assert.False(t, ok)
	_, ok = manager.Profile()
	assert.False(t, ok)
}

func TestManager_Logout(t *testing.T) {
	tests := []struct {
		name       string
		signOutErr error
	}{
		{name: "remote sign-out succeeds"},
		{name: "remote sign-out fails, local state cleared anyway", signOutErr: errors.New("network down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProfileClient{
				customerProfile: domain.Profile{ID: "cust-1"},
				signOutErr:      tt.signOutErr,
			}
			manager, err := session.NewManager(fake)
			require.NoError(t, err)

			require.NoError(t, manager.OnAuthenticated(t.Context(), customerSession()))

			err = manager.Logout(t.Context())
			if tt.signOutErr != nil {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			// logout must succeed locally regardless of the remote outcome
			_, ok := manager.Session()
			assert.False(t, ok)
			_, ok = manager.Profile()
			assert.False(t, ok)
			assert.Equal(t, 1, fake.signOutCalls)
		})
	}
}

func TestManager_SetSession(t *testing.T) {
	fake := &fakeProfileClient{customerProfile: domain.Profile{ID: "cust-1"}}
	manager, err := session.NewManager(fake)
	require.NoError(t, err)

	s := customerSession()
	manager.SetSession(s)

	got, ok := manager.Session()
	require.True(t, ok)
	assert.Equal(t, s.AccessToken, got.AccessToken)

	// no profile endpoint was touched
	assert.Zero(t, fake.customerCalls)
	assert.Zero(t, fake.adminCalls)
	_, ok = manager.Profile()
	assert.False(t, ok)

	// same token keeps a profile cached by a later fetch
	require.NoError(t, manager.OnAuthenticated(t.Context(), s))
	manager.SetSession(s)
	_, ok = manager.Profile()
	assert.True(t, ok)

	// a new token drops the stale profile
	fresh := customerSession()
	manager.SetSession(fresh)
	_, ok = manager.Profile()
	assert.False(t, ok)
}

func TestManager_LogoutAfterSetSession(t *testing.T) {
	fake := &fakeProfileClient{}
	manager, err := session.NewManager(fake)
	require.NoError(t, err)

	manager.SetSession(customerSession())
	require.NoError(t, manager.Logout(t.Context()))

	// signing out never needs the profile
	assert.Zero(t, fake.customerCalls)
	assert.Zero(t, fake.adminCalls)
	assert.Equal(t, 1, fake.signOutCalls)

	_, ok := manager.Session()
	assert.False(t, ok)
}

func TestManager_LogoutWithoutSession(t *testing.T) {
	fake := &fakeProfileClient{}
	manager, err := session.NewManager(fake)
	require.NoError(t, err)

	require.NoError(t, manager.Logout(t.Context()))
	assert.Zero(t, fake.signOutCalls)
}

func TestManager_UpdateProfile(t *testing.T) {
	fake := &fakeProfileClient{customerProfile: domain.Profile{ID: "cust-1"}}
	manager, err := session.NewManager(fake)
	require.NoError(t, err)

	require.NoError(t, manager.OnAuthenticated(t.Context(), customerSession()))

	updated, err := manager.UpdateProfile(t.Context(), domain.Profile{ID: "cust-1", FirstName: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.FirstName)

	cached, ok := manager.Profile()
	require.True(t, ok)
	assert.Equal(t, "New", cached.FirstName)
}
