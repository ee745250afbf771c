package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvlog/vlogkit/pkg/api"
	"github.com/openvlog/vlogkit/pkg/credstore"
	"github.com/openvlog/vlogkit/pkg/notify"
	"github.com/openvlog/vlogkit/pkg/session"
)

type fakeGateway struct {
	mu sync.Mutex

	authToken string

	loginCreds   api.Credentials
	loginProfile api.Profile
	loginErr     error

	registerMsg string
	registerErr error

	meProfile api.Profile
	meErr     error

	refreshCreds api.Credentials
	refreshErr   error
	refreshCalls int

	logoutErr   error
	updatedProf api.Profile
	updateErr   error
	passwordErr error
}

func (g *fakeGateway) Login(context.Context, string, string) (api.Credentials, api.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loginErr != nil {
		return api.Credentials{}, api.Profile{}, g.loginErr
	}
	return g.loginCreds, g.loginProfile, nil
}

func (g *fakeGateway) Register(context.Context, api.RegisterDetails) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registerMsg, g.registerErr
}

func (g *fakeGateway) Me(context.Context, string) (api.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.meErr != nil {
		return api.Profile{}, g.meErr
	}
	return g.meProfile, nil
}

func (g *fakeGateway) Refresh(context.Context, string) (api.Credentials, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refreshCalls++
	if g.refreshErr != nil {
		return api.Credentials{}, g.refreshErr
	}
	return g.refreshCreds, nil
}

func (g *fakeGateway) Logout(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.logoutErr
}

func (g *fakeGateway) UpdateProfile(context.Context, api.ProfilePatch) (api.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.updateErr != nil {
		return api.Profile{}, g.updateErr
	}
	return g.updatedProf, nil
}

func (g *fakeGateway) ChangePassword(context.Context, string, string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.passwordErr
}

func (g *fakeGateway) SetAuthToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.authToken = token
}

func (g *fakeGateway) token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authToken
}

func (g *fakeGateway) refreshCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refreshCalls
}

type fixture struct {
	gateway   *fakeGateway
	durable   *credstore.MemStore
	ephemeral *credstore.MemStore
	recorder  *notify.Recorder
	manager   *session.Manager
}

func setup(t *testing.T, cfg session.Config) *fixture {
	t.Helper()

	f := &fixture{
		gateway:   &fakeGateway{},
		durable:   credstore.NewMemStore(),
		ephemeral: credstore.NewMemStore(),
		recorder:  notify.NewRecorder(),
	}

	m, err := session.New(f.gateway,
		session.WithConfig(cfg),
		session.WithDurableStore(f.durable),
		session.WithEphemeralStore(f.ephemeral),
		session.WithNotifier(f.recorder),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	f.manager = m
	return f
}

// quietConfig disables practical renewal so tests control timing explicitly.
func quietConfig() session.Config {
	return session.Config{RenewalInterval: time.Hour, RequestTimeout: time.Second}
}

func stored(t *testing.T, store *credstore.MemStore) (api.Credentials, bool) {
	t.Helper()
	creds, found, err := store.Load(context.Background())
	require.NoError(t, err)
	return creds, found
}

// slowStore wraps a MemStore with a gate that holds Save calls open, and
// counts saves and clears. Lets tests race a storage write against teardown.
type slowStore struct {
	*credstore.MemStore

	mu     sync.Mutex
	gate   chan struct{}
	saves  int
	clears int
}

func newSlowStore() *slowStore {
	return &slowStore{MemStore: credstore.NewMemStore()}
}

func (s *slowStore) Save(ctx context.Context, creds api.Credentials) error {
	s.mu.Lock()
	s.saves++
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return s.MemStore.Save(ctx, creds)
}

func (s *slowStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
	return s.MemStore.Clear(ctx)
}

func (s *slowStore) setGate(gate chan struct{}) {
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()
}

func (s *slowStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *slowStore) clearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

func TestNew_RequiresGateway(t *testing.T) {
	_, err := session.New(nil)
	assert.ErrorIs(t, err, session.ErrMissingGateway)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("durable login stores in durable tier only", func(t *testing.T) {
		f := setup(t, quietConfig())
		f.gateway.loginCreds = api.Credentials{Access: "acc", Renewal: "ren"}
		f.gateway.loginProfile = api.Profile{ID: "u1", Username: "ana"}

		res := f.manager.Login(ctx, "a@b.com", "pw", true)
		require.True(t, res.OK)

		view := f.manager.Snapshot()
		assert.True(t, view.Authenticated())
		assert.Equal(t, "ana", view.Profile.Username)
		assert.Equal(t, "acc", f.gateway.token())

		creds, found := stored(t, f.durable)
		assert.True(t, found)
		assert.Equal(t, api.Credentials{Access: "acc", Renewal: "ren"}, creds)

		_, found = stored(t, f.ephemeral)
		assert.False(t, found, "ephemeral tier must stay empty for a durable session")

		last, ok := f.recorder.Last()
		require.True(t, ok)
		assert.Equal(t, notify.SeveritySuccess, last.Severity)
	})

	t.Run("ephemeral login stores in ephemeral tier only", func(t *testing.T) {
		f := setup(t, quietConfig())
		f.gateway.loginCreds = api.Credentials{Access: "acc", Renewal: "ren"}
		f.gateway.loginProfile = api.Profile{ID: "u1"}

		res := f.manager.Login(ctx, "a@b.com", "pw", false)
		require.True(t, res.OK)

		_, found := stored(t, f.durable)
		assert.False(t, found)
		_, found = stored(t, f.ephemeral)
		assert.True(t, found)
	})

	t.Run("failure surfaces server message and leaves session unauthenticated", func(t *testing.T) {
		f := setup(t, quietConfig())
		f.gateway.loginErr = &api.APIError{Status: 401, Message: "invalid credentials"}

		res := f.manager.Login(ctx, "a@b.com", "bad", true)
		assert.False(t, res.OK)
		assert.Equal(t, "invalid credentials", res.Message)

		assert.False(t, f.manager.Snapshot().Authenticated())
		assert.Empty(t, f.gateway.token())

		last, ok := f.recorder.Last()
		require.True(t, ok)
		assert.Equal(t, notify.SeverityError, last.Severity)
		assert.Equal(t, "invalid credentials", last.Message)
	})

	t.Run("failure without server message uses generic fallback", func(t *testing.T) {
		f := setup(t, quietConfig())
		f.gateway.loginErr = errors.New("connection refused")

		res := f.manager.Login(ctx, "a@b.com", "pw", true)
		assert.False(t, res.OK)
		assert.NotEmpty(t, res.Message)
		assert.NotContains(t, res.Message, "connection refused")
	})

	t.Run("rejected after close", func(t *testing.T) {
		f := setup(t, quietConfig())
		f.gateway.loginCreds = api.Credentials{Access: "acc", Renewal: "ren"}
		f.gateway.loginProfile = api.Profile{ID: "u1"}
		require.NoError(t, f.manager.Close())

		res := f.manager.Login(ctx, "a@b.com", "pw", true)
		assert.False(t, res.OK)

		assert.False(t, f.manager.Snapshot().Authenticated())
		assert.Empty(t, f.gateway.token())
		_, found := stored(t, f.durable)
		assert.False(t, found)
	})
}

func TestRegister_NeverStoresCredentials(t *testing.T) {
	ctx := context.Background()
	f := setup(t, quietConfig())
	f.gateway.registerMsg = "Check your inbox to confirm."
	// Even a misbehaving server response cannot make registration log in.
	f.gateway.loginCreds = api.Credentials{Access: "acc", Renewal: "ren"}

	res := f.manager.Register(ctx, api.RegisterDetails{Username: "ana", Email: "a@b.com", Password: "pw"})
	require.True(t, res.OK)
	assert.Equal(t, "Check your inbox to confirm.", res.Message)

	assert.False(t, f.manager.Snapshot().Authenticated())
	_, found := stored(t, f.durable)
	assert.False(t, found)
	_, found = stored(t, f.ephemeral)
	assert.False(t, found)
	assert.Empty(t, f.gateway.token())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears everything even when the server call fails", func(t *testing.T) {
		f := setup(t, quietConfig())
		f.gateway.loginCreds = api.Credentials{Access: "acc", Renewal: "ren"}
		f.gateway.loginProfile = api.Profile{ID: "u1"}
		require.True(t, f.manager.Login(ctx, "a@b.com", "pw", true).OK)

		f.gateway.logoutErr = errors.New("network down")

		res := f.manager.Logout(ctx)
		assert.True(t, res.OK)

		view := f.manager.Snapshot()
		assert.False(t, view.Authenticated())
		assert.Empty(t, view.Profile.ID)
		assert.Empty(t, f.gateway.token())

		_, found := stored(t, f.durable)
		assert.False(t, found)
		_, found = stored(t, f.ephemeral)
		assert.False(t, found)
	})
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("no stored credentials settles unauthenticated", func(t *testing.T) {
		f := setup(t, quietConfig())
		require.NoError(t, f.manager.Bootstrap(ctx))
		assert.Equal(t, session.StatusUnauthenticated, f.manager.Snapshot().Status)
	})

	t.Run("valid durable credentials restore the session", func(t *testing.T) {
		f := setup(t, quietConfig())
		require.NoError(t, f.durable.Save(ctx, api.Credentials{Access: "acc", Renewal: "ren"}))
		f.gateway.meProfile = api.Profile{ID: "u1", Username: "ana"}

		require.NoError(t, f.manager.Bootstrap(ctx))

		view := f.manager.Snapshot()
		assert.True(t, view.Authenticated())
		assert.Equal(t, "ana", view.Profile.Username)
		assert.Equal(t, "acc", f.gateway.token())
	})

	t.Run("rejected credential clears both tiers", func(t *testing.T) {
		f := setup(t, quietConfig())
		require.NoError(t, f.durable.Save(ctx, api.Credentials{Access: "stale", Renewal: "stale"}))
		require.NoError(t, f.ephemeral.Save(ctx, api.Credentials{Access: "stale2", Renewal: "stale2"}))
		f.gateway.meErr = &api.APIError{Status: 401, Message: "token expired"}

		require.NoError(t, f.manager.Bootstrap(ctx))

		assert.Equal(t, session.StatusUnauthenticated, f.manager.Snapshot().Status)
		_, found := stored(t, f.durable)
		assert.False(t, found)
		_, found = stored(t, f.ephemeral)
		assert.False(t, found)
	})

	t.Run("second bootstrap is rejected", func(t *testing.T) {
		f := setup(t, quietConfig())
		require.NoError(t, f.manager.Bootstrap(ctx))
		assert.ErrorIs(t, f.manager.Bootstrap(ctx), session.ErrAlreadyBootstrapped)
	})
}

func TestRenewal(t *testing.T) {
	ctx := context.Background()

	t.Run("success replaces both credentials in the same tier", func(t *testing.T) {
		f := setup(t, session.Config{RenewalInterval: 10 * time.Millisecond, RequestTimeout: time.Second})
		f.gateway.loginCreds = api.Credentials{Access: "acc1", Renewal: "ren1"}
		f.gateway.loginProfile = api.Profile{ID: "u1"}
		f.gateway.refreshCreds = api.Credentials{Access: "acc2", Renewal: "ren2"}

		require.True(t, f.manager.Login(ctx, "a@b.com", "pw", true).OK)

		require.Eventually(t, func() bool {
			creds, found := stored(t, f.durable)
			return found && creds == api.Credentials{Access: "acc2", Renewal: "ren2"}
		}, time.Second, 5*time.Millisecond)

		assert.Equal(t, "acc2", f.gateway.token())
		_, found := stored(t, f.ephemeral)
		assert.False(t, found)
	})

	t.Run("failure is session death", func(t *testing.T) {
		f := setup(t, session.Config{RenewalInterval: 10 * time.Millisecond, RequestTimeout: time.Second})
		f.gateway.loginCreds = api.Credentials{Access: "acc1", Renewal: "ren1"}
		f.gateway.loginProfile = api.Profile{ID: "u1"}
		f.gateway.refreshErr = &api.APIError{Status: 401, Message: "refresh token revoked"}

		require.True(t, f.manager.Login(ctx, "a@b.com", "pw", true).OK)

		require.Eventually(t, func() bool {
			return !f.manager.Snapshot().Authenticated()
		}, time.Second, 5*time.Millisecond)

		assert.Empty(t, f.gateway.token())
		_, found := stored(t, f.durable)
		assert.False(t, found)

		// No opportunistic retries with a stale renewal credential.
		calls := f.gateway.refreshCount()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, calls, f.gateway.refreshCount())
	})

	t.Run("close disarms the timer", func(t *testing.T) {
		f := setup(t, session.Config{RenewalInterval: 10 * time.Millisecond, RequestTimeout: time.Second})
		f.gateway.loginCreds = api.Credentials{Access: "acc1", Renewal: "ren1"}
		f.gateway.loginProfile = api.Profile{ID: "u1"}
		f.gateway.refreshCreds = api.Credentials{Access: "acc2", Renewal: "ren2"}

		require.True(t, f.manager.Login(ctx, "a@b.com", "pw", true).OK)
		require.NoError(t, f.manager.Close())

		calls := f.gateway.refreshCount()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, calls, f.gateway.refreshCount())

		// Whatever was stored before Close stays put; nothing new is applied.
		creds, found := stored(t, f.durable)
		assert.True(t, found)
		assert.Contains(t, []string{"acc1", "acc2"}, creds.Access)
	})

	t.Run("storage write racing logout is discarded", func(t *testing.T) {
		ctx := context.Background()
		gateway := &fakeGateway{
			loginCreds:   api.Credentials{Access: "acc1", Renewal: "ren1"},
			loginProfile: api.Profile{ID: "u1"},
			refreshCreds: api.Credentials{Access: "acc2", Renewal: "ren2"},
		}
		durable := newSlowStore()
		recorder := notify.NewRecorder()

		m, err := session.New(gateway,
			session.WithConfig(session.Config{RenewalInterval: 10 * time.Millisecond, RequestTimeout: time.Second}),
			session.WithDurableStore(durable),
			session.WithNotifier(recorder),
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = m.Close() })

		require.True(t, m.Login(ctx, "a@b.com", "pw", true).OK)
		saves := durable.saveCount()

		// Hold the renewal's storage write open mid-cycle.
		gate := make(chan struct{})
		durable.setGate(gate)
		require.Eventually(t, func() bool {
			return durable.saveCount() > saves
		}, time.Second, time.Millisecond)

		require.True(t, m.Logout(ctx).OK)
		clears := durable.clearCount()
		_, found := stored(t, durable.MemStore)
		require.False(t, found)

		// Releasing the write must not resurrect the pair in storage.
		close(gate)
		require.Eventually(t, func() bool {
			return durable.clearCount() > clears
		}, time.Second, time.Millisecond)

		_, found = stored(t, durable.MemStore)
		assert.False(t, found, "a renewal landing after logout must leave both tiers empty")
		assert.False(t, m.Snapshot().Authenticated())
	})
}

func TestPostLoginRedirect(t *testing.T) {
	ctx := context.Background()
	f := setup(t, quietConfig())
	f.gateway.loginCreds = api.Credentials{Access: "acc", Renewal: "ren"}
	f.gateway.loginProfile = api.Profile{ID: "u1"}

	f.manager.SetPostLoginTarget("/videos/7")

	res := f.manager.Login(ctx, "a@b.com", "pw", false)
	require.True(t, res.OK)
	assert.Equal(t, "/videos/7", res.RedirectTo)

	// Consumed by the first login; the next one has no stored target.
	res = f.manager.Login(ctx, "a@b.com", "pw", false)
	require.True(t, res.OK)
	assert.Empty(t, res.RedirectTo)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("success patches the in-memory profile", func(t *testing.T) {
		f := setup(t, quietConfig())
		f.gateway.loginCreds = api.Credentials{Access: "acc", Renewal: "ren"}
		f.gateway.loginProfile = api.Profile{ID: "u1", DisplayName: "Ana"}
		require.True(t, f.manager.Login(ctx, "a@b.com", "pw", false).OK)

		f.gateway.updatedProf = api.Profile{ID: "u1", DisplayName: "Ana B."}
		name := "Ana B."

		res := f.manager.UpdateProfile(ctx, api.ProfilePatch{DisplayName: &name})
		require.True(t, res.OK)
		assert.Equal(t, "Ana B.", f.manager.Snapshot().Profile.DisplayName)
	})

	t.Run("failure leaves the session authenticated", func(t *testing.T) {
		f := setup(t, quietConfig())
		f.gateway.loginCreds = api.Credentials{Access: "acc", Renewal: "ren"}
		f.gateway.loginProfile = api.Profile{ID: "u1", DisplayName: "Ana"}
		require.True(t, f.manager.Login(ctx, "a@b.com", "pw", false).OK)

		f.gateway.updateErr = &api.APIError{Status: 422, Message: "display name too long"}
		name := "way too long"

		res := f.manager.UpdateProfile(ctx, api.ProfilePatch{DisplayName: &name})
		assert.False(t, res.OK)
		assert.Equal(t, "display name too long", res.Message)

		view := f.manager.Snapshot()
		assert.True(t, view.Authenticated())
		assert.Equal(t, "Ana", view.Profile.DisplayName)
	})
}

func TestChangeSecret(t *testing.T) {
	ctx := context.Background()
	f := setup(t, quietConfig())
	f.gateway.loginCreds = api.Credentials{Access: "acc", Renewal: "ren"}
	f.gateway.loginProfile = api.Profile{ID: "u1"}
	require.True(t, f.manager.Login(ctx, "a@b.com", "pw", false).OK)

	t.Run("success", func(t *testing.T) {
		res := f.manager.ChangeSecret(ctx, "pw", "stronger-pw")
		assert.True(t, res.OK)
	})

	t.Run("failure does not affect the session", func(t *testing.T) {
		f.gateway.passwordErr = &api.APIError{Status: 400, Message: "current password incorrect"}
		res := f.manager.ChangeSecret(ctx, "wrong", "stronger-pw")
		assert.False(t, res.OK)
		assert.True(t, f.manager.Snapshot().Authenticated())
	})
}

func TestView_TokenExpiry(t *testing.T) {
	ctx := context.Background()
	f := setup(t, quietConfig())

	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	f.gateway.loginCreds = api.Credentials{Access: token, Renewal: "ren"}
	f.gateway.loginProfile = api.Profile{ID: "u1"}
	require.True(t, f.manager.Login(ctx, "a@b.com", "pw", false).OK)

	view := f.manager.Snapshot()
	require.NotNil(t, view.TokenExpiresAt)
	assert.True(t, exp.Equal(*view.TokenExpiresAt))
}
