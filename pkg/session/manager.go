package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/openvlog/vlogkit/pkg/api"
	"github.com/openvlog/vlogkit/pkg/credstore"
	"github.com/openvlog/vlogkit/pkg/logger"
	"github.com/openvlog/vlogkit/pkg/notify"
)

// Gateway is the slice of the API client the session manager depends on.
// *api.Client satisfies it; tests substitute a fake.
type Gateway interface {
	Login(ctx context.Context, identifier, secret string) (api.Credentials, api.Profile, error)
	Register(ctx context.Context, details api.RegisterDetails) (string, error)
	Me(ctx context.Context, accessCredential string) (api.Profile, error)
	Refresh(ctx context.Context, renewalCredential string) (api.Credentials, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, patch api.ProfilePatch) (api.Profile, error)
	ChangePassword(ctx context.Context, current, next string) error
	SetAuthToken(token string)
}

// Manager owns the authentication session. All credential state is mutated
// only through its methods; the rest of the application sees read-only View
// copies.
type Manager struct {
	gateway   Gateway
	durable   credstore.Store
	ephemeral credstore.Store
	notifier  notify.Notifier
	logger    *slog.Logger
	config    Config

	mu      sync.Mutex
	status  Status
	profile api.Profile
	creds   api.Credentials
	// durableTier records which tier the current session's credentials live
	// in; meaningless while unauthenticated.
	durableTier bool

	postLoginTarget string

	// gen increments on every teardown or credential re-arm. In-flight
	// renewals compare their snapshot against it and discard stale results.
	gen         uint64
	renewalStop chan struct{}
	closed      bool
}

// New creates the session manager. The gateway is required; stores default
// to an in-memory ephemeral tier and a no-durable-tier setup when omitted.
func New(gateway Gateway, opts ...Option) (*Manager, error) {
	if gateway == nil {
		return nil, ErrMissingGateway
	}

	m := &Manager{
		gateway:  gateway,
		notifier: notify.NopNotifier{},
		logger:   slog.Default(),
		config:   DefaultConfig(),
		status:   StatusUninitialized,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.ephemeral == nil {
		m.ephemeral = credstore.NewMemStore()
	}

	return m, nil
}

// Snapshot returns the current read model.
func (m *Manager) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return View{
		Status:         m.status,
		Profile:        m.profile,
		TokenExpiresAt: tokenExpiry(m.creds.Access),
	}
}

// SetPostLoginTarget stores where the user should land after the next
// successful login. It takes precedence over any caller-side fallback and is
// consumed by that login.
func (m *Manager) SetPostLoginTarget(path string) {
	m.mu.Lock()
	m.postLoginTarget = path
	m.mu.Unlock()
}

// Bootstrap restores a previous session from stored credentials, if any.
// Valid only once, from the uninitialized state. The durable tier is checked
// first, then the ephemeral one; the stored access credential is probed via
// the who-am-I endpoint. Any failure clears both tiers and settles the
// session unauthenticated.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.status != StatusUninitialized {
		m.mu.Unlock()
		return ErrAlreadyBootstrapped
	}
	m.status = StatusResolving
	m.mu.Unlock()

	creds, durable, found := m.loadStored(ctx)
	if !found {
		m.settleUnauthenticated()
		return nil
	}

	profile, err := m.gateway.Me(ctx, creds.Access)
	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelInfo, "stored session rejected, clearing credentials",
			logger.Component("session"), logger.Error(err))
		m.clearStores(ctx)
		m.settleUnauthenticated()
		return nil
	}

	m.mu.Lock()
	m.status = StatusAuthenticated
	m.profile = profile
	m.creds = creds
	m.durableTier = durable
	m.gateway.SetAuthToken(creds.Access)
	m.armRenewalLocked()
	m.mu.Unlock()

	m.logger.LogAttrs(ctx, slog.LevelInfo, "session restored from storage",
		logger.Component("session"), logger.UserID(profile.ID))
	return nil
}

// Login authenticates with the platform. On success the credential pair is
// stored in the chosen tier (durable or ephemeral, never both), the default
// auth header is installed and silent renewal is armed.
func (m *Manager) Login(ctx context.Context, identifier, secret string, durable bool) Result {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Result{OK: false, Message: ErrClosed.Error()}
	}
	m.mu.Unlock()

	creds, profile, err := m.gateway.Login(ctx, identifier, secret)
	if err != nil {
		msg := api.ServerMessage(err)
		if msg == "" {
			msg = msgLoginFailed
		}
		m.notifier.Notify(ctx, notify.Notification{Message: msg, Severity: notify.SeverityError})
		return Result{OK: false, Message: msg}
	}

	m.mu.Lock()
	if m.closed {
		// Torn down while the request was in flight; the credentials are
		// dropped, never installed or stored.
		m.mu.Unlock()
		return Result{OK: false, Message: ErrClosed.Error()}
	}
	m.status = StatusAuthenticated
	m.profile = profile
	m.creds = creds
	m.durableTier = durable
	// Header before storage write, so stored and in-flight credentials never
	// diverge.
	m.gateway.SetAuthToken(creds.Access)
	m.armRenewalLocked()
	gen := m.gen
	redirect := m.postLoginTarget
	m.postLoginTarget = ""
	m.mu.Unlock()

	m.persistGuarded(ctx, creds, durable, gen)

	m.notifier.Notify(ctx, notify.Notification{Message: msgLoginOK, Severity: notify.SeveritySuccess})
	m.logger.LogAttrs(ctx, slog.LevelInfo, "signed in",
		logger.Component("session"), logger.UserID(profile.ID))

	return Result{OK: true, Message: msgLoginOK, RedirectTo: redirect}
}

// Register creates an account. Registration never implies login: no
// credentials are issued or stored here regardless of the response.
func (m *Manager) Register(ctx context.Context, details api.RegisterDetails) Result {
	serverMsg, err := m.gateway.Register(ctx, details)
	if err != nil {
		msg := api.ServerMessage(err)
		if msg == "" {
			msg = msgRegisterFailed
		}
		m.notifier.Notify(ctx, notify.Notification{Message: msg, Severity: notify.SeverityError})
		return Result{OK: false, Message: msg}
	}

	msg := serverMsg
	if msg == "" {
		msg = msgRegisterOK
	}
	m.notifier.Notify(ctx, notify.Notification{Message: msg, Severity: notify.SeveritySuccess})
	return Result{OK: true, Message: msg}
}

// Logout invalidates the session server-side on a best-effort basis, then
// unconditionally clears all local state: profile, credentials, both storage
// tiers and the default auth header.
func (m *Manager) Logout(ctx context.Context) Result {
	// Best effort; a network failure must never block the local transition.
	if err := m.gateway.Logout(ctx); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "server-side session invalidation failed",
			logger.Component("session"), logger.Error(err))
	}

	m.mu.Lock()
	m.teardownSessionLocked()
	m.mu.Unlock()

	m.clearStores(ctx)

	m.notifier.Notify(ctx, notify.Notification{Message: msgLogoutOK, Severity: notify.SeverityInfo})
	return Result{OK: true, Message: msgLogoutOK}
}

// UpdateProfile patches the signed-in user's profile. Failure never affects
// the authenticated state.
func (m *Manager) UpdateProfile(ctx context.Context, patch api.ProfilePatch) Result {
	profile, err := m.gateway.UpdateProfile(ctx, patch)
	if err != nil {
		msg := api.ServerMessage(err)
		if msg == "" {
			msg = msgProfileFailed
		}
		m.notifier.Notify(ctx, notify.Notification{Message: msg, Severity: notify.SeverityError})
		return Result{OK: false, Message: msg}
	}

	m.mu.Lock()
	if m.status == StatusAuthenticated {
		m.profile = profile
	}
	m.mu.Unlock()

	m.notifier.Notify(ctx, notify.Notification{Message: msgProfileOK, Severity: notify.SeveritySuccess})
	return Result{OK: true, Message: msgProfileOK}
}

// ChangeSecret replaces the account password. Thin pass-through; failure
// never affects the authenticated state.
func (m *Manager) ChangeSecret(ctx context.Context, current, next string) Result {
	if err := m.gateway.ChangePassword(ctx, current, next); err != nil {
		msg := api.ServerMessage(err)
		if msg == "" {
			msg = msgPasswordFailed
		}
		m.notifier.Notify(ctx, notify.Notification{Message: msg, Severity: notify.SeverityError})
		return Result{OK: false, Message: msg}
	}

	m.notifier.Notify(ctx, notify.Notification{Message: msgPasswordOK, Severity: notify.SeveritySuccess})
	return Result{OK: true, Message: msgPasswordOK}
}

// Close tears the manager down: the renewal ticker is stopped and no
// in-flight renewal may be applied afterwards. Local session state is left
// as-is; Close is process shutdown, not logout.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.gen++
	m.stopRenewalLocked()
	return nil
}

// loadStored tries the durable tier, then the ephemeral one. Returns which
// tier the pair came from.
func (m *Manager) loadStored(ctx context.Context) (creds api.Credentials, durable, found bool) {
	if m.durable != nil {
		creds, ok, err := m.durable.Load(ctx)
		if err != nil {
			m.logger.LogAttrs(ctx, slog.LevelWarn, "durable credential load failed",
				logger.Component("session"), logger.Error(err))
		} else if ok {
			return creds, true, true
		}
	}
	creds, ok, err := m.ephemeral.Load(ctx)
	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "ephemeral credential load failed",
			logger.Component("session"), logger.Error(err))
		return api.Credentials{}, false, false
	}
	return creds, false, ok
}

// persist writes the pair to the chosen tier and clears the other, keeping
// the at-most-one-tier invariant.
func (m *Manager) persist(ctx context.Context, creds api.Credentials, durable bool) {
	if durable && m.durable != nil {
		if err := m.durable.Save(ctx, creds); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelWarn, "durable credential save failed",
				logger.Component("session"), logger.Error(err))
		}
		if err := m.ephemeral.Clear(ctx); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelWarn, "ephemeral credential clear failed",
				logger.Component("session"), logger.Error(err))
		}
		return
	}
	if err := m.ephemeral.Save(ctx, creds); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "ephemeral credential save failed",
			logger.Component("session"), logger.Error(err))
	}
	if m.durable != nil {
		if err := m.durable.Clear(ctx); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelWarn, "durable credential clear failed",
				logger.Component("session"), logger.Error(err))
		}
	}
}

// persistGuarded persists the pair, then re-checks the generation it was
// issued under. A teardown that raced the storage write already cleared the
// tiers, so a pair written afterwards must not survive it.
func (m *Manager) persistGuarded(ctx context.Context, creds api.Credentials, durable bool, gen uint64) {
	m.persist(ctx, creds, durable)

	m.mu.Lock()
	stale := m.gen != gen
	m.mu.Unlock()
	if stale {
		m.clearStores(ctx)
	}
}

func (m *Manager) clearStores(ctx context.Context) {
	if m.durable != nil {
		if err := m.durable.Clear(ctx); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelWarn, "durable credential clear failed",
				logger.Component("session"), logger.Error(err))
		}
	}
	if err := m.ephemeral.Clear(ctx); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "ephemeral credential clear failed",
			logger.Component("session"), logger.Error(err))
	}
}

func (m *Manager) settleUnauthenticated() {
	m.mu.Lock()
	m.status = StatusUnauthenticated
	m.profile = api.Profile{}
	m.creds = api.Credentials{}
	m.gateway.SetAuthToken("")
	m.mu.Unlock()
}

// teardownSessionLocked clears in-memory session state and the default auth
// header, and invalidates any in-flight renewal. Caller holds m.mu.
func (m *Manager) teardownSessionLocked() {
	m.gen++
	m.stopRenewalLocked()
	m.status = StatusUnauthenticated
	m.profile = api.Profile{}
	m.creds = api.Credentials{}
	m.gateway.SetAuthToken("")
}
