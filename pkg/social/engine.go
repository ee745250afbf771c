package social

import (
	"context"
	"log/slog"
	"sync"

	"github.com/openvlog/vlogkit/pkg/api"
	"github.com/openvlog/vlogkit/pkg/cache"
	"github.com/openvlog/vlogkit/pkg/logger"
	"github.com/openvlog/vlogkit/pkg/notify"
	"github.com/openvlog/vlogkit/pkg/session"
)

// Gateway is the slice of the API client the engine depends on.
type Gateway interface {
	ToggleRelation(ctx context.Context, targetID string, kind api.RelationKind, direction api.Direction) (api.RelationResult, error)
}

// SessionReader exposes the session read model the engine gates on.
// *session.Manager satisfies it.
type SessionReader interface {
	Snapshot() session.View
}

// Result is the reported outcome of a toggle. Suppressed means a mutation
// for the same target and kind was already in flight and this call was a
// deliberate no-op.
type Result struct {
	OK         bool
	Suppressed bool
	Message    string

	// RedirectTo is set to the login surface when the call was deflected
	// for lack of authentication.
	RedirectTo string
}

type pendingKey struct {
	targetID string
	kind     Kind
}

// pendingRecord holds everything needed to settle one in-flight mutation:
// the exact patch it applied, so rollback reverts that and nothing else,
// and the settlement state.
type pendingRecord struct {
	key      pendingKey
	viewerID string

	// member is the viewer's membership before the patch; delta is the
	// counter movement the patch applied.
	member bool
	delta  int64

	viewerExisted bool
	targetExisted bool
	state         settlement
}

// Engine applies social-graph toggles optimistically against the entity
// cache and reconciles them with the server. One instance per client
// process; safe for concurrent use.
type Engine struct {
	gateway  Gateway
	sessions SessionReader
	notifier notify.Notifier
	logger   *slog.Logger

	entities *cache.LRU[string, Snapshot]

	mu      sync.Mutex
	pending map[pendingKey]*pendingRecord
}

// New creates the mutation engine.
func New(gateway Gateway, sessions SessionReader, opts ...Option) (*Engine, error) {
	if gateway == nil {
		return nil, ErrMissingGateway
	}
	if sessions == nil {
		return nil, ErrMissingSession
	}

	e := &Engine{
		gateway:  gateway,
		sessions: sessions,
		notifier: notify.NopNotifier{},
		logger:   slog.Default(),
		pending:  make(map[pendingKey]*pendingRecord),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.entities == nil {
		e.entities = cache.NewLRU[string, Snapshot](DefaultConfig().CacheCapacity)
	}

	return e, nil
}

// Toggle flips the viewer's relation of the given kind with the target
// entity: follow↔unfollow, like↔unlike, bookmark↔unbookmark. The cache is
// patched immediately and the server reconciled afterwards; on failure the
// patch is rolled back exactly.
func (e *Engine) Toggle(ctx context.Context, targetID string, kind Kind) Result {
	transportKind, ok := kind.apiKind()
	if !ok {
		return Result{OK: false, Message: ErrUnknownKind.Error()}
	}

	// Authentication gate. Must reject before any cache or network effect.
	view := e.sessions.Snapshot()
	if !view.Authenticated() {
		e.notifier.Notify(ctx, notify.Notification{
			Message:  msgSignInRequired,
			Severity: notify.SeverityWarning,
		})
		return Result{OK: false, Message: msgSignInRequired, RedirectTo: loginSurface}
	}
	viewerID := view.Profile.ID

	key := pendingKey{targetID: targetID, kind: kind}

	e.mu.Lock()
	if _, inFlight := e.pending[key]; inFlight {
		// A rapid double-trigger nets one request; later calls are dropped,
		// not queued.
		e.mu.Unlock()
		return Result{OK: true, Suppressed: true}
	}

	viewer, viewerExisted := e.entities.Get(viewerID)
	viewer.ID = viewerID
	target, targetExisted := e.entities.Get(targetID)
	target.ID = targetID

	member := viewer.Has(kind, targetID)
	direction := api.DirectionApply
	delta := int64(1)
	if member {
		direction = api.DirectionRemove
		delta = -1
	}

	rec := &pendingRecord{
		key:           key,
		viewerID:      viewerID,
		member:        member,
		delta:         delta,
		viewerExisted: viewerExisted,
		targetExisted: targetExisted,
		state:         settlementPending,
	}

	// Optimistic patch: relation list and counter move together, under the
	// same lock as the guards above.
	viewer.toggleMembership(kind, targetID, !member)
	*target.counter(kind) += delta
	e.entities.Put(viewerID, viewer)
	e.entities.Put(targetID, target)
	e.pending[key] = rec
	e.mu.Unlock()

	result, err := e.gateway.ToggleRelation(ctx, targetID, transportKind, direction)
	if err != nil {
		e.rollback(rec)
		msg := api.ServerMessage(err)
		if msg == "" {
			msg = err.Error()
		}
		e.notifier.Notify(ctx, notify.Notification{Message: msg, Severity: notify.SeverityError})
		e.logger.LogAttrs(ctx, slog.LevelWarn, "relation toggle failed, rolled back",
			logger.Component("social"), logger.TargetID(targetID), logger.Kind(string(kind)), logger.Error(err))
		return Result{OK: false, Message: msg}
	}

	e.commit(rec, kind, result)

	msg := successMessage(kind, direction)
	e.notifier.Notify(ctx, notify.Notification{Message: msg, Severity: notify.SeveritySuccess})
	return Result{OK: true, Message: msg}
}

// commit settles a pending record as committed and reconciles the target
// counter with an authoritative value when the response carried one.
func (e *Engine) commit(rec *pendingRecord, kind Kind, result api.RelationResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending[rec.key] != rec {
		// Engine was reset while the request was in flight; the cache this
		// record refers to no longer exists.
		return
	}
	delete(e.pending, rec.key)
	rec.state = settlementCommitted

	if result.Counter != nil {
		if target, ok := e.entities.Get(rec.key.targetID); ok {
			*target.counter(kind) = *result.Counter
			e.entities.Put(rec.key.targetID, target)
		}
	}
}

// rollback settles a pending record as rolled back and reverts exactly the
// patch it applied: the membership flip and the counter delta, together.
// Mutations on other keys that settled in the meantime are untouched. Pure
// local assignment; it cannot fail.
func (e *Engine) rollback(rec *pendingRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending[rec.key] != rec {
		return
	}
	delete(e.pending, rec.key)
	rec.state = settlementRolledBack

	if viewer, ok := e.entities.Get(rec.viewerID); ok {
		viewer.toggleMembership(rec.key.kind, rec.key.targetID, rec.member)
		e.storeRevertedLocked(rec.viewerID, viewer, rec.viewerExisted)
	}
	if target, ok := e.entities.Get(rec.key.targetID); ok {
		*target.counter(rec.key.kind) -= rec.delta
		e.storeRevertedLocked(rec.key.targetID, target, rec.targetExisted)
	}
}

// storeRevertedLocked writes a reverted snapshot back, dropping entries the
// patch itself created when nothing else has accumulated on them. Caller
// holds e.mu.
func (e *Engine) storeRevertedLocked(id string, snap Snapshot, existed bool) {
	if !existed && snap.empty() {
		e.entities.Delete(id)
		return
	}
	e.entities.Put(id, snap)
}

// Get returns a copy of the cached snapshot for id. Views render from this,
// never from component-local state.
func (e *Engine) Get(id string) (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, ok := e.entities.Get(id)
	if !ok {
		return Snapshot{}, false
	}
	return snap.clone(), true
}

// Prime overwrites the cached snapshot for an entity with authoritative
// server data, e.g. after a feed or profile fetch.
func (e *Engine) Prime(snap Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entities.Put(snap.ID, snap.clone())
}

// IsPending reports whether a mutation for (targetID, kind) is in flight.
func (e *Engine) IsPending(targetID string, kind Kind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[pendingKey{targetID: targetID, kind: kind}]
	return ok
}

// Reset discards the entity cache and all pending records, e.g. on logout.
// Results of requests still in flight are dropped when they settle.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entities.Purge()
	e.pending = make(map[pendingKey]*pendingRecord)
}

func successMessage(kind Kind, direction api.Direction) string {
	apply := direction == api.DirectionApply
	switch kind {
	case KindLike:
		if apply {
			return "Video liked!"
		}
		return "Like removed."
	case KindBookmark:
		if apply {
			return "Video bookmarked!"
		}
		return "Bookmark removed."
	default:
		if apply {
			return "User followed!"
		}
		return "User unfollowed."
	}
}
