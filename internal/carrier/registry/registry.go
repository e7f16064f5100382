// Package registry is the ledger-backed order registry: the single owner of
// the order catalog and every actor's wallet. All mutation goes through the
// two transition operations, which validate first and write only after every
// precondition holds, so a failed call never leaves partial state behind.
package registry

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nazeru/carrier-marketplace-go/internal/carrier/domain"
	"github.com/nazeru/carrier-marketplace-go/internal/carrier/journal"
	"github.com/nazeru/carrier-marketplace-go/pkg/contracts"
	"github.com/nazeru/carrier-marketplace-go/pkg/logging"
	"github.com/nazeru/carrier-marketplace-go/pkg/metrics"
	"github.com/nazeru/carrier-marketplace-go/pkg/money"
)

const service = "registry"

// defaultName mirrors the mocked auth screen: a blank name signs in as Alex.
const defaultName = "Alex"

// Session identifies one signed-in actor. Sessions are explicit values
// passed to every call rather than an ambient current user, so several can
// coexist; SignOut invalidates exactly the session it is given.
type Session struct {
	ID      string
	ActorID domain.ActorID
}

type Config struct {
	// SeedBalance is the wallet balance granted on sign-in.
	// Zero means domain.SeedBalance.
	SeedBalance money.Amount
	// Orders overrides the seed catalog. Nil means domain.SeedOrders().
	Orders []domain.Order
}

type Registry struct {
	mu       sync.Mutex
	orders   map[domain.OrderID]*domain.Order
	seq      []domain.OrderID // catalog insertion order
	actors   map[domain.ActorID]*domain.Actor
	sessions map[string]domain.ActorID

	seedBalance money.Amount
	metrics     *metrics.OpMetrics
	journal     *journal.Journal
}

func New(cfg Config) *Registry {
	seed := cfg.Orders
	if seed == nil {
		seed = domain.SeedOrders()
	}
	balance := cfg.SeedBalance
	if balance == 0 {
		balance = domain.SeedBalance
	}

	r := &Registry{
		orders:      make(map[domain.OrderID]*domain.Order, len(seed)),
		actors:      make(map[domain.ActorID]*domain.Actor),
		sessions:    make(map[string]domain.ActorID),
		seedBalance: balance,
		metrics:     metrics.NewOpMetrics(service),
		journal:     journal.New(),
	}
	for i := range seed {
		order := seed[i]
		r.orders[order.ID] = &order
		r.seq = append(r.seq, order.ID)
	}
	return r
}

// SignIn fabricates an actor locally and opens a session for it. There is
// no credential check; it always succeeds.
func (r *Registry) SignIn(name string, role domain.Role) *Session {
	if strings.TrimSpace(name) == "" {
		name = defaultName
	}

	r.mu.Lock()
	actor := &domain.Actor{
		ID:      domain.ActorID("USR-" + uuid.NewString()),
		Name:    name,
		Role:    role,
		Balance: r.seedBalance,
	}
	sess := &Session{ID: uuid.NewString(), ActorID: actor.ID}
	r.actors[actor.ID] = actor
	r.sessions[sess.ID] = actor.ID
	r.mu.Unlock()

	r.journal.Append(contracts.Event{
		EventID:   uuid.NewString(),
		ActorID:   string(actor.ID),
		CreatedAt: time.Now().UTC(),
		Type:      contracts.EventSessionSignedIn,
		Payload:   map[string]any{"name": name, "role": string(role)},
	})
	logging.Log(logging.Fields{
		Service: service, Op: "sign_in", ActorID: string(actor.ID),
		SessionID: sess.ID, Status: "ok", Message: name,
	})
	return sess
}

// SignOut closes the session. Order state and wallet balances stay as
// committed; there is no session-scoped undo.
func (r *Registry) SignOut(sess *Session) {
	if sess == nil {
		return
	}
	r.mu.Lock()
	_, live := r.sessions[sess.ID]
	delete(r.sessions, sess.ID)
	r.mu.Unlock()
	if !live {
		return
	}

	r.journal.Append(contracts.Event{
		EventID:   uuid.NewString(),
		ActorID:   string(sess.ActorID),
		CreatedAt: time.Now().UTC(),
		Type:      contracts.EventSessionSignedOut,
	})
	logging.Log(logging.Fields{
		Service: service, Op: "sign_out", ActorID: string(sess.ActorID),
		SessionID: sess.ID, Status: "ok",
	})
}

// ListAvailable returns the orders still open for acceptance, in catalog
// order. Callers apply distance ordering themselves if they want it.
func (r *Registry) ListAvailable() []domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, id := range r.seq {
		if order := r.orders[id]; order.Status == domain.OrderStatusAvailable {
			out = append(out, *order)
		}
	}
	return out
}

// Orders returns a snapshot of the whole catalog in catalog order.
func (r *Registry) Orders() []domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Order, 0, len(r.seq))
	for _, id := range r.seq {
		out = append(out, *r.orders[id])
	}
	return out
}

// Actor returns a copy of the session's actor record.
func (r *Registry) Actor(sess *Session) (domain.Actor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	actor, err := r.actorFor(sess)
	if err != nil {
		return domain.Actor{}, false
	}
	return *actor, true
}

// Balance returns the session's wallet balance.
func (r *Registry) Balance(sess *Session) (money.Amount, bool) {
	actor, ok := r.Actor(sess)
	if !ok {
		return 0, false
	}
	return actor.Balance, true
}

// CurrentAssignment returns the session's in-progress order, if any. The
// transition rules allow at most one per actor.
func (r *Registry) CurrentAssignment(sess *Session) (domain.Order, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	actor, err := r.actorFor(sess)
	if err != nil {
		return domain.Order{}, false
	}
	for _, id := range r.seq {
		order := r.orders[id]
		if order.Status == domain.OrderStatusInProgress && order.AssignedTo == actor.ID {
			return *order, true
		}
	}
	return domain.Order{}, false
}

// AcceptOrder places a hold equal to the order's item value on the actor's
// wallet and assigns the order. Debit and status write happen together
// under the lock, re-validated there, so two racing accepts cannot both
// win the same order. Returns the hold amount debited.
func (r *Registry) AcceptOrder(sess *Session, orderID domain.OrderID) (money.Amount, error) {
	start := time.Now()

	r.mu.Lock()
	actor, err := r.actorFor(sess)
	if err != nil {
		r.mu.Unlock()
		return 0, r.finish("accept_order", start, sess, orderID, 0, err)
	}
	order, ok := r.orders[orderID]
	if !ok {
		r.mu.Unlock()
		return 0, r.finish("accept_order", start, sess, orderID, 0, ErrNotFound)
	}
	if order.Status != domain.OrderStatusAvailable {
		r.mu.Unlock()
		err := fmt.Errorf("%w: order not available", ErrInvalidState)
		return 0, r.finish("accept_order", start, sess, orderID, 0, err)
	}
	hold := order.ItemValue
	if actor.Balance < hold {
		r.mu.Unlock()
		return 0, r.finish("accept_order", start, sess, orderID, 0, ErrInsufficientFunds)
	}

	actor.Balance -= hold
	order.Status = domain.OrderStatusInProgress
	order.AssignedTo = actor.ID
	storeName := order.StoreName
	r.mu.Unlock()

	now := time.Now().UTC()
	r.journal.Append(contracts.Event{
		EventID: uuid.NewString(), OrderID: string(orderID), ActorID: string(actor.ID),
		CreatedAt: now, Type: contracts.EventOrderAccepted,
		Payload: map[string]any{"store": storeName},
	})
	r.journal.Append(contracts.Event{
		EventID: uuid.NewString(), OrderID: string(orderID), ActorID: string(actor.ID),
		CreatedAt: now, Type: contracts.EventWalletHoldPlaced,
		Payload: map[string]any{"amount_cents": int64(hold)},
	})
	return hold, r.finish("accept_order", start, sess, orderID, hold, nil)
}

// CompleteDelivery releases the hold and credits the delivery fee in one
// step, marks the order delivered and stores the proof reference. Returns
// the released hold and the fee separately.
func (r *Registry) CompleteDelivery(sess *Session, orderID domain.OrderID, proofRef string) (released, reward money.Amount, err error) {
	start := time.Now()

	r.mu.Lock()
	actor, err := r.actorFor(sess)
	if err != nil {
		r.mu.Unlock()
		return 0, 0, r.finish("complete_delivery", start, sess, orderID, 0, err)
	}
	order, ok := r.orders[orderID]
	if !ok {
		r.mu.Unlock()
		return 0, 0, r.finish("complete_delivery", start, sess, orderID, 0, ErrNotFound)
	}
	if order.Status != domain.OrderStatusInProgress || order.AssignedTo != actor.ID {
		r.mu.Unlock()
		err := fmt.Errorf("%w: order not active for this actor", ErrInvalidState)
		return 0, 0, r.finish("complete_delivery", start, sess, orderID, 0, err)
	}
	if strings.TrimSpace(proofRef) == "" {
		r.mu.Unlock()
		return 0, 0, r.finish("complete_delivery", start, sess, orderID, 0, ErrMissingProof)
	}

	released = order.ItemValue
	reward = order.DeliveryFee
	actor.Balance += released + reward
	order.Status = domain.OrderStatusDelivered
	order.ProofRef = proofRef
	r.mu.Unlock()

	now := time.Now().UTC()
	r.journal.Append(contracts.Event{
		EventID: uuid.NewString(), OrderID: string(orderID), ActorID: string(actor.ID),
		CreatedAt: now, Type: contracts.EventOrderDelivered,
		Payload: map[string]any{"proof_ref": proofRef},
	})
	r.journal.Append(contracts.Event{
		EventID: uuid.NewString(), OrderID: string(orderID), ActorID: string(actor.ID),
		CreatedAt: now, Type: contracts.EventWalletHoldReleased,
		Payload: map[string]any{"amount_cents": int64(released)},
	})
	r.journal.Append(contracts.Event{
		EventID: uuid.NewString(), OrderID: string(orderID), ActorID: string(actor.ID),
		CreatedAt: now, Type: contracts.EventWalletFeeCredited,
		Payload: map[string]any{"amount_cents": int64(reward)},
	})
	return released, reward, r.finish("complete_delivery", start, sess, orderID, released+reward, nil)
}

func (r *Registry) Metrics() *metrics.OpMetrics {
	return r.metrics
}

func (r *Registry) Journal() *journal.Journal {
	return r.journal
}

// actorFor resolves a session to its live actor. Caller holds r.mu.
func (r *Registry) actorFor(sess *Session) (*domain.Actor, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	actorID, ok := r.sessions[sess.ID]
	if !ok || actorID != sess.ActorID {
		return nil, ErrNotAuthenticated
	}
	actor, ok := r.actors[actorID]
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return actor, nil
}

// finish records metrics and the structured op log, then passes err through.
func (r *Registry) finish(op string, start time.Time, sess *Session, orderID domain.OrderID, amount money.Amount, err error) error {
	status := statusLabel(err)
	durMS := time.Since(start).Milliseconds()
	r.metrics.Observe(op, status, float64(durMS))

	fields := logging.Fields{
		Service: service, Op: op, OrderID: string(orderID),
		Status: status, AmountCents: int64(amount), DurationMS: durMS,
	}
	if sess != nil {
		fields.ActorID = string(sess.ActorID)
		fields.SessionID = sess.ID
	}
	if err != nil {
		fields.Message = err.Error()
	}
	logging.Log(fields)
	return err
}
