package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nazeru/carrier-marketplace-go/internal/carrier/domain"
	"github.com/nazeru/carrier-marketplace-go/pkg/contracts"
	"github.com/nazeru/carrier-marketplace-go/pkg/money"
)

func newShopper(t *testing.T, reg *Registry) *Session {
	t.Helper()
	sess := reg.SignIn("Alex", domain.RoleShopper)
	require.NotNil(t, sess)
	return sess
}

func TestSignInDefaultsBlankName(t *testing.T) {
	reg := New(Config{})
	sess := reg.SignIn("   ", domain.RoleShopper)
	actor, ok := reg.Actor(sess)
	require.True(t, ok)
	assert.Equal(t, "Alex", actor.Name)
	assert.Equal(t, domain.RoleShopper, actor.Role)
	assert.Equal(t, domain.SeedBalance, actor.Balance)
}

func TestListAvailableKeepsSeedOrder(t *testing.T) {
	reg := New(Config{})
	available := reg.ListAvailable()
	require.Len(t, available, 3)
	assert.Equal(t, domain.OrderID("ORD-1001"), available[0].ID)
	assert.Equal(t, domain.OrderID("ORD-1002"), available[1].ID)
	assert.Equal(t, domain.OrderID("ORD-1003"), available[2].ID)
}

func TestAcceptThenCompleteRoundTrip(t *testing.T) {
	reg := New(Config{})
	sess := newShopper(t, reg)

	hold, err := reg.AcceptOrder(sess, "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, money.FromDollars(42, 50), hold)

	balance, ok := reg.Balance(sess)
	require.True(t, ok)
	assert.Equal(t, money.FromDollars(32, 50), balance)

	active, found := reg.CurrentAssignment(sess)
	require.True(t, found)
	assert.Equal(t, domain.OrderID("ORD-1001"), active.ID)
	assert.Equal(t, domain.OrderStatusInProgress, active.Status)
	assert.Equal(t, sess.ActorID, active.AssignedTo)

	released, reward, err := reg.CompleteDelivery(sess, "ORD-1001", "file://proof-1001.jpg")
	require.NoError(t, err)
	assert.Equal(t, money.FromDollars(42, 50), released)
	assert.Equal(t, money.FromDollars(5, 0), reward)

	balance, _ = reg.Balance(sess)
	assert.Equal(t, money.FromDollars(80, 0), balance)

	_, found = reg.CurrentAssignment(sess)
	assert.False(t, found)

	for _, order := range reg.Orders() {
		if order.ID == "ORD-1001" {
			assert.Equal(t, domain.OrderStatusDelivered, order.Status)
			assert.Equal(t, "file://proof-1001.jpg", order.ProofRef)
		}
	}
}

// The hold must be undone exactly plus the fee, independent of other orders
// processed in between.
func TestRoundTripIndependentOfInterleavedOrders(t *testing.T) {
	reg := New(Config{SeedBalance: money.FromDollars(200, 0)})
	sess := newShopper(t, reg)

	before, _ := reg.Balance(sess)
	_, err := reg.AcceptOrder(sess, "ORD-1001")
	require.NoError(t, err)

	// Interleave a full cycle on a different order.
	_, err = reg.AcceptOrder(sess, "ORD-1002")
	require.NoError(t, err)
	_, _, err = reg.CompleteDelivery(sess, "ORD-1002", "file://proof-1002.jpg")
	require.NoError(t, err)

	_, _, err = reg.CompleteDelivery(sess, "ORD-1001", "file://proof-1001.jpg")
	require.NoError(t, err)

	after, _ := reg.Balance(sess)
	wantGain := money.FromDollars(5, 0) + money.FromDollars(4, 0)
	assert.Equal(t, before+wantGain, after)
}

func TestAcceptInsufficientFunds(t *testing.T) {
	reg := New(Config{SeedBalance: money.FromDollars(20, 0)})
	sess := newShopper(t, reg)

	_, err := reg.AcceptOrder(sess, "ORD-1001")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	balance, _ := reg.Balance(sess)
	assert.Equal(t, money.FromDollars(20, 0), balance)
	available := reg.ListAvailable()
	assert.Len(t, available, 3)
	assert.Equal(t, domain.OrderStatusAvailable, available[0].Status)
}

func TestSecondAcceptFailsOnceFirstSucceeds(t *testing.T) {
	reg := New(Config{SeedBalance: money.FromDollars(200, 0)})
	first := newShopper(t, reg)
	second := reg.SignIn("Sam", domain.RoleShopper)

	_, err := reg.AcceptOrder(first, "ORD-1001")
	require.NoError(t, err)

	_, err = reg.AcceptOrder(second, "ORD-1001")
	require.ErrorIs(t, err, ErrInvalidState)

	// The loser's wallet is untouched and the order still belongs to the winner.
	balance, _ := reg.Balance(second)
	assert.Equal(t, money.FromDollars(200, 0), balance)
	active, found := reg.CurrentAssignment(first)
	require.True(t, found)
	assert.Equal(t, first.ActorID, active.AssignedTo)
}

func TestAcceptUnknownOrder(t *testing.T) {
	reg := New(Config{})
	sess := newShopper(t, reg)
	_, err := reg.AcceptOrder(sess, "ORD-9999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptWithoutSession(t *testing.T) {
	reg := New(Config{})
	_, err := reg.AcceptOrder(nil, "ORD-1001")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCompleteByNonAssigneeMutatesNothing(t *testing.T) {
	reg := New(Config{SeedBalance: money.FromDollars(200, 0)})
	owner := newShopper(t, reg)
	rival := reg.SignIn("Sam", domain.RoleShopper)

	_, err := reg.AcceptOrder(owner, "ORD-1001")
	require.NoError(t, err)

	_, _, err = reg.CompleteDelivery(rival, "ORD-1001", "file://proof.jpg")
	require.ErrorIs(t, err, ErrInvalidState)

	ownerBalance, _ := reg.Balance(owner)
	rivalBalance, _ := reg.Balance(rival)
	assert.Equal(t, money.FromDollars(157, 50), ownerBalance)
	assert.Equal(t, money.FromDollars(200, 0), rivalBalance)

	active, found := reg.CurrentAssignment(owner)
	require.True(t, found)
	assert.Equal(t, domain.OrderStatusInProgress, active.Status)
	assert.Empty(t, active.ProofRef)
}

func TestCompleteRequiresProof(t *testing.T) {
	reg := New(Config{})
	sess := newShopper(t, reg)
	_, err := reg.AcceptOrder(sess, "ORD-1001")
	require.NoError(t, err)

	for _, proof := range []string{"", "   "} {
		_, _, err = reg.CompleteDelivery(sess, "ORD-1001", proof)
		require.ErrorIs(t, err, ErrMissingProof)
	}

	balance, _ := reg.Balance(sess)
	assert.Equal(t, money.FromDollars(32, 50), balance)
	active, found := reg.CurrentAssignment(sess)
	require.True(t, found)
	assert.Equal(t, domain.OrderStatusInProgress, active.Status)
}

func TestCompleteOnAvailableOrder(t *testing.T) {
	reg := New(Config{})
	sess := newShopper(t, reg)
	_, _, err := reg.CompleteDelivery(sess, "ORD-1002", "file://proof.jpg")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDeliveredOrderCannotBeCompletedAgain(t *testing.T) {
	reg := New(Config{})
	sess := newShopper(t, reg)
	_, err := reg.AcceptOrder(sess, "ORD-1001")
	require.NoError(t, err)
	_, _, err = reg.CompleteDelivery(sess, "ORD-1001", "file://proof-a.jpg")
	require.NoError(t, err)

	_, _, err = reg.CompleteDelivery(sess, "ORD-1001", "file://proof-b.jpg")
	require.ErrorIs(t, err, ErrInvalidState)

	for _, order := range reg.Orders() {
		if order.ID == "ORD-1001" {
			assert.Equal(t, "file://proof-a.jpg", order.ProofRef)
		}
	}
}

func TestStatusAssigneeInvariant(t *testing.T) {
	reg := New(Config{})
	sess := newShopper(t, reg)

	check := func() {
		for _, order := range reg.Orders() {
			switch order.Status {
			case domain.OrderStatusAvailable:
				assert.Empty(t, order.AssignedTo, "available order %s must have no assignee", order.ID)
			default:
				assert.NotEmpty(t, order.AssignedTo, "order %s in %s must have an assignee", order.ID, order.Status)
			}
		}
	}

	check()
	_, err := reg.AcceptOrder(sess, "ORD-1002")
	require.NoError(t, err)
	check()
	_, _, err = reg.CompleteDelivery(sess, "ORD-1002", "file://proof.jpg")
	require.NoError(t, err)
	check()
}

func TestSignOutKeepsCommittedState(t *testing.T) {
	reg := New(Config{})
	sess := newShopper(t, reg)
	_, err := reg.AcceptOrder(sess, "ORD-1001")
	require.NoError(t, err)

	reg.SignOut(sess)

	// The session is dead for further operations...
	_, _, err = reg.CompleteDelivery(sess, "ORD-1001", "file://proof.jpg")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, ok := reg.Balance(sess)
	assert.False(t, ok)

	// ...but committed order state survives.
	for _, order := range reg.Orders() {
		if order.ID == "ORD-1001" {
			assert.Equal(t, domain.OrderStatusInProgress, order.Status)
			assert.Equal(t, sess.ActorID, order.AssignedTo)
		}
	}
}

func TestJournalRecordsLifecycleEvents(t *testing.T) {
	reg := New(Config{})
	sess := newShopper(t, reg)
	_, err := reg.AcceptOrder(sess, "ORD-1001")
	require.NoError(t, err)
	_, _, err = reg.CompleteDelivery(sess, "ORD-1001", "file://proof.jpg")
	require.NoError(t, err)

	var types []string
	for _, rec := range reg.Journal().All() {
		types = append(types, rec.Event.Type)
	}
	assert.Equal(t, []string{
		contracts.EventSessionSignedIn,
		contracts.EventOrderAccepted,
		contracts.EventWalletHoldPlaced,
		contracts.EventOrderDelivered,
		contracts.EventWalletHoldReleased,
		contracts.EventWalletFeeCredited,
	}, types)
}

func TestMetricsCountOutcomes(t *testing.T) {
	reg := New(Config{SeedBalance: money.FromDollars(30, 0)})
	sess := newShopper(t, reg)
	_, err := reg.AcceptOrder(sess, "ORD-1001")
	require.ErrorIs(t, err, ErrInsufficientFunds)
	_, err = reg.AcceptOrder(sess, "ORD-1002")
	require.NoError(t, err)

	snap := reg.Metrics().Snapshot()
	assert.Contains(t, snap, "accept_order{insufficient_funds}=1")
	assert.Contains(t, snap, "accept_order{ok}=1")
}
