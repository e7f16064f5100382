package contracts

import "time"

type Event struct {
	EventID   string         `json:"event_id"`
	OrderID   string         `json:"order_id,omitempty"`
	ActorID   string         `json:"actor_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
}

const (
	EventSessionSignedIn    = "session.signed_in"
	EventSessionSignedOut   = "session.signed_out"
	EventOrderAccepted      = "order.accepted"
	EventWalletHoldPlaced   = "wallet.hold_placed"
	EventOrderDelivered     = "order.delivered"
	EventWalletHoldReleased = "wallet.hold_released"
	EventWalletFeeCredited  = "wallet.fee_credited"
)
