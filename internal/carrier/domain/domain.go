package domain

import "github.com/nazeru/carrier-marketplace-go/pkg/money"

type ActorID string
type OrderID string

type Role string

const (
	RoleShopper   Role = "shopper"
	RoleRecipient Role = "recipient"
)

type OrderStatus string

const (
	OrderStatusAvailable  OrderStatus = "available"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Coordinate is a WGS84 lat/lng pair.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Actor is the signed-in party. The wallet balance never goes negative:
// a debit that would drive it below zero is rejected before mutation.
type Actor struct {
	ID      ActorID
	Name    string
	Role    Role
	Balance money.Amount
}

// Order is one delivery job. AssignedTo is set exactly when the status is
// in_progress or delivered, and ProofRef is set only on delivery.
type Order struct {
	ID                OrderID
	StoreName         string
	StoreLocation     Coordinate
	RecipientAddress  string
	RecipientLocation Coordinate
	ItemValue         money.Amount
	DeliveryFee       money.Amount
	Status            OrderStatus
	ProofRef          string
	AssignedTo        ActorID
}
