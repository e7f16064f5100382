package domain

import "github.com/nazeru/carrier-marketplace-go/pkg/money"

// SeedBalance is the wallet balance every freshly signed-in actor starts with.
const SeedBalance = money.Amount(7500)

// SeedOrders returns the fixed order catalog. The registry seeds from it at
// construction; orders are never created or deleted afterwards.
func SeedOrders() []Order {
	return []Order{
		{
			ID:                "ORD-1001",
			StoreName:         "FreshMart Grocery",
			StoreLocation:     Coordinate{Lat: 37.7749, Lng: -122.4194},
			RecipientAddress:  "1220 Pine St, San Francisco",
			RecipientLocation: Coordinate{Lat: 37.789, Lng: -122.42},
			ItemValue:         money.FromDollars(42, 50),
			DeliveryFee:       money.FromDollars(5, 0),
			Status:            OrderStatusAvailable,
		},
		{
			ID:                "ORD-1002",
			StoreName:         "Corner Pharmacy",
			StoreLocation:     Coordinate{Lat: 37.7757, Lng: -122.4312},
			RecipientAddress:  "800 Market St, San Francisco",
			RecipientLocation: Coordinate{Lat: 37.784, Lng: -122.407},
			ItemValue:         money.FromDollars(28, 0),
			DeliveryFee:       money.FromDollars(4, 0),
			Status:            OrderStatusAvailable,
		},
		{
			ID:                "ORD-1003",
			StoreName:         "City Electronics",
			StoreLocation:     Coordinate{Lat: 37.768, Lng: -122.41},
			RecipientAddress:  "55 2nd St, San Francisco",
			RecipientLocation: Coordinate{Lat: 37.7892, Lng: -122.401},
			ItemValue:         money.FromDollars(120, 0),
			DeliveryFee:       money.FromDollars(8, 0),
			Status:            OrderStatusAvailable,
		},
	}
}
