package journal

import "github.com/Layer-V/orderbook/matching"

func orderFixture(id uint64) matching.Order {
	return *matching.NewLimitOrder(id, 1, matching.OrderSideBuy, 10000, 100)
}
