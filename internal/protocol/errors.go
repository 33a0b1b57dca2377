package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Business rejections (reported to the requesting player only).
	ErrUnknownEntry      = "E_UNKNOWN_ENTRY"
	ErrNotBuyable        = "E_NOT_BUYABLE"
	ErrNotSellable       = "E_NOT_SELLABLE"
	ErrInsufficientFunds = "E_INSUFFICIENT_FUNDS"
	ErrInsufficientStock = "E_INSUFFICIENT_STOCK"
	ErrInventoryFull     = "E_INVENTORY_FULL"

	// Session/routing.
	ErrNoShop    = "E_NO_SHOP"
	ErrRateLimit = "E_RATE_LIMIT"
	ErrInternal  = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:   {},
	ErrUnknownEntry:      {},
	ErrNotBuyable:        {},
	ErrNotSellable:       {},
	ErrInsufficientFunds: {},
	ErrInsufficientStock: {},
	ErrInventoryFull:     {},
	ErrNoShop:            {},
	ErrRateLimit:         {},
	ErrInternal:          {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
