package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello    = "HELLO"
	TypeWelcome  = "WELCOME"
	TypeCatalog  = "CATALOG"
	TypeOpenShop = "OPEN_SHOP"
	TypeSetPage  = "SET_PAGE"
	TypeSearch   = "SEARCH"
	TypeBuy      = "BUY"
	TypeSell     = "SELL"
	TypeBalance  = "BALANCE"
	TypeView     = "VIEW"
	TypeResult   = "RESULT"
)

// QuantityMax is the wire sentinel meaning "resolve to the operation's maximum":
// a full bulk lot on buy, everything held (capped at the bulk lot) on sell.
const QuantityMax = -1

// ValidQuantity reports whether q is a legal wire quantity. Zero and any
// negative other than the max sentinel are protocol errors.
func ValidQuantity(q int32) bool {
	return q > 0 || q == QuantityMax
}

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
