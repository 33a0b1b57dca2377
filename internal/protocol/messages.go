package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	PlayerName      string     `json:"player_name"`
	Auth            *HelloAuth `json:"auth,omitempty"`
}

type HelloAuth struct {
	// PlayerID resumes an existing identity across reconnects. Empty means
	// the server mints a fresh one.
	PlayerID string `json:"player_id,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	PlayerID        string    `json:"player_id"`
	Balance         int64     `json:"balance"`
	Shops           []ShopRef `json:"shops"`
	DefaultShopID   string    `json:"default_shop_id,omitempty"`
}

type ShopRef struct {
	ShopID  string `json:"shop_id"`
	Title   string `json:"title"`
	Entries int    `json:"entries"`
}

// CATALOG (server -> client): one shop's full entry list. Entry order is the
// wire index space every BUY/SELL references.
type CatalogMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	ShopID          string     `json:"shop_id"`
	Title           string     `json:"title"`
	Digest          string     `json:"digest"` // sha256 hex of the entry list
	Entries         []EntryDef `json:"entries"`
}

type EntryDef struct {
	ItemID      string            `json:"item_id"`
	DisplayName string            `json:"display_name"`
	BuyPrice    int64             `json:"buy_price"`
	SellPrice   int64             `json:"sell_price"`
	CanBuy      bool              `json:"can_buy"`
	CanSell     bool              `json:"can_sell"`
	MaxStack    int               `json:"max_stack"`
	Attachments map[string]string `json:"attachments,omitempty"`
}

// OPEN_SHOP (client -> server)
type OpenShopMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ShopID          string `json:"shop_id,omitempty"` // empty opens the default shop
}

// SET_PAGE (client -> server)
type SetPageMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Page            int    `json:"page"`
}

// SEARCH (client -> server)
type SearchMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Query           string `json:"query"`
}

// BUY / SELL (client -> server). EntryIndex is relative to the full catalog of
// the currently open shop, never to the filtered or paginated view. Quantity
// is strictly positive or exactly QuantityMax.
type BuyMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	EntryIndex      int32  `json:"entry_index"`
	Quantity        int32  `json:"quantity"`
}

type SellMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	EntryIndex      int32  `json:"entry_index"`
	Quantity        int32  `json:"quantity"`
}

// BALANCE. Client -> server as a query (no fields); server -> client carries
// the current balance.
type BalanceMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Balance         int64  `json:"balance,omitempty"`
}

// VIEW (server -> client): the currently visible, filtered and paginated slice
// of the open shop. Index on each row is the stable full-catalog index to echo
// back in BUY/SELL.
type ViewMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	ShopID          string      `json:"shop_id"`
	Title           string      `json:"title"`
	Page            int         `json:"page"`
	TotalPages      int         `json:"total_pages"`
	Query           string      `json:"query,omitempty"`
	Entries         []ViewEntry `json:"entries"`
}

type ViewEntry struct {
	Index int      `json:"index"`
	Entry EntryDef `json:"entry"`
}

// RESULT (server -> client): outcome of one BUY/SELL (or a rejected request).
type ResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	OK              bool   `json:"ok"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
	Quantity        int    `json:"quantity,omitempty"`
	Total           int64  `json:"total,omitempty"`
	Balance         int64  `json:"balance"`
}
