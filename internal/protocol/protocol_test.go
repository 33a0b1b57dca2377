package protocol

import (
	"encoding/json"
	"testing"
)

func TestValidQuantity(t *testing.T) {
	cases := []struct {
		q    int32
		want bool
	}{
		{1, true},
		{64, true},
		{QuantityMax, true},
		{0, false},
		{-2, false},
		{-64, false},
	}
	for _, c := range cases {
		if got := ValidQuantity(c.q); got != c.want {
			t.Errorf("ValidQuantity(%d) = %v, want %v", c.q, got, c.want)
		}
	}
}

func TestDecodeBase(t *testing.T) {
	m, err := DecodeBase([]byte(`{"type":"BUY","protocol_version":"1.0","entry_index":3,"quantity":-1}`))
	if err != nil {
		t.Fatal(err)
	}
	if m.Type != TypeBuy || m.ProtocolVersion != "1.0" {
		t.Fatalf("bad base: %+v", m)
	}

	if _, err := DecodeBase([]byte(`{"type":`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestIsKnownCode(t *testing.T) {
	if !IsKnownCode(ErrInsufficientFunds) {
		t.Fatal("E_INSUFFICIENT_FUNDS must be known")
	}
	if !IsKnownCode("") {
		t.Fatal("empty code (success) must pass")
	}
	if IsKnownCode("E_MADE_UP") {
		t.Fatal("unknown code accepted")
	}
}

func TestBuyMsgRoundtrip(t *testing.T) {
	raw := []byte(`{"type":"BUY","entry_index":7,"quantity":-1}`)
	var m BuyMsg
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if m.EntryIndex != 7 || m.Quantity != QuantityMax {
		t.Fatalf("bad decode: %+v", m)
	}
}

func TestResultMsgOmitsEmptyCode(t *testing.T) {
	b, err := json.Marshal(ResultMsg{Type: TypeResult, OK: true, Quantity: 2, Total: 200, Balance: 50})
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if _, present := out["code"]; present {
		t.Fatalf("success result carries a code: %s", b)
	}
}
