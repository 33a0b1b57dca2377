package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	buySchema := compile("buy.schema.json")
	sellSchema := compile("sell.schema.json")
	resultSchema := compile("result.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "player_name":"traveler",
	  "auth":{"player_id":"1b4e28ba-2fa1-11d2-883f-0016d3cca427"}
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "player_id":"1b4e28ba-2fa1-11d2-883f-0016d3cca427",
	  "balance":500,
	  "shops":[
	    {"shop_id":"general","title":"General Store","entries":9},
	    {"shop_id":"machines","title":"Machine Parts","entries":5}
	  ],
	  "default_shop_id":"general"
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var buy any
	_ = json.Unmarshal([]byte(`{
	  "type":"BUY",
	  "protocol_version":"1.0",
	  "entry_index":3,
	  "quantity":2
	}`), &buy)
	validate(buySchema, buy)

	var sellMax any
	_ = json.Unmarshal([]byte(`{
	  "type":"SELL",
	  "protocol_version":"1.0",
	  "entry_index":0,
	  "quantity":-1
	}`), &sellMax)
	validate(sellSchema, sellMax)

	var result any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESULT",
	  "protocol_version":"1.0",
	  "ok":false,
	  "code":"E_INSUFFICIENT_FUNDS",
	  "message":"Not enough funds",
	  "balance":50
	}`), &result)
	validate(resultSchema, result)
}

func TestSchemas_RejectBadQuantity(t *testing.T) {
	s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "buy.schema.json"))
	if err != nil {
		t.Fatal(err)
	}
	for _, raw := range []string{
		`{"type":"BUY","protocol_version":"1.0","entry_index":0,"quantity":0}`,
		`{"type":"BUY","protocol_version":"1.0","entry_index":0,"quantity":-2}`,
		`{"type":"BUY","protocol_version":"1.0","entry_index":-1,"quantity":1}`,
	} {
		var v any
		_ = json.Unmarshal([]byte(raw), &v)
		if err := s.Validate(v); err == nil {
			t.Errorf("accepted invalid request: %s", raw)
		}
	}
}
