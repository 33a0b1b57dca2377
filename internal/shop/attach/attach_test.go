package attach

import "testing"

func TestDecodePlain(t *testing.T) {
	a, err := Decode("academy:booster_pack", "rare")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Kind != KindPlain || a.Value != "rare" {
		t.Fatalf("expected plain rare, got %#v", a)
	}
}

func TestDecodeRichName(t *testing.T) {
	a, err := Decode(RichNameKey, `{"text":"Master Ball","color":"gold","bold":true}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Kind != KindRichText {
		t.Fatalf("expected rich text, got %#v", a)
	}
	if a.Name.Text != "Master Ball" || a.Name.Color != "gold" || !a.Name.Bold {
		t.Fatalf("bad payload: %#v", a.Name)
	}
}

func TestDecodeRichNameRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"color":"gold"}`} {
		if _, err := Decode(RichNameKey, raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
