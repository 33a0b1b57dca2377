// Package attach models the custom key/value pairs a shop entry copies onto a
// purchased item. One key is reserved for a structured rich display name; all
// other keys pass through as opaque scalar data.
package attach

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RichNameKey is the reserved attachment key whose value is parsed as a
// structured display-name payload instead of being copied verbatim.
const RichNameKey = "custom_name"

type Kind int

const (
	KindPlain Kind = iota
	KindRichText
)

// Attachment is the decoded form of one configured key/value pair.
type Attachment struct {
	Kind  Kind
	Key   string
	Value string    // KindPlain
	Name  *RichText // KindRichText
}

// RichText is the structured display-name payload carried by RichNameKey.
type RichText struct {
	Text   string `json:"text"`
	Color  string `json:"color,omitempty"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
}

func (r *RichText) String() string {
	if r == nil {
		return ""
	}
	return r.Text
}

// ParseRichText decodes a rich display-name payload.
func ParseRichText(raw string) (*RichText, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty payload")
	}
	var rt RichText
	if err := json.Unmarshal([]byte(raw), &rt); err != nil {
		return nil, fmt.Errorf("rich text: %w", err)
	}
	if rt.Text == "" {
		return nil, fmt.Errorf("rich text: missing text")
	}
	return &rt, nil
}

// Decode classifies one configured key/value pair. The reserved rich-name key
// must parse; everything else is passed through untouched.
func Decode(key, value string) (Attachment, error) {
	if key == RichNameKey {
		rt, err := ParseRichText(value)
		if err != nil {
			return Attachment{}, err
		}
		return Attachment{Kind: KindRichText, Key: key, Name: rt}, nil
	}
	return Attachment{Kind: KindPlain, Key: key, Value: value}, nil
}
