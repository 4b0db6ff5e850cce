package checklist

import (
	"encoding/json"
	"strings"
)

// Checklist items have accumulated two wire representations over time: a bare
// string, and an object with a text (or legacy "label") field plus optional
// incentive weights. Normalization happens here, at the store boundary, so
// the resolver only ever sees the canonical Item shape.

// DecodeItems parses the stored JSON item list into canonical items. Items
// whose label trims to empty are dropped. Incentive fields are carried only
// when present and numeric; anything else is omitted rather than defaulted.
func DecodeItems(data []byte) ([]Item, error) {
	if len(data) == 0 {
		return []Item{}, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(raw))
	for _, entry := range raw {
		item, ok := decodeItem(entry)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeItem(entry json.RawMessage) (Item, bool) {
	var label string
	if err := json.Unmarshal(entry, &label); err == nil {
		label = strings.TrimSpace(label)
		if label == "" {
			return Item{}, false
		}
		return Item{Label: label}, true
	}

	var obj map[string]any
	if err := json.Unmarshal(entry, &obj); err != nil {
		return Item{}, false
	}
	label = stringField(obj, "text")
	if label == "" {
		label = stringField(obj, "label")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return Item{}, false
	}
	return Item{
		Label:       label,
		BonusPoints: numericField(obj, "bonusPoints"),
		FinePoints:  numericField(obj, "finePoints"),
		BonusAmount: numericField(obj, "bonusCurrency"),
		FineAmount:  numericField(obj, "fineCurrency"),
	}, true
}

func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

// numericField returns the value only when it decoded as a JSON number.
// Strings that look numeric do not count.
func numericField(obj map[string]any, key string) *float64 {
	v, ok := obj[key].(float64)
	if !ok {
		return nil
	}
	out := v
	return &out
}

// EncodeItems serialises canonical items back to the stored representation.
func EncodeItems(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}

// NormalizeSkills lower-cases, trims, and drops empty skill tags.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
