package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValueKind discriminates the two answer payload shapes.
type ValueKind int

const (
	// KindNone marks the zero Value: no answer recorded.
	KindNone ValueKind = iota
	// KindText carries a single string (text, number, url, email, date and
	// boolean-as-string answers).
	KindText
	// KindList carries an ordered list of option strings (multi_choice).
	KindList
)

// Value is the tagged union holding one answer. The kind is paired with the
// referencing question's type by the renderer; a mismatched pair is reported,
// never coerced.
type Value struct {
	kind ValueKind
	text string
	list []string
}

// TextValue wraps a single-string answer.
func TextValue(text string) Value {
	return Value{kind: KindText, text: text}
}

// ListValue wraps an ordered multi-selection answer.
func ListValue(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

// Kind returns the payload discriminator.
func (v Value) Kind() ValueKind { return v.kind }

// Text returns the string payload. Zero for list values.
func (v Value) Text() string { return v.text }

// List returns a copy of the list payload. Nil for text values.
func (v Value) List() []string {
	if v.list == nil {
		return nil
	}
	return append([]string(nil), v.list...)
}

// Empty reports whether the value counts as "no answer" for required-field
// validation: absent, empty string, or empty list.
func (v Value) Empty() bool {
	switch v.kind {
	case KindText:
		return strings.TrimSpace(v.text) == ""
	case KindList:
		return len(v.list) == 0
	default:
		return true
	}
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	out := v
	if v.list != nil {
		out.list = append([]string(nil), v.list...)
	}
	return out
}

// Equal reports payload equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
	}
	return true
}

// String renders the payload for display. List values join with ", ".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindList:
		return strings.Join(v.list, ", ")
	default:
		return ""
	}
}

// MarshalJSON encodes text values as JSON strings and list values as JSON
// arrays, matching the wire shape answer sets persist with.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindList:
		list := v.list
		if list == nil {
			list = []string{}
		}
		return json.Marshal(list)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON restores a value from its wire shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*v = Value{}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("schema: decode list value: %w", err)
		}
		*v = Value{kind: KindList, list: list}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("schema: decode text value: %w", err)
	}
	*v = Value{kind: KindText, text: text}
	return nil
}
