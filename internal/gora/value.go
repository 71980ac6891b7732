package gora

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is an optional scalar attribute from the API. Strings and numbers both
// decode into it. null, "", 0 and false decode as unset, since the API uses
// them for "no information".
type Value struct {
	text  string
	num   float64
	isNum bool
	set   bool
}

// Text returns a set Value holding s, or an unset Value for "".
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	v := Value{text: s, set: true}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		v.num = f
		v.isNum = true
	}
	return v
}

// Number returns a set Value holding f, or an unset Value for 0.
func Number(f float64) Value {
	if f == 0 {
		return Value{}
	}
	return Value{text: strconv.FormatFloat(f, 'f', -1, 64), num: f, isNum: true, set: true}
}

// IsSet reports whether the attribute carried information.
func (v Value) IsSet() bool {
	return v.set
}

// String returns the attribute as text; "" when unset.
func (v Value) String() string {
	return v.text
}

// Float returns the numeric value when the attribute is numeric.
func (v Value) Float() (float64, bool) {
	if !v.set || !v.isNum {
		return 0, false
	}
	return v.num, true
}

// Int returns the numeric value rounded to an integer.
func (v Value) Int() (int64, bool) {
	f, ok := v.Float()
	if !ok {
		return 0, false
	}
	return int64(math.Round(f)), true
}

// FirstSet returns the first set value, or an unset Value.
func FirstSet(values ...Value) Value {
	for _, v := range values {
		if v.set {
			return v
		}
	}
	return Value{}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = Value{}

	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case 'n', 'f':
		return nil
	case 't':
		*v = Value{text: "true", set: true}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case '{', '[':
		*v = Value{text: string(data), set: true}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	if f == 0 {
		return nil
	}
	*v = Value{text: n.String(), num: f, isNum: true, set: true}
	return nil
}

// MarshalJSON implements json.Marshaler. Unset values encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	if v.isNum && v.text == strconv.FormatFloat(v.num, 'f', -1, 64) {
		return []byte(v.text), nil
	}
	return json.Marshal(v.text)
}
