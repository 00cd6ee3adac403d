package tumblr

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// NullInt64 is a 64-bit integer that may be absent. The API sometimes sends
// an empty string for a numeric field; that decodes to an absent value.
type NullInt64 struct {
	Int64 int64
	Valid bool
}

// Int64Of returns a present NullInt64 holding v.
func Int64Of(v int64) NullInt64 {
	return NullInt64{Int64: v, Valid: true}
}

// Ptr returns nil when the value is absent.
func (n NullInt64) Ptr() *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func (n NullInt64) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

func (n NullInt64) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(n.Int64, 10)), nil
}

func (n *NullInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = NullInt64{}
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &MalformedNumberError{Value: text, Err: err}
		}
		if s == "" {
			*n = NullInt64{}
			return nil
		}
		text = s
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return &MalformedNumberError{Value: text, Err: err}
	}
	*n = Int64Of(v)
	return nil
}
