package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// UserID identifies a purchasing user. The input may carry it as a JSON string
// or a JSON number, and the two kinds never match each other: "7" and 7 are
// different users. Numbers compare by value, so 7 and 7.0 are the same user.
//
// Key is the comparison form. Text is how the id is printed: strings as is,
// integers in decimal, other numbers with a fraction or exponent ("7.0",
// "1e+16").
type UserID struct {
	Key  string
	Text string
}

// StringUserID returns the id for a JSON string value.
func StringUserID(s string) UserID {
	return UserID{Key: "s:" + s, Text: s}
}

// NumberUserID returns the id for a JSON number literal.
func NumberUserID(lit string) (UserID, error) {
	if !strings.ContainsAny(lit, ".eE") {
		n, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return UserID{}, fmt.Errorf("bad integer %q", lit)
		}
		text := n.String()
		return UserID{Key: "n:" + text, Text: text}, nil
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !(errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0)) {
		return UserID{}, fmt.Errorf("bad number %q: %w", lit, err)
	}
	var key string
	switch {
	case math.IsInf(f, 0):
		key = floatText(f)
	case f == math.Trunc(f):
		// integral floats share keys with the equal integer
		n, _ := new(big.Float).SetFloat64(f).Int(nil)
		key = n.String()
	default:
		key = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return UserID{Key: "n:" + key, Text: floatText(f)}, nil
}

// floatText prints f in shortest round-trip form, fixed notation for
// exponents in [-4, 16) and always with a fraction or exponent.
func floatText(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (u UserID) String() string { return u.Text }

// UnmarshalJSON accepts "u1" and 17 alike.
func (u *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = StringUserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user_id must be a string or a number, got %s", data)
	}
	id, err := NumberUserID(n.String())
	if err != nil {
		return err
	}
	*u = id
	return nil
}
