// Package loader reads an orders file: a JSON object whose keys are order ids
// and whose values are order records.
//
// Records come back in the order their keys first appear in the file, which
// is the order aggregation relies on for tie-breaking. A repeated key keeps
// its first position and takes the last value.
//
// Every record is checked before anything is returned, so a bad file never
// yields a partial collection.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"orderstats/internal/model"
)

// DefaultFile is the monthly dataset read when no path is given.
const DefaultFile = "orders_july_2023.json"

// Load reads and decodes the orders file at path.
func Load(path string) ([]model.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("read orders %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data))
}

type rawOrder struct {
	id   string
	body json.RawMessage
}

// Decode parses an orders document from r.
func Decode(r io.Reader) ([]model.Order, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}
	if err := checkText(data); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	formatErr := func(err error) error {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &FormatError{Offset: dec.InputOffset(), Err: err}
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, formatErr(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, formatErr(errors.New("top-level value must be an object"))
	}

	var raws []rawOrder
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, formatErr(err)
		}
		id, ok := tok.(string)
		if !ok {
			return nil, formatErr(fmt.Errorf("unexpected token %v", tok))
		}
		var body json.RawMessage
		if err := dec.Decode(&body); err != nil {
			return nil, formatErr(err)
		}
		if i, dup := index[id]; dup {
			raws[i].body = body
			continue
		}
		index[id] = len(raws)
		raws = append(raws, rawOrder{id: id, body: body})
	}
	if _, err := dec.Token(); err != nil {
		return nil, formatErr(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("trailing data after top-level object")
		}
		return nil, formatErr(err)
	}

	orders := make([]model.Order, 0, len(raws))
	for _, ro := range raws {
		o, err := decodeOrder(ro.id, ro.body)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// orderFields uses pointers so absent keys can be told apart from zero values.
type orderFields struct {
	Date     *string       `json:"date"`
	UserID   *model.UserID `json:"user_id"`
	Quantity *float64      `json:"quantity"`
	Price    *float64      `json:"price"`
}

func decodeOrder(id string, body json.RawMessage) (model.Order, error) {
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return model.Order{}, &FormatError{OrderID: id, Err: errors.New("record is null")}
	}
	var f orderFields
	if err := json.Unmarshal(body, &f); err != nil {
		return model.Order{}, &FormatError{OrderID: id, Err: err}
	}
	switch {
	case f.Date == nil:
		return model.Order{}, &MissingFieldError{OrderID: id, Field: "date"}
	case f.UserID == nil:
		return model.Order{}, &MissingFieldError{OrderID: id, Field: "user_id"}
	case f.Quantity == nil:
		return model.Order{}, &MissingFieldError{OrderID: id, Field: "quantity"}
	case f.Price == nil:
		return model.Order{}, &MissingFieldError{OrderID: id, Field: "price"}
	}
	return model.Order{
		OrderID:  id,
		Date:     *f.Date,
		UserID:   *f.UserID,
		Quantity: *f.Quantity,
		Price:    *f.Price,
	}, nil
}

// checkText rejects input encoding/json would silently rewrite to U+FFFD:
// bytes that are not UTF-8 and \u escapes of unpaired surrogates. Either
// could make two distinct order ids decode to the same key.
func checkText(data []byte) error {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return &FormatError{Offset: int64(i), Err: errors.New("invalid UTF-8")}
		}
		i += size
	}

	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if !inString {
			inString = c == '"'
			continue
		}
		switch c {
		case '"':
			inString = false
		case '\\':
			if i+1 >= len(data) || data[i+1] != 'u' {
				i++
				continue
			}
			hi, ok := hex4(data, i+2)
			switch {
			case !ok:
				i++
			case hi >= 0xD800 && hi <= 0xDBFF:
				lo, ok := rune(0), false
				if i+7 < len(data) && data[i+6] == '\\' && data[i+7] == 'u' {
					lo, ok = hex4(data, i+8)
				}
				if !ok || lo < 0xDC00 || lo > 0xDFFF {
					return &FormatError{Offset: int64(i), Err: errors.New("unpaired surrogate escape")}
				}
				i += 11
			case hi >= 0xDC00 && hi <= 0xDFFF:
				return &FormatError{Offset: int64(i), Err: errors.New("unpaired surrogate escape")}
			default:
				i += 5
			}
		}
	}
	return nil
}

func hex4(data []byte, at int) (rune, bool) {
	if at+4 > len(data) {
		return 0, false
	}
	var r rune
	for _, c := range data[at : at+4] {
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return 0, false
		}
	}
	return r, true
}
