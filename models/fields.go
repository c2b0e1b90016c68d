package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TechList decodes an array of strings or a comma-separated string.
type TechList []string

func (l *TechList) UnmarshalJSON(data []byte) error {
	items, err := decodeList(data, splitComma)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// DetailList decodes an array of strings, a JSON-encoded array inside a
// string, or a newline-separated string.
type DetailList []string

func (l *DetailList) UnmarshalJSON(data []byte) error {
	items, err := decodeList(data, splitLines)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

func splitComma(s string) []string { return strings.Split(s, ",") }

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func decodeList(data []byte, split func(string) []string) ([]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []string{}, nil
	}

	switch data[0] {
	case '[':
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return compact(raw), nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "[") {
			var raw []any
			if err := json.Unmarshal([]byte(s), &raw); err == nil {
				return compact(raw), nil
			}
		}
		parts := split(s)
		raw := make([]any, len(parts))
		for i, p := range parts {
			raw[i] = p
		}
		return compact(raw), nil
	default:
		return nil, fmt.Errorf("expected array or string, got %s", string(data))
	}
}

// compact stringifies, trims and drops empty entries while keeping order.
func compact(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		var s string
		switch t := v.(type) {
		case nil:
			continue
		case string:
			s = t
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(t)
		default:
			b, err := json.Marshal(t)
			if err != nil {
				continue
			}
			s = string(b)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Truthy coerces any JSON value to a bool the way a loosely typed client
// would: false, 0, "", and null are false, everything else is true.
// Set records whether the field was present at all.
type Truthy struct {
	Set   bool
	Value bool
}

func (t *Truthy) UnmarshalJSON(data []byte) error {
	t.Set = true
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		t.Value = false
	case bytes.Equal(data, []byte("true")):
		t.Value = true
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t.Value = s != ""
	case data[0] == '[' || data[0] == '{':
		t.Value = true
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid boolean value %s", string(data))
		}
		t.Value = f != 0 && !math.IsNaN(f)
	}
	return nil
}

func (t Truthy) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Value)
}

// Or returns the coerced value, or def when the field was absent.
func (t Truthy) Or(def bool) bool {
	if !t.Set {
		return def
	}
	return t.Value
}

// LooseInt accepts a JSON number or a numeric string. Anything that does not
// parse counts as zero; numbers beyond int saturate.
type LooseInt struct {
	Set   bool
	Value int
}

func (n *LooseInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	data = bytes.TrimSpace(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		n.Value = 0
		return nil
	}
	switch f = math.Trunc(f); {
	case f >= float64(math.MaxInt):
		n.Value = math.MaxInt
	case f <= float64(math.MinInt):
		n.Value = math.MinInt
	default:
		n.Value = int(f)
	}
	return nil
}

func (n LooseInt) Or(def int) int {
	if !n.Set {
		return def
	}
	return n.Value
}

// LooseString accepts a JSON string or a number (years sometimes arrive as 2024).
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LooseString(v)
	case len(data) > 0 && (data[0] == '[' || data[0] == '{'):
		return fmt.Errorf("expected string, got %s", string(data))
	default:
		*s = LooseString(data)
	}
	return nil
}

// Clip trims s and truncates it to at most max runes.
func Clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max]))
}

func clipAll(items []string, max int) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = Clip(item, max); item != "" {
			out = append(out, item)
		}
	}
	return out
}
