// Package health contains the health report model consumed by the dashboard.
package health

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Status is the UP/DOWN state reported by an endpoint or a single check.
type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

// IsDown reports whether s is DOWN. Anything else, including an unknown
// value, is treated as UP.
func (s Status) IsDown() bool {
	return s == StatusDown
}

// Report is one decoded health payload. It is produced fresh on every
// successful fetch and never merged with earlier reports.
type Report struct {
	Status Status  `json:"status"`
	Checks []Check `json:"checks"`
}

// Check is one named check inside a report.
type Check struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Data   Data   `json:"data,omitempty"`
}

// DownCount returns the number of checks reporting DOWN.
func (r *Report) DownCount() int {
	n := 0
	for i := range r.Checks {
		if r.Checks[i].Status.IsDown() {
			n++
		}
	}
	return n
}

// Entry is one key/value row of check data.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Data keeps check data in the order the payload listed it.
type Data []Entry

// Get returns the value for key.
func (d Data) Get(key string) (string, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes a JSON object preserving key order. String values
// are kept verbatim, other scalars by their literal text and nested values
// as compact JSON.
func (d *Data) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		*d = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("check data: expected object, got %v", tok)
	}

	out := Data{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("check data: expected key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		value, err := rawText(raw)
		if err != nil {
			return err
		}
		out = append(out, Entry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = out
	return nil
}

// MarshalJSON writes the entries back as an object in their stored order.
func (d Data) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func rawText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Decode parses a health payload.
func Decode(body []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	return &r, nil
}
