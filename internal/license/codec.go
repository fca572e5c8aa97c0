package license

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

const (
	// PayloadVersion is the only payload version this package accepts.
	PayloadVersion = 2
	// MaxDays bounds the benefit so expiry arithmetic cannot overflow.
	MaxDays = 100 * 365
)

// Payload is the signed benefit description.
type Payload struct {
	Days    int    `json:"days"`
	Version int    `json:"v"`
	Nonce   string `json:"n,omitempty"`
}

// EncodePayload returns the exact bytes that get signed.
func EncodePayload(p Payload) ([]byte, error) {
	if p.Days < 1 || p.Days > MaxDays {
		return nil, errors.New("days must be between 1 and MaxDays")
	}
	if p.Version == 0 {
		p.Version = PayloadVersion
	}
	return json.Marshal(p)
}

// DecodePayload parses and validates payload bytes. The payload must be a JSON
// object; unknown fields are ignored. A wrong type or out-of-range value for
// days or v is a version/benefit failure, not a parse failure.
func DecodePayload(b []byte) (Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		return Payload{}, ErrInvalidPayload
	}

	v, ok := numberField(fields["v"])
	if !ok || v != PayloadVersion {
		return Payload{}, ErrInvalidVersionOrExp
	}
	d, ok := numberField(fields["days"])
	if !ok || d < 1 || d > MaxDays {
		return Payload{}, ErrInvalidVersionOrExp
	}

	p := Payload{
		Days:    int(math.Floor(d)),
		Version: PayloadVersion,
	}
	var nonce string
	if raw, ok := fields["n"]; ok && json.Unmarshal(raw, &nonce) == nil {
		p.Nonce = nonce
	}
	return p, nil
}

// numberField reads a JSON number without going through float64 decoding, so
// values beyond float64 range report as out of range instead of a parse error.
func numberField(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
