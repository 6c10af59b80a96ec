package persist

import (
	"encoding/json"
	"fmt"
)

// Expiration bounds how long an approval stays valid. The zero value is
// Never. Comparisons are inclusive: AtHeight(h) is still valid at height h
// and AtTime(t) at time t.
type Expiration struct {
	atHeight *uint64
	atTime   *uint64
}

// ExpirationNever returns an expiration that never lapses
func ExpirationNever() Expiration {
	return Expiration{}
}

// ExpirationAtHeight returns an expiration lapsing after the given block height
func ExpirationAtHeight(height uint64) Expiration {
	return Expiration{atHeight: &height}
}

// ExpirationAtTime returns an expiration lapsing after the given unix time
func ExpirationAtTime(time uint64) Expiration {
	return Expiration{atTime: &time}
}

// IsExpired returns whether the expiration has lapsed at the given height
// and time
func (e Expiration) IsExpired(height, time uint64) bool {
	switch {
	case e.atHeight != nil:
		return height > *e.atHeight
	case e.atTime != nil:
		return time > *e.atTime
	default:
		return false
	}
}

func (e Expiration) String() string {
	switch {
	case e.atHeight != nil:
		return fmt.Sprintf("at height %d", *e.atHeight)
	case e.atTime != nil:
		return fmt.Sprintf("at time %d", *e.atTime)
	default:
		return "never"
	}
}

type expirationJSON struct {
	AtHeight *uint64 `json:"at_height,omitempty"`
	AtTime   *uint64 `json:"at_time,omitempty"`
}

// MarshalJSON implements json.Marshaler; Never serializes as the string
// "never", matching the host's wire form
func (e Expiration) MarshalJSON() ([]byte, error) {
	if e.atHeight == nil && e.atTime == nil {
		return json.Marshal("never")
	}
	return json.Marshal(expirationJSON{AtHeight: e.atHeight, AtTime: e.atTime})
}

// UnmarshalJSON implements json.Unmarshaler
func (e *Expiration) UnmarshalJSON(b []byte) error {
	var asString string
	if err := json.Unmarshal(b, &asString); err == nil {
		if asString != "never" {
			return fmt.Errorf("invalid expiration: %q", asString)
		}
		*e = Expiration{}
		return nil
	}

	var asObject expirationJSON
	if err := json.Unmarshal(b, &asObject); err != nil {
		return err
	}
	if asObject.AtHeight != nil && asObject.AtTime != nil {
		return fmt.Errorf("invalid expiration: both at_height and at_time set")
	}
	*e = Expiration{atHeight: asObject.AtHeight, atTime: asObject.AtTime}
	return nil
}

// Approval is a delegated right for a spender to act as if owner, bounded
// by an expiration. It exists at two granularities: attached to a token, or
// attached to an owner's whole inventory.
type Approval struct {
	Spender    Address    `json:"spender"`
	Expiration Expiration `json:"expiration"`
}
