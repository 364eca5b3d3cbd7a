package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Quantities maps an item ID to a whole-unit amount. Missing keys read as zero.
type Quantities map[string]int64

func (q Quantities) Get(itemID string) int64 {
	return q[itemID]
}

func (q Quantities) Clone() Quantities {
	out := make(Quantities, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// Value stores the map as a JSON document.
func (q Quantities) Value() (driver.Value, error) {
	if q == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]int64(q))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (q *Quantities) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*q = Quantities{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("quantities: unsupported source type %T", src)
	}

	m := map[string]int64{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("quantities: %w", err)
		}
	}
	*q = m
	return nil
}

// RationCard holds one member's allowance for one calendar year. Nothing
// carries over between years.
type RationCard struct {
	ID          string     `db:"id" json:"id"`
	MemberID    string     `db:"member_id" json:"memberId"`
	Year        int        `db:"year" json:"year"`
	Allowance   Quantities `db:"allowance" json:"allowance"`
	Consumed    Quantities `db:"consumed" json:"consumed"`
	RenewalDate time.Time  `db:"renewal_date" json:"renewalDate"`
}

// Remaining is allowance minus consumed for the item; it may be negative if
// the card was edited out of band.
func (c *RationCard) Remaining(itemID string) int64 {
	return c.Allowance.Get(itemID) - c.Consumed.Get(itemID)
}
