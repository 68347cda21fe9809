package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a value object representing percentage rates (discounts, tax rates,
// margin percentages). The stored value is the human-readable rate, e.g. 20 for 20%.
// It is immutable - all operations return new Percent instances
type Percent struct {
	value decimal.Decimal
}

// NewPercent creates a new Percent with the specified rate
func NewPercent(value decimal.Decimal) (Percent, error) {
	if value.IsNegative() {
		return Percent{}, errors.New("percent cannot be negative")
	}
	return Percent{value: value}, nil
}

// NewPercentFromFloat creates Percent from a float64 value
func NewPercentFromFloat(value float64) (Percent, error) {
	return NewPercent(decimal.NewFromFloat(value))
}

// NewPercentFromString creates Percent from a string representation
func NewPercentFromString(value string) (Percent, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Percent{}, fmt.Errorf("invalid percent string: %w", err)
	}
	return NewPercent(d)
}

// MustNewPercent creates a Percent and panics on error
func MustNewPercent(value decimal.Decimal) Percent {
	p, err := NewPercent(value)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPercent returns a zero percent rate
func ZeroPercent() Percent {
	return Percent{value: decimal.Zero}
}

// Rate returns the raw decimal rate (e.g. 20 for 20%)
func (p Percent) Rate() decimal.Decimal {
	return p.value
}

// Factor returns the rate divided by 100 (e.g. 0.2 for 20%)
func (p Percent) Factor() decimal.Decimal {
	return p.value.Div(decimal.NewFromInt(100))
}

// Complement returns 1 - rate/100, the multiplier left after applying the rate
// as a discount (e.g. 0.8 for 20%)
func (p Percent) Complement() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(p.Factor())
}

// ApplyTo returns amount reduced by this percentage
func (p Percent) ApplyTo(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.Complement())
}

// Of returns this percentage of the given amount
func (p Percent) Of(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.Factor())
}

// IsZero returns true if the rate is zero
func (p Percent) IsZero() bool {
	return p.value.IsZero()
}

// Equals returns true if both rates are equal
func (p Percent) Equals(other Percent) bool {
	return p.value.Equal(other.value)
}

// String returns the string representation, e.g. "20%"
func (p Percent) String() string {
	return p.value.String() + "%"
}

// MarshalJSON implements json.Marshaler
func (p Percent) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Percent) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	parsed, err := NewPercent(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (p Percent) Value() (driver.Value, error) {
	return p.value.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (p *Percent) Scan(value interface{}) error {
	if value == nil {
		*p = ZeroPercent()
		return nil
	}

	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("failed to scan percent: %w", err)
	}

	parsed, err := NewPercent(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
