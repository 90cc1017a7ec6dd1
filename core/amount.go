package core

import (
	"database/sql/driver"
	"fmt"
	"math/big"

	"github.com/spf13/cast"
)

// Amount is an integer amount in the smallest unit of its asset, persisted
// as decimal(65,0). The zero value is zero.
type Amount struct {
	big.Int
}

// NewAmount new amount from int64
func NewAmount(v int64) Amount {
	var a Amount
	a.SetInt64(v)
	return a
}

// NewAmountFromBig new amount copied from a big.Int
func NewAmountFromBig(v *big.Int) Amount {
	var a Amount
	if v != nil {
		a.Set(v)
	}
	return a
}

// NewAmountFromString new amount from a base-10 string
func NewAmountFromString(s string) (Amount, error) {
	var a Amount
	if _, ok := a.SetString(s, 10); !ok {
		return Amount{}, fmt.Errorf("invalid amount %q", s)
	}
	return a, nil
}

// Big returns a copy safe for arithmetic.
func (a Amount) Big() *big.Int {
	return new(big.Int).Set(&a.Int)
}

// IsPositive amount > 0
func (a Amount) IsPositive() bool {
	return a.Sign() > 0
}

// Value implements driver.Valuer
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner
func (a *Amount) Scan(value interface{}) error {
	return a.scanString(cast.ToString(value))
}

func (a *Amount) scanString(s string) error {
	if s == "" {
		a.SetInt64(0)
		return nil
	}
	if _, ok := a.SetString(s, 10); !ok {
		return fmt.Errorf("cannot scan %q into Amount", s)
	}
	return nil
}

// MarshalJSON renders the amount as a string to keep 1e18-scale values
// readable by javascript clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both string and bare number forms.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		a.SetInt64(0)
		return nil
	}
	return a.scanString(s)
}
