package garden

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"lukechampine.com/uint128"
)

// Amount is an unsigned 128-bit token quantity. Arithmetic is checked: it
// never wraps.
type Amount struct {
	u uint128.Uint128
}

var ZeroAmount = Amount{}

func NewAmount(v uint64) Amount {
	return Amount{u: uint128.From64(v)}
}

func AmountFromUint128(u uint128.Uint128) Amount {
	return Amount{u: u}
}

// ParseAmount parses a base-10 string.
func ParseAmount(s string) (Amount, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return ZeroAmount, fmt.Errorf("invalid amount %q", s)
	}
	return amountFromBig(b)
}

func amountFromBig(b *big.Int) (Amount, error) {
	if b.Sign() < 0 {
		return ZeroAmount, fmt.Errorf("amount %s is negative", b)
	}
	if b.BitLen() > 128 {
		return ZeroAmount, ErrOverflow
	}
	return Amount{u: uint128.FromBig(b)}, nil
}

func (a Amount) Uint128() uint128.Uint128 { return a.u }
func (a Amount) IsZero() bool             { return a.u.IsZero() }
func (a Amount) Cmp(b Amount) int         { return a.u.Cmp(b.u) }
func (a Amount) String() string           { return a.u.String() }
func (a Amount) Big() *big.Int            { return a.u.Big() }

func (a Amount) Add(b Amount) (Amount, error) {
	sum := a.u.AddWrap(b.u)
	if sum.Cmp(a.u) < 0 {
		return ZeroAmount, ErrOverflow
	}
	return Amount{u: sum}, nil
}

func (a Amount) Sub(b Amount) (Amount, error) {
	if a.u.Cmp(b.u) < 0 {
		return ZeroAmount, ErrOverflow
	}
	return Amount{u: a.u.SubWrap(b.u)}, nil
}

// MulDiv returns floor(a*num/den). The product is carried at full width so
// only a quotient above 128 bits overflows.
func (a Amount) MulDiv(num, den Amount) (Amount, error) {
	if den.IsZero() {
		return ZeroAmount, ErrDivideByZero
	}
	p := new(big.Int).Mul(a.u.Big(), num.u.Big())
	return amountFromBig(p.Quo(p, den.u.Big()))
}

// Half is floor(a/2).
func (a Amount) Half() Amount {
	return Amount{u: a.u.Div64(2)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.u.String())
}

// UnmarshalJSON accepts a decimal string or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Coin is an amount of a single currency.
type Coin struct {
	Denom  string `json:"denom" validate:"required"`
	Amount Amount `json:"amount"`
}

func NewCoin(denom string, amount Amount) Coin {
	return Coin{Denom: denom, Amount: amount}
}

func (c Coin) String() string {
	return c.Amount.String() + c.Denom
}
