package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is an exact decimal amount. All price, subtotal, shipping and total
// fields use it so repeated additions never drift the way float64 would.
type Money struct {
	dec decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{dec: d}
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("invalid money value %q", s)
	}
	return Money{dec: d}, nil
}

// MustMoney parses a literal amount and panics on malformed input. Only for
// constants and tests.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

var ZeroMoney = Money{}

func (m Money) Add(o Money) Money {
	return Money{dec: m.dec.Add(o.dec)}
}

func (m Money) MulInt(n int) Money {
	return Money{dec: m.dec.Mul(decimal.NewFromInt(int64(n)))}
}

// Cmp returns -1, 0 or 1 comparing m against o.
func (m Money) Cmp(o Money) int {
	return m.dec.Cmp(o.dec)
}

func (m Money) IsZero() bool {
	return m.dec.IsZero()
}

func (m Money) IsNegative() bool {
	return m.dec.IsNegative()
}

func (m Money) String() string {
	return m.dec.String()
}

// StringFixed renders with exactly two decimal places, for display and email
// content.
func (m Money) StringFixed() string {
	return m.dec.StringFixed(2)
}

// MarshalJSON emits a plain JSON number so API responses carry 5.99, not
// "5.99".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.dec.String()), nil
}

// UnmarshalJSON accepts both numeric and quoted values, parsing the raw
// literal directly so no float64 round trip happens.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*m = Money{}
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid money value %q", raw)
	}
	m.dec = d
	return nil
}

// MarshalBSONValue stores the amount as Decimal128, keeping Mongo-side values
// exact as well.
func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(m.dec.String())
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(d128)
}

// UnmarshalBSONValue accepts Decimal128 plus the numeric and string types
// legacy documents may carry, so old orders still decode.
func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*m = Money{}
		return nil
	case bsontype.Decimal128:
		var d128 primitive.Decimal128
		if err := bson.UnmarshalValue(t, data, &d128); err != nil {
			return err
		}
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return err
		}
		m.dec = d
		return nil
	case bsontype.Double:
		var f float64
		if err := bson.UnmarshalValue(t, data, &f); err != nil {
			return err
		}
		m.dec = decimal.NewFromFloat(f)
		return nil
	case bsontype.Int32:
		var v int32
		if err := bson.UnmarshalValue(t, data, &v); err != nil {
			return err
		}
		m.dec = decimal.NewFromInt(int64(v))
		return nil
	case bsontype.Int64:
		var v int64
		if err := bson.UnmarshalValue(t, data, &v); err != nil {
			return err
		}
		m.dec = decimal.NewFromInt(v)
		return nil
	case bsontype.String:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		m.dec = d
		return nil
	default:
		return fmt.Errorf("cannot decode %s into Money", t)
	}
}
