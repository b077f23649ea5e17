package query

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the canonical scalar family of a resolved field.
// Values of each kind are carried as int64, uint64, float64, decimal.Decimal,
// string, bool or time.Time respectively.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindUint
	KindFloat
	KindDecimal
	KindBool
	KindTime
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat:   "float",
	KindDecimal: "decimal",
	KindBool:    "bool",
	KindTime:    "time",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Numeric reports whether sums and averages are defined for the kind.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindUint || k == KindFloat || k == KindDecimal
}

// Ordered reports whether relational operators and min/max are defined.
func (k Kind) Ordered() bool {
	return k.Numeric() || k == KindString || k == KindTime
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// kindOf maps a Go type to its scalar kind, or KindInvalid.
func kindOf(t reflect.Type) Kind {
	switch t {
	case timeType:
		return KindTime
	case decimalType:
		return KindDecimal
	}
	switch t.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	}
	return KindInvalid
}

// canonical converts a reflected scalar into its canonical Go value.
func canonical(k Kind, v reflect.Value) any {
	switch k {
	case KindString:
		return v.String()
	case KindInt:
		return v.Int()
	case KindUint:
		return v.Uint()
	case KindFloat:
		return v.Float()
	case KindBool:
		return v.Bool()
	case KindTime:
		return v.Interface().(time.Time)
	case KindDecimal:
		return v.Interface().(decimal.Decimal)
	}
	return nil
}

// compareValues orders two canonical values of the same kind.
func compareValues(k Kind, a, b any) int {
	switch k {
	case KindString:
		return strings.Compare(a.(string), b.(string))
	case KindInt:
		return cmp.Compare(a.(int64), b.(int64))
	case KindUint:
		return cmp.Compare(a.(uint64), b.(uint64))
	case KindFloat:
		return cmp.Compare(a.(float64), b.(float64))
	case KindDecimal:
		return a.(decimal.Decimal).Cmp(b.(decimal.Decimal))
	case KindTime:
		return a.(time.Time).Compare(b.(time.Time))
	case KindBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		}
		return 1
	}
	return 0
}

// compareNullable orders absent values before present ones.
func compareNullable(k Kind, a any, aok bool, b any, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return compareValues(k, a, b)
}

// toDecimal converts a canonical numeric value. ok is false for non-finite floats.
func toDecimal(k Kind, v any) (d decimal.Decimal, ok bool) {
	switch k {
	case KindInt:
		return decimal.NewFromInt(v.(int64)), true
	case KindUint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.(uint64)), 0), true
	case KindFloat:
		f := v.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(f), true
	case KindDecimal:
		return v.(decimal.Decimal), true
	}
	return decimal.Zero, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// coerce converts a request literal into the canonical value for kind k.
func coerce(k Kind, lit any) (any, error) {
	if n, ok := lit.(json.Number); ok {
		lit = n.String()
	}
	switch k {
	case KindString:
		switch v := lit.(type) {
		case string:
			return v, nil
		case fmt.Stringer:
			return v.String(), nil
		case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
			return fmt.Sprint(v), nil
		}
	case KindInt:
		switch v := lit.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case uint64:
			if v <= math.MaxInt64 {
				return int64(v), nil
			}
		case float64:
			if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
				return int64(v), nil
			}
		case decimal.Decimal:
			if v.IsInteger() {
				return v.IntPart(), nil
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n, nil
			}
		}
	case KindUint:
		switch v := lit.(type) {
		case int:
			if v >= 0 {
				return uint64(v), nil
			}
		case int64:
			if v >= 0 {
				return uint64(v), nil
			}
		case uint64:
			return v, nil
		case float64:
			if v == math.Trunc(v) && v >= 0 && v < math.MaxUint64 {
				return uint64(v), nil
			}
		case string:
			if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil {
				return n, nil
			}
		}
	case KindFloat:
		switch v := lit.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case decimal.Decimal:
			return v.InexactFloat64(), nil
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, nil
			}
		}
	case KindDecimal:
		switch v := lit.(type) {
		case decimal.Decimal:
			return v, nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case float64:
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				return decimal.NewFromFloat(v), nil
			}
		case string:
			if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
				return d, nil
			}
		}
	case KindBool:
		switch v := lit.(type) {
		case bool:
			return v, nil
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, nil
			}
		}
	case KindTime:
		switch v := lit.(type) {
		case time.Time:
			return v, nil
		case string:
			s := strings.TrimSpace(v)
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("cannot use %v (%T) as %s", lit, lit, k)
}
