package query

import (
	"encoding/json"
	"reflect"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Aggregates maps field path -> function token -> value.
type Aggregates map[string]map[string]any

// MarshalJSON writes decimal values as JSON numbers so clients can do
// arithmetic on them directly.
func (a Aggregates) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	out := make(map[string]map[string]any, len(a))
	for field, byFn := range a {
		values := make(map[string]any, len(byFn))
		for fn, v := range byFn {
			if d, ok := v.(decimal.Decimal); ok {
				v = json.Number(d.String())
			}
			values[fn] = v
		}
		out[field] = values
	}
	return json.Marshal(out)
}

// Aggregator defines how one aggregate function folds field values.
// To add a new function: implement this interface and register it in Functions.
type Aggregator interface {
	// Accepts reports whether the function is defined for fields of kind k.
	Accepts(k Kind) bool

	// Start returns an empty accumulator for a field of kind k.
	Start(k Kind) Accumulator
}

// Accumulator folds the values of one field across rows.
type Accumulator interface {
	// Add folds one row. ok is false when the row's value is null.
	Add(v any, ok bool)

	// Result returns the aggregate. ok is false when it is undefined for the input.
	Result() (v any, ok bool)
}

// Functions is the registry of supported aggregate functions.
var Functions = map[Function]Aggregator{
	FnCount:   countAgg{},
	FnSum:     sumAgg{},
	FnAverage: averageAgg{},
	FnMin:     extremumAgg{sign: -1},
	FnMax:     extremumAgg{sign: 1},
}

// ValidFunction reports whether fn is a registered aggregate function.
func ValidFunction(fn Function) bool {
	_, ok := Functions[fn]
	return ok
}

// countAgg counts rows, including rows where the field is null.
type countAgg struct{}

func (countAgg) Accepts(Kind) bool      { return true }
func (countAgg) Start(Kind) Accumulator { return &countAcc{} }

type countAcc struct{ n int64 }

func (a *countAcc) Add(_ any, _ bool)   { a.n++ }
func (a *countAcc) Result() (any, bool) { return a.n, true }

// decimalSum accumulates exactly. Non-finite floats are tracked apart since
// decimal cannot represent them.
type decimalSum struct {
	kind      Kind
	sum       decimal.Decimal
	n         int64
	special   float64
	nonFinite bool
}

func (s *decimalSum) add(v any) {
	s.n++
	d, ok := toDecimal(s.kind, v)
	if !ok {
		s.special += v.(float64)
		s.nonFinite = true
		return
	}
	s.sum = s.sum.Add(d)
}

// sumAgg reports the sum in the field's number family.
type sumAgg struct{}

func (sumAgg) Accepts(k Kind) bool      { return k.Numeric() }
func (sumAgg) Start(k Kind) Accumulator { return &sumAcc{decimalSum{kind: k}} }

type sumAcc struct{ decimalSum }

func (a *sumAcc) Add(v any, ok bool) {
	if ok {
		a.add(v)
	}
}

func (a *sumAcc) Result() (any, bool) {
	// Integer sums that overflow their family are reported as decimals.
	switch a.kind {
	case KindInt:
		if bi := a.sum.BigInt(); bi.IsInt64() {
			return bi.Int64(), true
		}
	case KindUint:
		if bi := a.sum.BigInt(); bi.IsUint64() {
			return bi.Uint64(), true
		}
	case KindFloat:
		if a.nonFinite {
			return a.special, true
		}
		return a.sum.InexactFloat64(), true
	}
	return a.sum, true
}

// averageAgg divides the sum by the count of non-null values.
type averageAgg struct{}

func (averageAgg) Accepts(k Kind) bool      { return k.Numeric() }
func (averageAgg) Start(k Kind) Accumulator { return &averageAcc{decimalSum{kind: k}} }

type averageAcc struct{ decimalSum }

func (a *averageAcc) Add(v any, ok bool) {
	if ok {
		a.add(v)
	}
}

func (a *averageAcc) Result() (any, bool) {
	if a.n == 0 {
		return nil, false
	}
	if a.nonFinite {
		return a.special / float64(a.n), true
	}
	return a.sum.Div(decimal.NewFromInt(a.n)).InexactFloat64(), true
}

// extremumAgg tracks the minimum (sign -1) or maximum (sign 1) non-null value.
type extremumAgg struct{ sign int }

func (extremumAgg) Accepts(k Kind) bool { return k.Ordered() }
func (e extremumAgg) Start(k Kind) Accumulator {
	return &extremumAcc{kind: k, sign: e.sign}
}

type extremumAcc struct {
	kind Kind
	sign int
	best any
	seen bool
}

func (a *extremumAcc) Add(v any, ok bool) {
	if !ok {
		return
	}
	if !a.seen || compareValues(a.kind, v, a.best)*a.sign > 0 {
		a.best, a.seen = v, true
	}
}

func (a *extremumAcc) Result() (any, bool) {
	return a.best, a.seen
}

type compiledAggregate struct {
	field *Field
	fn    Function
	agg   Aggregator
}

// aggregateSet is a deduplicated, validated list of aggregate specs.
type aggregateSet []compiledAggregate

func compileAggregates(specs []AggregateSpec, schema *Schema) (aggregateSet, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	set := make(aggregateSet, 0, len(specs))
	for _, spec := range specs {
		fn := Function(strings.ToLower(strings.TrimSpace(string(spec.Function))))
		agg, ok := Functions[fn]
		if !ok {
			e := configErrorf(spec.Field, "unknown aggregate function")
			e.Function = string(spec.Function)
			return nil, e
		}
		field, err := schema.Resolve(spec.Field)
		if err != nil {
			return nil, err
		}
		if !agg.Accepts(field.Kind) {
			e := configErrorf(spec.Field, "not defined for %s fields", field.Kind)
			e.Function = string(fn)
			return nil, e
		}
		dup := slices.ContainsFunc(set, func(c compiledAggregate) bool {
			return c.field.Path == field.Path && c.fn == fn
		})
		if !dup {
			set = append(set, compiledAggregate{field: field, fn: fn, agg: agg})
		}
	}
	return set, nil
}

// aggregateRun holds one accumulator per compiled aggregate.
type aggregateRun struct {
	set  aggregateSet
	accs []Accumulator
}

func (s aggregateSet) start() *aggregateRun {
	if len(s) == 0 {
		return nil
	}
	run := &aggregateRun{set: s, accs: make([]Accumulator, len(s))}
	for i, c := range s {
		run.accs[i] = c.agg.Start(c.field.Kind)
	}
	return run
}

func (r *aggregateRun) add(rec reflect.Value) {
	if r == nil {
		return
	}
	for i, c := range r.set {
		r.accs[i].Add(c.field.valueOf(rec))
	}
}

func (r *aggregateRun) result() Aggregates {
	if r == nil {
		return nil
	}
	out := make(Aggregates, len(r.set))
	for i, c := range r.set {
		byFn, ok := out[c.field.Path]
		if !ok {
			byFn = make(map[string]any)
			out[c.field.Path] = byFn
		}
		if v, ok := r.accs[i].Result(); ok {
			byFn[string(c.fn)] = v
		}
	}
	return out
}

// aggregateRows computes the set over already materialized rows.
func aggregateRows[T any](set aggregateSet, rows []row[T]) Aggregates {
	run := set.start()
	for _, r := range rows {
		run.add(r.rv)
	}
	return run.result()
}
