package query

import (
	"reflect"
	"strings"
)

// predicate reports whether a record, already reduced to its struct value, matches.
type predicate func(rec reflect.Value) bool

func matchAll(reflect.Value) bool { return true }

var (
	stringOperators = map[Operator]bool{
		OpContains:       true,
		OpDoesNotContain: true,
		OpStartsWith:     true,
		OpEndsWith:       true,
		OpIsEmpty:        true,
		OpIsNotEmpty:     true,
	}
	relationalOperators = map[Operator]bool{
		OpLt:  true,
		OpLte: true,
		OpGt:  true,
		OpGte: true,
	}
)

// compileFilter turns a filter tree into a predicate. A nil node matches every record.
func compileFilter(node FilterNode, schema *Schema) (predicate, error) {
	switch n := node.(type) {
	case nil:
		return matchAll, nil
	case Leaf:
		return compileLeaf(n, schema)
	case *Leaf:
		if n == nil {
			return matchAll, nil
		}
		return compileLeaf(*n, schema)
	case Composite:
		return compileComposite(n, schema)
	case *Composite:
		if n == nil {
			return matchAll, nil
		}
		return compileComposite(*n, schema)
	}
	return nil, configErrorf("", "unsupported filter node %T", node)
}

func compileComposite(n Composite, schema *Schema) (predicate, error) {
	if len(n.Children) == 0 {
		return nil, configErrorf("", "composite filter has no children")
	}
	logic := Logic(strings.ToLower(string(n.Logic)))
	if logic == "" {
		logic = And
	}
	if logic != And && logic != Or {
		return nil, configErrorf("", "unknown filter logic %q", n.Logic)
	}

	children := make([]predicate, 0, len(n.Children))
	for _, child := range n.Children {
		p, err := compileFilter(child, schema)
		if err != nil {
			return nil, err
		}
		children = append(children, p)
	}
	if len(children) == 1 {
		return children[0], nil
	}

	if logic == Or {
		return func(rec reflect.Value) bool {
			for _, p := range children {
				if p(rec) {
					return true
				}
			}
			return false
		}, nil
	}
	return func(rec reflect.Value) bool {
		for _, p := range children {
			if !p(rec) {
				return false
			}
		}
		return true
	}, nil
}

func compileLeaf(leaf Leaf, schema *Schema) (predicate, error) {
	field, err := schema.Resolve(leaf.Field)
	if err != nil {
		return nil, err
	}
	op := Operator(strings.ToLower(strings.TrimSpace(string(leaf.Operator))))
	opErr := func(reason string, args ...any) error {
		e := configErrorf(leaf.Field, reason, args...)
		e.Operator = string(leaf.Operator)
		return e
	}

	// A null literal turns equality into a null test.
	if leaf.Value == nil {
		switch op {
		case OpEq:
			op = OpIsNull
		case OpNeq:
			op = OpIsNotNull
		}
	}

	switch op {
	case OpIsNull:
		return func(rec reflect.Value) bool {
			_, ok := field.valueOf(rec)
			return !ok
		}, nil
	case OpIsNotNull:
		return func(rec reflect.Value) bool {
			_, ok := field.valueOf(rec)
			return ok
		}, nil
	}

	if stringOperators[op] {
		if field.Kind != KindString {
			return nil, opErr("operator requires a string field, got %s", field.Kind)
		}
		return compileStringLeaf(field, op, leaf.Value, opErr)
	}

	if op != OpEq && op != OpNeq && !relationalOperators[op] {
		return nil, opErr("unknown operator")
	}
	if relationalOperators[op] && !field.Kind.Ordered() {
		return nil, opErr("operator requires an ordered field, got %s", field.Kind)
	}
	if leaf.Value == nil {
		return nil, opErr("operator requires a value")
	}
	want, err := coerce(field.Kind, leaf.Value)
	if err != nil {
		return nil, opErr("%v", err)
	}

	var test func(c int) bool
	switch op {
	case OpEq:
		test = func(c int) bool { return c == 0 }
	case OpNeq:
		test = func(c int) bool { return c != 0 }
	case OpLt:
		test = func(c int) bool { return c < 0 }
	case OpLte:
		test = func(c int) bool { return c <= 0 }
	case OpGt:
		test = func(c int) bool { return c > 0 }
	case OpGte:
		test = func(c int) bool { return c >= 0 }
	}

	kind := field.Kind
	return func(rec reflect.Value) bool {
		v, ok := field.valueOf(rec)
		if !ok {
			return false
		}
		return test(compareValues(kind, v, want))
	}, nil
}

func compileStringLeaf(field *Field, op Operator, lit any, opErr func(string, ...any) error) (predicate, error) {
	switch op {
	case OpIsEmpty, OpIsNotEmpty:
		want := op == OpIsEmpty
		return func(rec reflect.Value) bool {
			v, ok := field.valueOf(rec)
			if !ok {
				return false
			}
			return (v.(string) == "") == want
		}, nil
	}

	if lit == nil {
		return nil, opErr("operator requires a value")
	}
	raw, err := coerce(KindString, lit)
	if err != nil {
		return nil, opErr("%v", err)
	}
	want := raw.(string)

	var test func(s string) bool
	switch op {
	case OpContains:
		test = func(s string) bool { return strings.Contains(s, want) }
	case OpDoesNotContain:
		test = func(s string) bool { return !strings.Contains(s, want) }
	case OpStartsWith:
		test = func(s string) bool { return strings.HasPrefix(s, want) }
	case OpEndsWith:
		test = func(s string) bool { return strings.HasSuffix(s, want) }
	}

	return func(rec reflect.Value) bool {
		v, ok := field.valueOf(rec)
		if !ok {
			return false
		}
		return test(v.(string))
	}, nil
}
