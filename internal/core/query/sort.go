package query

import (
	"reflect"
	"sort"
)

// comparator orders two records. It returns a negative number when a sorts first.
type comparator func(a, b reflect.Value) int

type sortStep struct {
	field *Field
	desc  bool
}

// compileSort builds a tie-break chain over keys. Nulls sort first ascending
// and last descending.
func compileSort(keys []SortKey, schema *Schema) (comparator, error) {
	steps := make([]sortStep, 0, len(keys))
	for _, key := range keys {
		field, err := schema.Resolve(key.Field)
		if err != nil {
			return nil, err
		}
		if !field.Kind.Ordered() && field.Kind != KindBool {
			return nil, configErrorf(key.Field, "cannot sort by %s field", field.Kind)
		}
		dir, ok := normalizeDirection(key.Direction)
		if !ok {
			return nil, configErrorf(key.Field, "unknown sort direction %q", key.Direction)
		}
		steps = append(steps, sortStep{field: field, desc: dir == Descending})
	}

	return func(a, b reflect.Value) int {
		for _, st := range steps {
			av, aok := st.field.valueOf(a)
			bv, bok := st.field.valueOf(b)
			c := compareNullable(st.field.Kind, av, aok, bv, bok)
			if c == 0 {
				continue
			}
			if st.desc {
				return -c
			}
			return c
		}
		return 0
	}, nil
}

// row pairs a record with its reflected struct value.
type row[T any] struct {
	item T
	rv   reflect.Value
}

// sortRows orders rows in place. Rows equal under cmp keep their input order.
func sortRows[T any](rows []row[T], cmp comparator) {
	if cmp == nil || len(rows) < 2 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return cmp(rows[i].rv, rows[j].rv) < 0
	})
}
