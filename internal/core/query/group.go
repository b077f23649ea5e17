package query

import "encoding/json"

// GroupNode is one bucket of the group tree. Leaves carry Items; inner nodes
// carry Subgroups.
type GroupNode[T any] struct {
	Field        string
	Value        any
	Aggregates   Aggregates
	HasSubgroups bool
	Items        []T
	Subgroups    []GroupNode[T]
}

// MarshalJSON writes the node in grid wire shape, where "items" holds either
// records or nested groups.
func (n GroupNode[T]) MarshalJSON() ([]byte, error) {
	var items any
	if n.HasSubgroups {
		sub := n.Subgroups
		if sub == nil {
			sub = []GroupNode[T]{}
		}
		items = sub
	} else {
		recs := n.Items
		if recs == nil {
			recs = []T{}
		}
		items = recs
	}
	aggs := n.Aggregates
	if aggs == nil {
		aggs = Aggregates{}
	}
	return json.Marshal(struct {
		Field        string     `json:"field"`
		Value        any        `json:"value"`
		Aggregates   Aggregates `json:"aggregates"`
		HasSubgroups bool       `json:"hasSubgroups"`
		Items        any        `json:"items"`
	}{
		Field:        n.Field,
		Value:        n.Value,
		Aggregates:   aggs,
		HasSubgroups: n.HasSubgroups,
		Items:        items,
	})
}

// LeafCount returns the number of records under the node.
func (n GroupNode[T]) LeafCount() int {
	if !n.HasSubgroups {
		return len(n.Items)
	}
	total := 0
	for _, sub := range n.Subgroups {
		total += sub.LeafCount()
	}
	return total
}

type groupStep struct {
	field      *Field
	aggregates aggregateSet
}

// groupRows partitions rows, already ordered by every level's field, into a
// tree. Equal values are contiguous so each level is a single linear scan.
func groupRows[T any](rows []row[T], levels []groupStep) []GroupNode[T] {
	if len(levels) == 0 {
		return nil
	}
	level, rest := levels[0], levels[1:]
	kind := level.field.Kind

	nodes := make([]GroupNode[T], 0)
	start := 0
	for start < len(rows) {
		key, keyOK := level.field.valueOf(rows[start].rv)
		end := start + 1
		for end < len(rows) {
			v, ok := level.field.valueOf(rows[end].rv)
			if compareNullable(kind, key, keyOK, v, ok) != 0 {
				break
			}
			end++
		}

		bucket := rows[start:end]
		node := GroupNode[T]{
			Field:        level.field.Path,
			Value:        key,
			Aggregates:   aggregateRows(level.aggregates, bucket),
			HasSubgroups: len(rest) > 0,
		}
		if node.HasSubgroups {
			node.Subgroups = groupRows(bucket, rest)
		} else {
			node.Items = make([]T, len(bucket))
			for i, r := range bucket {
				node.Items[i] = r.item
			}
		}
		nodes = append(nodes, node)
		start = end
	}
	return nodes
}
