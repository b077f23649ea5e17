package query

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// Response is the result of running a request. Exactly one of Data and Groups
// is non-nil; Aggregates is set only for flat requests that asked for them.
type Response[T any] struct {
	Total      int            `json:"total"`
	Data       []T            `json:"data"`
	Groups     []GroupNode[T] `json:"groups"`
	Aggregates Aggregates     `json:"aggregates"`
}

// Engine compiles requests against records of type T.
// An Engine is safe for concurrent use.
type Engine[T any] struct {
	schema *Schema
}

// NewEngine returns an engine for record type T, which must be a struct or a
// pointer to a struct.
func NewEngine[T any]() (*Engine[T], error) {
	schema, err := SchemaOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return &Engine[T]{schema: schema}, nil
}

// Schema exposes the field resolver used by the engine.
func (e *Engine[T]) Schema() *Schema {
	return e.schema
}

// Plan is a compiled request. Plans are immutable and may be run many times.
type Plan[T any] struct {
	schema     *Schema
	mode       ResultMode
	filter     predicate
	order      comparator
	skip       int
	take       int
	aggregates aggregateSet
	levels     []groupStep
}

// Compile validates req against T and resolves every field path it names.
// All returned errors wrap ErrConfiguration.
func (e *Engine[T]) Compile(req Request) (*Plan[T], error) {
	if req.Skip < 0 {
		return nil, configErrorf("", "skip must be >= 0, got %d", req.Skip)
	}
	if req.Take < 0 {
		return nil, configErrorf("", "take must be >= 0, got %d", req.Take)
	}

	filter, err := compileFilter(req.Filter, e.schema)
	if err != nil {
		return nil, err
	}

	plan := &Plan[T]{
		schema: e.schema,
		mode:   req.Mode(),
		filter: filter,
		skip:   req.Skip,
		take:   req.Take,
	}

	if plan.mode == ModeGrouped {
		if err := e.compileGroups(plan, req); err != nil {
			return nil, err
		}
		return plan, nil
	}

	keys := req.Sort
	if len(keys) == 0 {
		name, ok := e.schema.FirstSortableField()
		if !ok {
			return nil, configErrorf("", "%s has no sortable field for the default order", e.schema.Type())
		}
		keys = []SortKey{{Field: name, Direction: Ascending}}
	}
	if plan.order, err = compileSort(keys, e.schema); err != nil {
		return nil, err
	}
	if plan.aggregates, err = compileAggregates(req.Aggregates, e.schema); err != nil {
		return nil, err
	}
	return plan, nil
}

// compileGroups orders rows by every group field with its direction, then by
// the request's sort keys or, when there are none, the innermost group field.
func (e *Engine[T]) compileGroups(plan *Plan[T], req Request) error {
	keys := make([]SortKey, 0, len(req.Groups)+len(req.Sort))
	for _, level := range req.Groups {
		field, err := e.schema.Resolve(level.Field)
		if err != nil {
			return err
		}
		if !field.Kind.Ordered() && field.Kind != KindBool {
			return configErrorf(level.Field, "cannot group by %s field", field.Kind)
		}
		aggs, err := compileAggregates(level.Aggregates, e.schema)
		if err != nil {
			return err
		}
		plan.levels = append(plan.levels, groupStep{field: field, aggregates: aggs})
		keys = append(keys, SortKey{Field: level.Field, Direction: level.Direction})
	}
	if len(req.Sort) > 0 {
		keys = append(keys, req.Sort...)
	} else {
		innermost := req.Groups[len(req.Groups)-1]
		keys = append(keys, SortKey{Field: innermost.Field, Direction: Ascending})
	}

	order, err := compileSort(keys, e.schema)
	if err != nil {
		return err
	}
	plan.order = order
	return nil
}

// Mode reports whether the plan produces data or groups.
func (p *Plan[T]) Mode() ResultMode {
	return p.mode
}

// Run evaluates the plan over records. The sequence is consumed once; only
// records passing the filter are retained.
func (p *Plan[T]) Run(records iter.Seq[T]) *Response[T] {
	var rows []row[T]
	aggs := p.aggregates.start()
	for rec := range records {
		rv := p.schema.record(rec)
		if !p.filter(rv) {
			continue
		}
		rows = append(rows, row[T]{item: rec, rv: rv})
		aggs.add(rv)
	}

	resp := &Response[T]{Total: len(rows)}
	sortRows(rows, p.order)
	rows = page(rows, p.skip, p.take)

	if p.mode == ModeGrouped {
		resp.Groups = groupRows(rows, p.levels)
		return resp
	}

	resp.Data = make([]T, len(rows))
	for i, r := range rows {
		resp.Data[i] = r.item
	}
	resp.Aggregates = aggs.result()
	return resp
}

// page applies skip and take. Zero means no limit for either.
func page[T any](rows []row[T], skip, take int) []row[T] {
	if skip > 0 {
		if skip >= len(rows) {
			return rows[:0]
		}
		rows = rows[skip:]
	}
	if take > 0 && take < len(rows) {
		rows = rows[:take]
	}
	return rows
}

// Execute compiles and runs req in one step.
func (e *Engine[T]) Execute(req Request, records iter.Seq[T]) (*Response[T], error) {
	plan, err := e.Compile(req)
	if err != nil {
		return nil, fmt.Errorf("compile %s request: %w", req.Mode(), err)
	}
	return plan.Run(records), nil
}

// ExecuteSlice is Execute over an in-memory slice.
func (e *Engine[T]) ExecuteSlice(req Request, records []T) (*Response[T], error) {
	return e.Execute(req, slices.Values(records))
}
