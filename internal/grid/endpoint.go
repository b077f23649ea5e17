package grid

import (
	"context"
	"fmt"
	"slices"

	"github.com/gridbinder-lab/project-gridbinder/internal/core/query"
)

// Loader fetches the full record set a resource queries over.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Resource is one queryable grid collection.
type Resource interface {
	Name() string
	Serve(ctx context.Context, req query.Request) (*Result, error)
}

// Result is a served query. Body is the *query.Response[T] to encode.
type Result struct {
	Body  any
	Total int
	Mode  query.ResultMode
}

// Endpoint binds a record type to its loader and query engine.
type Endpoint[T any] struct {
	name   string
	load   Loader[T]
	engine *query.Engine[T]
}

// NewEndpoint builds an endpoint for records of type T.
// T must be a struct type the query engine can describe.
func NewEndpoint[T any](name string, load Loader[T]) (*Endpoint[T], error) {
	engine, err := query.NewEngine[T]()
	if err != nil {
		return nil, fmt.Errorf("grid resource %q: %w", name, err)
	}
	return &Endpoint[T]{name: name, load: load, engine: engine}, nil
}

func (e *Endpoint[T]) Name() string {
	return e.name
}

// Serve compiles req before loading so invalid queries never touch the store.
func (e *Endpoint[T]) Serve(ctx context.Context, req query.Request) (*Result, error) {
	resp, err := e.run(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Result{Body: resp, Total: resp.Total, Mode: req.Mode()}, nil
}

func (e *Endpoint[T]) run(ctx context.Context, req query.Request) (*query.Response[T], error) {
	plan, err := e.engine.Compile(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	records, err := e.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", e.name, err)
	}

	return plan.Run(slices.Values(records)), nil
}

// ViewEndpoint queries records of type E and answers with view models V.
// Request paths are translated through fields before compiling, and every
// served page is converted with convert.
type ViewEndpoint[E, V any] struct {
	source  *Endpoint[E]
	fields  query.FieldMap
	convert func([]E) []V
}

// NewViewEndpoint builds a view endpoint. convert must return one view per record.
func NewViewEndpoint[E, V any](name string, load Loader[E], fields query.FieldMap, convert func([]E) []V) (*ViewEndpoint[E, V], error) {
	if convert == nil {
		return nil, fmt.Errorf("grid resource %q: conversion is required", name)
	}
	source, err := NewEndpoint[E](name, load)
	if err != nil {
		return nil, err
	}
	for view, path := range fields {
		if _, err := source.engine.Schema().Resolve(path); err != nil {
			return nil, fmt.Errorf("grid resource %q: field %q: %w", name, view, err)
		}
	}
	return &ViewEndpoint[E, V]{source: source, fields: fields, convert: convert}, nil
}

func (v *ViewEndpoint[E, V]) Name() string {
	return v.source.name
}

func (v *ViewEndpoint[E, V]) Serve(ctx context.Context, req query.Request) (*Result, error) {
	mapped, names := v.fields.Rewrite(req)
	resp, err := v.source.run(ctx, mapped)
	if err != nil {
		return nil, err
	}
	view := query.Project(resp, v.convert, names)
	return &Result{Body: view, Total: view.Total, Mode: req.Mode()}, nil
}
