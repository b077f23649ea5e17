package v1

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gridbinder-lab/project-gridbinder/internal/core/query"
)

// ErrInvalidRequest marks wire payloads that cannot be decoded into a query.
var ErrInvalidRequest = errors.New("invalid data source request")

func invalidRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// DataSourceRequest is the grid widget's read request.
// Paging accepts either skip/take or page/pageSize.
type DataSourceRequest struct {
	Take      *int                  `json:"take,omitempty"`
	Skip      *int                  `json:"skip,omitempty"`
	Page      *int                  `json:"page,omitempty"`
	PageSize  *int                  `json:"pageSize,omitempty"`
	Filter    *FilterDescriptor     `json:"filter,omitempty"`
	Sort      []SortDescriptor      `json:"sort,omitempty"`
	Group     []GroupDescriptor     `json:"group,omitempty"`
	Aggregate []AggregateDescriptor `json:"aggregate,omitempty"`
}

// FilterDescriptor is a leaf (field/operator/value) or a composite (logic/filters).
type FilterDescriptor struct {
	Field    string             `json:"field,omitempty"`
	Operator string             `json:"operator,omitempty"`
	Value    any                `json:"value"`
	Logic    string             `json:"logic,omitempty"`
	Filters  []FilterDescriptor `json:"filters,omitempty"`
}

type SortDescriptor struct {
	Field string `json:"field"`
	Dir   string `json:"dir,omitempty"`
}

type GroupDescriptor struct {
	Field      string                `json:"field"`
	Dir        string                `json:"dir,omitempty"`
	Aggregates []AggregateDescriptor `json:"aggregates,omitempty"`
}

type AggregateDescriptor struct {
	Field     string `json:"field"`
	Aggregate string `json:"aggregate"`
}

// operatorAliases maps the tokens emitted by grid clients onto canonical operators.
var operatorAliases = map[string]query.Operator{
	"eq":                     query.OpEq,
	"==":                     query.OpEq,
	"=":                      query.OpEq,
	"equals":                 query.OpEq,
	"equalto":                query.OpEq,
	"isequalto":              query.OpEq,
	"neq":                    query.OpNeq,
	"ne":                     query.OpNeq,
	"!=":                     query.OpNeq,
	"<>":                     query.OpNeq,
	"notequals":              query.OpNeq,
	"notequalto":             query.OpNeq,
	"isnotequalto":           query.OpNeq,
	"lt":                     query.OpLt,
	"<":                      query.OpLt,
	"lessthan":               query.OpLt,
	"islessthan":             query.OpLt,
	"lte":                    query.OpLte,
	"le":                     query.OpLte,
	"<=":                     query.OpLte,
	"lessthanequal":          query.OpLte,
	"islessthanorequalto":    query.OpLte,
	"gt":                     query.OpGt,
	">":                      query.OpGt,
	"greaterthan":            query.OpGt,
	"isgreaterthan":          query.OpGt,
	"gte":                    query.OpGte,
	"ge":                     query.OpGte,
	">=":                     query.OpGte,
	"greaterthanequal":       query.OpGte,
	"isgreaterthanorequalto": query.OpGte,
	"contains":               query.OpContains,
	"substringof":            query.OpContains,
	"doesnotcontain":         query.OpDoesNotContain,
	"notsubstringof":         query.OpDoesNotContain,
	"startswith":             query.OpStartsWith,
	"endswith":               query.OpEndsWith,
	"isnull":                 query.OpIsNull,
	"isnotnull":              query.OpIsNotNull,
	"isempty":                query.OpIsEmpty,
	"isnotempty":             query.OpIsNotEmpty,
}

var aggregateAliases = map[string]query.Function{
	"sum":     query.FnSum,
	"min":     query.FnMin,
	"max":     query.FnMax,
	"count":   query.FnCount,
	"average": query.FnAverage,
	"avg":     query.FnAverage,
}

func canonicalOperator(token string) query.Operator {
	t := strings.ToLower(strings.TrimSpace(token))
	if op, ok := operatorAliases[t]; ok {
		return op
	}
	// Unknown tokens pass through so the compiler reports them with the field.
	return query.Operator(t)
}

func canonicalFunction(token string) query.Function {
	t := strings.ToLower(strings.TrimSpace(token))
	if fn, ok := aggregateAliases[t]; ok {
		return fn
	}
	return query.Function(t)
}

func canonicalDirection(token string) query.Direction {
	return query.Direction(strings.ToLower(strings.TrimSpace(token)))
}

// ToQuery converts the wire request into an engine request.
func (r DataSourceRequest) ToQuery() (query.Request, error) {
	var req query.Request

	skip, take, err := r.paging()
	if err != nil {
		return req, err
	}
	req.Skip, req.Take = skip, take

	if r.Filter != nil {
		node, err := r.Filter.toNode()
		if err != nil {
			return req, err
		}
		req.Filter = node
	}

	for _, s := range r.Sort {
		if strings.TrimSpace(s.Field) == "" {
			return req, invalidRequestf("sort entry without field")
		}
		req.Sort = append(req.Sort, query.SortKey{Field: s.Field, Direction: canonicalDirection(s.Dir)})
	}

	for _, g := range r.Group {
		if strings.TrimSpace(g.Field) == "" {
			return req, invalidRequestf("group entry without field")
		}
		aggs, err := toAggregateSpecs(g.Aggregates)
		if err != nil {
			return req, err
		}
		req.Groups = append(req.Groups, query.GroupLevel{
			Field:      g.Field,
			Direction:  canonicalDirection(g.Dir),
			Aggregates: aggs,
		})
	}

	if req.Aggregates, err = toAggregateSpecs(r.Aggregate); err != nil {
		return req, err
	}
	return req, nil
}

// paging resolves skip/take, falling back to page/pageSize when absent.
// A page is counted in pageSize rows, or in take rows when pageSize is absent.
func (r DataSourceRequest) paging() (skip, take int, err error) {
	if r.Skip != nil {
		skip = *r.Skip
	}
	if r.Take != nil {
		take = *r.Take
	}

	size := 0
	if r.PageSize != nil && *r.PageSize > 0 {
		size = *r.PageSize
		if r.Take == nil {
			take = size
		}
	} else if take > 0 {
		size = take
	}

	if r.Skip == nil && r.Page != nil {
		if size == 0 {
			return 0, 0, invalidRequestf("page %d requires pageSize or take", *r.Page)
		}
		if *r.Page < 1 {
			return 0, 0, invalidRequestf("page must be >= 1, got %d", *r.Page)
		}
		skip = (*r.Page - 1) * size
	}
	if skip < 0 {
		return 0, 0, invalidRequestf("skip must be >= 0, got %d", skip)
	}
	if take < 0 {
		return 0, 0, invalidRequestf("take must be >= 0, got %d", take)
	}
	return skip, take, nil
}

func toAggregateSpecs(descs []AggregateDescriptor) ([]query.AggregateSpec, error) {
	var specs []query.AggregateSpec
	for _, a := range descs {
		if strings.TrimSpace(a.Field) == "" {
			return nil, invalidRequestf("aggregate entry without field")
		}
		specs = append(specs, query.AggregateSpec{Field: a.Field, Function: canonicalFunction(a.Aggregate)})
	}
	return specs, nil
}

// toNode returns nil for an empty descriptor, which clients send when all
// filters are cleared.
func (f FilterDescriptor) toNode() (query.FilterNode, error) {
	if len(f.Filters) > 0 {
		children := make([]query.FilterNode, 0, len(f.Filters))
		for _, child := range f.Filters {
			node, err := child.toNode()
			if err != nil {
				return nil, err
			}
			if node != nil {
				children = append(children, node)
			}
		}
		if len(children) == 0 {
			return nil, nil
		}
		logic := query.Logic(strings.ToLower(strings.TrimSpace(f.Logic)))
		if logic == "" {
			logic = query.And
		}
		return query.Composite{Logic: logic, Children: children}, nil
	}

	if strings.TrimSpace(f.Field) == "" {
		if f.Operator != "" {
			return nil, invalidRequestf("filter operator %q without field", f.Operator)
		}
		return nil, nil
	}
	if strings.TrimSpace(f.Operator) == "" {
		return nil, invalidRequestf("filter on %q without operator", f.Field)
	}
	return query.Leaf{Field: f.Field, Operator: canonicalOperator(f.Operator), Value: f.Value}, nil
}
