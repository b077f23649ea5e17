package query

import "strings"

// Logic joins the children of a Composite filter node.
type Logic string

const (
	And Logic = "and"
	Or  Logic = "or"
)

// Operator is a canonical filter operator token.
type Operator string

const (
	OpEq             Operator = "eq"
	OpNeq            Operator = "neq"
	OpLt             Operator = "lt"
	OpLte            Operator = "lte"
	OpGt             Operator = "gt"
	OpGte            Operator = "gte"
	OpContains       Operator = "contains"
	OpDoesNotContain Operator = "doesnotcontain"
	OpStartsWith     Operator = "startswith"
	OpEndsWith       Operator = "endswith"
	OpIsNull         Operator = "isnull"
	OpIsNotNull      Operator = "isnotnull"
	OpIsEmpty        Operator = "isempty"
	OpIsNotEmpty     Operator = "isnotempty"
)

// Direction is a sort or group ordering.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Function is an aggregate function token.
type Function string

const (
	FnSum     Function = "sum"
	FnMin     Function = "min"
	FnMax     Function = "max"
	FnCount   Function = "count"
	FnAverage Function = "average"
)

// FilterNode is either a Leaf predicate or a Composite of child nodes.
type FilterNode interface {
	filterNode()
}

// Leaf compares the value at Field against Value using Operator.
type Leaf struct {
	Field    string
	Operator Operator
	Value    any
}

// Composite combines Children with Logic. It must have at least one child.
type Composite struct {
	Logic    Logic
	Children []FilterNode
}

func (Leaf) filterNode()      {}
func (Composite) filterNode() {}

// SortKey orders records by one field. Earlier keys take precedence.
type SortKey struct {
	Field     string
	Direction Direction
}

// AggregateSpec requests Function computed over Field.
type AggregateSpec struct {
	Field    string
	Function Function
}

// GroupLevel is one level of the grouping hierarchy, outermost first.
type GroupLevel struct {
	Field      string
	Direction  Direction
	Aggregates []AggregateSpec
}

// Request is a complete data-source query. Skip and Take apply only when > 0.
type Request struct {
	Skip       int
	Take       int
	Filter     FilterNode
	Sort       []SortKey
	Groups     []GroupLevel
	Aggregates []AggregateSpec
}

// ResultMode selects between a flat page of records and a group tree.
type ResultMode int

const (
	ModeFlat ResultMode = iota
	ModeGrouped
)

func (m ResultMode) String() string {
	if m == ModeGrouped {
		return "grouped"
	}
	return "flat"
}

// Mode reports the result shape. A non-empty group list always wins and
// top-level aggregates are then ignored.
func (r Request) Mode() ResultMode {
	if len(r.Groups) > 0 {
		return ModeGrouped
	}
	return ModeFlat
}

func normalizeDirection(d Direction) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(string(d)))) {
	case "", Ascending:
		return Ascending, true
	case Descending:
		return Descending, true
	}
	return "", false
}
