package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func runFilter(t *testing.T, node FilterNode) []int {
	t.Helper()
	resp, err := mustEngine(t).ExecuteSlice(Request{Filter: node}, employeeFixture())
	require.NoError(t, err)
	return ids(resp.Data)
}

func TestCompileFilter_Operators(t *testing.T) {
	tests := []struct {
		name string
		node FilterNode
		want []int
	}{
		{name: "nil filter keeps all", node: nil, want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{name: "string eq", node: Leaf{Field: "LastName", Operator: OpEq, Value: "Smith"}, want: []int{1, 2}},
		{name: "string neq", node: Leaf{Field: "Company.Name", Operator: OpNeq, Value: "C"}, want: []int{1, 2, 3, 4, 6, 8, 10, 12}},
		{name: "contains is case-sensitive", node: Leaf{Field: "LastName", Operator: OpContains, Value: "s"}, want: []int{3, 4, 7}},
		{name: "doesnotcontain", node: Leaf{Field: "FirstName", Operator: OpDoesNotContain, Value: "a"}, want: []int{1, 3, 5, 6, 7, 9, 10}},
		{name: "startswith", node: Leaf{Field: "FirstName", Operator: OpStartsWith, Value: "J"}, want: []int{2}},
		{name: "endswith", node: Leaf{Field: "LastName", Operator: OpEndsWith, Value: "son"}, want: []int{7}},
		{name: "int gt", node: Leaf{Field: "Id", Operator: OpGt, Value: 10}, want: []int{11, 12}},
		{name: "int lte from json number", node: Leaf{Field: "EmployeeNumber", Operator: OpLte, Value: json.Number("1002")}, want: []int{1, 2}},
		{name: "int gte from float", node: Leaf{Field: "Id", Operator: OpGte, Value: float64(12)}, want: []int{12}},
		{name: "int lt from string", node: Leaf{Field: "Id", Operator: OpLt, Value: "2"}, want: []int{1}},
		{name: "decimal gt", node: Leaf{Field: "Salary", Operator: OpGt, Value: "11000.10"}, want: []int{12}},
		{name: "time lt", node: Leaf{Field: "HireDate", Operator: OpLt, Value: "2020-03-01"}, want: []int{1}},
		{name: "time eq rfc3339", node: Leaf{Field: "HireDate", Operator: OpEq, Value: "2020-04-01T00:00:00Z"}, want: []int{3}},
		{name: "bool eq", node: Leaf{Field: "Active", Operator: OpEq, Value: false}, want: []int{2, 4, 6, 8, 10, 12}},
		{name: "bool eq from string", node: Leaf{Field: "Active", Operator: OpEq, Value: "true"}, want: []int{1, 3, 5, 7, 9, 11}},
		{name: "isnull on association", node: Leaf{Field: "Country.Name", Operator: OpIsNull}, want: []int{6, 7, 8, 9, 10, 11, 12}},
		{name: "isnotnull on pointer", node: Leaf{Field: "Email", Operator: OpIsNotNull}, want: []int{1, 3, 5, 12}},
		{name: "eq nil means isnull", node: Leaf{Field: "Email", Operator: OpEq, Value: nil}, want: []int{2, 4, 6, 7, 8, 9, 10, 11}},
		{name: "neq nil means isnotnull", node: Leaf{Field: "Country.Code", Operator: OpNeq, Value: nil}, want: []int{1, 2, 3, 4, 5}},
		{name: "nested association", node: Leaf{Field: "Company.MainCompany.Name", Operator: OpEq, Value: "Holding"}, want: []int{1, 4, 5, 6, 7, 9, 10, 11}},
		{name: "operator token is case-insensitive", node: Leaf{Field: "Id", Operator: "EQ", Value: 5}, want: []int{5}},
		{
			name: "or composite",
			node: Composite{Logic: Or, Children: []FilterNode{
				Leaf{Field: "Id", Operator: OpEq, Value: 1},
				Leaf{Field: "Id", Operator: OpEq, Value: 12},
			}},
			want: []int{1, 12},
		},
		{
			name: "empty logic defaults to and",
			node: &Composite{Children: []FilterNode{
				Leaf{Field: "Company.Name", Operator: OpEq, Value: "A"},
				&Leaf{Field: "Active", Operator: OpEq, Value: true},
			}},
			want: []int{1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, runFilter(t, tc.node))
		})
	}
}

func TestCompileFilter_NullSafety(t *testing.T) {
	tests := []struct {
		name string
		node FilterNode
		want []int
	}{
		{name: "contains skips null emails", node: Leaf{Field: "Email", Operator: OpContains, Value: "b.example"}, want: []int{3, 12}},
		{name: "doesnotcontain is false for null", node: Leaf{Field: "Email", Operator: OpDoesNotContain, Value: "b.example"}, want: []int{1, 5}},
		{name: "neq is false for null", node: Leaf{Field: "Country.Name", Operator: OpNeq, Value: "Belgium"}, want: []int{5}},
		{name: "isnotempty is false for null", node: Leaf{Field: "Email", Operator: OpIsNotEmpty}, want: []int{1, 3, 5, 12}},
		{name: "isempty is false for null", node: Leaf{Field: "Email", Operator: OpIsEmpty}, want: []int{}},
		{name: "relational is false for null", node: Leaf{Field: "Country.Code", Operator: OpGte, Value: "A"}, want: []int{1, 2, 3, 4, 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, runFilter(t, tc.node))
		})
	}
}

func TestCompileFilter_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		node    FilterNode
		wantErr string
	}{
		{name: "unknown field", node: Leaf{Field: "Salaryy", Operator: OpEq, Value: 1}, wantErr: "has no field"},
		{name: "unknown operator", node: Leaf{Field: "Id", Operator: "like", Value: 1}, wantErr: "unknown operator"},
		{name: "string operator on int", node: Leaf{Field: "Id", Operator: OpContains, Value: "1"}, wantErr: "requires a string field"},
		{name: "relational on bool", node: Leaf{Field: "Active", Operator: OpGt, Value: true}, wantErr: "requires an ordered field"},
		{name: "uncoercible literal", node: Leaf{Field: "Id", Operator: OpEq, Value: "abc"}, wantErr: "cannot use"},
		{name: "fractional literal for int", node: Leaf{Field: "Id", Operator: OpEq, Value: 1.5}, wantErr: "cannot use"},
		{name: "bad date", node: Leaf{Field: "HireDate", Operator: OpGt, Value: "yesterday"}, wantErr: "cannot use"},
		{name: "relational needs value", node: Leaf{Field: "Id", Operator: OpGt}, wantErr: "requires a value"},
		{name: "contains needs value", node: Leaf{Field: "LastName", Operator: OpContains}, wantErr: "requires a value"},
		{name: "empty composite", node: Composite{Logic: And}, wantErr: "no children"},
		{name: "unknown logic", node: Composite{Logic: "xor", Children: []FilterNode{Leaf{Field: "Id", Operator: OpEq, Value: 1}}}, wantErr: "unknown filter logic"},
		{
			name: "error in nested child",
			node: Composite{Logic: Or, Children: []FilterNode{
				Leaf{Field: "Id", Operator: OpEq, Value: 1},
				Composite{Logic: And, Children: []FilterNode{Leaf{Field: "Company.Nope", Operator: OpEq, Value: "A"}}},
			}},
			wantErr: "has no field",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mustEngine(t).Compile(Request{Filter: tc.node})
			require.ErrorIs(t, err, ErrConfiguration)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestCompileFilter_ErrorCarriesOperator(t *testing.T) {
	_, err := mustEngine(t).Compile(Request{Filter: Leaf{Field: "Active", Operator: OpLt, Value: true}})

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "Active", cfgErr.Field)
	require.Equal(t, string(OpLt), cfgErr.Operator)
}
