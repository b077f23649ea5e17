package v1

import (
	"testing"

	"github.com/gridbinder-lab/project-gridbinder/internal/core/query"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestDataSourceRequest_Paging(t *testing.T) {
	tests := []struct {
		name     string
		req      DataSourceRequest
		wantSkip int
		wantTake int
		wantErr  bool
	}{
		{name: "absent", req: DataSourceRequest{}},
		{name: "skip and take", req: DataSourceRequest{Skip: intPtr(20), Take: intPtr(10)}, wantSkip: 20, wantTake: 10},
		{name: "page and page size", req: DataSourceRequest{Page: intPtr(3), PageSize: intPtr(25)}, wantSkip: 50, wantTake: 25},
		{name: "explicit skip wins over page", req: DataSourceRequest{Skip: intPtr(5), Page: intPtr(3), PageSize: intPtr(25)}, wantSkip: 5, wantTake: 25},
		{name: "explicit take wins over page size", req: DataSourceRequest{Take: intPtr(7), Page: intPtr(2), PageSize: intPtr(5)}, wantSkip: 5, wantTake: 7},
		{name: "page counted in take rows without page size", req: DataSourceRequest{Page: intPtr(3), Take: intPtr(10)}, wantSkip: 20, wantTake: 10},
		{name: "explicit skip wins over page without size", req: DataSourceRequest{Page: intPtr(4), Skip: intPtr(0)}},
		{name: "page without size", req: DataSourceRequest{Page: intPtr(4)}, wantErr: true},
		{name: "page with zero page size", req: DataSourceRequest{Page: intPtr(2), PageSize: intPtr(0)}, wantErr: true},
		{name: "zero page", req: DataSourceRequest{Page: intPtr(0), PageSize: intPtr(5)}, wantErr: true},
		{name: "negative skip", req: DataSourceRequest{Skip: intPtr(-1)}, wantErr: true},
		{name: "negative take", req: DataSourceRequest{Take: intPtr(-1)}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := tc.req.ToQuery()
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantSkip, q.Skip)
			require.Equal(t, tc.wantTake, q.Take)
		})
	}
}

func TestFilterDescriptor_ToNode(t *testing.T) {
	tests := []struct {
		name    string
		filter  FilterDescriptor
		want    query.FilterNode
		wantErr bool
	}{
		{
			name:   "cleared filter",
			filter: FilterDescriptor{Logic: "and"},
			want:   nil,
		},
		{
			name:   "composite of cleared children",
			filter: FilterDescriptor{Logic: "and", Filters: []FilterDescriptor{{}, {Logic: "or"}}},
			want:   nil,
		},
		{
			name:   "top-level leaf",
			filter: FilterDescriptor{Field: "LastName", Operator: "IsEqualTo", Value: "Smith"},
			want:   query.Leaf{Field: "LastName", Operator: query.OpEq, Value: "Smith"},
		},
		{
			name: "aliases and logic case",
			filter: FilterDescriptor{Logic: "OR", Filters: []FilterDescriptor{
				{Field: "Id", Operator: "<", Value: 3},
				{Field: "Email", Operator: "substringof", Value: "b.example"},
			}},
			want: query.Composite{Logic: query.Or, Children: []query.FilterNode{
				query.Leaf{Field: "Id", Operator: query.OpLt, Value: 3},
				query.Leaf{Field: "Email", Operator: query.OpContains, Value: "b.example"},
			}},
		},
		{
			name:   "missing logic defaults to and",
			filter: FilterDescriptor{Filters: []FilterDescriptor{{Field: "Id", Operator: "isnull"}}},
			want:   query.Composite{Logic: query.And, Children: []query.FilterNode{query.Leaf{Field: "Id", Operator: query.OpIsNull}}},
		},
		{
			name:   "unknown operator passes through",
			filter: FilterDescriptor{Field: "Id", Operator: "Like", Value: "x"},
			want:   query.Leaf{Field: "Id", Operator: "like", Value: "x"},
		},
		{
			name:    "operator without field",
			filter:  FilterDescriptor{Operator: "eq", Value: 1},
			wantErr: true,
		},
		{
			name:    "field without operator",
			filter:  FilterDescriptor{Field: "Id", Value: 1},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := DataSourceRequest{Filter: &tc.filter}.ToQuery()
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, q.Filter)
		})
	}
}

func TestDataSourceRequest_EntriesNeedFields(t *testing.T) {
	for name, req := range map[string]DataSourceRequest{
		"sort":            {Sort: []SortDescriptor{{Dir: "asc"}}},
		"group":           {Group: []GroupDescriptor{{Dir: "asc"}}},
		"aggregate":       {Aggregate: []AggregateDescriptor{{Aggregate: "sum"}}},
		"group aggregate": {Group: []GroupDescriptor{{Field: "Id", Aggregates: []AggregateDescriptor{{Aggregate: "sum"}}}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := req.ToQuery()
			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestDataSourceRequest_UnknownTokensFailCompilation(t *testing.T) {
	engine, err := query.NewEngine[Employee]()
	require.NoError(t, err)

	q, err := DataSourceRequest{
		Sort:      []SortDescriptor{{Field: "LastName", Dir: "ASC"}},
		Aggregate: []AggregateDescriptor{{Field: "Id", Aggregate: "median"}},
	}.ToQuery()
	require.NoError(t, err)
	require.Equal(t, query.Ascending, q.Sort[0].Direction)

	_, err = engine.Compile(q)
	require.ErrorIs(t, err, query.ErrConfiguration)
	require.ErrorContains(t, err, "median")
}

func TestEmployee_FieldPathsResolve(t *testing.T) {
	engine, err := query.NewEngine[Employee]()
	require.NoError(t, err)

	for _, path := range []string{"Id", "firstName", "LastName", "email", "Salary", "HireDate", "Company.Name", "company.mainCompany.name", "Country.Code"} {
		_, err := engine.Schema().Resolve(path)
		require.NoError(t, err, path)
	}
	require.Equal(t, "Bill Smith", Employee{FirstName: "Bill", LastName: "Smith"}.FullName())
}
