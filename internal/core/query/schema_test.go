package query

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchema_Resolve(t *testing.T) {
	schema, err := SchemaOf(reflect.TypeFor[testEmployee]())
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		wantKind Kind
		wantErr  string
	}{
		{name: "top-level string", path: "FirstName", wantKind: KindString},
		{name: "json tag", path: "last_name", wantKind: KindString},
		{name: "case-insensitive", path: "employeenumber", wantKind: KindInt},
		{name: "nullable scalar", path: "Email", wantKind: KindString},
		{name: "decimal", path: "Salary", wantKind: KindDecimal},
		{name: "time", path: "HireDate", wantKind: KindTime},
		{name: "bool", path: "Active", wantKind: KindBool},
		{name: "association", path: "Company.Name", wantKind: KindString},
		{name: "nested association", path: "Company.MainCompany.Name", wantKind: KindString},
		{name: "unknown field", path: "Nope", wantErr: "has no field"},
		{name: "unknown nested field", path: "Company.Nope", wantErr: "has no field"},
		{name: "collection", path: "Tags", wantErr: "is a collection"},
		{name: "unexported", path: "secret", wantErr: "has no field"},
		{name: "association is not a scalar", path: "Company", wantErr: "association"},
		{name: "scalar has no fields", path: "FirstName.Length", wantErr: "has no fields"},
		{name: "empty", path: "", wantErr: "empty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := schema.Resolve(tc.path)
			if tc.wantErr != "" {
				require.ErrorIs(t, err, ErrConfiguration)
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantKind, f.Kind)
			require.Equal(t, tc.path, f.Path)
		})
	}
}

func TestSchema_ValueOfNullAssociation(t *testing.T) {
	schema, err := SchemaOf(reflect.TypeFor[testEmployee]())
	require.NoError(t, err)

	f, err := schema.Resolve("Country.Name")
	require.NoError(t, err)

	emps := employeeFixture()
	v, ok := f.valueOf(schema.record(emps[0]))
	require.True(t, ok)
	require.Equal(t, "Belgium", v)

	_, ok = f.valueOf(schema.record(emps[6]))
	require.False(t, ok, "nil country reads as null")
}

func TestSchema_PointerRecords(t *testing.T) {
	schema, err := SchemaOf(reflect.TypeFor[*testEmployee]())
	require.NoError(t, err)

	f, err := schema.Resolve("Id")
	require.NoError(t, err)

	emp := employeeFixture()[2]
	v, ok := f.valueOf(schema.record(&emp))
	require.True(t, ok)
	require.Equal(t, int64(3), v)

	var missing *testEmployee
	_, ok = f.valueOf(schema.record(missing))
	require.False(t, ok)
}

func TestSchema_RejectsNonStruct(t *testing.T) {
	_, err := SchemaOf(reflect.TypeFor[[]int]())
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestSchema_FirstSortableField(t *testing.T) {
	schema, err := SchemaOf(reflect.TypeFor[testEmployee]())
	require.NoError(t, err)

	name, ok := schema.FirstSortableField()
	require.True(t, ok)
	require.Equal(t, "Id", name)

	type onlyAssociations struct {
		Company *testCompany
		Tags    []string
	}
	schema, err = SchemaOf(reflect.TypeFor[onlyAssociations]())
	require.NoError(t, err)
	_, ok = schema.FirstSortableField()
	require.False(t, ok)
}

func TestSchema_ConcurrentResolveSharesAccessor(t *testing.T) {
	type concurrentRecord struct {
		Name string
	}
	schema, err := SchemaOf(reflect.TypeFor[concurrentRecord]())
	require.NoError(t, err)

	const workers = 16
	results := make([]*Field, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := schema.Resolve("Name")
			if err == nil {
				results[i] = f
			}
		}(i)
	}
	wg.Wait()

	for _, f := range results {
		require.NotNil(t, f)
		require.Same(t, results[0], f)
	}
}
