package query

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testMainCompany struct {
	Name string
}

type testCompany struct {
	Id          int
	Name        string
	MainCompany *testMainCompany
}

type testCountry struct {
	Code string
	Name string
}

type testEmployee struct {
	Id             int    `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          *string
	EmployeeNumber int
	Salary         decimal.Decimal
	HireDate       time.Time
	Active         bool
	Company        *testCompany
	Country        *testCountry
	Tags           []string
	secret         string
}

func strPtr(s string) *string { return &s }

// employeeFixture returns twelve employees: ids 1..12, employee numbers 1001..1012.
// Only the first five carry a country.
func employeeFixture() []testEmployee {
	holding := &testMainCompany{Name: "Holding"}
	a := &testCompany{Id: 1, Name: "A", MainCompany: holding}
	b := &testCompany{Id: 2, Name: "B"}
	c := &testCompany{Id: 3, Name: "C", MainCompany: holding}
	be := &testCountry{Code: "BE", Name: "Belgium"}
	nl := &testCountry{Code: "NL", Name: "Netherlands"}

	type seed struct {
		first, last string
		email       *string
		company     *testCompany
		country     *testCountry
	}
	seeds := []seed{
		{"Bill", "Smith", strPtr("bill@a.example"), a, be},
		{"Jack", "Smith", nil, b, be},
		{"Chris", "Jones", strPtr("chris@b.example"), b, be},
		{"Emma", "Peters", nil, a, be},
		{"Oliver", "Brown", strPtr("oliver@c.example"), c, nl},
		{"Ann", "Taylor", nil, a, nil},
		{"Nick", "Wilson", nil, c, nil},
		{"Mary", "Moore", nil, b, nil},
		{"Lucy", "Clark", nil, c, nil},
		{"Tom", "Hall", nil, a, nil},
		{"Sam", "Lee", nil, c, nil},
		{"Kate", "Young", strPtr("kate@b.example"), b, nil},
	}

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]testEmployee, len(seeds))
	for i, s := range seeds {
		id := i + 1
		out[i] = testEmployee{
			Id:             id,
			FirstName:      s.first,
			LastName:       s.last,
			Email:          s.email,
			EmployeeNumber: 1000 + id,
			Salary:         decimal.NewFromInt(int64(id) * 1000).Add(decimal.RequireFromString("0.10")),
			HireDate:       base.AddDate(0, id, 0),
			Active:         id%2 == 1,
			Company:        s.company,
			Country:        s.country,
		}
	}
	return out
}

func firstNames(emps []testEmployee) []string {
	out := make([]string, len(emps))
	for i, e := range emps {
		out[i] = e.FirstName
	}
	return out
}

func ids(emps []testEmployee) []int {
	out := make([]int, len(emps))
	for i, e := range emps {
		out[i] = e.Id
	}
	return out
}

func mustEngine(t *testing.T) *Engine[testEmployee] {
	t.Helper()
	e, err := NewEngine[testEmployee]()
	require.NoError(t, err)
	return e
}
