package grid

import (
	"encoding/json"
	"testing"
	"time"

	v1 "github.com/gridbinder-lab/project-gridbinder/internal/api/v1"
	storagemocks "github.com/gridbinder-lab/project-gridbinder/internal/mocks/storage"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testEmployees() []v1.Employee {
	email := "bill@a.example"
	holding := &v1.MainCompany{Id: 1, Name: "Holding"}
	companyA := &v1.Company{Id: 1, Name: "A", MainCompany: holding}
	companyB := &v1.Company{Id: 2, Name: "B"}
	hired := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	return []v1.Employee{
		{Id: 1, FirstName: "Bill", LastName: "Smith", Email: &email, EmployeeNumber: 1001, Salary: decimal.RequireFromString("1000.10"), HireDate: hired.AddDate(0, 1, 0), Active: true, Company: companyA},
		{Id: 2, FirstName: "Jack", LastName: "Smith", EmployeeNumber: 1002, Salary: decimal.RequireFromString("2000.10"), HireDate: hired.AddDate(0, 2, 0), Company: companyB},
		{Id: 3, FirstName: "Chris", LastName: "Jones", EmployeeNumber: 1003, Salary: decimal.RequireFromString("3000.10"), HireDate: hired.AddDate(0, 3, 0), Active: true, Company: companyB},
		{Id: 4, FirstName: "Emma", LastName: "Peters", EmployeeNumber: 1004, Salary: decimal.RequireFromString("4000.10"), HireDate: hired.AddDate(0, 4, 0), Company: companyA},
		{Id: 5, FirstName: "Oliver", LastName: "Brown", EmployeeNumber: 1005, Salary: decimal.RequireFromString("5000.10"), HireDate: hired.AddDate(0, 5, 0), Active: true},
	}
}

func testCompanies() []v1.Company {
	return []v1.Company{
		{Id: 1, Name: "A", MainCompany: &v1.MainCompany{Id: 1, Name: "Holding"}},
		{Id: 2, Name: "B"},
	}
}

func newTestRouter(t *testing.T, store *storagemocks.DirectoryStore, opts Options) (*Service, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resources, err := DirectoryResources(store)
	require.NoError(t, err)
	svc, err := NewService(opts, resources...)
	require.NoError(t, err)
	svc.newRequestID = func() string { return "req-test" }

	r := gin.New()
	svc.RegisterRoutes(r)
	return svc, r
}

type flatBody struct {
	Total      int                       `json:"total"`
	Data       []v1.Employee             `json:"data"`
	Groups     []json.RawMessage         `json:"groups"`
	Aggregates map[string]map[string]any `json:"aggregates"`
}

type groupBody struct {
	Field        string                    `json:"field"`
	Value        any                       `json:"value"`
	Aggregates   map[string]map[string]any `json:"aggregates"`
	HasSubgroups bool                      `json:"hasSubgroups"`
	Items        []json.RawMessage         `json:"items"`
}

type groupedBody struct {
	Total      int                       `json:"total"`
	Data       []v1.Employee             `json:"data"`
	Groups     []groupBody               `json:"groups"`
	Aggregates map[string]map[string]any `json:"aggregates"`
}

func employeeIDs(employees []v1.Employee) []int {
	ids := make([]int, len(employees))
	for i, e := range employees {
		ids[i] = e.Id
	}
	return ids
}
