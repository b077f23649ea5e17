package v1

import (
	"time"

	"github.com/gridbinder-lab/project-gridbinder/internal/core/query"
	"github.com/shopspring/decimal"
)

// Employee is a directory record served by the employees grid.
// Associations are pointers; a nil association reads as null in filters,
// sorts and groups.
type Employee struct {
	Id             int             `json:"id"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          *string         `json:"email"`
	EmployeeNumber int             `json:"employeeNumber"`
	Salary         decimal.Decimal `json:"salary"`
	HireDate       time.Time       `json:"hireDate"`
	Active         bool            `json:"active"`
	Company        *Company        `json:"company"`
	Country        *Country        `json:"country"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Company is an employer. MainCompany is its optional parent.
type Company struct {
	Id          int          `json:"id"`
	Name        string       `json:"name"`
	MainCompany *MainCompany `json:"mainCompany"`
}

type MainCompany struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type Country struct {
	Id   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// EmployeeView is the flattened employee row served by the employee-views grid.
type EmployeeView struct {
	Id              int             `json:"id"`
	FullName        string          `json:"fullName"`
	Email           *string         `json:"email"`
	Salary          decimal.Decimal `json:"salary"`
	HireDate        time.Time       `json:"hireDate"`
	CompanyName     string          `json:"companyName"`
	MainCompanyName string          `json:"mainCompanyName"`
	CountryCode     string          `json:"countryCode"`
}

// EmployeeViewFields maps EmployeeView paths onto Employee paths.
// Full names sort and filter on the last name.
var EmployeeViewFields = query.FieldMap{
	"FullName":        "LastName",
	"CompanyName":     "Company.Name",
	"MainCompanyName": "Company.MainCompany.Name",
	"CountryCode":     "Country.Code",
}

// ToEmployeeViews flattens employees. Missing associations read as "".
func ToEmployeeViews(employees []Employee) []EmployeeView {
	views := make([]EmployeeView, len(employees))
	for i, e := range employees {
		v := EmployeeView{
			Id:       e.Id,
			FullName: e.FullName(),
			Email:    e.Email,
			Salary:   e.Salary,
			HireDate: e.HireDate,
		}
		if e.Company != nil {
			v.CompanyName = e.Company.Name
			if e.Company.MainCompany != nil {
				v.MainCompanyName = e.Company.MainCompany.Name
			}
		}
		if e.Country != nil {
			v.CountryCode = e.Country.Code
		}
		views[i] = v
	}
	return views
}
