package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	v1 "github.com/gridbinder-lab/project-gridbinder/internal/api/v1"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Store is an in-memory DirectoryStore backed by a YAML fixture.
// Useful for development and tests. The data is read once and never written,
// so concurrent reads need no locking.
type Store struct {
	employees []v1.Employee
	companies []v1.Company
}

// fixture is the on-disk layout. Associations are referenced by id.
type fixture struct {
	MainCompanies []mainCompanyRecord `yaml:"main_companies"`
	Companies     []companyRecord     `yaml:"companies"`
	Countries     []countryRecord     `yaml:"countries"`
	Employees     []employeeRecord    `yaml:"employees"`
}

type mainCompanyRecord struct {
	Id   int    `yaml:"id"`
	Name string `yaml:"name"`
}

type companyRecord struct {
	Id            int    `yaml:"id"`
	Name          string `yaml:"name"`
	MainCompanyId *int   `yaml:"main_company_id"`
}

type countryRecord struct {
	Id   int    `yaml:"id"`
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type employeeRecord struct {
	Id             int     `yaml:"id"`
	FirstName      string  `yaml:"first_name"`
	LastName       string  `yaml:"last_name"`
	Email          *string `yaml:"email"`
	EmployeeNumber int     `yaml:"employee_number"`
	Salary         string  `yaml:"salary"`
	HireDate       string  `yaml:"hire_date"`
	Active         bool    `yaml:"active"`
	CompanyId      *int    `yaml:"company_id"`
	CountryId      *int    `yaml:"country_id"`
}

// Load reads and links the fixture at path.
func Load(path string) (*Store, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	store, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return store, nil
}

// Parse builds a store from fixture YAML. Unknown keys, duplicate ids and
// dangling references are errors.
func Parse(content []byte) (*Store, error) {
	var fx fixture
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	mains := make(map[int]v1.MainCompany, len(fx.MainCompanies))
	for _, rec := range fx.MainCompanies {
		if _, dup := mains[rec.Id]; dup {
			return nil, fmt.Errorf("duplicate main company id %d", rec.Id)
		}
		mains[rec.Id] = v1.MainCompany{Id: rec.Id, Name: rec.Name}
	}

	companies := make([]v1.Company, 0, len(fx.Companies))
	companyByID := make(map[int]v1.Company, len(fx.Companies))
	for _, rec := range fx.Companies {
		if _, dup := companyByID[rec.Id]; dup {
			return nil, fmt.Errorf("duplicate company id %d", rec.Id)
		}
		company := v1.Company{Id: rec.Id, Name: rec.Name}
		if rec.MainCompanyId != nil {
			parent, ok := mains[*rec.MainCompanyId]
			if !ok {
				return nil, fmt.Errorf("company %d references unknown main company %d", rec.Id, *rec.MainCompanyId)
			}
			company.MainCompany = &parent
		}
		companyByID[rec.Id] = company
		companies = append(companies, company)
	}

	countries := make(map[int]v1.Country, len(fx.Countries))
	for _, rec := range fx.Countries {
		if _, dup := countries[rec.Id]; dup {
			return nil, fmt.Errorf("duplicate country id %d", rec.Id)
		}
		countries[rec.Id] = v1.Country{Id: rec.Id, Code: rec.Code, Name: rec.Name}
	}

	employees := make([]v1.Employee, 0, len(fx.Employees))
	seen := make(map[int]struct{}, len(fx.Employees))
	for _, rec := range fx.Employees {
		if _, dup := seen[rec.Id]; dup {
			return nil, fmt.Errorf("duplicate employee id %d", rec.Id)
		}
		seen[rec.Id] = struct{}{}

		emp, err := rec.toEmployee()
		if err != nil {
			return nil, fmt.Errorf("employee %d: %w", rec.Id, err)
		}
		if rec.CompanyId != nil {
			company, ok := companyByID[*rec.CompanyId]
			if !ok {
				return nil, fmt.Errorf("employee %d references unknown company %d", rec.Id, *rec.CompanyId)
			}
			emp.Company = &company
		}
		if rec.CountryId != nil {
			country, ok := countries[*rec.CountryId]
			if !ok {
				return nil, fmt.Errorf("employee %d references unknown country %d", rec.Id, *rec.CountryId)
			}
			emp.Country = &country
		}
		employees = append(employees, emp)
	}

	return &Store{employees: employees, companies: companies}, nil
}

var hireDateLayouts = []string{time.DateOnly, time.RFC3339}

func (rec employeeRecord) toEmployee() (v1.Employee, error) {
	emp := v1.Employee{
		Id:             rec.Id,
		FirstName:      rec.FirstName,
		LastName:       rec.LastName,
		Email:          rec.Email,
		EmployeeNumber: rec.EmployeeNumber,
		Active:         rec.Active,
	}

	if rec.Salary != "" {
		salary, err := decimal.NewFromString(rec.Salary)
		if err != nil {
			return v1.Employee{}, fmt.Errorf("invalid salary %q: %w", rec.Salary, err)
		}
		emp.Salary = salary
	}

	if rec.HireDate != "" {
		var err error
		for _, layout := range hireDateLayouts {
			if emp.HireDate, err = time.Parse(layout, rec.HireDate); err == nil {
				break
			}
		}
		if err != nil {
			return v1.Employee{}, fmt.Errorf("invalid hire_date %q", rec.HireDate)
		}
	}
	return emp, nil
}

// ListEmployees returns copies of every employee in fixture order.
func (s *Store) ListEmployees(ctx context.Context) ([]v1.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]v1.Employee, len(s.employees))
	for i, emp := range s.employees {
		out[i] = copyEmployee(emp)
	}
	return out, nil
}

// ListCompanies returns copies of every company in fixture order.
func (s *Store) ListCompanies(ctx context.Context) ([]v1.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]v1.Company, len(s.companies))
	for i, company := range s.companies {
		out[i] = copyCompany(company)
	}
	return out, nil
}

// Copies detach every pointer so callers cannot modify the store.

func copyEmployee(emp v1.Employee) v1.Employee {
	if emp.Email != nil {
		email := *emp.Email
		emp.Email = &email
	}
	if emp.Company != nil {
		company := copyCompany(*emp.Company)
		emp.Company = &company
	}
	if emp.Country != nil {
		country := *emp.Country
		emp.Country = &country
	}
	return emp
}

func copyCompany(company v1.Company) v1.Company {
	if company.MainCompany != nil {
		parent := *company.MainCompany
		company.MainCompany = &parent
	}
	return company
}
