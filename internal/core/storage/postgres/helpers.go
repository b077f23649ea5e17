package postgres

import (
	"database/sql"
	"fmt"

	v1 "github.com/gridbinder-lab/project-gridbinder/internal/api/v1"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEmployeeRow scans one row of queryListEmployees.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanEmployeeRow(row scanner) (v1.Employee, error) {
	var (
		emp                      v1.Employee
		email                    sql.NullString
		companyID, mainID        sql.NullInt64
		companyName, mainName    sql.NullString
		countryID                sql.NullInt64
		countryCode, countryName sql.NullString
	)

	err := row.Scan(
		&emp.Id,
		&emp.FirstName,
		&emp.LastName,
		&email,
		&emp.EmployeeNumber,
		&emp.Salary,
		&emp.HireDate,
		&emp.Active,
		&companyID,
		&companyName,
		&mainID,
		&mainName,
		&countryID,
		&countryCode,
		&countryName,
	)
	if err != nil {
		return v1.Employee{}, fmt.Errorf("failed to scan employee row: %w", err)
	}

	// Normalize to UTC so responses do not depend on the session time zone.
	emp.HireDate = emp.HireDate.UTC()
	if email.Valid {
		emp.Email = &email.String
	}
	emp.Company = buildCompany(companyID, companyName, mainID, mainName)
	if countryID.Valid {
		emp.Country = &v1.Country{
			Id:   int(countryID.Int64),
			Code: countryCode.String,
			Name: countryName.String,
		}
	}
	return emp, nil
}

// scanCompanyRow scans one row of queryListCompanies.
func scanCompanyRow(row scanner) (v1.Company, error) {
	var (
		company  v1.Company
		mainID   sql.NullInt64
		mainName sql.NullString
	)
	if err := row.Scan(&company.Id, &company.Name, &mainID, &mainName); err != nil {
		return v1.Company{}, fmt.Errorf("failed to scan company row: %w", err)
	}
	if mainID.Valid {
		company.MainCompany = &v1.MainCompany{Id: int(mainID.Int64), Name: mainName.String}
	}
	return company, nil
}

func buildCompany(id sql.NullInt64, name sql.NullString, mainID sql.NullInt64, mainName sql.NullString) *v1.Company {
	if !id.Valid {
		return nil
	}
	company := &v1.Company{Id: int(id.Int64), Name: name.String}
	if mainID.Valid {
		company.MainCompany = &v1.MainCompany{Id: int(mainID.Int64), Name: mainName.String}
	}
	return company
}
