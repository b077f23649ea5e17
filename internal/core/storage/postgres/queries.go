package postgres

// SQL queries for the directory tables

const (
	// queryListEmployees loads employees with every association joined in.
	// LEFT JOINs keep employees without a company or country; the null
	// columns become nil associations when scanned.
	queryListEmployees = `
		SELECT
			e.id, e.first_name, e.last_name, e.email, e.employee_number,
			e.salary, e.hire_date, e.active,
			c.id, c.name, mc.id, mc.name,
			co.id, co.code, co.name
		FROM employees e
		LEFT JOIN companies c ON c.id = e.company_id
		LEFT JOIN main_companies mc ON mc.id = c.main_company_id
		LEFT JOIN countries co ON co.id = e.country_id
		ORDER BY e.id ASC
	`

	queryListCompanies = `
		SELECT c.id, c.name, mc.id, mc.name
		FROM companies c
		LEFT JOIN main_companies mc ON mc.id = c.main_company_id
		ORDER BY c.id ASC
	`

	// querySchemaExists reports whether a table is present.
	// Used at startup to fail fast when migrations have not run.
	querySchemaExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)
	`
)
