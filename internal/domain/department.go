package domain

// Department is the routing category assigned to a ticket.
type Department string

const (
	DepartmentIT    Department = "IT"
	DepartmentHR    Department = "HR"
	DepartmentAdmin Department = "Admin"
)

// Departments lists every department in enumeration order.
var Departments = []Department{DepartmentIT, DepartmentHR, DepartmentAdmin}

// Valid reports whether d is one of the known departments.
func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}
