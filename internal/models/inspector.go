package models

// Role is the position of a staff member in the directorate.
type Role string

const (
	RoleInspector       Role = "Inspector"
	RoleSeniorInspector Role = "Senior Inspector"
	RoleSupervisor      Role = "Supervisor"
	RoleAdmin           Role = "Admin"
)

// Inspector is a staff member who files inspection reports.
type Inspector struct {
	ID   string `json:"id" yaml:"id" db:"id"`
	Name string `json:"name" yaml:"name" db:"name"`
	Role Role   `json:"role" yaml:"role" db:"role"`
}
