package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAlumnus RoleType = "alumnus"
	RoleStudent RoleType = "student"
	RoleAdmin   RoleType = "admin"
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleAlumnus, RoleStudent, RoleAdmin:
		return true
	}
	return false
}

// User is a portal member as seen by the gateway. It is owned by the external
// profile service and never modified here.
type User struct {
	ID              string   `json:"id" example:"u-1001"`
	DisplayName     string   `json:"displayName" example:"Ada Lovelace"`
	Email           string   `json:"email,omitempty" example:"ada@alumni.example.edu"`
	Role            RoleType `json:"role" example:"alumnus"`
	Headline        string   `json:"headline,omitempty" example:"Engineer at Analytical Engines"`
	GraduationYear  *int     `json:"graduationYear,omitempty" example:"2012"`
	ProfilePhotoURL *string  `json:"profilePhotoUrl,omitempty"`
}
