package directory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Role determines what a user may do and where they sort in listings.
// The numeric order is the sort precedence.
type Role int

const (
	RoleStudent Role = iota
	RolePersonalSupervisor
	RoleSeniorTutor
)

var roleNames = map[Role]string{
	RoleStudent:            "Student",
	RolePersonalSupervisor: "PersonalSupervisor",
	RoleSeniorTutor:        "SeniorTutor",
}

// String returns the persisted name of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Label returns a human readable form of the role for display.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RolePersonalSupervisor:
		return "Personal supervisor"
	case RoleSeniorTutor:
		return "Senior tutor"
	default:
		return r.String()
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole resolves a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return role, nil
		}
	}
	return 0, fmt.Errorf("directory: unknown role %q", s)
}

// MarshalJSON writes the role as its name.
func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("directory: cannot encode unknown role %d", int(r))
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts the role name or the bare enum number older files carry.
func (r *Role) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		role, err := ParseRole(name)
		if err != nil {
			return err
		}
		*r = role
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("directory: role must be a string or number: %w", err)
	}
	role := Role(n)
	if !role.Valid() {
		return fmt.Errorf("directory: unknown role %d", n)
	}
	*r = role
	return nil
}

// User is one account in the directory.
type User struct {
	ID        string `json:"id" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	LoginCode string `json:"loginCode" validate:"required,len=4,numeric"`
	Role      Role   `json:"type" validate:"gte=0,lte=2"`
}

// NewUser creates a user with a fresh identity.
func NewUser(firstName, lastName string, role Role, loginCode string) User {
	return User{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		LoginCode: loginCode,
		Role:      role,
	}
}

// NewStudent creates a student account.
func NewStudent(firstName, lastName, loginCode string) User {
	return NewUser(firstName, lastName, RoleStudent, loginCode)
}

// NewPersonalSupervisor creates a personal supervisor account.
func NewPersonalSupervisor(firstName, lastName, loginCode string) User {
	return NewUser(firstName, lastName, RolePersonalSupervisor, loginCode)
}

// NewSeniorTutor creates a senior tutor account.
func NewSeniorTutor(firstName, lastName, loginCode string) User {
	return NewUser(firstName, lastName, RoleSeniorTutor, loginCode)
}

// FullName joins the first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) String() string {
	return fmt.Sprintf("%s (%s)", u.FullName(), u.Role)
}

var validate = validator.New()

// Validate checks the required fields and the login code format.
func (u User) Validate() error {
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("directory: invalid user: %w", err)
	}
	if !IsValidLoginCode(u.LoginCode) {
		return fmt.Errorf("directory: login code must be exactly 4 digits")
	}
	return nil
}

// IsValidLoginCode reports whether code is exactly four ASCII digits.
func IsValidLoginCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
