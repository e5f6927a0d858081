package user

import (
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent}

type User struct {
	ID           int         `json:"id" db:"id"`
	Username     string      `json:"username" db:"username"`
	PasswordHash []byte      `json:"-" db:"password"`
	Role         string      `json:"role" db:"role"`
	Name         string      `json:"name" db:"name"`
	Email        null.String `json:"email,omitempty" db:"email"`
	EmployeeID   null.String `json:"employee_id" db:"employee_id"`
	StudentID    null.String `json:"student_id" db:"student_id"`
	ClassID      null.Int    `json:"class_id" db:"class_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// Credentials is the login request.
type Credentials struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	EmployeeID string `json:"employeeId"`
	Role       string `json:"role" validate:"omitempty,oneof=admin teacher student"`
}

func (c *Credentials) Validate() error {
	c.Username = core.CleanString(c.Username)
	return core.Validate.Struct(c)
}

// NewStudent contains information needed to create a Student account.
// Username defaults to the lowercased StudentID; Password to "student123".
type NewStudent struct {
	Name      string `json:"name" validate:"required"`
	Username  string `json:"username" validate:"omitempty,alphanum_"`
	Password  string `json:"password"`
	StudentID string `json:"student_id" validate:"required"`
	ClassID   int    `json:"class_id"`
}

func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.StudentID = core.CleanString(ns.StudentID)
	if ns.Username == "" {
		ns.Username = core.CleanString(ns.StudentID, true /* lower */)
	}
	if ns.Password == "" {
		ns.Password = DefaultStudentPassword
	}
}

func (ns *NewStudent) Validate() error {
	ns.Clean()
	return core.Validate.Struct(ns)
}

// DefaultStudentPassword is assigned when a bulk-created student has no password.
const DefaultStudentPassword = "student123"

// Teacher is the admin listing row for teacher accounts.
type Teacher struct {
	ID         int         `json:"id" db:"id"`
	Name       string      `json:"name" db:"name"`
	Username   string      `json:"username" db:"username"`
	EmployeeID null.String `json:"employee_id" db:"employee_id"`
}

// Student is the admin listing row for student accounts; ClassName joins the
// assigned class when there is one.
type Student struct {
	ID        int         `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Username  string      `json:"username" db:"username"`
	StudentID null.String `json:"student_id" db:"student_id"`
	ClassID   null.Int    `json:"class_id" db:"class_id"`
	ClassName null.String `json:"class_name" db:"class_name"`
}

// ClassStudent is the roster row for a single class.
type ClassStudent struct {
	ID        int         `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	StudentID null.String `json:"student_id" db:"student_id"`
	Username  string      `json:"username" db:"username"`
}
