package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrRoleMismatch       = errors.New("Invalid role for this login")
	ErrInvalidEmployeeID  = errors.New("Invalid employee ID")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		// CreateStudents inserts all students in a single transaction;
		// any failing row aborts the whole batch.
		CreateStudents(ctx context.Context, students []User) error
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		QueryStudents(ctx context.Context) ([]Student, error)
		QueryClassStudents(ctx context.Context, classID int) ([]ClassStudent, error)
		UpdateStudentClass(ctx context.Context, studentID, classID int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate checks the login credentials in the order the login endpoint
// reports them: unknown user, role mismatch, employee id (teachers only,
// when provided), then password.
func (svc *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if usr.Role != creds.Role {
		return User{}, ErrRoleMismatch
	}
	if creds.Role == RoleTeacher && creds.EmployeeID != "" && usr.EmployeeID.String != creds.EmployeeID {
		return User{}, ErrInvalidEmployeeID
	}
	if err := usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *Service) Create(ctx context.Context, usr User, pwd string) (User, error) {
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	usr.CreatedAt = time.Now().UTC()
	return svc.repo.CreateUser(ctx, usr)
}

// CreateStudents bulk-creates student accounts. classID, when non-zero,
// overrides any per-student class.
func (svc *Service) CreateStudents(ctx context.Context, students []NewStudent, classID int) error {
	usrs := make([]User, 0, len(students))
	now := time.Now().UTC()
	for i := range students {
		ns := &students[i]
		ns.Clean()

		usr := User{
			Username:  ns.Username,
			Role:      RoleStudent,
			Name:      ns.Name,
			StudentID: null.StringFrom(ns.StudentID),
			CreatedAt: now,
		}
		switch {
		case classID > 0:
			usr.ClassID = null.IntFrom(classID)
		case ns.ClassID > 0:
			usr.ClassID = null.IntFrom(ns.ClassID)
		}
		if err := usr.SetPassword(ns.Password); err != nil {
			return err
		}
		usrs = append(usrs, usr)
	}
	return svc.repo.CreateStudents(ctx, usrs)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, uname)
}

func (svc *Service) QueryTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *Service) QueryStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) QueryClassStudents(ctx context.Context, classID int) ([]ClassStudent, error) {
	return svc.repo.QueryClassStudents(ctx, classID)
}

func (svc *Service) ChangeStudentClass(ctx context.Context, studentID, classID int) error {
	return svc.repo.UpdateStudentClass(ctx, studentID, classID)
}
