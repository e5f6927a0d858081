package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	query := repo.db.Rebind(`
INSERT INTO users (username, password, role, name, email, employee_id, student_id, class_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, created_at`)

	err := repo.db.QueryRowxContext(
		ctx, query,
		usr.Username, string(usr.PasswordHash), usr.Role, usr.Name,
		usr.Email, usr.EmployeeID, usr.StudentID, usr.ClassID,
	).Scan(&usr.ID, &usr.CreatedAt)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo userRepository) CreateStudents(ctx context.Context, students []user.User) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(`
INSERT INTO users (username, password, role, name, student_id, class_id)
VALUES (?, ?, ?, ?, ?, ?)`)

	for _, usr := range students {
		_, err = tx.ExecContext(
			ctx, query,
			usr.Username, string(usr.PasswordHash), usr.Role, usr.Name, usr.StudentID, usr.ClassID,
		)
		if err != nil {
			return errors.Wrapf(err, "creating student %s", usr.Username)
		}
	}
	return errors.Wrap(tx.Commit(), "committing students")
}

func (repo userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	query := repo.db.Rebind(`SELECT * FROM users WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &usr, query, id); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound)
	}
	return usr, nil
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	var usr user.User
	query := repo.db.Rebind(`SELECT * FROM users WHERE username = ?`)
	if err := repo.db.GetContext(ctx, &usr, query, username); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound)
	}
	return usr, nil
}

func (repo userRepository) QueryTeachers(ctx context.Context) ([]user.Teacher, error) {
	teachers := make([]user.Teacher, 0)
	query := `
SELECT id, name, username, employee_id
FROM users
WHERE role = 'teacher'
ORDER BY name`
	if err := repo.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	return teachers, nil
}

func (repo userRepository) QueryStudents(ctx context.Context) ([]user.Student, error) {
	students := make([]user.Student, 0)
	query := `
SELECT u.id, u.name, u.username, u.student_id, u.class_id,
       c.class_name || ' - ' || c.section AS class_name
FROM users u
LEFT JOIN classes c ON u.class_id = c.id
WHERE u.role = 'student'
ORDER BY u.name`
	if err := repo.db.SelectContext(ctx, &students, query); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo userRepository) QueryClassStudents(ctx context.Context, classID int) ([]user.ClassStudent, error) {
	students := make([]user.ClassStudent, 0)
	query := repo.db.Rebind(`
SELECT id, name, student_id, username
FROM users
WHERE role = 'student' AND class_id = ?
ORDER BY name`)
	if err := repo.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, errors.Wrap(err, "querying class students")
	}
	return students, nil
}

func (repo userRepository) UpdateStudentClass(ctx context.Context, studentID, classID int) error {
	query := repo.db.Rebind(`UPDATE users SET class_id = ? WHERE id = ?`)
	if _, err := repo.db.ExecContext(ctx, query, classID, studentID); err != nil {
		return errors.Wrap(err, "updating student class")
	}
	return nil
}
