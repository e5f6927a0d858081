package database

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Default credentials created by EnsureDefaultAdmin and Seed.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"

	seedTeacherUsername = "teacher1"
	seedTeacherPassword = "teacher123"
	seedStudentPassword = "student123"
)

// EnsureDefaultAdmin creates the admin/admin123 account when no admin exists
// yet; it runs at every startup right after migrations.
func EnsureDefaultAdmin(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE role = 'admin'`); err != nil {
		return errors.Wrap(err, "checking admin account")
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing admin password")
	}
	query := db.Rebind(`INSERT INTO users (username, password, role, name) VALUES (?, ?, 'admin', 'Administrator')`)
	if _, err := db.ExecContext(ctx, query, DefaultAdminUsername, string(hash)); err != nil {
		return errors.Wrap(err, "creating admin account")
	}
	return nil
}

// Seed loads the demo data set: classes 2-A and 2-B, one teacher assigned to
// the first class, and three students. It is idempotent.
func Seed(ctx context.Context, db *sqlx.DB) error {
	if err := EnsureDefaultAdmin(ctx, db); err != nil {
		return err
	}

	classQuery := db.Rebind(`
INSERT INTO classes (class_name, section) VALUES (?, ?) ON CONFLICT (class_name, section) DO NOTHING`)
	for _, section := range []string{"A", "B"} {
		if _, err := db.ExecContext(ctx, classQuery, "2", section); err != nil {
			return errors.Wrap(err, "seeding class")
		}
	}

	classIDs := make([]int, 0, 2)
	if err := db.SelectContext(ctx, &classIDs, `SELECT id FROM classes ORDER BY id`); err != nil {
		return errors.Wrap(err, "listing classes")
	}

	teacherHash, err := bcrypt.GenerateFromPassword([]byte(seedTeacherPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing teacher password")
	}
	teacherQuery := db.Rebind(`
INSERT INTO users (username, password, role, name, employee_id, class_id)
VALUES (?, ?, 'teacher', 'John Teacher', 'EMP001', ?)
ON CONFLICT (username) DO NOTHING`)
	if _, err := db.ExecContext(ctx, teacherQuery, seedTeacherUsername, string(teacherHash), classIDs[0]); err != nil {
		return errors.Wrap(err, "seeding teacher")
	}

	studentHash, err := bcrypt.GenerateFromPassword([]byte(seedStudentPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing student password")
	}
	students := []struct {
		name      string
		studentID string
		classID   int
	}{
		{"Alice Student", "STU001", classIDs[0]},
		{"Bob Student", "STU002", classIDs[0]},
		{"Charlie Student", "STU003", classIDs[len(classIDs)-1]},
	}
	studentQuery := db.Rebind(`
INSERT INTO users (username, password, role, name, student_id, class_id)
VALUES (?, ?, 'student', ?, ?, ?)
ON CONFLICT (username) DO NOTHING`)
	for _, s := range students {
		_, err := db.ExecContext(ctx, studentQuery, strings.ToLower(s.studentID), string(studentHash), s.name, s.studentID, s.classID)
		if err != nil {
			return errors.Wrap(err, "seeding student")
		}
	}

	// assign the teacher to the first class
	var teacherID int
	if err := db.GetContext(ctx, &teacherID, db.Rebind(`SELECT id FROM users WHERE username = ?`), seedTeacherUsername); err != nil {
		return errors.Wrap(err, "resolving seeded teacher")
	}
	assignQuery := db.Rebind(`UPDATE classes SET teacher_id = ? WHERE id = ?`)
	if _, err := db.ExecContext(ctx, assignQuery, teacherID, classIDs[0]); err != nil {
		return errors.Wrap(err, "assigning seeded teacher")
	}
	return nil
}
