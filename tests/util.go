package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/marks"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/database"
)

// PrepareDB opens a throwaway sqlite database and runs all migrations on it.
// The database lives in the test's temp dir and is closed on cleanup.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	core.Conf.Database.Engine = database.EngineSQLite

	db, err := database.OpenNamed(filepath.Join(t.TempDir(), "test.db"), &core.Conf)
	if err != nil {
		t.Fatalf("OpenNamed(): %v", err)
	}
	if err = database.Migrate(db, &core.Conf); err != nil {
		t.Fatalf("Migrate(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewLogger returns a logger that discards everything.
func NewLogger() core.Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func CreateUser(t *testing.T, repo user.Repository, name, uname, pwd, role string) user.User {
	t.Helper()

	usr := user.User{
		Name:     name,
		Username: uname,
		Role:     role,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func CreateTeacher(t *testing.T, repo user.Repository, name, uname, pwd, employeeID string) user.User {
	t.Helper()

	usr := user.User{
		Name:       name,
		Username:   uname,
		Role:       user.RoleTeacher,
		EmployeeID: null.StringFrom(employeeID),
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("CreateTeacher(): %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateTeacher(): %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo user.Repository, name, uname, studentID string, classID int) user.User {
	t.Helper()

	usr := user.User{
		Name:      name,
		Username:  uname,
		Role:      user.RoleStudent,
		StudentID: null.StringFrom(studentID),
	}
	if classID > 0 {
		usr.ClassID = null.IntFrom(classID)
	}
	if err := usr.SetPassword(user.DefaultStudentPassword); err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}
	return usr
}

func CreateClass(t *testing.T, repo school.Repository, name, section string) school.Class {
	t.Helper()

	class, err := repo.CreateClass(context.Background(), school.Class{ClassName: name, Section: section})
	if err != nil {
		t.Fatalf("CreateClass(): %v", err)
	}
	return class
}

func CreateSubject(t *testing.T, repo school.Repository, name, code string) school.Subject {
	t.Helper()

	subj := school.Subject{Name: name}
	if code != "" {
		subj.Code = null.StringFrom(code)
	}
	subj, err := repo.CreateSubject(context.Background(), subj)
	if err != nil {
		t.Fatalf("CreateSubject(): %v", err)
	}
	return subj
}

func CreateRoom(t *testing.T, repo school.Repository, number string, capacity int) school.Room {
	t.Helper()

	room := school.Room{RoomNumber: number}
	if capacity > 0 {
		room.Capacity = null.IntFrom(capacity)
	}
	room, err := repo.CreateRoom(context.Background(), room)
	if err != nil {
		t.Fatalf("CreateRoom(): %v", err)
	}
	return room
}

func MarkAttendance(t *testing.T, repo attendance.Repository, studentID, classID int, date, status string, markedBy int) {
	t.Helper()

	err := repo.UpsertRecords(context.Background(), []attendance.Record{{
		StudentID: studentID,
		ClassID:   classID,
		Date:      date,
		Status:    status,
		MarkedBy:  markedBy,
	}})
	if err != nil {
		t.Fatalf("MarkAttendance(): %v", err)
	}
}

func CreateMark(t *testing.T, repo marks.Repository, studentID, classID int, subject string, internal, external float64, uploadedBy int) marks.Mark {
	t.Helper()

	m := marks.Mark{
		StudentID:  studentID,
		ClassID:    classID,
		Subject:    subject,
		UploadedBy: uploadedBy,
	}
	if internal != 0 {
		m.InternalMarks = null.Float64From(internal)
	}
	if external != 0 {
		m.ExternalMarks = null.Float64From(external)
	}
	m, err := repo.CreateMark(context.Background(), m)
	if err != nil {
		t.Fatalf("CreateMark(): %v", err)
	}
	return m
}
