package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo schoolRepository) QueryClasses(ctx context.Context) ([]school.Class, error) {
	classes := make([]school.Class, 0)
	query := `
SELECT c.*, u.name AS teacher_name, u.employee_id AS teacher_employee_id
FROM classes c
LEFT JOIN users u ON c.teacher_id = u.id
ORDER BY c.class_name, c.section`
	if err := repo.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (repo schoolRepository) GetClassByID(ctx context.Context, id int) (school.Class, error) {
	var class school.Class
	query := repo.db.Rebind(`
SELECT id, class_name, section, teacher_id, created_at FROM classes WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &class, query, id); err != nil {
		return school.Class{}, trapNoRowsErr(err, school.ErrClassNotFound)
	}
	return class, nil
}

func (repo schoolRepository) GetClassByTeacher(ctx context.Context, teacherID int) (school.Class, error) {
	var class school.Class
	query := repo.db.Rebind(`
SELECT id, class_name, section, teacher_id, created_at
FROM classes
WHERE teacher_id = ?
ORDER BY id
LIMIT 1`)
	if err := repo.db.GetContext(ctx, &class, query, teacherID); err != nil {
		return school.Class{}, trapNoRowsErr(err, school.ErrClassNotFound)
	}
	return class, nil
}

func (repo schoolRepository) CreateClass(ctx context.Context, class school.Class) (school.Class, error) {
	query := repo.db.Rebind(`
INSERT INTO classes (class_name, section, teacher_id)
VALUES (?, ?, ?)
RETURNING id, created_at`)
	err := repo.db.QueryRowxContext(ctx, query, class.ClassName, class.Section, class.TeacherID).
		Scan(&class.ID, &class.CreatedAt)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "creating class")
	}
	return class, nil
}

func (repo schoolRepository) AssignTeacher(ctx context.Context, classID, teacherID int) error {
	query := repo.db.Rebind(`UPDATE classes SET teacher_id = ? WHERE id = ?`)
	if _, err := repo.db.ExecContext(ctx, query, teacherID, classID); err != nil {
		return errors.Wrap(err, "assigning teacher")
	}
	return nil
}

func (repo schoolRepository) QuerySubjects(ctx context.Context) ([]school.Subject, error) {
	subjects := make([]school.Subject, 0)
	if err := repo.db.SelectContext(ctx, &subjects, `SELECT * FROM subjects ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	return subjects, nil
}

func (repo schoolRepository) CreateSubject(ctx context.Context, subj school.Subject) (school.Subject, error) {
	query := repo.db.Rebind(`
INSERT INTO subjects (name, code) VALUES (?, ?) RETURNING id, created_at`)
	err := repo.db.QueryRowxContext(ctx, query, subj.Name, subj.Code).Scan(&subj.ID, &subj.CreatedAt)
	if err != nil {
		return school.Subject{}, errors.Wrap(err, "creating subject")
	}
	return subj, nil
}

func (repo schoolRepository) QueryRooms(ctx context.Context) ([]school.Room, error) {
	rooms := make([]school.Room, 0)
	if err := repo.db.SelectContext(ctx, &rooms, `SELECT * FROM rooms ORDER BY room_number`); err != nil {
		return nil, errors.Wrap(err, "querying rooms")
	}
	return rooms, nil
}

func (repo schoolRepository) GetRoomByID(ctx context.Context, id int) (school.Room, error) {
	var room school.Room
	query := repo.db.Rebind(`SELECT * FROM rooms WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &room, query, id); err != nil {
		return school.Room{}, trapNoRowsErr(err, school.ErrRoomNotFound)
	}
	return room, nil
}

func (repo schoolRepository) CreateRoom(ctx context.Context, room school.Room) (school.Room, error) {
	query := repo.db.Rebind(`
INSERT INTO rooms (room_number, room_type, capacity) VALUES (?, ?, ?) RETURNING id, created_at`)
	err := repo.db.QueryRowxContext(ctx, query, room.RoomNumber, room.RoomType, room.Capacity).
		Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		return school.Room{}, errors.Wrap(err, "creating room")
	}
	return room, nil
}

func (repo schoolRepository) FilterTimetables(ctx context.Context, filter school.TimetableFilter) ([]school.Timetable, error) {
	query := `
SELECT t.*,
       c.class_name || ' - ' || c.section AS class_name,
       s.name AS subject_name,
       u.name AS teacher_name,
       r.room_number
FROM timetables t
JOIN classes c ON t.class_id = c.id
JOIN subjects s ON t.subject_id = s.id
JOIN users u ON t.teacher_id = u.id
LEFT JOIN rooms r ON t.room_id = r.id
WHERE 1=1`
	args := make([]interface{}, 0, 2)

	if filter.ClassID > 0 {
		query += ` AND t.class_id = ?`
		args = append(args, filter.ClassID)
	}
	if filter.TeacherID > 0 {
		query += ` AND t.teacher_id = ?`
		args = append(args, filter.TeacherID)
	}
	query += ` ORDER BY t.day_of_week, t.start_time`

	timetables := make([]school.Timetable, 0)
	if err := repo.db.SelectContext(ctx, &timetables, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying timetables")
	}
	return timetables, nil
}

func (repo schoolRepository) HasSlotConflict(ctx context.Context, teacherID, roomID, dayOfWeek int, startTime, endTime string) (bool, error) {
	var count int
	query := repo.db.Rebind(`
SELECT COUNT(*) FROM timetables
WHERE (teacher_id = ? OR room_id = ?)
AND day_of_week = ?
AND (
    (start_time <= ? AND end_time > ?) OR
    (start_time < ? AND end_time >= ?) OR
    (start_time >= ? AND end_time <= ?)
)`)
	err := repo.db.GetContext(
		ctx, &count, query,
		teacherID, roomID, dayOfWeek,
		startTime, startTime, endTime, endTime, startTime, endTime,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking slot conflict")
	}
	return count > 0, nil
}

func (repo schoolRepository) CreateTimetable(ctx context.Context, tt school.Timetable) (school.Timetable, error) {
	query := repo.db.Rebind(`
INSERT INTO timetables (class_id, subject_id, teacher_id, room_id, day_of_week, start_time, end_time)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, created_at`)
	err := repo.db.QueryRowxContext(
		ctx, query,
		tt.ClassID, tt.SubjectID, tt.TeacherID, tt.RoomID, tt.DayOfWeek, tt.StartTime, tt.EndTime,
	).Scan(&tt.ID, &tt.CreatedAt)
	if err != nil {
		return school.Timetable{}, errors.Wrap(err, "creating timetable")
	}
	return tt, nil
}

func (repo schoolRepository) DeleteTimetable(ctx context.Context, id int) error {
	query := repo.db.Rebind(`DELETE FROM timetables WHERE id = ?`)
	if _, err := repo.db.ExecContext(ctx, query, id); err != nil {
		return errors.Wrap(err, "deleting timetable")
	}
	return nil
}
