package school

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrClassNotFound   = errors.New("Class not found")
	ErrTeacherNotFound = errors.New("Teacher not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrSlotConflict    = errors.New("Time slot conflict detected")
)

type (
	Repository interface {
		QueryClasses(ctx context.Context) ([]Class, error)
		GetClassByID(ctx context.Context, id int) (Class, error)
		// GetClassByTeacher returns the first class assigned to the teacher,
		// in id order.
		GetClassByTeacher(ctx context.Context, teacherID int) (Class, error)
		CreateClass(ctx context.Context, class Class) (Class, error)
		AssignTeacher(ctx context.Context, classID, teacherID int) error

		QuerySubjects(ctx context.Context) ([]Subject, error)
		CreateSubject(ctx context.Context, subj Subject) (Subject, error)

		QueryRooms(ctx context.Context) ([]Room, error)
		GetRoomByID(ctx context.Context, id int) (Room, error)
		CreateRoom(ctx context.Context, room Room) (Room, error)

		FilterTimetables(ctx context.Context, filter TimetableFilter) ([]Timetable, error)
		// HasSlotConflict reports whether any entry for the same teacher or
		// room overlaps [startTime, endTime) on the given day.
		HasSlotConflict(ctx context.Context, teacherID, roomID, dayOfWeek int, startTime, endTime string) (bool, error)
		CreateTimetable(ctx context.Context, tt Timetable) (Timetable, error)
		DeleteTimetable(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx)
}

func (svc *Service) GetClass(ctx context.Context, id int) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) GetTeacherClass(ctx context.Context, teacherID int) (Class, error) {
	return svc.repo.GetClassByTeacher(ctx, teacherID)
}

func (svc *Service) CreateClass(ctx context.Context, name, section string) (Class, error) {
	return svc.repo.CreateClass(ctx, Class{ClassName: name, Section: section})
}

func (svc *Service) AssignTeacher(ctx context.Context, classID, teacherID int) error {
	return svc.repo.AssignTeacher(ctx, classID, teacherID)
}

func (svc *Service) QuerySubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx)
}

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	subj := Subject{Name: ns.Name}
	if ns.Code != "" {
		subj.Code = null.StringFrom(ns.Code)
	}
	return svc.repo.CreateSubject(ctx, subj)
}

func (svc *Service) QueryRooms(ctx context.Context) ([]Room, error) {
	return svc.repo.QueryRooms(ctx)
}

func (svc *Service) GetRoom(ctx context.Context, id int) (Room, error) {
	return svc.repo.GetRoomByID(ctx, id)
}

func (svc *Service) CreateRoom(ctx context.Context, nr NewRoom) (Room, error) {
	room := Room{RoomNumber: nr.RoomNumber}
	if nr.RoomType != "" {
		room.RoomType = null.StringFrom(nr.RoomType)
	}
	if nr.Capacity > 0 {
		room.Capacity = null.IntFrom(nr.Capacity)
	}
	return svc.repo.CreateRoom(ctx, room)
}

func (svc *Service) FilterTimetables(ctx context.Context, filter TimetableFilter) ([]Timetable, error) {
	return svc.repo.FilterTimetables(ctx, filter)
}

// CreateTimetable pre-checks slot conflicts before inserting; the check and
// insert are not atomic (two concurrent creations can both pass).
func (svc *Service) CreateTimetable(ctx context.Context, nt NewTimetable) (Timetable, error) {
	conflict, err := svc.repo.HasSlotConflict(ctx, nt.TeacherID, nt.RoomID, nt.DayOfWeek, nt.StartTime, nt.EndTime)
	if err != nil {
		return Timetable{}, err
	}
	if conflict {
		return Timetable{}, ErrSlotConflict
	}

	tt := Timetable{
		ClassID:   nt.ClassID,
		SubjectID: nt.SubjectID,
		TeacherID: nt.TeacherID,
		DayOfWeek: nt.DayOfWeek,
		StartTime: nt.StartTime,
		EndTime:   nt.EndTime,
	}
	if nt.RoomID > 0 {
		tt.RoomID = null.IntFrom(nt.RoomID)
	}
	return svc.repo.CreateTimetable(ctx, tt)
}

func (svc *Service) DeleteTimetable(ctx context.Context, id int) error {
	return svc.repo.DeleteTimetable(ctx, id)
}
