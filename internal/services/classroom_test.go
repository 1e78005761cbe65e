package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
)

func newClassroomFixture(t *testing.T) (ClassroomService, repos.ClassroomRepo, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	repo := repos.NewClassroomRepo(db, log)
	return NewClassroomService(db, log, repo), repo, db
}

func TestClassroomAddStudentBumpsCount(t *testing.T) {
	svc, _, _ := newClassroomFixture(t)
	ctx := context.Background()
	teacherID := uuid.New()

	room, err := svc.Create(ctx, teacherID, ClassroomCreateInput{Name: "Intro to Go"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if room.StudentCount != 0 {
		t.Fatalf("StudentCount = %d, want 0", room.StudentCount)
	}

	for _, s := range []RosterStudentInput{
		{DisplayName: "Ada", Email: "ada@example.com"},
		{DisplayName: "Linus", Email: "linus@example.com"},
	} {
		if _, err := svc.AddStudent(ctx, room.ID, s); err != nil {
			t.Fatalf("AddStudent %s: %v", s.DisplayName, err)
		}
	}

	room, err = svc.Get(ctx, room.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if room.StudentCount != 2 {
		t.Fatalf("StudentCount = %d, want 2", room.StudentCount)
	}

	students, err := svc.ListStudents(ctx, room.ID)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("roster size = %d, want 2", len(students))
	}
}

func TestClassroomAddStudentUnknownRoom(t *testing.T) {
	svc, _, _ := newClassroomFixture(t)
	_, err := svc.AddStudent(context.Background(), uuid.New(), RosterStudentInput{
		DisplayName: "Nobody", Email: "nobody@example.com",
	})
	if err == nil {
		t.Fatal("expected error for missing classroom")
	}
}

func TestClassroomRefreshAggregates(t *testing.T) {
	svc, repo, db := newClassroomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, uuid.New(), ClassroomCreateInput{Name: "Databases"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, in := range []RosterStudentInput{
		{DisplayName: "A", Email: "a@example.com"},
		{DisplayName: "B", Email: "b@example.com"},
	} {
		if _, err := svc.AddStudent(ctx, room.ID, in); err != nil {
			t.Fatalf("AddStudent: %v", err)
		}
	}

	students, err := repo.GetStudents(ctx, nil, room.ID)
	if err != nil {
		t.Fatalf("GetStudents: %v", err)
	}
	for i, progress := range []int{40, 80} {
		if err := db.Model(&types.ClassroomStudent{}).
			Where("id = ?", students[i].ID).
			Update("progress", progress).Error; err != nil {
			t.Fatalf("set student progress: %v", err)
		}
	}

	refreshed, err := svc.RefreshAggregates(ctx, room.ID)
	if err != nil {
		t.Fatalf("RefreshAggregates: %v", err)
	}
	if refreshed.StudentCount != 2 {
		t.Fatalf("StudentCount = %d, want 2", refreshed.StudentCount)
	}
	if refreshed.AverageProgress != 60 {
		t.Fatalf("AverageProgress = %v, want 60", refreshed.AverageProgress)
	}
}

func TestClassroomListByTeacherScopes(t *testing.T) {
	svc, _, _ := newClassroomFixture(t)
	ctx := context.Background()
	mine, other := uuid.New(), uuid.New()

	if _, err := svc.Create(ctx, mine, ClassroomCreateInput{Name: "Mine"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, other, ClassroomCreateInput{Name: "Theirs"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rooms, err := svc.ListByTeacher(ctx, mine)
	if err != nil {
		t.Fatalf("ListByTeacher: %v", err)
	}
	if len(rooms) != 1 || rooms[0].Name != "Mine" {
		t.Fatalf("rooms = %+v, want only Mine", rooms)
	}
}
