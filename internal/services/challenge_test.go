package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type challengeFixture struct {
	svc       ChallengeService
	stats     StatsService
	statsRepo repos.StudentStatsRepo
}

func newChallengeFixture(t *testing.T) *challengeFixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	challengeRepo := repos.NewChallengeRepo(db, log)
	submissionRepo := repos.NewSubmissionRepo(db, log)
	statsRepo := repos.NewStudentStatsRepo(db, log)
	notificationRepo := repos.NewNotificationRepo(db, log)

	stats := NewStatsService(db, log, statsRepo)
	notifications := NewNotificationService(db, log, notificationRepo, nil)
	svc := NewChallengeService(db, log, challengeRepo, submissionRepo, stats, notifications)

	return &challengeFixture{svc: svc, stats: stats, statsRepo: statsRepo}
}

func TestChallengeCreateValidatesDifficulty(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, ChallengeCreateInput{
		Title:      "FizzBuzz",
		Difficulty: "Impossible",
		StudentID:  uuid.New(),
	})
	if err == nil {
		t.Fatal("expected error for unknown difficulty")
	}

	c, err := f.svc.Create(ctx, ChallengeCreateInput{
		Title:      "FizzBuzz",
		Difficulty: types.DifficultyEasy,
		StudentID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Status != "active" {
		t.Fatalf("Status = %q, want active", c.Status)
	}
}

func TestSubmitCreditsCompletedChallengesImmediately(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()
	studentID := uuid.New()

	c, err := f.svc.Create(ctx, ChallengeCreateInput{
		Title:      "Linked List",
		Difficulty: types.DifficultyMedium,
		StudentID:  studentID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sub, err := f.svc.Submit(ctx, c.ID, studentID, "func reverse(head *Node) *Node { ... }")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != types.SubmissionStatusPending {
		t.Fatalf("Status = %q, want pending", sub.Status)
	}
	if sub.SubmittedAt.IsZero() {
		t.Fatal("SubmittedAt not set")
	}

	// The counter moves at submission time, before any review happens.
	stats, found, err := f.statsRepo.GetByStudentID(ctx, nil, studentID)
	if err != nil || !found {
		t.Fatalf("GetByStudentID: found=%v err=%v", found, err)
	}
	if stats.CompletedChallenges != 1 {
		t.Fatalf("CompletedChallenges = %d, want 1", stats.CompletedChallenges)
	}
	if stats.TotalPoints != 0 {
		t.Fatalf("TotalPoints = %d, want 0 before review", stats.TotalPoints)
	}
}

func TestReviewSubmissionAwardsScoreAsPoints(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()
	studentID := uuid.New()

	c, err := f.svc.Create(ctx, ChallengeCreateInput{
		Title:      "Binary Search",
		Difficulty: types.DifficultyHard,
		StudentID:  studentID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	sub, err := f.svc.Submit(ctx, c.ID, studentID, "mid := lo + (hi-lo)/2")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	reviewed, err := f.svc.ReviewSubmission(ctx, sub.ID, SubmissionReviewInput{Score: 85, Comments: "solid"})
	if err != nil {
		t.Fatalf("ReviewSubmission: %v", err)
	}
	if reviewed.Status != types.SubmissionStatusReviewed {
		t.Fatalf("Status = %q, want reviewed", reviewed.Status)
	}
	if reviewed.Score == nil || *reviewed.Score != 85 {
		t.Fatalf("Score = %v, want 85", reviewed.Score)
	}
	if reviewed.ReviewedAt == nil {
		t.Fatal("ReviewedAt not set")
	}

	stats, found, err := f.statsRepo.GetByStudentID(ctx, nil, studentID)
	if err != nil || !found {
		t.Fatalf("GetByStudentID: found=%v err=%v", found, err)
	}
	if stats.TotalPoints != 85 {
		t.Fatalf("TotalPoints = %d, want 85", stats.TotalPoints)
	}
}

func TestReviewSubmissionZeroScoreAwardsNothing(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()
	studentID := uuid.New()

	c, err := f.svc.Create(ctx, ChallengeCreateInput{
		Title:      "Hello World",
		Difficulty: types.DifficultyEasy,
		StudentID:  studentID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	sub, err := f.svc.Submit(ctx, c.ID, studentID, "print('hello')")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := f.svc.ReviewSubmission(ctx, sub.ID, SubmissionReviewInput{Score: 0}); err != nil {
		t.Fatalf("ReviewSubmission: %v", err)
	}
	stats, found, err := f.statsRepo.GetByStudentID(ctx, nil, studentID)
	if err != nil || !found {
		t.Fatalf("GetByStudentID: found=%v err=%v", found, err)
	}
	if stats.TotalPoints != 0 {
		t.Fatalf("TotalPoints = %d, want 0", stats.TotalPoints)
	}
}

func TestSubmitSurfacesStatsFailure(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()

	challengeRepo := repos.NewChallengeRepo(db, log)
	submissionRepo := repos.NewSubmissionRepo(db, log)
	stats := NewStatsService(db, log, repos.NewStudentStatsRepo(db, log))
	notifications := NewNotificationService(db, log, repos.NewNotificationRepo(db, log), nil)
	svc := NewChallengeService(db, log, challengeRepo, submissionRepo, stats, notifications)

	ctx := context.Background()
	studentID := uuid.New()
	c, err := svc.Create(ctx, ChallengeCreateInput{
		Title:      "Two Sum",
		Difficulty: types.DifficultyEasy,
		StudentID:  studentID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Break the counter store out from under the workflow.
	if err := db.Migrator().DropTable(&types.StudentStats{}); err != nil {
		t.Fatalf("drop stats table: %v", err)
	}

	if _, err := svc.Submit(ctx, c.ID, studentID, "return m[target-x]"); err == nil {
		t.Fatal("Submit reported success with the stats increment failing")
	}

	// The submission row itself lands before the counter write; only the
	// error must surface, not the row rolled back.
	rows, err := submissionRepo.GetByChallengeID(ctx, nil, c.ID)
	if err != nil {
		t.Fatalf("GetByChallengeID: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("submissions = %d, want 1", len(rows))
	}
}

func TestUpdateProgressBounds(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, ChallengeCreateInput{
		Title:      "Sorting",
		Difficulty: types.DifficultyEasy,
		StudentID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.svc.UpdateProgress(ctx, c.ID, 101); err == nil {
		t.Fatal("expected error for progress > 100")
	}
	if _, err := f.svc.UpdateProgress(ctx, c.ID, -1); err == nil {
		t.Fatal("expected error for negative progress")
	}
	updated, err := f.svc.UpdateProgress(ctx, c.ID, 60)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if updated.Progress != 60 {
		t.Fatalf("Progress = %d, want 60", updated.Progress)
	}
}
