package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
)

type Repos struct {
	User             repos.UserRepo
	UserToken        repos.UserTokenRepo
	StudentStats     repos.StudentStatsRepo
	Challenge        repos.ChallengeRepo
	Submission       repos.SubmissionRepo
	Project          repos.ProjectRepo
	Milestone        repos.MilestoneRepo
	ProjectAnalytics repos.ProjectAnalyticsRepo
	Classroom        repos.ClassroomRepo
	Feedback         repos.FeedbackRepo
	Notification     repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		UserToken:        repos.NewUserTokenRepo(db, log),
		StudentStats:     repos.NewStudentStatsRepo(db, log),
		Challenge:        repos.NewChallengeRepo(db, log),
		Submission:       repos.NewSubmissionRepo(db, log),
		Project:          repos.NewProjectRepo(db, log),
		Milestone:        repos.NewMilestoneRepo(db, log),
		ProjectAnalytics: repos.NewProjectAnalyticsRepo(db, log),
		Classroom:        repos.NewClassroomRepo(db, log),
		Feedback:         repos.NewFeedbackRepo(db, log),
		Notification:     repos.NewNotificationRepo(db, log),
	}
}
