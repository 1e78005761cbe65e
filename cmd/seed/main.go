// Command seed loads development fixtures from a YAML file and writes
// them through the same repos the server uses.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/insightpath-backend/internal/db"
	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/services"
	"github.com/yungbote/insightpath-backend/internal/types"
	"github.com/yungbote/insightpath-backend/internal/utils"
)

type fixtureUser struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"display_name"`
	Role        string `yaml:"role"`

	Challenges []fixtureChallenge `yaml:"challenges"`
	Projects   []fixtureProject   `yaml:"projects"`
	Classrooms []fixtureClassroom `yaml:"classrooms"`
}

type fixtureChallenge struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Difficulty  string `yaml:"difficulty"`
	DueInDays   int    `yaml:"due_in_days"`
}

type fixtureProject struct {
	Title      string   `yaml:"title"`
	Type       string   `yaml:"type"`
	Status     string   `yaml:"status"`
	Milestones []string `yaml:"milestones"`
}

type fixtureClassroom struct {
	Name     string `yaml:"name"`
	Students []struct {
		DisplayName string `yaml:"display_name"`
		Email       string `yaml:"email"`
	} `yaml:"students"`
}

type fixtures struct {
	Users []fixtureUser `yaml:"users"`
}

func main() {
	_ = godotenv.Load()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	path := utils.GetEnv("SEED_FILE", "fixtures/seed.yaml", log)
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to read seed file", "path", path, "error", err)
	}
	var fx fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		log.Fatal("Failed to parse seed file", "error", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("Auto migration failed", "error", err)
	}
	theDB := pg.DB()

	userRepo := repos.NewUserRepo(theDB, log)
	challengeRepo := repos.NewChallengeRepo(theDB, log)
	projectRepo := repos.NewProjectRepo(theDB, log)
	milestoneRepo := repos.NewMilestoneRepo(theDB, log)
	analyticsRepo := repos.NewProjectAnalyticsRepo(theDB, log)
	classroomRepo := repos.NewClassroomRepo(theDB, log)
	statsRepo := repos.NewStudentStatsRepo(theDB, log)

	statsService := services.NewStatsService(theDB, log, statsRepo)

	ctx := context.Background()
	now := time.Now().UTC()

	for _, fu := range fx.Users {
		if exists, err := userRepo.EmailExists(ctx, nil, fu.Email); err != nil {
			log.Fatal("Email check failed", "email", fu.Email, "error", err)
		} else if exists {
			log.Info("User already seeded, skipping", "email", fu.Email)
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(fu.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Hash password failed", "error", err)
		}
		role := fu.Role
		if role == "" {
			role = types.RoleStudent
		}
		user := &types.User{
			Email:       fu.Email,
			Password:    string(hashed),
			Role:        role,
			DisplayName: fu.DisplayName,
		}
		if _, err := userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
			log.Fatal("Create user failed", "email", fu.Email, "error", err)
		}
		log.Info("Seeded user", "email", fu.Email, "role", role)

		if role == types.RoleStudent {
			if _, err := statsService.GetOrInit(ctx, user.ID); err != nil {
				log.Warn("Stats init failed", "email", fu.Email, "error", err)
			}
		}

		for _, fc := range fu.Challenges {
			if _, err := challengeRepo.Create(ctx, nil, []*types.Challenge{{
				Title:       fc.Title,
				Description: fc.Description,
				Difficulty:  fc.Difficulty,
				DueDate:     now.AddDate(0, 0, fc.DueInDays),
				StudentID:   user.ID,
				Status:      "active",
			}}); err != nil {
				log.Fatal("Create challenge failed", "title", fc.Title, "error", err)
			}
		}

		for _, fp := range fu.Projects {
			status := fp.Status
			if status == "" {
				status = types.ProjectStatusPlanning
			}
			project, err := projectRepo.Create(ctx, nil, &types.Project{
				Title:       fp.Title,
				Type:        fp.Type,
				StudentID:   user.ID,
				Status:      status,
				LastUpdated: now,
			})
			if err != nil {
				log.Fatal("Create project failed", "title", fp.Title, "error", err)
			}
			if err := analyticsRepo.CreateIfMissing(ctx, nil, &types.ProjectAnalytics{
				ProjectID:   project.ID,
				LastUpdated: now,
			}); err != nil {
				log.Warn("Analytics init failed", "project", fp.Title, "error", err)
			}
			for i, title := range fp.Milestones {
				if _, err := milestoneRepo.Create(ctx, nil, &types.Milestone{
					ProjectID: project.ID,
					Title:     title,
					Status:    types.MilestoneStatusPending,
					SortOrder: i + 1,
				}); err != nil {
					log.Fatal("Create milestone failed", "title", title, "error", err)
				}
				if err := projectRepo.IncrementTotalMilestones(ctx, nil, project.ID, now); err != nil {
					log.Warn("Milestone counter bump failed", "project", fp.Title, "error", err)
				}
				if err := analyticsRepo.IncrementMilestoneCount(ctx, nil, project.ID, now); err != nil {
					log.Warn("Analytics counter bump failed", "project", fp.Title, "error", err)
				}
			}
		}

		for _, fr := range fu.Classrooms {
			room, err := classroomRepo.Create(ctx, nil, &types.Classroom{
				Name:        fr.Name,
				TeacherID:   user.ID,
				LastUpdated: now,
			})
			if err != nil {
				log.Fatal("Create classroom failed", "name", fr.Name, "error", err)
			}
			for _, st := range fr.Students {
				if _, err := classroomRepo.AddStudent(ctx, nil, &types.ClassroomStudent{
					ClassroomID: room.ID,
					DisplayName: st.DisplayName,
					Email:       st.Email,
					Status:      "active",
					JoinDate:    now,
				}); err != nil {
					log.Fatal("Add classroom student failed", "name", st.DisplayName, "error", err)
				}
				if err := classroomRepo.IncrementStudentCount(ctx, nil, room.ID, now); err != nil {
					log.Warn("Student count bump failed", "classroom", fr.Name, "error", err)
				}
			}
		}
	}

	log.Info("Seeding complete", "users", len(fx.Users))
}
