package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
)

// StatsService guarantees a stats row exists for every student that is
// read, and keeps the counters correct under concurrent writers. Absence
// of a row is never an error: it is materialized with zero values on
// first read.
type StatsService interface {
	GetOrInit(ctx context.Context, studentID uuid.UUID) (*types.StudentStats, error)
	ApplyDelta(ctx context.Context, studentID uuid.UUID, delta types.StatsDelta) error
	AwardPoints(ctx context.Context, studentID uuid.UUID, points int) error
	TrackEngagement(ctx context.Context, studentID uuid.UUID, action string) error
}

type statsService struct {
	db        *gorm.DB
	log       *logger.Logger
	statsRepo repos.StudentStatsRepo
}

func NewStatsService(db *gorm.DB, log *logger.Logger, statsRepo repos.StudentStatsRepo) StatsService {
	return &statsService{
		db:        db,
		log:       log.With("service", "StatsService"),
		statsRepo: statsRepo,
	}
}

func (s *statsService) GetOrInit(ctx context.Context, studentID uuid.UUID) (*types.StudentStats, error) {
	if studentID == uuid.Nil {
		return nil, fmt.Errorf("student id is required")
	}

	stats, found, err := s.statsRepo.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("read student stats: %w", err)
	}
	if found {
		return stats, nil
	}

	// Missing row: write the zero-valued default and return exactly what
	// was written, so a caller right after account creation never sees a
	// transient not-found.
	fresh := types.DefaultStudentStats(studentID, time.Now().UTC())
	if _, err := s.statsRepo.Create(ctx, nil, fresh); err != nil {
		// A concurrent initializer may have won the unique-index race;
		// re-read before giving up.
		stats, found, rerr := s.statsRepo.GetByStudentID(ctx, nil, studentID)
		if rerr == nil && found {
			return stats, nil
		}
		return nil, fmt.Errorf("initialize student stats: %w", err)
	}
	s.log.Debug("Initialized student stats", "studentID", studentID)
	return fresh, nil
}

func (s *statsService) ApplyDelta(ctx context.Context, studentID uuid.UUID, delta types.StatsDelta) error {
	if studentID == uuid.Nil {
		return fmt.Errorf("student id is required")
	}
	if err := s.statsRepo.ApplyDelta(ctx, nil, studentID, delta, time.Now().UTC()); err != nil {
		return fmt.Errorf("apply stats delta: %w", err)
	}
	return nil
}

func (s *statsService) AwardPoints(ctx context.Context, studentID uuid.UUID, points int) error {
	if points <= 0 {
		return fmt.Errorf("points must be positive")
	}
	if _, err := s.GetOrInit(ctx, studentID); err != nil {
		return err
	}
	return s.ApplyDelta(ctx, studentID, types.StatsDelta{TotalPoints: points})
}

// TrackEngagement bumps a named action counter in the engagement JSON
// blob. The counters are advisory, so a read-modify-write inside a
// transaction is enough here; only the top-level numeric columns need the
// single-UPDATE increment discipline.
func (s *statsService) TrackEngagement(ctx context.Context, studentID uuid.UUID, action string) error {
	if action == "" {
		return fmt.Errorf("action is required")
	}
	if _, err := s.GetOrInit(ctx, studentID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stats, found, err := s.statsRepo.GetByStudentID(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if !found {
			return gorm.ErrRecordNotFound
		}

		counters := map[string]int{}
		if len(stats.Engagement) > 0 {
			if err := json.Unmarshal(stats.Engagement, &counters); err != nil {
				s.log.Warn("Resetting malformed engagement blob", "studentID", studentID, "error", err)
				counters = map[string]int{}
			}
		}
		counters[action]++
		counters["totalActions"]++

		raw, err := json.Marshal(counters)
		if err != nil {
			return err
		}
		return s.statsRepo.UpdateFields(ctx, tx, studentID, map[string]interface{}{
			"engagement":  datatypes.JSON(raw),
			"last_active": time.Now().UTC(),
		})
	})
}
