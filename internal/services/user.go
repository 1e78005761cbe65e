package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	UpdateAvatarImage(ctx context.Context, id uuid.UUID, raw []byte) (*types.User, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	return &userService{
		db:            db,
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateAvatarImage(ctx context.Context, id uuid.UUID, raw []byte) (*types.User, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("avatar image is required")
	}
	user, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := s.avatarService.ReplaceUserAvatar(ctx, user, raw); err != nil {
		return nil, err
	}
	return user, nil
}
