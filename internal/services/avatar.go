package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/platform/avatargen"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
	"github.com/yungbote/insightpath-backend/internal/utils"
)

// AvatarService materializes the initials avatar every account gets at
// registration and handles user-uploaded replacements. Files live on
// local disk under AVATAR_DIR and are served from AVATAR_BASE_URL.
type AvatarService interface {
	CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
	ReplaceUserAvatar(ctx context.Context, user *types.User, raw []byte) error
}

type avatarService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	gen      *avatargen.Generator

	dir     string
	baseURL string
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	gen, err := avatargen.New()
	if err != nil {
		return nil, fmt.Errorf("avatar generator init: %w", err)
	}

	dir := utils.GetEnv("AVATAR_DIR", "data/avatars", log)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	baseURL := strings.TrimRight(utils.GetEnv("AVATAR_BASE_URL", "/static/avatars", log), "/")

	return &avatarService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
		gen:      gen,
		dir:      dir,
		baseURL:  baseURL,
	}, nil
}

// CreateUserAvatar renders the initials avatar and sets the media key and
// URL on the user struct. Called during registration before the user row
// is inserted, so it mutates the struct and leaves persistence to the
// caller's Create.
func (as *avatarService) CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}

	buf, err := as.gen.Render(user.DisplayName)
	if err != nil {
		return fmt.Errorf("render avatar: %w", err)
	}
	_, err = as.store(user, buf)
	return err
}

func (as *avatarService) ReplaceUserAvatar(ctx context.Context, user *types.User, raw []byte) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}

	processed, err := avatargen.ProcessUpload(raw, avatargen.Size)
	if err != nil {
		return err
	}
	oldKey, err := as.store(user, processed)
	if err != nil {
		return err
	}
	if err := as.userRepo.UpdateAvatar(ctx, nil, user.ID, user.AvatarMediaKey, user.AvatarURL); err != nil {
		return fmt.Errorf("persist avatar reference: %w", err)
	}
	as.cleanup(oldKey, user.AvatarMediaKey)
	return nil
}

func (as *avatarService) store(user *types.User, buf bytes.Buffer) (oldKey string, err error) {
	oldKey = strings.TrimSpace(user.AvatarMediaKey)

	// Versioned key so browsers never serve a stale cached avatar.
	newKey := fmt.Sprintf("%s_%d.png", user.ID.String(), time.Now().UnixNano())
	if err := os.WriteFile(filepath.Join(as.dir, newKey), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write avatar file: %w", err)
	}

	user.AvatarMediaKey = newKey
	user.AvatarURL = as.baseURL + "/" + newKey
	return oldKey, nil
}

// cleanup removes the replaced file, best effort.
func (as *avatarService) cleanup(oldKey, newKey string) {
	if oldKey == "" || oldKey == newKey {
		return
	}
	if err := os.Remove(filepath.Join(as.dir, oldKey)); err != nil && !os.IsNotExist(err) {
		as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
	}
}
