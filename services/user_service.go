package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Dosada05/tournament-hub/models"
	"github.com/Dosada05/tournament-hub/repositories"
	"github.com/Dosada05/tournament-hub/storage"
	"github.com/google/uuid"
)

// UserProfile — ответ /users/profile: пользователь, его турниры и статистика.
type UserProfile struct {
	User        *models.User        `json:"user"`
	Tournaments []models.Tournament `json:"tournaments"`
	Stats       models.UserStats    `json:"stats"`
}

type UserService interface {
	Profile(ctx context.Context, userID int) (*UserProfile, error)
	UploadAvatar(ctx context.Context, userID int, contentType string, reader io.Reader) (string, error)
}

type userService struct {
	userRepo       repositories.UserRepository
	tournamentRepo repositories.TournamentRepository
	stats          StatsService
	lifecycle      *LifecycleService
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewUserService(
	userRepo repositories.UserRepository,
	tournamentRepo repositories.TournamentRepository,
	stats StatsService,
	lifecycle *LifecycleService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:       userRepo,
		tournamentRepo: tournamentRepo,
		stats:          stats,
		lifecycle:      lifecycle,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *userService) Profile(ctx context.Context, userID int) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	user.PasswordHash = ""

	tournaments, err := s.tournamentRepo.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organized tournaments: %w", err)
	}
	for i := range tournaments {
		t := &tournaments[i]
		s.lifecycle.Apply(t)
		if t.Participants, err = s.tournamentRepo.ListParticipants(ctx, t.ID); err != nil {
			return nil, err
		}
	}

	stats, err := s.stats.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		User:        user,
		Tournaments: tournaments,
		Stats:       stats,
	}, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int, contentType string, reader io.Reader) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := "avatars/" + uuid.NewString() + ext

	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, &result.Key, result.Location); err != nil {
		return "", fmt.Errorf("failed to store avatar key: %w", err)
	}

	// Старый объект убираем по возможности; его потеря не критична.
	if user.AvatarKey != nil && *user.AvatarKey != "" && *user.AvatarKey != result.Key {
		if err := s.uploader.Delete(ctx, *user.AvatarKey); err != nil && s.logger != nil {
			s.logger.Warn("failed to delete previous avatar",
				slog.String("key", *user.AvatarKey), slog.Any("error", err))
		}
	}

	return result.Location, nil
}
