package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-hub/live"
	"github.com/Dosada05/tournament-hub/models"
	"github.com/Dosada05/tournament-hub/repositories"
	"github.com/gosimple/slug"
)

type CreateTournamentInput struct {
	Name                 string    `json:"name"`
	Game                 string    `json:"game"`
	Description          string    `json:"description"`
	Rules                *string   `json:"rules,omitempty"`
	Prize                *string   `json:"prize,omitempty"`
	MaxParticipants      int       `json:"max_participants"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	Judges               []string  `json:"judges"`
}

type UpdateTournamentInput struct {
	Name        *string                  `json:"name,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Rules       *string                  `json:"rules,omitempty"`
	Prize       *string                  `json:"prize,omitempty"`
	Judges      []string                 `json:"judges,omitempty"`
	Status      *models.TournamentStatus `json:"status,omitempty"`
}

// ListTournamentsInput — сырые query-параметры списка; пустая строка или
// "all" означают отсутствие критерия.
type ListTournamentsInput struct {
	Search string
	Game   string
	Status string
}

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error)
	Update(ctx context.Context, id, currentUserID int, input UpdateTournamentInput) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
	lifecycle      *LifecycleService
	hub            *live.Hub
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	lifecycle *LifecycleService,
	hub *live.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		lifecycle:      lifecycle,
		hub:            hub,
		logger:         logger,
	}
}

func validateCreateTournamentInput(input CreateTournamentInput) error {
	name := strings.TrimSpace(input.Name)
	if len(name) < 3 || len(name) > 100 {
		return ErrTournamentNameInvalid
	}
	if strings.TrimSpace(input.Game) == "" {
		return ErrTournamentGameRequired
	}
	if len(strings.TrimSpace(input.Description)) < 10 {
		return ErrTournamentDescriptionTooShort
	}
	if input.MaxParticipants < 2 || input.MaxParticipants > 128 {
		return ErrTournamentInvalidCapacity
	}
	return validateTournamentDates(input.RegistrationDeadline, input.StartDate, input.EndDate)
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	if err := validateCreateTournamentInput(input); err != nil {
		return nil, err
	}

	organizer, err := s.userRepo.GetByID(ctx, organizerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load organizer %d: %w", organizerID, err)
	}

	name := strings.TrimSpace(input.Name)
	judges := input.Judges
	if judges == nil {
		judges = []string{}
	}

	t := &models.Tournament{
		Name:                 name,
		Slug:                 slug.Make(name),
		Game:                 strings.TrimSpace(input.Game),
		Description:          strings.TrimSpace(input.Description),
		Rules:                input.Rules,
		Prize:                input.Prize,
		OrganizerID:          organizer.ID,
		OrganizerName:        organizer.Username,
		MaxParticipants:      input.MaxParticipants,
		Status:               models.StatusRegistration,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		RegistrationDeadline: input.RegistrationDeadline,
		Judges:               judges,
		Participants:         []int{},
	}

	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("tournament created",
			slog.Int("tournament_id", t.ID),
			slog.String("name", t.Name),
			slog.Int("organizer_id", organizer.ID),
		)
	}

	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}

	if t.Participants, err = s.tournamentRepo.ListParticipants(ctx, id); err != nil {
		return nil, err
	}

	// Статус в ответе всегда пересчитывается от текущего времени;
	// сохранённому значению самому по себе не доверяем.
	s.lifecycle.Apply(t)
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error) {
	var filter repositories.ListTournamentsFilter

	if search := strings.TrimSpace(input.Search); search != "" {
		filter.Search = &search
	}
	if game := strings.TrimSpace(input.Game); game != "" && game != "all" {
		filter.Game = &game
	}

	var statusFilter *models.TournamentStatus
	if input.Status != "" && input.Status != "all" {
		status := models.TournamentStatus(input.Status)
		if !status.Valid() {
			return nil, ErrTournamentInvalidStatus
		}
		statusFilter = &status
	}

	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	// Фильтр по статусу применяется к эффективному статусу после пересчёта,
	// иначе турнир с прошедшим start_date попал бы в выборку registration.
	result := make([]models.Tournament, 0, len(tournaments))
	for i := range tournaments {
		t := &tournaments[i]
		s.lifecycle.Apply(t)
		if statusFilter != nil && t.Status != *statusFilter {
			continue
		}
		if t.Participants, err = s.tournamentRepo.ListParticipants(ctx, t.ID); err != nil {
			return nil, err
		}
		result = append(result, *t)
	}

	return result, nil
}

func (s *tournamentService) Update(ctx context.Context, id, currentUserID int, input UpdateTournamentInput) (*models.Tournament, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len(name) < 3 || len(name) > 100 {
			return nil, ErrTournamentNameInvalid
		}
		t.Name = name
		t.Slug = slug.Make(name)
	}
	if input.Description != nil {
		if len(strings.TrimSpace(*input.Description)) < 10 {
			return nil, ErrTournamentDescriptionTooShort
		}
		t.Description = strings.TrimSpace(*input.Description)
	}
	if input.Rules != nil {
		t.Rules = input.Rules
	}
	if input.Prize != nil {
		t.Prize = input.Prize
	}
	if input.Judges != nil {
		t.Judges = input.Judges
	}

	statusChanged := false
	if input.Status != nil && *input.Status != t.Status {
		if !input.Status.Valid() {
			return nil, ErrTournamentInvalidStatus
		}
		// Явный переход организатора (например, досрочное закрытие
		// регистрации) допускается только вперёд по жизненному циклу.
		if !isValidStatusTransition(t.Status, *input.Status) {
			return nil, ErrInvalidStatusTransition
		}
		t.Status = *input.Status
		statusChanged = true
	}

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
	}

	if s.hub != nil {
		eventType := live.EventTournamentUpdated
		if statusChanged {
			eventType = live.EventStatusChanged
		}
		s.hub.BroadcastToRoom(live.RoomForTournament(t.ID), live.Event{
			Type:         eventType,
			TournamentID: t.ID,
			Payload:      t,
		})
	}

	return t, nil
}
