package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/tournament-hub/live"
	"github.com/Dosada05/tournament-hub/models"
	"github.com/Dosada05/tournament-hub/repositories"
)

// RegistrationService применяет заявки на участие к текущему состоянию турнира.
//
// Мутации сериализуются замком на конкретный турнир, а не на всё хранилище:
// две одновременные заявки в один турнир проверяют вместимость по очереди,
// заявки в разные турниры не блокируют друг друга.
type RegistrationService struct {
	tournamentRepo repositories.TournamentRepository
	lifecycle      *LifecycleService
	hub            *live.Hub
	logger         *slog.Logger
	now            func() time.Time

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewRegistrationService(
	tournamentRepo repositories.TournamentRepository,
	lifecycle *LifecycleService,
	hub *live.Hub,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		tournamentRepo: tournamentRepo,
		lifecycle:      lifecycle,
		hub:            hub,
		logger:         logger,
		now:            time.Now,
		locks:          make(map[int]*sync.Mutex),
	}
}

func (s *RegistrationService) lockTournament(tournamentID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[tournamentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[tournamentID] = lock
	}
	return lock
}

// forgetLock выбрасывает замок турнира, в который больше нельзя вступить,
// чтобы карта замков не росла вечно. Конкурент, уже держащий старый замок,
// не опасен: статус назад не движется, успешных вставок больше не будет.
func (s *RegistrationService) forgetLock(tournamentID int) {
	s.mu.Lock()
	delete(s.locks, tournamentID)
	s.mu.Unlock()
}

// Join добавляет пользователя в турнир. Предусловия проверяются строго
// по порядку, первая нарушенная выигрывает:
//  1. турнир существует;
//  2. статус registration;
//  3. дедлайн регистрации не прошёл;
//  4. есть свободное место;
//  5. пользователь ещё не зарегистрирован.
func (s *RegistrationService) Join(ctx context.Context, tournamentID, userID int) (*models.Tournament, error) {
	lock := s.lockTournament(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	now := s.now()

	if EffectiveStatus(t, now) != models.StatusRegistration {
		s.forgetLock(tournamentID)
		return nil, ErrRegistrationNotOpen
	}
	if now.After(t.RegistrationDeadline) {
		return nil, ErrRegistrationClosed
	}

	count, err := s.tournamentRepo.CountParticipants(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	if count >= t.MaxParticipants {
		return nil, ErrTournamentFull
	}

	joined, err := s.tournamentRepo.HasParticipant(ctx, tournamentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if joined {
		return nil, ErrAlreadyJoined
	}

	if err := s.tournamentRepo.AddParticipant(ctx, tournamentID, userID); err != nil {
		if errors.Is(err, repositories.ErrParticipantConflict) {
			return nil, ErrAlreadyJoined
		}
		return nil, fmt.Errorf("failed to register participant: %w", err)
	}

	t.Participants, err = s.tournamentRepo.ListParticipants(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload participants: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user joined tournament",
			slog.Int("tournament_id", tournamentID),
			slog.Int("user_id", userID),
			slog.Int("participants", len(t.Participants)),
		)
	}

	// Заполнение турнира само по себе статус не меняет; контроллер
	// жизненного цикла лишь переоценивает его по датам.
	if len(t.Participants) == t.MaxParticipants {
		if err := s.lifecycle.Reevaluate(ctx, t); err != nil && s.logger != nil {
			s.logger.Error("lifecycle re-evaluation after fill failed",
				slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomForTournament(tournamentID), live.Event{
			Type:         live.EventParticipantJoined,
			TournamentID: tournamentID,
			Payload: map[string]int{
				"user_id":      userID,
				"participants": len(t.Participants),
			},
		})
	}

	s.lifecycle.Apply(t)
	return t, nil
}
