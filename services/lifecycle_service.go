package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-hub/live"
	"github.com/Dosada05/tournament-hub/models"
	"github.com/Dosada05/tournament-hub/repositories"
)

// StatusForTime выводит статус турнира из дат. Чистая функция времени:
// регистрация остаётся открытой до start_date независимо от заполненности.
func StatusForTime(t *models.Tournament, now time.Time) models.TournamentStatus {
	switch {
	case !now.Before(t.EndDate):
		return models.StatusCompleted
	case !now.Before(t.StartDate):
		return models.StatusActive
	default:
		return models.StatusRegistration
	}
}

// EffectiveStatus объединяет выведенный по датам статус с сохранённым.
// Сохранённый статус может опережать даты (организатор закрыл регистрацию
// досрочно), но никогда не задерживает переход: берётся более поздний из двух.
func EffectiveStatus(t *models.Tournament, now time.Time) models.TournamentStatus {
	derived := StatusForTime(t, now)
	if t.Status.Rank() > derived.Rank() {
		return t.Status
	}
	return derived
}

// LifecycleService следит за тем, чтобы сохранённый статус не расходился
// с выведенным из дат. Применяется лениво при чтении и периодически свипом.
type LifecycleService struct {
	tournamentRepo repositories.TournamentRepository
	hub            *live.Hub
	logger         *slog.Logger
	now            func() time.Time
}

func NewLifecycleService(
	tournamentRepo repositories.TournamentRepository,
	hub *live.Hub,
	logger *slog.Logger,
) *LifecycleService {
	return &LifecycleService{
		tournamentRepo: tournamentRepo,
		hub:            hub,
		logger:         logger,
		now:            time.Now,
	}
}

// Apply заменяет статус в прочитанной записи на эффективный (ленивый путь).
// Не пишет в БД; свип догонит сохранённое значение.
func (s *LifecycleService) Apply(t *models.Tournament) {
	t.Status = EffectiveStatus(t, s.now())
}

// Reevaluate сравнивает сохранённый статус с эффективным и фиксирует дрейф.
// Идемпотентна для фиксированного момента времени.
func (s *LifecycleService) Reevaluate(ctx context.Context, t *models.Tournament) error {
	effective := EffectiveStatus(t, s.now())
	if effective == t.Status {
		return nil
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, effective); err != nil {
		return fmt.Errorf("failed to persist status for tournament %d: %w", t.ID, err)
	}

	previous := t.Status
	t.Status = effective

	if s.logger != nil {
		s.logger.Info("tournament status updated",
			slog.Int("tournament_id", t.ID),
			slog.String("from", string(previous)),
			slog.String("to", string(effective)),
		)
	}
	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomForTournament(t.ID), live.Event{
			Type:         live.EventStatusChanged,
			TournamentID: t.ID,
			Payload:      map[string]string{"status": string(effective)},
		})
	}
	return nil
}

// SweepStatuses — жадный проход: находит турниры, чьи даты уже прошли
// сохранённый статус, и обновляет их. Запускается планировщиком.
func (s *LifecycleService) SweepStatuses(ctx context.Context) error {
	candidates, err := s.tournamentRepo.ListStatusSweepCandidates(ctx, s.now())
	if err != nil {
		return fmt.Errorf("failed to list sweep candidates: %w", err)
	}

	for _, t := range candidates {
		if err := s.Reevaluate(ctx, t); err != nil {
			if s.logger != nil {
				s.logger.Error("status sweep failed for tournament",
					slog.Int("tournament_id", t.ID), slog.Any("error", err))
			}
		}
	}
	return nil
}
