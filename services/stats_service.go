package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Dosada05/tournament-hub/models"
	"github.com/Dosada05/tournament-hub/repositories"
	"golang.org/x/sync/errgroup"
)

type StatsService interface {
	PlatformStats(ctx context.Context) (models.PlatformStats, error)
	UserStats(ctx context.Context, userID int) (models.UserStats, error)
}

type statsService struct {
	userRepo       repositories.UserRepository
	tournamentRepo repositories.TournamentRepository
}

func NewStatsService(
	userRepo repositories.UserRepository,
	tournamentRepo repositories.TournamentRepository,
) StatsService {
	return &statsService{
		userRepo:       userRepo,
		tournamentRepo: tournamentRepo,
	}
}

func (s *statsService) PlatformStats(ctx context.Context) (models.PlatformStats, error) {
	var stats models.PlatformStats
	var prizes []string

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.tournamentRepo.CountTournaments(gCtx, nil)
		stats.TotalTournaments = total
		return err
	})
	g.Go(func() error {
		active := models.StatusActive
		count, err := s.tournamentRepo.CountTournaments(gCtx, &active)
		stats.ActiveTournaments = count
		return err
	})
	g.Go(func() error {
		total, err := s.userRepo.Count(gCtx)
		stats.TotalPlayers = total
		return err
	})
	g.Go(func() error {
		var err error
		prizes, err = s.tournamentRepo.ListPrizes(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.PlatformStats{}, fmt.Errorf("failed to aggregate platform stats: %w", err)
	}

	stats.TotalPrizePool = formatPrizePool(sumPrizeAmounts(prizes))
	return stats, nil
}

func (s *statsService) UserStats(ctx context.Context, userID int) (models.UserStats, error) {
	organized, err := s.tournamentRepo.ListByOrganizer(ctx, userID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to list organized tournaments: %w", err)
	}

	participated, err := s.tournamentRepo.CountByParticipant(ctx, userID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to count participations: %w", err)
	}

	// Заглушка до появления системы результатов матчей.
	won := participated / 4
	if won > 3 {
		won = 3
	}

	return models.UserStats{
		TournamentsCreated:      len(organized),
		TournamentsParticipated: participated,
		TournamentsWon:          won,
	}, nil
}

// Призы хранятся как непрозрачные строки для отображения ("$5,000 + скины").
// Для общего фонда извлекаются только долларовые суммы вида $N или $N,NNN;
// всё остальное игнорируется. Это осознанное упрощение, а не полноценная
// нормализация валют.
var prizeAmountPattern = regexp.MustCompile(`\$([0-9][0-9,]*)`)

func sumPrizeAmounts(prizes []string) int {
	total := 0
	for _, prize := range prizes {
		for _, match := range prizeAmountPattern.FindAllStringSubmatch(prize, -1) {
			amount, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
			if err != nil {
				continue
			}
			total += amount
		}
	}
	return total
}

func formatPrizePool(total int) string {
	digits := strconv.Itoa(total)
	var b strings.Builder
	b.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
