package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/tournament-hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumPrizeAmounts(t *testing.T) {
	tests := []struct {
		name   string
		prizes []string
		want   int
	}{
		{"empty", nil, 0},
		{"plain amount", []string{"$500"}, 500},
		{"amount with separators", []string{"$5,000"}, 5000},
		{"amount inside text", []string{"$1,000 + skins and merch"}, 1000},
		{"multiple amounts in one prize", []string{"$500 first place, $250 second"}, 750},
		{"no dollar amount is ignored", []string{"bragging rights", "5000 rubles"}, 0},
		{"mixed pool", []string{"$5,000", "gear", "$1,250 + trophy"}, 6250},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sumPrizeAmounts(tc.prizes))
		})
	}
}

func TestFormatPrizePool(t *testing.T) {
	assert.Equal(t, "$0", formatPrizePool(0))
	assert.Equal(t, "$950", formatPrizePool(950))
	assert.Equal(t, "$6,250", formatPrizePool(6250))
	assert.Equal(t, "$1,234,567", formatPrizePool(1234567))
}

func TestPlatformStats(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeTournamentRepo()
	users := newFakeUserRepo()

	users.mustAdd(models.User{Username: "alice", Email: "alice@example.com"})
	users.mustAdd(models.User{Username: "bob", Email: "bob@example.com"})

	prize := "$5,000"
	first := baseTournament(now.Add(48*time.Hour), now.Add(96*time.Hour), now.Add(24*time.Hour))
	first.Prize = &prize
	repo.mustAdd(first)

	secondPrize := "$1,250 + trophy"
	second := baseTournament(now.Add(-time.Hour), now.Add(48*time.Hour), now.Add(-2*time.Hour))
	second.Name = "Running Cup"
	second.Status = models.StatusActive
	second.Prize = &secondPrize
	repo.mustAdd(second)

	svc := NewStatsService(users, repo)

	stats, err := svc.PlatformStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalTournaments)
	assert.Equal(t, 1, stats.ActiveTournaments)
	assert.Equal(t, 2, stats.TotalPlayers)
	assert.Equal(t, "$6,250", stats.TotalPrizePool)
}

func TestUserStats(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeTournamentRepo()
	users := newFakeUserRepo()
	organizer := users.mustAdd(models.User{Username: "organizer", Email: "org@example.com"})

	owned := baseTournament(now.Add(48*time.Hour), now.Add(96*time.Hour), now.Add(24*time.Hour))
	owned.OrganizerID = organizer.ID
	created := repo.mustAdd(owned)

	other := baseTournament(now.Add(48*time.Hour), now.Add(96*time.Hour), now.Add(24*time.Hour))
	other.Name = "Other Cup"
	other.OrganizerID = organizer.ID + 100
	foreign := repo.mustAdd(other)

	require.NoError(t, repo.AddParticipant(context.Background(), created.ID, organizer.ID))
	require.NoError(t, repo.AddParticipant(context.Background(), foreign.ID, organizer.ID))

	svc := NewStatsService(users, repo)

	stats, err := svc.UserStats(context.Background(), organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TournamentsCreated)
	assert.Equal(t, 2, stats.TournamentsParticipated)
	assert.Equal(t, 0, stats.TournamentsWon)
}
