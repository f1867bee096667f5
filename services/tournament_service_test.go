package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/tournament-hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTournamentHarness(repo *fakeTournamentRepo, users *fakeUserRepo, now time.Time) TournamentService {
	lifecycle := NewLifecycleService(repo, nil, nil)
	lifecycle.now = func() time.Time { return now }
	return NewTournamentService(repo, users, lifecycle, nil, nil)
}

func validCreateInput(now time.Time) CreateTournamentInput {
	return CreateTournamentInput{
		Name:                 "Summer Cup 2026",
		Game:                 "CS2",
		Description:          "Open qualifier for the summer season",
		MaxParticipants:      16,
		StartDate:            now.Add(48 * time.Hour),
		EndDate:              now.Add(96 * time.Hour),
		RegistrationDeadline: now.Add(24 * time.Hour),
	}
}

func TestCreateTournamentValidation(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*CreateTournamentInput)
		wantErr error
	}{
		{"name too short", func(in *CreateTournamentInput) { in.Name = "ab" }, ErrTournamentNameInvalid},
		{"name only whitespace", func(in *CreateTournamentInput) { in.Name = "   " }, ErrTournamentNameInvalid},
		{"game required", func(in *CreateTournamentInput) { in.Game = " " }, ErrTournamentGameRequired},
		{"description too short", func(in *CreateTournamentInput) { in.Description = "short" }, ErrTournamentDescriptionTooShort},
		{"capacity below minimum", func(in *CreateTournamentInput) { in.MaxParticipants = 1 }, ErrTournamentInvalidCapacity},
		{"capacity above maximum", func(in *CreateTournamentInput) { in.MaxParticipants = 129 }, ErrTournamentInvalidCapacity},
		{"deadline after start", func(in *CreateTournamentInput) { in.RegistrationDeadline = in.StartDate.Add(time.Hour) }, ErrTournamentInvalidRegDeadline},
		{"end before start", func(in *CreateTournamentInput) { in.EndDate = in.StartDate.Add(-time.Hour) }, ErrTournamentInvalidDateRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeTournamentRepo()
			users := newFakeUserRepo()
			organizer := users.mustAdd(models.User{Username: "organizer", Email: "org@example.com"})
			svc := newTournamentHarness(repo, users, now)

			input := validCreateInput(now)
			tc.mutate(&input)

			_, err := svc.Create(context.Background(), organizer.ID, input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateTournament(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeTournamentRepo()
	users := newFakeUserRepo()
	organizer := users.mustAdd(models.User{Username: "organizer", Email: "org@example.com"})
	svc := newTournamentHarness(repo, users, now)

	got, err := svc.Create(context.Background(), organizer.ID, validCreateInput(now))
	require.NoError(t, err)

	assert.NotZero(t, got.ID)
	assert.Equal(t, "summer-cup-2026", got.Slug)
	assert.Equal(t, organizer.Username, got.OrganizerName)
	assert.Equal(t, models.StatusRegistration, got.Status)
	assert.Equal(t, []string{}, got.Judges)
	assert.Empty(t, got.Participants)

	// Повторное имя у того же организатора отклоняется.
	_, err = svc.Create(context.Background(), organizer.ID, validCreateInput(now))
	assert.ErrorIs(t, err, ErrTournamentNameConflict)
}

func TestCreateTournamentUnknownOrganizer(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTournamentHarness(newFakeTournamentRepo(), newFakeUserRepo(), now)

	_, err := svc.Create(context.Background(), 999, validCreateInput(now))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetByIDAppliesEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeTournamentRepo()
	// start_date в прошлом, в хранилище всё ещё registration.
	stale := repo.mustAdd(baseTournament(now.Add(-time.Hour), now.Add(48*time.Hour), now.Add(-2*time.Hour)))
	require.NoError(t, repo.AddParticipant(context.Background(), stale.ID, 7))

	svc := newTournamentHarness(repo, newFakeUserRepo(), now)

	got, err := svc.GetByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Equal(t, []int{7}, got.Participants)

	_, err = svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestListTournamentsFilters(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeTournamentRepo()

	open := baseTournament(now.Add(48*time.Hour), now.Add(96*time.Hour), now.Add(24*time.Hour))
	open.Name = "Open Cup"
	repo.mustAdd(open)

	// Сохранён как registration, но по датам уже идёт.
	running := baseTournament(now.Add(-time.Hour), now.Add(48*time.Hour), now.Add(-2*time.Hour))
	running.Name = "Running Cup"
	running.Game = "Dota 2"
	repo.mustAdd(running)

	svc := newTournamentHarness(repo, newFakeUserRepo(), now)

	t.Run("no filter returns everything", func(t *testing.T) {
		got, err := svc.List(context.Background(), ListTournamentsInput{Status: "all"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("status filter uses effective status", func(t *testing.T) {
		got, err := svc.List(context.Background(), ListTournamentsInput{Status: "registration"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Open Cup", got[0].Name)

		got, err = svc.List(context.Background(), ListTournamentsInput{Status: "active"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Running Cup", got[0].Name)
	})

	t.Run("game filter is case-insensitive", func(t *testing.T) {
		got, err := svc.List(context.Background(), ListTournamentsInput{Game: "dota 2"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Running Cup", got[0].Name)
	})

	t.Run("status and game filters compose", func(t *testing.T) {
		// Открытый Valorant проходит оба критерия; Valorant Masters
		// отсекается по эффективному статусу, Open Cup — по игре.
		valorant := baseTournament(now.Add(48*time.Hour), now.Add(96*time.Hour), now.Add(24*time.Hour))
		valorant.Name = "Valorant Open"
		valorant.Game = "Valorant"
		repo.mustAdd(valorant)

		startedValorant := baseTournament(now.Add(-time.Hour), now.Add(48*time.Hour), now.Add(-2*time.Hour))
		startedValorant.Name = "Valorant Masters"
		startedValorant.Game = "Valorant"
		repo.mustAdd(startedValorant)

		got, err := svc.List(context.Background(), ListTournamentsInput{Status: "registration", Game: "Valorant"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Valorant Open", got[0].Name)
	})

	t.Run("search matches name substring", func(t *testing.T) {
		got, err := svc.List(context.Background(), ListTournamentsInput{Search: "running"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Running Cup", got[0].Name)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := svc.List(context.Background(), ListTournamentsInput{Status: "archived"})
		assert.ErrorIs(t, err, ErrTournamentInvalidStatus)
	})
}

func TestUpdateTournament(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeTournamentRepo()
	users := newFakeUserRepo()
	organizer := users.mustAdd(models.User{Username: "organizer", Email: "org@example.com"})

	tournament := baseTournament(now.Add(48*time.Hour), now.Add(96*time.Hour), now.Add(24*time.Hour))
	tournament.OrganizerID = organizer.ID
	stored := repo.mustAdd(tournament)

	svc := newTournamentHarness(repo, users, now)

	t.Run("only organizer may update", func(t *testing.T) {
		name := "Hijacked Cup"
		_, err := svc.Update(context.Background(), stored.ID, organizer.ID+1, UpdateTournamentInput{Name: &name})
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("rename refreshes slug", func(t *testing.T) {
		name := "Renamed Summer Cup"
		got, err := svc.Update(context.Background(), stored.ID, organizer.ID, UpdateTournamentInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "renamed-summer-cup", got.Slug)
	})

	t.Run("early close moves status forward", func(t *testing.T) {
		status := models.StatusActive
		got, err := svc.Update(context.Background(), stored.ID, organizer.ID, UpdateTournamentInput{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, got.Status)

		// Откат назад запрещён.
		back := models.StatusRegistration
		_, err = svc.Update(context.Background(), stored.ID, organizer.ID, UpdateTournamentInput{Status: &back})
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})
}
