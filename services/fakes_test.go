package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/tournament-hub/models"
	"github.com/Dosada05/tournament-hub/repositories"
)

// In-memory реализации репозиториев для сервисных тестов.
// Семантика ошибок повторяет postgres-реализации.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repositories.ErrUserEmailConflict
		}
		if existing.Username == u.Username {
			return repositories.ErrUserUsernameConflict
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, userID int, avatarKey *string, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.AvatarKey = avatarKey
	u.AvatarURL = avatarURL
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *fakeUserRepo) mustAdd(u models.User) *models.User {
	if err := r.Create(context.Background(), &u); err != nil {
		panic(err)
	}
	return &u
}

type fakeTournamentRepo struct {
	mu           sync.Mutex
	nextID       int
	tournaments  map[int]*models.Tournament
	participants map[int][]int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{
		tournaments:  make(map[int]*models.Tournament),
		participants: make(map[int][]int),
	}
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	clone := *t
	clone.Judges = append([]string(nil), t.Judges...)
	clone.Participants = nil
	return &clone
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tournaments {
		if existing.OrganizerID == t.OrganizerID && existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return cloneTournament(t), nil
}

func (r *fakeTournamentRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int, 0, len(r.tournaments))
	for id := range r.tournaments {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	var result []models.Tournament
	for _, id := range ids {
		t := r.tournaments[id]
		if filter.Game != nil && !strings.EqualFold(t.Game, *filter.Game) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Search != nil {
			needle := strings.ToLower(*filter.Search)
			haystack := strings.ToLower(t.Name + " " + t.Game + " " + t.OrganizerName)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		result = append(result, *cloneTournament(t))
	}
	return result, nil
}

func (r *fakeTournamentRepo) ListByOrganizer(_ context.Context, organizerID int) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Tournament
	for _, t := range r.tournaments {
		if t.OrganizerID == organizerID {
			result = append(result, *cloneTournament(t))
		}
	}
	return result, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	t.UpdatedAt = time.Now()
	r.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTournamentRepo) AddParticipant(_ context.Context, tournamentID, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[tournamentID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	for _, id := range r.participants[tournamentID] {
		if id == userID {
			return repositories.ErrParticipantConflict
		}
	}
	r.participants[tournamentID] = append(r.participants[tournamentID], userID)
	return nil
}

func (r *fakeTournamentRepo) ListParticipants(_ context.Context, tournamentID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int{}, r.participants[tournamentID]...), nil
}

func (r *fakeTournamentRepo) CountParticipants(_ context.Context, tournamentID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants[tournamentID]), nil
}

func (r *fakeTournamentRepo) HasParticipant(_ context.Context, tournamentID, userID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.participants[tournamentID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTournamentRepo) CountTournaments(_ context.Context, status *models.TournamentStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if status == nil {
		return len(r.tournaments), nil
	}
	count := 0
	for _, t := range r.tournaments {
		if t.Status == *status {
			count++
		}
	}
	return count, nil
}

func (r *fakeTournamentRepo) CountByParticipant(_ context.Context, userID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, users := range r.participants {
		for _, id := range users {
			if id == userID {
				count++
			}
		}
	}
	return count, nil
}

func (r *fakeTournamentRepo) ListPrizes(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var prizes []string
	for _, t := range r.tournaments {
		if t.Prize != nil && *t.Prize != "" {
			prizes = append(prizes, *t.Prize)
		}
	}
	return prizes, nil
}

func (r *fakeTournamentRepo) ListStatusSweepCandidates(_ context.Context, currentTime time.Time) ([]*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Tournament
	for _, t := range r.tournaments {
		switch {
		case t.Status == models.StatusRegistration && !currentTime.Before(t.StartDate):
			result = append(result, cloneTournament(t))
		case t.Status == models.StatusActive && !currentTime.Before(t.EndDate):
			result = append(result, cloneTournament(t))
		}
	}
	return result, nil
}

func (r *fakeTournamentRepo) mustAdd(t models.Tournament) *models.Tournament {
	if t.Judges == nil {
		t.Judges = []string{}
	}
	if err := r.Create(context.Background(), &t); err != nil {
		panic(err)
	}
	return &t
}
