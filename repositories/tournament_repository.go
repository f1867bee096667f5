package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-hub/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict for this organizer")
	ErrTournamentInvalidOrg   = errors.New("invalid organizer reference")
	ErrParticipantConflict    = errors.New("user is already registered for this tournament")
	ErrParticipantUserInvalid = errors.New("participant user reference is invalid")
)

// ListTournamentsFilter объединяет три необязательных критерия списка.
// Отсутствующий критерий (nil) совпадает со всем.
type ListTournamentsFilter struct {
	Search *string                  // substring over name, game, organizer_name
	Game   *string                  // case-insensitive exact match
	Status *models.TournamentStatus // exact match
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	ListByOrganizer(ctx context.Context, organizerID int) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	AddParticipant(ctx context.Context, tournamentID, userID int) error
	ListParticipants(ctx context.Context, tournamentID int) ([]int, error)
	CountParticipants(ctx context.Context, tournamentID int) (int, error)
	HasParticipant(ctx context.Context, tournamentID, userID int) (bool, error)
	CountTournaments(ctx context.Context, status *models.TournamentStatus) (int, error)
	CountByParticipant(ctx context.Context, userID int) (int, error)
	ListPrizes(ctx context.Context) ([]string, error)
	ListStatusSweepCandidates(ctx context.Context, currentTime time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, slug, game, description, rules, prize, organizer_id, organizer_name,
	max_participants, status, start_date, end_date, registration_deadline,
	judges, created_at, updated_at`

func scanTournament(rowScanner interface {
	Scan(dest ...interface{}) error
}, t *models.Tournament) error {
	var judges pq.StringArray
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Game, &t.Description, &t.Rules, &t.Prize,
		&t.OrganizerID, &t.OrganizerName, &t.MaxParticipants, &t.Status,
		&t.StartDate, &t.EndDate, &t.RegistrationDeadline,
		&judges, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	t.Judges = []string(judges)
	return nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, slug, game, description, rules, prize, organizer_id, organizer_name,
			max_participants, status, start_date, end_date, registration_deadline, judges
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Slug, t.Game, t.Description, t.Rules, t.Prize, t.OrganizerID, t.OrganizerName,
		t.MaxParticipants, t.Status, t.StartDate, t.EndDate, t.RegistrationDeadline,
		pq.Array(t.Judges),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := scanTournament(r.db.QueryRowContext(ctx, query, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Game != nil {
		query += fmt.Sprintf(" AND lower(game) = lower($%d)", argID)
		args = append(args, *filter.Game)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Search != nil {
		query += fmt.Sprintf(
			" AND (name ILIKE '%%' || $%d || '%%' OR game ILIKE '%%' || $%d || '%%' OR organizer_name ILIKE '%%' || $%d || '%%')",
			argID, argID, argID)
		args = append(args, *filter.Search)
		argID++
	}

	// Стабильный порядок для фиксированного состояния хранилища.
	query += " ORDER BY created_at DESC, id DESC"

	return r.queryTournaments(ctx, query, args...)
}

func (r *postgresTournamentRepository) ListByOrganizer(ctx context.Context, organizerID int) ([]models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE organizer_id = $1 ORDER BY created_at DESC, id DESC`
	return r.queryTournaments(ctx, query, organizerID)
}

func (r *postgresTournamentRepository) queryTournaments(ctx context.Context, query string, args ...interface{}) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := scanTournament(rows, &t); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			slug = $2,
			description = $3,
			rules = $4,
			prize = $5,
			status = $6,
			judges = $7,
			updated_at = now()
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Slug, t.Description, t.Rules, t.Prize, t.Status, pq.Array(t.Judges),
		t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}

	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET status = $1, updated_at = now() WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) AddParticipant(ctx context.Context, tournamentID, userID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin participant transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO tournament_participants (tournament_id, user_id) VALUES ($1, $2)`
	if _, err = tx.ExecContext(ctx, query, tournamentID, userID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return ErrParticipantConflict
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "tournament_participants_user_id_fkey" {
					return ErrParticipantUserInvalid
				}
				return ErrTournamentNotFound
			}
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE tournaments SET updated_at = now() WHERE id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to touch tournament after join: %w", err)
	}

	return tx.Commit()
}

func (r *postgresTournamentRepository) ListParticipants(ctx context.Context, tournamentID int) ([]int, error) {
	query := `
		SELECT user_id FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY created_at, user_id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	userIDs := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

func (r *postgresTournamentRepository) CountParticipants(ctx context.Context, tournamentID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tournament_participants WHERE tournament_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

func (r *postgresTournamentRepository) HasParticipant(ctx context.Context, tournamentID, userID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tournament_participants WHERE tournament_id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, tournamentID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

func (r *postgresTournamentRepository) CountTournaments(ctx context.Context, status *models.TournamentStatus) (int, error) {
	query := `SELECT COUNT(*) FROM tournaments`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return count, nil
}

func (r *postgresTournamentRepository) CountByParticipant(ctx context.Context, userID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tournament_participants WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournaments by participant: %w", err)
	}
	return count, nil
}

func (r *postgresTournamentRepository) ListPrizes(ctx context.Context) ([]string, error) {
	query := `SELECT prize FROM tournaments WHERE prize IS NOT NULL AND prize <> ''`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list prizes: %w", err)
	}
	defer rows.Close()

	prizes := make([]string, 0)
	for rows.Next() {
		var prize string
		if err := rows.Scan(&prize); err != nil {
			return nil, err
		}
		prizes = append(prizes, prize)
	}
	return prizes, rows.Err()
}

func (r *postgresTournamentRepository) ListStatusSweepCandidates(ctx context.Context, currentTime time.Time) ([]*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + `
		FROM tournaments
		WHERE (status = $1 AND start_date <= $3)
		   OR (status = $2 AND end_date <= $3)`

	rows, err := r.db.QueryContext(ctx, query, models.StatusRegistration, models.StatusActive, currentTime)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments for status sweep: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	for rows.Next() {
		var t models.Tournament
		if scanErr := scanTournament(rows, &t); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament for status sweep: %w", scanErr)
		}
		tournaments = append(tournaments, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration for status sweep: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournaments_organizer_id_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503":
			if pqErr.Constraint == "tournaments_organizer_id_fkey" {
				return ErrTournamentInvalidOrg
			}
		}
	}
	return err
}
