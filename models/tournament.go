package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusRegistration, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Rank orders statuses along the lifecycle: registration < active < completed.
// A tournament never moves backwards, so its effective status is the later of
// the stored status and the one derived from the clock.
func (s TournamentStatus) Rank() int {
	switch s {
	case StatusActive:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 0
	}
}

// Tournament представляет турнир.
type Tournament struct {
	ID                   int              `json:"id" db:"id"`
	Name                 string           `json:"name" db:"name"`
	Slug                 string           `json:"slug" db:"slug"`
	Game                 string           `json:"game" db:"game"`
	Description          string           `json:"description" db:"description"`
	Rules                *string          `json:"rules,omitempty" db:"rules"`
	Prize                *string          `json:"prize,omitempty" db:"prize"`
	OrganizerID          int              `json:"organizer_id" db:"organizer_id"`
	OrganizerName        string           `json:"organizer_name" db:"organizer_name"`
	MaxParticipants      int              `json:"max_participants" db:"max_participants"`
	Status               TournamentStatus `json:"status" db:"status"`
	StartDate            time.Time        `json:"start_date" db:"start_date"`
	EndDate              time.Time        `json:"end_date" db:"end_date"`
	RegistrationDeadline time.Time        `json:"registration_deadline" db:"registration_deadline"`
	Judges               []string         `json:"judges" db:"judges"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at" db:"updated_at"`

	// Опциональные связанные данные (не мапятся напрямую)
	Participants []int `json:"participants" db:"-"`
	Organizer    *User `json:"organizer,omitempty" db:"-"`
}
