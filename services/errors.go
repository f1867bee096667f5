package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурсы
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed              = errors.New("validation failed")
	ErrUsernameTooShort              = errors.New("username must be at least 3 characters")
	ErrInvalidEmail                  = errors.New("invalid email format")
	ErrPasswordTooShort              = errors.New("password must be at least 6 characters")
	ErrTournamentNameInvalid         = errors.New("tournament name must be between 3 and 100 characters")
	ErrTournamentGameRequired        = errors.New("game is required")
	ErrTournamentDescriptionTooShort = errors.New("description must be at least 10 characters")
	ErrTournamentInvalidCapacity     = errors.New("max participants must be between 2 and 128")
	ErrTournamentDatesRequired       = errors.New("start date, end date and registration deadline are required")
	ErrTournamentInvalidRegDeadline  = errors.New("registration deadline must not be after start date")
	ErrTournamentInvalidDateRange    = errors.New("end date must not be before start date")
	ErrTournamentInvalidStatus       = errors.New("invalid tournament status provided")
	ErrInvalidStatusTransition       = errors.New("invalid tournament status transition")

	// Ошибки конфликтов (регистрация в турнире)
	ErrRegistrationNotOpen = errors.New("tournament not open")
	ErrRegistrationClosed  = errors.New("registration closed")
	ErrTournamentFull      = errors.New("tournament full")
	ErrAlreadyJoined       = errors.New("already joined")

	// Конфликты уникальности
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrUserUsernameConflict   = errors.New("username is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Ошибки аутентификации и авторизации
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)
