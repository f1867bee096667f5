package models

// PlatformStats — агрегаты по всей платформе для главной страницы.
type PlatformStats struct {
	TotalTournaments  int    `json:"total_tournaments"`
	ActiveTournaments int    `json:"active_tournaments"`
	TotalPlayers      int    `json:"total_players"`
	TotalPrizePool    string `json:"total_prize_pool"`
}

type UserStats struct {
	TournamentsCreated      int `json:"tournaments_created"`
	TournamentsParticipated int `json:"tournaments_participated"`
	TournamentsWon          int `json:"tournaments_won"`
}
