package dto

// LeaderboardUserDTO представляет одного пользователя в лидерборде
type LeaderboardUserDTO struct {
	Rank         int    `json:"rank"`          // Место пользователя в рейтинге
	UserID       uint   `json:"user_id"`       // ID пользователя
	Username     string `json:"username"`      // Имя пользователя
	CurrentLevel int    `json:"current_level"` // Текущий уровень сложности
	TotalScore   int64  `json:"total_score"`   // Суммарные очки
	BestStreak   int    `json:"best_streak"`   // Лучшая серия правильных ответов
}

// PaginatedLeaderboardResponse представляет пагинированный ответ для лидерборда
type PaginatedLeaderboardResponse struct {
	Users   []*LeaderboardUserDTO `json:"users"`    // Список пользователей на странице
	Total   int64                 `json:"total"`    // Общее количество пользователей в лидерборде
	Page    int                   `json:"page"`     // Текущая страница
	PerPage int                   `json:"per_page"` // Количество пользователей на странице
}

// CategoryProgressDTO представляет агрегат успеваемости по одному разделу
type CategoryProgressDTO struct {
	Category        string  `json:"category"`
	DisplayName     string  `json:"display_name"`
	CurrentLevel    int     `json:"current_level"`
	TotalAttempts   int64   `json:"total_attempts"`
	CorrectAttempts int64   `json:"correct_attempts"`
	Accuracy        float64 `json:"accuracy"`
	TotalScore      int64   `json:"total_score"`
}

// ProgressOverviewResponse представляет сводку успеваемости пользователя
type ProgressOverviewResponse struct {
	UserID       uint                   `json:"user_id"`
	CurrentLevel int                    `json:"current_level"`
	TotalScore   int64                  `json:"total_score"`
	BestStreak   int                    `json:"best_streak"`
	Categories   []*CategoryProgressDTO `json:"categories"`
}
