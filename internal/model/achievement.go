package model

import "time"

// AchievementID uniquely identifies an achievement definition
type AchievementID string

// AchievementRarity grades how hard an achievement is to earn
type AchievementRarity string

const (
	RarityCommon    AchievementRarity = "common"
	RarityUncommon  AchievementRarity = "uncommon"
	RarityRare      AchievementRarity = "rare"
	RarityEpic      AchievementRarity = "epic"
	RarityLegendary AchievementRarity = "legendary"
)

// Achievement is a per-game achievement definition
type Achievement struct {
	ID          AchievementID     `json:"id"`
	GameID      GameID            `json:"game_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Icon        string            `json:"icon,omitempty"`
	Points      int               `json:"points"`
	Rarity      AchievementRarity `json:"rarity"`
	IsHidden    bool              `json:"is_hidden"`
	CreatedAt   time.Time         `json:"created_at"`
}

// UserAchievement records one user unlocking one achievement, at most once
type UserAchievement struct {
	UserID        UserID        `json:"user_id"`
	AchievementID AchievementID `json:"achievement_id"`
	GameID        GameID        `json:"game_id"`
	UnlockedAt    time.Time     `json:"unlocked_at"`
}
