package model

import "time"

// ReviewID uniquely identifies a review
type ReviewID string

// Review is one user's rating of one game, at most one per (user, game)
type Review struct {
	ID     ReviewID `json:"id"`
	GameID GameID   `json:"game_id"`
	UserID UserID   `json:"user_id"`
	// Rating is 1-5
	Rating        int       `json:"rating"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	IsRecommended bool      `json:"is_recommended"`
	Likes         []UserID  `json:"likes"`
	Dislikes      []UserID  `json:"dislikes"`
	IsEdited      bool      `json:"is_edited"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func containsUser(ids []UserID, id UserID) bool {
	for _, have := range ids {
		if have == id {
			return true
		}
	}
	return false
}

func removeUser(ids []UserID, id UserID) []UserID {
	out := ids[:0]
	for _, have := range ids {
		if have != id {
			out = append(out, have)
		}
	}
	return out
}

// ToggleLike records or retracts a like, clearing any dislike by the same user
func (r *Review) ToggleLike(u UserID) {
	r.Dislikes = removeUser(r.Dislikes, u)
	if containsUser(r.Likes, u) {
		r.Likes = removeUser(r.Likes, u)
	} else {
		r.Likes = append(r.Likes, u)
	}
}

// ToggleDislike records or retracts a dislike, clearing any like by the same user
func (r *Review) ToggleDislike(u UserID) {
	r.Likes = removeUser(r.Likes, u)
	if containsUser(r.Dislikes, u) {
		r.Dislikes = removeUser(r.Dislikes, u)
	} else {
		r.Dislikes = append(r.Dislikes, u)
	}
}
