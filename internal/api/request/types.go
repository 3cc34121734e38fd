package request

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in. Identifier accepts a
// username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// ChangePasswordRequest is the request body for changing a password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateProfileRequest is the request body for editing the caller's profile
type UpdateProfileRequest struct {
	Avatar  *string `json:"avatar,omitempty"`
	Bio     *string `json:"bio,omitempty"`
	Country *string `json:"country,omitempty"`
}

// GameRequest is the request body for creating or updating a game listing
type GameRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description,omitempty"`
	Price            int      `json:"price"`
	DiscountPercent  int      `json:"discount_percent"`
	Genres           []string `json:"genres"`
	Tags             []string `json:"tags,omitempty"`
	Publisher        string   `json:"publisher,omitempty"`
	CoverImage       string   `json:"cover_image,omitempty"`
	Screenshots      []string `json:"screenshots,omitempty"`
	TrailerURL       string   `json:"trailer_url,omitempty"`
	DownloadURL      string   `json:"download_url"`
	FileSize         string   `json:"file_size,omitempty"`
	CurrentVersion   string   `json:"current_version,omitempty"`
	Platforms        []string `json:"platforms,omitempty"`
}

// PublishRequest is the request body for toggling listing visibility
type PublishRequest struct {
	Published bool `json:"published"`
}

// FeatureRequest is the request body for toggling the featured flag
type FeatureRequest struct {
	Featured bool `json:"featured"`
}

// PurchaseRequest is the request body for buying a game
type PurchaseRequest struct {
	PaymentRef string `json:"payment_ref,omitempty"`
}

// PlaytimeRequest is the request body for recording play minutes
type PlaytimeRequest struct {
	Minutes int `json:"minutes"`
}

// FavoriteRequest is the request body for toggling a library favorite
type FavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// ReviewRequest is the request body for creating or updating a review
type ReviewRequest struct {
	Rating        int    `json:"rating"`
	Title         string `json:"title,omitempty"`
	Content       string `json:"content"`
	IsRecommended bool   `json:"is_recommended"`
}

// FriendRequestRequest is the request body for sending a friend request
type FriendRequestRequest struct {
	UserID string `json:"user_id"`
}

// SendMessageRequest is the request body for sending a chat message
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
	Type       string `json:"type,omitempty"`
}

// AchievementRequest is the request body for defining an achievement
type AchievementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Points      int    `json:"points"`
	Rarity      string `json:"rarity,omitempty"`
	IsHidden    bool   `json:"is_hidden,omitempty"`
}

// AssistantChatRequest is the request body for talking to the assistant
type AssistantChatRequest struct {
	Message string `json:"message"`
}
