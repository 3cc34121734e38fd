package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jfmcewan/gamehub/internal/api/handler"
	apimiddleware "github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/middleware"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/achievement"
	"github.com/jfmcewan/gamehub/internal/services/assistant"
	"github.com/jfmcewan/gamehub/internal/services/auth"
	"github.com/jfmcewan/gamehub/internal/services/catalog"
	"github.com/jfmcewan/gamehub/internal/services/chat"
	"github.com/jfmcewan/gamehub/internal/services/commerce"
	"github.com/jfmcewan/gamehub/internal/services/notify"
	"github.com/jfmcewan/gamehub/internal/services/review"
	"github.com/jfmcewan/gamehub/internal/services/social"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Storage            storage.Store
	Clock              clock.Clock
	AuthService        *auth.Service
	CatalogService     *catalog.Service
	CommerceService    *commerce.Service
	ReviewService      *review.Service
	SocialService      *social.Service
	ChatService        *chat.Service
	NotifyService      *notify.Service
	AchievementService *achievement.Service
	AssistantService   *assistant.Service
	// SocketHandler serves the realtime websocket endpoint.
	// It runs outside the logging middleware because the connection is hijacked.
	SocketHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	userHandler := handler.NewUserHandler(cfg.Storage, cfg.SocialService, cfg.Clock)
	gameHandler := handler.NewGameHandler(cfg.CatalogService)
	commerceHandler := handler.NewCommerceHandler(cfg.CommerceService)
	reviewHandler := handler.NewReviewHandler(cfg.ReviewService)
	socialHandler := handler.NewSocialHandler(cfg.SocialService, cfg.Storage)
	chatHandler := handler.NewChatHandler(cfg.ChatService)
	notificationHandler := handler.NewNotificationHandler(cfg.NotifyService)
	achievementHandler := handler.NewAchievementHandler(cfg.AchievementService)
	assistantHandler := handler.NewAssistantHandler(cfg.AssistantService)

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.AuthService, cfg.Storage)
	optionalAuthMiddleware := apimiddleware.OptionalAuth(cfg.AuthService, cfg.Storage)
	developerOnly := apimiddleware.RequireRole(model.RoleDeveloper, model.RoleAdmin)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no session required)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify", authHandler.Verify).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware)
	authed.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	authed.HandleFunc("/auth/password", authHandler.ChangePassword).Methods(http.MethodPost)

	// Public catalog routes; a session, when present, widens visibility
	public := api.NewRoute().Subrouter()
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	public.HandleFunc("/games/featured", gameHandler.Featured).Methods(http.MethodGet)
	public.HandleFunc("/games/trending", gameHandler.Trending).Methods(http.MethodGet)
	public.HandleFunc("/games/genres", gameHandler.Genres).Methods(http.MethodGet)
	public.HandleFunc("/games/slug/{slug}", gameHandler.GetBySlug).Methods(http.MethodGet)
	public.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	public.HandleFunc("/games/{id}/reviews", reviewHandler.List).Methods(http.MethodGet)
	public.HandleFunc("/games/{id}/achievements", achievementHandler.ListForGame).Methods(http.MethodGet)

	// User routes
	authed.HandleFunc("/users/me", authHandler.GetMe).Methods(http.MethodGet)
	authed.HandleFunc("/users/me", userHandler.UpdateProfile).Methods(http.MethodPatch)
	authed.HandleFunc("/users", userHandler.Search).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}", userHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}/block", socialHandler.Block).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id}/block", socialHandler.Unblock).Methods(http.MethodDelete)

	// Commerce routes
	authed.HandleFunc("/games/{id}/purchase", commerceHandler.Purchase).Methods(http.MethodPost)
	authed.HandleFunc("/games/{id}/download", commerceHandler.Download).Methods(http.MethodPost)
	authed.HandleFunc("/purchases", commerceHandler.Purchases).Methods(http.MethodGet)
	authed.HandleFunc("/library", commerceHandler.Library).Methods(http.MethodGet)
	authed.HandleFunc("/library/{id}/playtime", commerceHandler.Playtime).Methods(http.MethodPost)
	authed.HandleFunc("/library/{id}/favorite", commerceHandler.Favorite).Methods(http.MethodPatch)
	authed.HandleFunc("/wishlist", commerceHandler.Wishlist).Methods(http.MethodGet)
	authed.HandleFunc("/wishlist/{id}", commerceHandler.AddWishlist).Methods(http.MethodPost)
	authed.HandleFunc("/wishlist/{id}", commerceHandler.RemoveWishlist).Methods(http.MethodDelete)

	// Review routes
	authed.HandleFunc("/games/{id}/reviews", reviewHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/reviews/{id}", reviewHandler.Update).Methods(http.MethodPut)
	authed.HandleFunc("/reviews/{id}", reviewHandler.Delete).Methods(http.MethodDelete)
	authed.HandleFunc("/reviews/{id}/like", reviewHandler.Like).Methods(http.MethodPost)
	authed.HandleFunc("/reviews/{id}/dislike", reviewHandler.Dislike).Methods(http.MethodPost)

	// Social routes
	authed.HandleFunc("/friends", socialHandler.Friends).Methods(http.MethodGet)
	authed.HandleFunc("/friends/requests", socialHandler.Pending).Methods(http.MethodGet)
	authed.HandleFunc("/friends/requests", socialHandler.SendRequest).Methods(http.MethodPost)
	authed.HandleFunc("/friends/requests/{id}/accept", socialHandler.Accept).Methods(http.MethodPost)
	authed.HandleFunc("/friends/requests/{id}/decline", socialHandler.Decline).Methods(http.MethodPost)
	authed.HandleFunc("/friends/{id}", socialHandler.Remove).Methods(http.MethodDelete)

	// Chat routes
	authed.HandleFunc("/chat/conversations", chatHandler.Conversations).Methods(http.MethodGet)
	authed.HandleFunc("/chat/messages", chatHandler.Send).Methods(http.MethodPost)
	authed.HandleFunc("/chat/messages/{id}", chatHandler.Delete).Methods(http.MethodDelete)
	authed.HandleFunc("/chat/{userId}/messages", chatHandler.History).Methods(http.MethodGet)
	authed.HandleFunc("/chat/{userId}/read", chatHandler.MarkRead).Methods(http.MethodPost)

	// Notification routes
	authed.HandleFunc("/notifications", notificationHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/read-all", notificationHandler.MarkAllRead).Methods(http.MethodPost)
	authed.HandleFunc("/notifications/{id}/read", notificationHandler.MarkRead).Methods(http.MethodPost)
	authed.HandleFunc("/notifications/{id}", notificationHandler.Delete).Methods(http.MethodDelete)

	// Achievement routes
	authed.HandleFunc("/achievements", achievementHandler.Mine).Methods(http.MethodGet)
	authed.HandleFunc("/achievements/{id}/unlock", achievementHandler.Unlock).Methods(http.MethodPost)

	// Assistant routes
	authed.HandleFunc("/assistant/chat", assistantHandler.Chat).Methods(http.MethodPost)
	authed.HandleFunc("/assistant/recommendations", assistantHandler.Recommend).Methods(http.MethodGet)

	// Developer routes
	dev := api.PathPrefix("/dev").Subrouter()
	dev.Use(authMiddleware)
	dev.Use(developerOnly)
	dev.HandleFunc("/games", gameHandler.MyGames).Methods(http.MethodGet)
	dev.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	dev.HandleFunc("/games/{id}", gameHandler.Update).Methods(http.MethodPut)
	dev.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	dev.HandleFunc("/games/{id}/publish", gameHandler.Publish).Methods(http.MethodPatch)
	dev.HandleFunc("/games/{id}/feature", gameHandler.Feature).Methods(http.MethodPatch)
	dev.HandleFunc("/games/{id}/achievements", achievementHandler.Create).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Websocket endpoint, mounted outside the logging chain: the connection
	// is hijacked on upgrade so the wrapped response writer cannot serve it.
	if cfg.SocketHandler != nil {
		r.Handle("/ws", recoveryMiddleware(cfg.SocketHandler))
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
