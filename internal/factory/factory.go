package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/config"
	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/dependencies/random"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/realtime"
	"github.com/jfmcewan/gamehub/internal/services/achievement"
	"github.com/jfmcewan/gamehub/internal/services/assistant"
	"github.com/jfmcewan/gamehub/internal/services/auth"
	"github.com/jfmcewan/gamehub/internal/services/catalog"
	"github.com/jfmcewan/gamehub/internal/services/chat"
	"github.com/jfmcewan/gamehub/internal/services/commerce"
	"github.com/jfmcewan/gamehub/internal/services/mailer"
	"github.com/jfmcewan/gamehub/internal/services/notify"
	"github.com/jfmcewan/gamehub/internal/services/review"
	"github.com/jfmcewan/gamehub/internal/services/social"
	"github.com/jfmcewan/gamehub/internal/storage"
	"github.com/jfmcewan/gamehub/internal/storage/memory"
	redisstorage "github.com/jfmcewan/gamehub/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService        *auth.Service
	CatalogService     *catalog.Service
	CommerceService    *commerce.Service
	ReviewService      *review.Service
	SocialService      *social.Service
	ChatService        *chat.Service
	NotifyService      *notify.Service
	AchievementService *achievement.Service
	AssistantService   *assistant.Service

	// Realtime
	Hub           *realtime.Hub
	Presence      *realtime.PresenceTracker
	SocketHandler *realtime.SocketHandler
}

// New creates a new application with all dependencies wired from config
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Store
	switch cfg.Storage.Type {
	case StorageTypeMemory, "":
		store = memory.New()
	case StorageTypeRedis:
		redisCfg := redisstorage.Config{
			URL:          cfg.Storage.RedisURL,
			PoolSize:     cfg.Storage.RedisPoolSize,
			MinIdleConns: cfg.Storage.RedisMinIdleConns,
			DialTimeout:  cfg.Storage.RedisDialTimeout,
		}
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid storage type: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	authCfg := auth.Config{
		SessionTTL:     cfg.Auth.SessionTTL,
		BcryptCost:     cfg.Auth.BcryptCost,
		MinPasswordLen: cfg.Auth.MinPasswordLen,
		BaseURL:        cfg.App.BaseURL,
	}

	socketCfg := realtime.SocketConfig{
		WriteTimeout:    cfg.Realtime.WriteTimeout,
		PongTimeout:     cfg.Realtime.PongTimeout,
		PingInterval:    cfg.Realtime.PingInterval,
		MaxMessageBytes: cfg.Realtime.MaxMessageBytes,
	}

	mail := mailer.FromConfig(cfg.Mail, logger)

	return newWithDependencies(store, clk, rnd, mail, authCfg, socketCfg, cfg.Realtime.SendBufferSize, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Store,
	clk clock.Clock,
	rnd random.Random,
	mail mailer.Mailer,
	authCfg auth.Config,
	socketCfg realtime.SocketConfig,
	sendBufferSize int,
	logger *slog.Logger,
) *App {
	// The hub doubles as the push channel for notifications
	hub := realtime.NewHub(logger, sendBufferSize)
	presence := realtime.NewPresenceTracker()

	notifyService := notify.New(store, clk, hub, logger)
	authService := auth.New(store, clk, rnd, mail, logger, authCfg)
	catalogService := catalog.New(store, clk, logger)
	commerceService := commerce.New(store, clk, notifyService, logger)
	reviewService := review.New(store, clk, logger)
	socialService := social.New(store, clk, notifyService, logger)
	chatService := chat.New(store, clk, hub, notifyService, logger)
	achievementService := achievement.New(store, clk, notifyService, logger)
	assistantService := assistant.New(store, logger)

	socketHandler := realtime.NewSocketHandler(
		hub,
		presence,
		chatService,
		store,
		clk,
		socketAuthenticator(authService, store),
		logger,
		socketCfg,
	)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		AuthService:        authService,
		CatalogService:     catalogService,
		CommerceService:    commerceService,
		ReviewService:      reviewService,
		SocialService:      socialService,
		ChatService:        chatService,
		NotifyService:      notifyService,
		AchievementService: achievementService,
		AssistantService:   assistantService,
		Hub:                hub,
		Presence:           presence,
		SocketHandler:      socketHandler,
	}
}

// socketAuthenticator resolves websocket upgrade requests to users via the
// same session tokens the REST API uses.
func socketAuthenticator(authService *auth.Service, store storage.Store) realtime.Authenticator {
	return func(r *http.Request) (*model.User, error) {
		token := middleware.SessionToken(r)
		if token == "" {
			return nil, auth.ErrInvalidSession
		}
		session, err := authService.ValidateSession(token)
		if err != nil {
			return nil, err
		}
		user, err := store.GetUser(r.Context(), session.UserID)
		if err != nil {
			return nil, err
		}
		if user.IsBanned {
			return nil, model.ErrUserBanned
		}
		return user, nil
	}
}
