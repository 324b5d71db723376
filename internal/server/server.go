package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/davidbloss/wghub/internal/export"
	"github.com/davidbloss/wghub/internal/guest"
	"github.com/davidbloss/wghub/internal/handler"
	"github.com/davidbloss/wghub/internal/middleware"
	"github.com/davidbloss/wghub/internal/points"
	"github.com/davidbloss/wghub/internal/push"
	"github.com/davidbloss/wghub/internal/rotation"
	"github.com/davidbloss/wghub/internal/store"
	ws "github.com/davidbloss/wghub/internal/websocket"
)

type Server struct {
	hub         *ws.Hub
	memberH     *handler.MemberHandler
	taskH       *handler.TaskHandler
	boardH      *handler.BoardHandler
	rewardH     *handler.RewardHandler
	vaultH      *handler.VaultHandler
	guestH      *handler.GuestHandler
	costH       *handler.CostHandler
	sceneH      *handler.SceneHandler
	exportH     *handler.ExportHandler
	pushH       *handler.PushHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// Deps carries the wired services the handlers depend on. PushService,
// Notifier, and ExportManager may be nil when the corresponding config
// is absent; the affected routes degrade gracefully.
type Deps struct {
	Store         *store.Store
	Hub           *ws.Hub
	Ledger        *points.Ledger
	Engine        *rotation.Engine
	TokenIssuer   *guest.TokenIssuer
	Notifier      *push.Notifier
	PushService   *push.Service
	PushStore     *push.SubscriptionStore
	ExportManager *export.Manager
}

func New(d Deps, logger *slog.Logger) *Server {
	s := &Server{
		hub:         d.Hub,
		memberH:     handler.NewMemberHandler(d.Store, d.Ledger, d.Notifier, logger.With("component", "member")),
		taskH:       handler.NewTaskHandler(d.Store, d.Ledger, d.Engine, logger.With("component", "task")),
		boardH:      handler.NewBoardHandler(d.Store, logger.With("component", "board")),
		rewardH:     handler.NewRewardHandler(d.Store, d.Ledger, logger.With("component", "reward")),
		vaultH:      handler.NewVaultHandler(d.Store, logger.With("component", "vault")),
		guestH:      handler.NewGuestHandler(d.Store, d.TokenIssuer, logger.With("component", "guest")),
		costH:       handler.NewCostHandler(d.Store, logger.With("component", "cost")),
		sceneH:      handler.NewSceneHandler(d.Store, d.Notifier, logger.With("component", "scene")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
	if d.ExportManager != nil {
		s.exportH = handler.NewExportHandler(d.ExportManager, logger.With("component", "export"))
	}
	if d.PushService != nil {
		s.pushH = handler.NewPushHandler(d.PushStore, d.PushService, logger.With("component", "push_handler"))
	}
	return s
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Members and peer reactions
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("POST /api/members/{name}/kudos", s.memberH.Kudos)
	mux.HandleFunc("POST /api/members/{name}/shame", s.memberH.Shame)

	// Tasks and the weekly rotation
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)
	mux.HandleFunc("POST /api/tasks/{id}/uncomplete", s.taskH.Uncomplete)
	mux.HandleFunc("POST /api/tasks/rotate", s.taskH.Rotate)
	mux.HandleFunc("GET /api/week", s.taskH.Week)

	// Pinboard
	mux.HandleFunc("GET /api/board", s.boardH.List)
	mux.HandleFunc("POST /api/board", s.boardH.Create)
	mux.HandleFunc("DELETE /api/board/{id}", s.boardH.Delete)
	mux.HandleFunc("POST /api/board/{id}/vote", s.boardH.Vote)
	mux.HandleFunc("POST /api/board/{id}/solve", s.boardH.Solve)

	// Rewards and leaderboard
	mux.HandleFunc("GET /api/rewards", s.rewardH.List)
	mux.HandleFunc("POST /api/rewards", s.rewardH.Create)
	mux.HandleFunc("PUT /api/rewards/{id}", s.rewardH.Update)
	mux.HandleFunc("DELETE /api/rewards/{id}", s.rewardH.Delete)
	mux.HandleFunc("POST /api/rewards/{id}/redeem", s.rewardH.Redeem)
	mux.HandleFunc("GET /api/leaderboard", s.rewardH.Leaderboard)

	// Vault
	mux.HandleFunc("GET /api/vault", s.vaultH.List)
	mux.HandleFunc("POST /api/vault", s.vaultH.Create)
	mux.HandleFunc("PUT /api/vault/{id}", s.vaultH.Update)
	mux.HandleFunc("DELETE /api/vault/{id}", s.vaultH.Delete)

	// Guest passes; code validation is rate limited since it is the one
	// route an outsider can hammer.
	mux.HandleFunc("GET /api/guests", s.guestH.List)
	mux.HandleFunc("POST /api/guests", s.guestH.Create)
	mux.HandleFunc("POST /api/guests/{id}/revoke", s.guestH.Revoke)
	mux.HandleFunc("DELETE /api/guests/{id}", s.guestH.Delete)
	mux.HandleFunc("POST /api/guests/validate", s.rateLimitedHandler(s.guestH.Validate))

	// Recurring costs
	mux.HandleFunc("GET /api/costs", s.costH.List)
	mux.HandleFunc("POST /api/costs", s.costH.Create)
	mux.HandleFunc("PUT /api/costs/{id}", s.costH.Update)
	mux.HandleFunc("DELETE /api/costs/{id}", s.costH.Delete)
	mux.HandleFunc("GET /api/costs/summary", s.costH.Summary)

	// Smart scenes
	mux.HandleFunc("GET /api/scenes", s.sceneH.List)
	mux.HandleFunc("POST /api/scenes", s.sceneH.Create)
	mux.HandleFunc("PUT /api/scenes/{id}", s.sceneH.Update)
	mux.HandleFunc("DELETE /api/scenes/{id}", s.sceneH.Delete)
	mux.HandleFunc("POST /api/scenes/{id}/toggle", s.sceneH.Toggle)

	if s.exportH != nil {
		mux.HandleFunc("POST /api/export", s.exportH.Create)
	}

	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.HandleFunc("POST /api/push/test", s.pushH.TestNotification)
	}

	// WebSocket change feed
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
