// The web backend exposes the support chat over HTTP: demo-session auth,
// ticket and metrics APIs, and a WebSocket that drives the orchestrator.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/supportpilot/supportpilot/apps/web/backend/auth"
	"github.com/supportpilot/supportpilot/pkg/agents"
	"github.com/supportpilot/supportpilot/pkg/config"
	"github.com/supportpilot/supportpilot/pkg/db"
	"github.com/supportpilot/supportpilot/pkg/kb"
	"github.com/supportpilot/supportpilot/pkg/llm"
	"github.com/supportpilot/supportpilot/pkg/llm/providers"
	"github.com/supportpilot/supportpilot/pkg/logging"
	"github.com/supportpilot/supportpilot/pkg/metrics"
	"github.com/supportpilot/supportpilot/pkg/session"
	"github.com/supportpilot/supportpilot/pkg/tickets"
)

var upgrader = websocket.Upgrader{}

type WebsocketMessage struct {
	Type    string `json:"type"`
	Sender  string `json:"sender"`
	Content any    `json:"content"`
}

type server struct {
	orchestrator *agents.Orchestrator
	tickets      *tickets.Store
	sessions     *session.Store
	metrics      *metrics.Collector
	logger       *zap.Logger
}

func main() {
	cfg, err := config.Load("supportpilot.yaml")
	if err != nil {
		log.Fatalf("WebApp: config: %v", err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("WebApp: logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		logger.Fatal("SUPPORTPILOT_JWT_SECRET is not set")
	}

	srv, err := newServer(cfg, logger)
	if err != nil {
		logger.Fatal("initialization failed", zap.Error(err))
	}

	authHandler := &auth.Handler{JWTSecret: []byte(cfg.JWTSecret)}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.POST("/auth/session", authHandler.HandleCreateSession)

	api := e.Group("/api", authHandler.AuthMiddleware)
	api.GET("/me", authHandler.HandleGetMe)
	api.GET("/tickets", srv.handleListTickets)
	api.GET("/metrics", srv.handleMetrics)

	e.GET("/ws", srv.handleWebSocket, authHandler.AuthMiddleware)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func newServer(cfg *config.Config, logger *zap.Logger) (*server, error) {
	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(sqlDB); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	kbStore, err := kb.Load(cfg.KBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base: %w", err)
	}

	provider, err := providers.NewProvider(llm.ProviderConfig{
		Type:   cfg.Provider,
		APIKey: cfg.APIKey(),
		Model:  cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	ticketStore := tickets.NewStore(sqlDB, logger)
	sessions := session.NewStore(logger)
	collector := metrics.NewCollector()

	return &server{
		orchestrator: agents.NewOrchestrator(
			agents.NewKnowledgeAgent(provider, kbStore, logger),
			agents.NewCreationAgent(provider, ticketStore, logger),
			agents.NewQueryAgent(provider, ticketStore, logger),
			sessions,
			collector,
			logger,
		),
		tickets:  ticketStore,
		sessions: sessions,
		metrics:  collector,
		logger:   logger,
	}, nil
}

func (s *server) handleListTickets(c echo.Context) error {
	user := auth.UserFrom(c)
	list, err := s.tickets.List(c.Request().Context(), user)
	if err != nil {
		s.logger.Error("listing tickets", zap.Error(err), zap.String("user_id", user.ID))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list tickets"})
	}
	if list == nil {
		list = []tickets.Ticket{}
	}
	return c.JSON(http.StatusOK, list)
}

func (s *server) handleMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metrics.Snapshot())
}

func (s *server) handleWebSocket(c echo.Context) error {
	user := auth.UserFrom(c)

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("upgrading to websocket: %w", err)
	}
	defer ws.Close()
	s.logger.Info("websocket_connected", zap.String("user_id", user.ID))

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			s.logger.Info("websocket_closed", zap.String("user_id", user.ID), zap.Error(err))
			return nil
		}

		response := s.orchestrator.ProcessMessage(c.Request().Context(), user.ID, string(msg))
		s.sendWsMessage(ws, "agent_response", "SupportPilot", response)
	}
}

func (s *server) sendWsMessage(ws *websocket.Conn, msgType, sender string, content any) {
	message := WebsocketMessage{
		Type:    msgType,
		Sender:  sender,
		Content: content,
	}
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		s.logger.Error("marshaling websocket message", zap.Error(err))
		return
	}
	if err := ws.WriteMessage(websocket.TextMessage, jsonMsg); err != nil {
		s.logger.Error("websocket write", zap.Error(err))
	}
}
