package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tictacroom/internal/api/controller"
	"tictacroom/internal/api/middleware"
	"tictacroom/internal/api/service"
	"tictacroom/internal/hub"
	"tictacroom/internal/player"
)

var tracer = otel.Tracer("server")

// Server wires the HTTP surface: auth and history endpoints plus the
// websocket entry point into the gateway.
type Server struct {
	engine      *gin.Engine
	hub         *hub.Hub
	userService service.UserService
	upgrader    websocket.Upgrader
}

// NewServer builds the gin engine and registers all routes.
func NewServer(h *hub.Hub, userService service.UserService, userController *controller.UserController, historyController *controller.HistoryController) *Server {
	s := &Server{
		engine:      gin.New(),
		hub:         h,
		userService: userService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.engine.Use(gin.Recovery())

	api := s.engine.Group("/api")
	api.POST("/auth/register", userController.Register)
	api.POST("/auth/login", userController.Login)
	api.POST("/auth/guest", userController.GuestLogin)

	authed := api.Group("", middleware.AuthRequired(userService))
	authed.GET("/user/history", historyController.History)
	authed.GET("/users", userController.Users)

	s.engine.GET("/ws", s.handleWebSocket)

	return s
}

// Engine exposes the underlying gin engine as the http handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// handleWebSocket authenticates the bearer token, upgrades the
// connection and hands the client to the hub. Browsers cannot set
// headers on websocket requests, so the token travels in the query
// string.
func (s *Server) handleWebSocket(c *gin.Context) {
	_, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.Path),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	token := c.Query("token")
	username, err := s.userService.Verify(token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid token")
		c.String(http.StatusUnauthorized, "invalid token")
		return
	}
	span.SetAttributes(attribute.String("player.id", username))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "player.id", username, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	client := hub.NewClient(player.NewPlayer(username, conn), s.hub)
	s.hub.Register() <- client

	go client.WritePump()
	go client.ReadPump()
}
