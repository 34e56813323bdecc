// Package server implements the sync endpoint the planner talks to in
// remote mode: bearer-token auth plus whole-list GET/PUT of one user's
// modules. There are no incremental writes; the client always sends the
// full item array.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
)

type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type Server struct {
	store    *Store
	secret   []byte
	tokenTTL time.Duration
}

// New wires the gin engine for a sync server backed by store.
func New(store *Store, cfg Config) *gin.Engine {
	s := &Server{
		store:    store,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: cfg.TokenTTL,
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.POST("/auth/register", s.handleRegister)
	engine.POST("/auth/login", s.handleLogin)

	modules := engine.Group("/modules")
	modules.Use(s.auth())
	modules.GET("", s.handleGetModules)
	modules.PUT("", s.handlePutModules)

	return engine
}

func (s *Server) handleGetModules(c *gin.Context) {
	username := currentUser(c)

	payload, ok, err := s.store.Modules(username)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal_error", "failed to load modules")
		return
	}
	if !ok {
		c.JSON(http.StatusOK, plan.Seed())
		return
	}
	c.Data(http.StatusOK, "application/json", []byte(payload))
}

func (s *Server) handlePutModules(c *gin.Context) {
	username := currentUser(c)

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<20))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", "failed to read request body")
		return
	}

	// Stored verbatim, but it has to be a well-formed item array first.
	var items []plan.Item
	if err := json.Unmarshal(body, &items); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "body must be a JSON array of modules")
		return
	}

	if err := s.store.PutModules(username, string(body)); err != nil {
		writeError(c, http.StatusInternalServerError, "internal_error", "failed to save modules")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items)})
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
