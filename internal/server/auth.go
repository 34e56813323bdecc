package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		writeError(c, http.StatusBadRequest, "invalid_username", "username is required")
		return
	}
	if len(req.Password) < 6 {
		writeError(c, http.StatusBadRequest, "invalid_password", "password must be at least 6 characters")
		return
	}

	if _, err := s.store.PasswordHash(username); err == nil {
		writeError(c, http.StatusConflict, "username_exists", "username already registered")
		return
	} else if err != ErrNotFound {
		writeError(c, http.StatusInternalServerError, "internal_error", "failed to query user")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal_error", "failed to secure password")
		return
	}

	if err := s.store.CreateUser(username, string(hash)); err != nil {
		writeError(c, http.StatusInternalServerError, "internal_error", "failed to create user")
		return
	}

	// New accounts start from the seeded item set so the first GET has
	// something to show.
	if seed, err := json.Marshal(plan.Seed()); err == nil {
		if err := s.store.PutModules(username, string(seed)); err != nil {
			writeError(c, http.StatusInternalServerError, "internal_error", "failed to seed modules")
			return
		}
	}

	token, err := s.issueToken(username)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal_error", "failed to sign token")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeError(c, http.StatusBadRequest, "invalid_credentials", "username and password are required")
		return
	}

	hash, err := s.store.PasswordHash(username)
	if err == ErrNotFound {
		writeError(c, http.StatusUnauthorized, "unauthorized", "invalid username or password")
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal_error", "failed to query user")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeError(c, http.StatusUnauthorized, "unauthorized", "invalid username or password")
		return
	}

	token, err := s.issueToken(username)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal_error", "failed to sign token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) issueToken(username string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Server) parseToken(tokenString string) (string, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

const userContextKey = "username"

// auth is the bearer-token middleware guarding the module routes.
func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortError(c, http.StatusUnauthorized, "unauthorized", "missing authorization header")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			abortError(c, http.StatusUnauthorized, "unauthorized", "invalid authorization format")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		username, ok := s.parseToken(token)
		if !ok {
			abortError(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		c.Set(userContextKey, username)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	value, ok := c.Get(userContextKey)
	if !ok {
		return ""
	}
	username, _ := value.(string)
	return username
}
