package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	authdomain "github.com/getmenuly/menuly/internal/auth/domain"
)

type signupRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RestaurantName string `json:"restaurant_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID         string     `json:"user_id"`
	Email          string     `json:"email"`
	RestaurantID   string     `json:"restaurant_id,omitempty"`
	RestaurantSlug string     `json:"restaurant_slug,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
}

func (s *Server) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.authsvc.Signup(c.Request.Context(), authdomain.SignupRequest{
		Email:          strings.TrimSpace(req.Email),
		Password:       req.Password,
		RestaurantName: req.RestaurantName,
		UserAgent:      c.Request.UserAgent(),
		IPAddress:      c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.JSON(http.StatusCreated, gin.H{"data": toSessionResponse(result)})
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{"data": toSessionResponse(result)})
}

func (s *Server) Logout(c *gin.Context) {
	if token, ok := s.sessions.ReadToken(c); ok {
		_ = s.authsvc.Logout(c.Request.Context(), token)
	}
	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Me(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp := sessionResponse{
		UserID:    identity.User.ID.String(),
		Email:     identity.User.Email,
		ExpiresAt: identity.Session.ExpiresAt,
	}
	if identity.Restaurant != nil {
		resp.RestaurantID = identity.Restaurant.ID.String()
		resp.RestaurantSlug = identity.Restaurant.Slug
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func toSessionResponse(result *authdomain.LoginResult) sessionResponse {
	resp := sessionResponse{
		UserID:    result.UserID.String(),
		Email:     result.Email,
		ExpiresAt: result.ExpiresAt,
	}
	if result.Restaurant != nil {
		resp.RestaurantID = result.Restaurant.ID.String()
		resp.RestaurantSlug = result.Restaurant.Slug
	}
	return resp
}
