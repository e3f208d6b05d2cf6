package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
)

type updateRestaurantRequest struct {
	Name          *string `json:"name"`
	GooglePlaceID *string `json:"google_place_id"`
	LogoURL       *string `json:"logo_url"`
	ThemeColor    *string `json:"theme_color"`
}

func (s *Server) GetRestaurant(c *gin.Context) {
	resp, err := s.tenantSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateRestaurant(c *gin.Context) {
	var req updateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.tenantSvc.UpdateSettings(c.Request.Context(), tenantdomain.UpdateSettingsRequest{
		Name:          req.Name,
		GooglePlaceID: req.GooglePlaceID,
		LogoURL:       req.LogoURL,
		ThemeColor:    req.ThemeColor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
