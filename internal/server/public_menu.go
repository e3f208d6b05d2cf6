package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	subscriptiondomain "github.com/getmenuly/menuly/internal/subscription/domain"
)

type publicDish struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       int64   `json:"price"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type publicCategory struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Dishes []publicDish `json:"dishes"`
}

type publicMenu struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Categories []publicCategory `json:"categories"`
}

type publicMenuResponse struct {
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	LogoURL       *string `json:"logo_url,omitempty"`
	ThemeColor    *string `json:"theme_color,omitempty"`
	GooglePlaceID *string `json:"google_place_id,omitempty"`
	ShowWatermark bool    `json:"show_watermark"`
	GoogleReview  bool    `json:"google_review"`

	Menus []publicMenu `json:"menus"`
}

// PublicMenu renders the customer-facing menu. A restaurant whose
// subscription lapsed is indistinguishable from a missing one.
func (s *Server) PublicMenu(c *gin.Context) {
	restaurantSlug := strings.TrimSpace(c.Param("slug"))
	restaurant, err := s.tenantSvc.GetBySlug(c.Request.Context(), restaurantSlug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if subscriptiondomain.Unavailable(
		restaurant.SubscriptionStatus,
		restaurant.OnHold,
		restaurant.SubscriptionExpiresAt,
		s.clock.Now(),
	) {
		AbortWithError(c, ErrNotFound)
		return
	}

	limits := plandomain.Limits(restaurant.SubscriptionPlan)
	resp := publicMenuResponse{
		Name:          restaurant.Name,
		Slug:          restaurant.Slug,
		LogoURL:       restaurant.LogoURL,
		ThemeColor:    restaurant.ThemeColor,
		ShowWatermark: !limits.RemoveWatermark,
		GoogleReview:  limits.GoogleReview,
	}
	if limits.GoogleReview {
		resp.GooglePlaceID = restaurant.GooglePlaceID
	}

	ctx := c.Request.Context()
	tenantID := int64(restaurant.ID)

	menus, err := s.menuRepo.List(ctx, s.db, tenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	categories, err := s.categoryRepo.List(ctx, s.db, tenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	dishes, err := s.dishRepo.List(ctx, s.db, tenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dishesByCategory := make(map[snowflake.ID][]publicDish)
	for _, d := range dishes {
		if !d.IsAvailable {
			continue
		}
		dishesByCategory[d.CategoryID] = append(dishesByCategory[d.CategoryID], publicDish{
			ID:          d.ID.String(),
			Name:        d.Name,
			Description: d.Description,
			Price:       d.Price,
			ImageURL:    d.ImageURL,
		})
	}

	categoriesByMenu := make(map[snowflake.ID][]publicCategory)
	for _, cat := range categories {
		if !cat.IsActive {
			continue
		}
		entry := publicCategory{
			ID:     cat.ID.String(),
			Name:   cat.Name,
			Dishes: dishesByCategory[cat.ID],
		}
		if entry.Dishes == nil {
			entry.Dishes = []publicDish{}
		}
		categoriesByMenu[cat.MenuID] = append(categoriesByMenu[cat.MenuID], entry)
	}

	resp.Menus = make([]publicMenu, 0, len(menus))
	for _, m := range menus {
		if !m.IsActive {
			continue
		}
		entry := publicMenu{
			ID:         m.ID.String(),
			Name:       m.Name,
			Categories: categoriesByMenu[m.ID],
		}
		if entry.Categories == nil {
			entry.Categories = []publicCategory{}
		}
		resp.Menus = append(resp.Menus, entry)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
