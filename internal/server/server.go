package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/getmenuly/menuly/internal/auth"
	authdomain "github.com/getmenuly/menuly/internal/auth/domain"
	"github.com/getmenuly/menuly/internal/auth/session"
	"github.com/getmenuly/menuly/internal/category"
	categorydomain "github.com/getmenuly/menuly/internal/category/domain"
	"github.com/getmenuly/menuly/internal/clock"
	"github.com/getmenuly/menuly/internal/config"
	"github.com/getmenuly/menuly/internal/dish"
	dishdomain "github.com/getmenuly/menuly/internal/dish/domain"
	"github.com/getmenuly/menuly/internal/media"
	mediadomain "github.com/getmenuly/menuly/internal/media/domain"
	"github.com/getmenuly/menuly/internal/menu"
	menudomain "github.com/getmenuly/menuly/internal/menu/domain"
	"github.com/getmenuly/menuly/internal/notification"
	notificationdomain "github.com/getmenuly/menuly/internal/notification/domain"
	"github.com/getmenuly/menuly/internal/observability"
	obsmiddleware "github.com/getmenuly/menuly/internal/observability/logger"
	obsmetrics "github.com/getmenuly/menuly/internal/observability/metrics"
	obstracing "github.com/getmenuly/menuly/internal/observability/tracing"
	"github.com/getmenuly/menuly/internal/payment"
	paymentdomain "github.com/getmenuly/menuly/internal/payment/domain"
	"github.com/getmenuly/menuly/internal/plan"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	"github.com/getmenuly/menuly/internal/scheduler"
	"github.com/getmenuly/menuly/internal/subscription"
	"github.com/getmenuly/menuly/internal/tenant"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	tenant.Module,
	plan.Module,
	menu.Module,
	category.Module,
	dish.Module,
	media.Module,
	notification.Module,
	subscription.Module,
	payment.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log, obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware(obsCfg.ServiceName))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	clock           clock.Clock
	genID           *snowflake.Node
	sessions        *session.Manager
	authsvc         authdomain.Service
	tenantSvc       tenantdomain.Service
	planSvc         plandomain.Service
	menuSvc         menudomain.Service
	categorySvc     categorydomain.Service
	dishSvc         dishdomain.Service
	mediaSvc        mediadomain.Service
	notificationSvc notificationdomain.Service
	paymentSvc      paymentdomain.Service
	menuRepo        menudomain.Repository
	categoryRepo    categorydomain.Repository
	dishRepo        dishdomain.Repository
	scheduler       *scheduler.Scheduler
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Clock           clock.Clock
	GenID           *snowflake.Node
	Sessions        *session.Manager
	Authsvc         authdomain.Service
	TenantSvc       tenantdomain.Service
	PlanSvc         plandomain.Service
	MenuSvc         menudomain.Service
	CategorySvc     categorydomain.Service
	DishSvc         dishdomain.Service
	MediaSvc        mediadomain.Service
	NotificationSvc notificationdomain.Service
	PaymentSvc      paymentdomain.Service
	MenuRepo        menudomain.Repository
	CategoryRepo    categorydomain.Repository
	DishRepo        dishdomain.Repository
	Scheduler       *scheduler.Scheduler
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		clock:           p.Clock,
		genID:           p.GenID,
		sessions:        p.Sessions,
		authsvc:         p.Authsvc,
		tenantSvc:       p.TenantSvc,
		planSvc:         p.PlanSvc,
		menuSvc:         p.MenuSvc,
		categorySvc:     p.CategorySvc,
		dishSvc:         p.DishSvc,
		mediaSvc:        p.MediaSvc,
		notificationSvc: p.NotificationSvc,
		paymentSvc:      p.PaymentSvc,
		menuRepo:        p.MenuRepo,
		categoryRepo:    p.CategoryRepo,
		dishRepo:        p.DishRepo,
		scheduler:       p.Scheduler,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/signup", s.Signup)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	api.GET("/restaurant", s.GetRestaurant)
	api.PUT("/restaurant", s.UpdateRestaurant)

	api.GET("/menus", s.ListMenus)
	api.POST("/menus", s.CreateMenu)
	api.PUT("/menus/:id", s.UpdateMenu)
	api.DELETE("/menus/:id", s.DeleteMenu)

	api.GET("/categories", s.ListCategories)
	api.POST("/categories", s.CreateCategory)
	api.PUT("/categories/:id", s.UpdateCategory)
	api.DELETE("/categories/:id", s.DeleteCategory)
	api.POST("/categories/reorder", s.ReorderCategories)

	api.GET("/dishes", s.ListDishes)
	api.POST("/dishes", s.CreateDish)
	api.PUT("/dishes/:id", s.UpdateDish)
	api.DELETE("/dishes/:id", s.DeleteDish)

	api.POST("/upload/presigned-url", s.PresignUpload)

	api.GET("/notifications", s.ListNotifications)
	api.PATCH("/notifications/:id/read", s.MarkNotificationRead)
	api.POST("/notifications/mark-all-read", s.MarkAllNotificationsRead)

	api.GET("/plans", s.ListPlans)

	api.POST("/razorpay/create-order", s.CreateRazorpayOrder)
	api.POST("/razorpay/verify", s.VerifyRazorpayPayment)

	// The cron trigger authenticates with the shared secret, not a session.
	cron := s.engine.Group("/api/cron")
	cron.POST("/subscription-sweep", s.CronAuth(), s.TriggerSweep)
}

func (s *Server) registerPublicRoutes() {
	s.engine.GET("/menu/:slug", s.PublicMenu)
}
