package api

import (
	"context"

	"github.com/declaradash/declaradash/internal/api/controller"
	"github.com/declaradash/declaradash/internal/pkg/constants"
	"github.com/declaradash/declaradash/internal/pkg/logger"
	"github.com/declaradash/declaradash/internal/service/auth"
	"github.com/declaradash/declaradash/internal/service/explorer"
	"github.com/declaradash/declaradash/internal/service/reports"
	"github.com/declaradash/declaradash/internal/service/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"
)

type APIService struct {
	router      *echo.Echo
	authService *auth.Service
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(
	sessionService *session.Service,
	explorerService *explorer.Service,
	reportsService *reports.Service,
	authService *auth.Service,
) (*APIService, error) {
	svc := &APIService{router: echo.New(), authService: authService}

	svc.router.HideBanner = true
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Use(middleware.Logger())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: viper.GetStringSlice(constants.ViperKeyAllowedOrigins),
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))
	svc.router.Use(svc.IdentityMiddleware)

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(sessionService, explorerService, reportsService)

	api.GET("/regions", cntrl.ListRegions)
	api.GET("/session/status", cntrl.SessionStatus)

	selection := api.Group("/selection")
	selection.GET("", cntrl.GetSelection)
	selection.POST("/region", cntrl.SelectRegion)
	selection.POST("/institution", cntrl.SelectInstitution)
	selection.POST("/page", cntrl.TurnPage)

	reportsGroup := api.Group("/reports")
	reportsGroup.GET("", cntrl.ListReports)
	reportsGroup.GET("/stats", cntrl.ReportStats)
	reportsGroup.POST("", cntrl.SubmitReport)
	reportsGroup.POST("/:id/upvote", cntrl.UpvoteReport)

	return svc, nil
}
