package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal-api/internal/handler"
	"github.com/noah-isme/course-portal-api/internal/middleware"
	"github.com/noah-isme/course-portal-api/internal/models"
	"github.com/noah-isme/course-portal-api/internal/service"
	"github.com/noah-isme/course-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-portal-api/pkg/middleware/requestid"
)

// DownloadPath is the route serving signed attachment downloads, relative to the API prefix.
const DownloadPath = "/attachments/download"

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth        *handler.AuthHandler
	Courses     *handler.CourseHandler
	Programs    *handler.ProgramHandler
	Attachments *handler.AttachmentHandler
	Metrics     *handler.MetricsHandler
}

// Options configures the router.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Tokens         middleware.TokenValidator
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(opts Options, h Handlers) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/readyz", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	api.POST("/auth/login", h.Auth.Login)
	api.GET(DownloadPath, h.Attachments.Download)

	secured := api.Group("", middleware.JWT(opts.Tokens), middleware.Viewer())
	secured.GET("/me", h.Auth.Me)
	secured.GET("/courses", h.Courses.List)
	secured.GET("/courses/lookup", h.Courses.Lookup)
	secured.GET("/courses/:id", h.Courses.Get)
	secured.GET("/courses/:id/attachments", h.Courses.Attachments)
	secured.GET("/courses/:id/videos", h.Courses.Videos)
	secured.GET("/courses/:id/grades", h.Courses.Grades)

	admin := secured.Group("", middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/courses/:id/grades/export", h.Courses.ExportGrades)
	admin.GET("/courses/:id/students", h.Courses.Students)
	admin.POST("/courses/:id/welcome-emails", h.Courses.SendWelcomeEmails)
	admin.GET("/courses/:id/welcome-emails/:jobId", h.Courses.WelcomeEmailStatus)
	admin.GET("/programs/stats", h.Programs.Stats)
	admin.GET("/admin/metrics", h.Metrics.Snapshot)

	return r
}
