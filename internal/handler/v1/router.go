package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayushpatil0810/carebridge/internal/domain"
	"github.com/ayushpatil0810/carebridge/pkg/auth"
	"github.com/ayushpatil0810/carebridge/pkg/metrics"
)

type Router struct {
	authHandler    *AuthHandler
	patientHandler *PatientHandler
	caseHandler    *CaseHandler
	jwtManager     *auth.JWTManager
	collector      *metrics.Collector
	log            *zap.Logger
}

func NewRouter(
	authHandler *AuthHandler,
	patientHandler *PatientHandler,
	caseHandler *CaseHandler,
	jwtManager *auth.JWTManager,
	collector *metrics.Collector,
	log *zap.Logger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		patientHandler: patientHandler,
		caseHandler:    caseHandler,
		jwtManager:     jwtManager,
		collector:      collector,
		log:            log,
	}
}

func (r *Router) Register(engine *gin.Engine) {
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(r.log))
	engine.Use(Observe(r.collector))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := engine.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/change-password", AuthRequired(r.jwtManager), r.authHandler.ChangePassword)
	}

	protected := api.Group("")
	protected.Use(AuthRequired(r.jwtManager))

	patients := protected.Group("/patients")
	{
		patients.POST("", RequireRoles(domain.RoleFieldRecorder, domain.RoleAdmin), r.patientHandler.RegisterPatient)
		patients.GET("", r.patientHandler.ListPatients)
		patients.GET("/:id", r.patientHandler.GetPatient)
		patients.PATCH("/:id/pregnancy", RequireRoles(domain.RoleFieldRecorder, domain.RoleAdmin), r.patientHandler.SetPregnancyStatus)
		patients.DELETE("/:id", RequireRoles(domain.RoleAdmin), r.patientHandler.DeactivatePatient)
	}

	cases := protected.Group("/cases")
	{
		cases.POST("", RequireRoles(domain.RoleFieldRecorder, domain.RoleAdmin), r.caseHandler.CreateCase)
		cases.GET("", r.caseHandler.ListCases)
		cases.GET("/review-queue", RequireRoles(domain.RoleReviewer, domain.RoleAdmin), r.caseHandler.ReviewQueue)
		cases.GET("/:id", r.caseHandler.GetCase)
		cases.POST("/:id/review-request", RequireRoles(domain.RoleFieldRecorder, domain.RoleAdmin), r.caseHandler.RequestReview)
		cases.POST("/:id/decision", RequireRoles(domain.RoleReviewer, domain.RoleAdmin), r.caseHandler.SubmitDecision)
		cases.POST("/:id/clarification-response", RequireRoles(domain.RoleFieldRecorder, domain.RoleAdmin), r.caseHandler.RespondToClarification)
		cases.GET("/:id/summary", r.caseHandler.Summary)
		cases.POST("/:id/share", r.caseHandler.Share)
	}

	assist := protected.Group("/assist")
	{
		assist.POST("/transcribe", RequireRoles(domain.RoleFieldRecorder, domain.RoleAdmin), r.caseHandler.Transcribe)
	}
}
