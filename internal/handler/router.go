package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-musica-api/internal/middleware"
	"github.com/noah-isme/escuela-musica-api/internal/models"
)

// RouterConfig carries the handlers mounted under the API prefix.
type RouterConfig struct {
	Prefix string
	// Auth, when set, requires a bearer token on every API route except login
	// and restricts account and role management to administrators.
	Auth middleware.TokenValidator

	AuthHandler        *AuthHandler
	TeacherHandler     *TeacherHandler
	UserHandler        *UserHandler
	SaleHandler        *SaleHandler
	CounterHandler     *CounterHandler
	RoleHandler        *RoleHandler
	BeneficiaryHandler *BeneficiaryHandler
	ClassroomHandler   *CatalogHandler[models.Classroom, models.ClassroomRequest]
	CourseHandler      *CatalogHandler[models.Course, models.CourseRequest]
	EnrollmentHandler  *CatalogHandler[models.EnrollmentType, models.EnrollmentTypeRequest]
	MetricsHandler     *MetricsHandler
}

// Register mounts every route of cfg on r.
func Register(r *gin.Engine, cfg RouterConfig) {
	if cfg.Prefix == "" {
		cfg.Prefix = "/api"
	}

	if cfg.MetricsHandler != nil {
		r.GET("/health", cfg.MetricsHandler.Health)
		r.GET("/ready", cfg.MetricsHandler.Ready)
		r.GET("/metrics", cfg.MetricsHandler.Prometheus)
	}

	api := r.Group(cfg.Prefix)
	if cfg.AuthHandler != nil {
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	protected := api.Group("")
	adminOnly := []gin.HandlerFunc{}
	adminOrSelf := []gin.HandlerFunc{}
	if cfg.Auth != nil {
		protected.Use(middleware.JWT(cfg.Auth))
		adminOnly = append(adminOnly, middleware.RequireRoles(models.TagAdmin))
		adminOrSelf = append(adminOrSelf, middleware.RequireRolesOrSelf(models.TagAdmin))
		if cfg.AuthHandler != nil {
			protected.GET("/auth/me", cfg.AuthHandler.Me)
		}
	}

	if h := cfg.TeacherHandler; h != nil {
		g := protected.Group("/profesores")
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/especialidad/:especialidad", h.ListBySpecialty)
		g.GET("/estado/:estado", h.ListByStatus)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.PATCH("/:id/estado", h.UpdateStatus)
		g.DELETE("/:id", h.Delete)
	}

	if h := cfg.UserHandler; h != nil {
		g := protected.Group("/usuarios")
		g.GET("", chain(adminOnly, h.List)...)
		g.POST("", chain(adminOnly, h.Create)...)
		g.GET("/:id", chain(adminOrSelf, h.Get)...)
		g.PUT("/:id", chain(adminOnly, h.Update)...)
		g.DELETE("/:id", chain(adminOnly, h.Delete)...)
	}

	if h := cfg.RoleHandler; h != nil {
		protected.GET("/roles", h.ListRoles)
		protected.GET("/roles/:id", h.GetRole)

		g := protected.Group("/usuarios_has_rol", adminOnly...)
		g.GET("", h.ListAssignments)
		g.POST("", h.CreateAssignment)
		g.GET("/usuario/:usuarioId", h.ListUserAssignments)
		g.DELETE("/usuario/:usuarioId", h.DeleteUserAssignments)
		g.DELETE("/:id", h.DeleteAssignment)
	}

	if h := cfg.SaleHandler; h != nil {
		g := protected.Group("/ventas")
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/next-consecutivo", h.NextSequence)
		g.GET("/export", h.Export)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.PATCH("/:id/anular", h.Cancel)
		g.DELETE("/:id", h.Delete)
	}

	if h := cfg.CounterHandler; h != nil {
		protected.PATCH("/contador/:tipo/incrementar", h.Increment)
	}

	if h := cfg.BeneficiaryHandler; h != nil {
		g := protected.Group("/beneficiarios")
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}

	if h := cfg.ClassroomHandler; h != nil {
		h.register(protected.Group("/aulas"))
	}
	if h := cfg.CourseHandler; h != nil {
		h.register(protected.Group("/cursos"))
	}
	if h := cfg.EnrollmentHandler; h != nil {
		h.register(protected.Group("/matriculas"))
	}
}

func chain(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	return append(append(out, guards...), h)
}
