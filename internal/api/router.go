// Package api exposes rollbook over HTTP with gin.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rollbook/internal/accounts"
	"rollbook/internal/attendance"
	"rollbook/internal/auth"
	"rollbook/internal/httpmiddleware"
	"rollbook/internal/metrics"
	"rollbook/internal/queue"
	"rollbook/internal/tenant"
)

// Deps are the services the handlers call.
type Deps struct {
	Accounts   *accounts.Service
	Codes      *tenant.Registry
	Attendance *attendance.Service
	Issuer     *auth.Issuer
	Queue      queue.Queue
	Log        *zap.Logger

	// Health reports dependency status for /healthz; nil means always healthy.
	Health          func(ctx context.Context) map[string]bool
	RateLimitPerMin int
	AllowOrigins    []string

	// PublishTimeout bounds how long a saved submission waits on the queue.
	PublishTimeout time.Duration
}

type handlers struct {
	Deps
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.PublishTimeout <= 0 {
		d.PublishTimeout = 2 * time.Second
	}
	if d.RateLimitPerMin <= 0 {
		d.RateLimitPerMin = 30
	}
	if len(d.AllowOrigins) == 0 {
		d.AllowOrigins = []string{"*"}
	}
	h := &handlers{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(d.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins: d.AllowOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
	r.Use(securityHeaders())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/healthz", h.healthz)

	// Routes open to anonymous callers ignore any bearer token, so a stale
	// token never blocks logging in again.
	public := r.Group("/v1")
	public.GET("/attendance", h.viewAttendance)

	login := public.Group("", httpmiddleware.NewTokenBucket(d.RateLimitPerMin, d.RateLimitPerMin).GinMiddleware())
	login.POST("/signup", h.signup)
	login.POST("/login", h.login)
	login.POST("/admin/login", h.adminLogin)

	v1 := r.Group("/v1", auth.SessionAuth(d.Issuer))

	user := v1.Group("", auth.RequireUser())
	user.GET("/students", h.listStudents)
	user.POST("/students", h.addStudent)
	user.GET("/subjects", h.listSubjects)
	user.POST("/subjects", h.addSubject)
	user.GET("/timetable", h.getTimetable)
	user.PUT("/timetable/:day", h.setTimetable)
	user.GET("/timetable/for/:date", h.timetableFor)
	user.GET("/holidays", h.listHolidays)
	user.POST("/holidays", h.addHoliday)
	user.POST("/attendance", h.submitAttendance)
	user.GET("/attendance/export.csv", h.exportCSV)
	user.GET("/attendance/export.xlsx", h.exportXLSX)

	admin := v1.Group("/admin", auth.RequireAdmin())
	admin.GET("/codes", h.listCodes)
	admin.POST("/codes", h.addCode)
	admin.DELETE("/codes/:code", h.removeCode)
	admin.PUT("/institution", h.setInstitution)

	return r
}

func (h *handlers) healthz(c *gin.Context) {
	checks := map[string]bool{}
	if h.Health != nil {
		checks = h.Health(c.Request.Context())
	}
	status := http.StatusOK
	for _, ok := range checks {
		if !ok {
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
}
