package routes

import (
	"github.com/julienschmidt/httprouter"

	"zayro/admin"
	"zayro/auth"
	"zayro/careers"
	"zayro/console"
	"zayro/health"
	"zayro/ratelim"
)

// Deps is everything the handlers are built from.
type Deps struct {
	Careers      *careers.Handler
	Admin        *admin.Handler
	Auth         *auth.Handler
	Console      *console.Handler
	Health       *health.Service
	RequireAuth  func(httprouter.Handle) httprouter.Handle
	// ApplyLimiter and LoginLimiter keep separate per-IP buckets.
	ApplyLimiter *ratelim.RateLimiter
	LoginLimiter *ratelim.RateLimiter
}

func RoutesWrapper(router *httprouter.Router, d Deps) {
	AddHealthRoutes(router, d)
	AddCareersRoutes(router, d)
	AddAuthRoutes(router, d)
	AddAdminRoutes(router, d)
	AddConsoleRoutes(router, d)
}

func AddHealthRoutes(router *httprouter.Router, d Deps) {
	router.GET("/health", d.Health.Live)
	router.GET("/ready", d.Health.ReadyHandler)
}

func AddCareersRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/careers/jobs", d.Careers.ListOpen)
	router.GET("/api/careers/jobs/:id", d.Careers.GetJob)
	router.POST("/api/careers/jobs/:id/applications", d.ApplyLimiter.Limit(d.Careers.Apply))
	router.GET("/api/careers/jobs/:id/flyer.pdf", d.Careers.Flyer)
	router.GET("/api/careers/jobs/:id/qr.png", d.Careers.QRCode)
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/auth/login", d.LoginLimiter.Limit(d.Auth.Login))
	router.POST("/api/auth/logout", d.RequireAuth(d.Auth.Logout))
	router.GET("/api/auth/session", d.RequireAuth(d.Auth.Current))
}

func AddAdminRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/admin/jobs", d.RequireAuth(d.Admin.GetJobs))
	router.POST("/api/admin/jobs", d.RequireAuth(d.Admin.CreateJob))
	router.PUT("/api/admin/jobs/:id", d.RequireAuth(d.Admin.UpdateJob))
	router.DELETE("/api/admin/jobs/:id", d.RequireAuth(d.Admin.DeleteJob))
	router.GET("/api/admin/applications", d.RequireAuth(d.Admin.GetApplications))
	router.DELETE("/api/admin/applications/:id", d.RequireAuth(d.Admin.DeleteApplication))
	router.GET("/api/admin/exports/applications.pdf", d.RequireAuth(d.Admin.ExportApplications))
}

// AddConsoleRoutes registers the console socket. It authenticates through its
// own sign-in flow, so it is not wrapped in RequireAuth.
func AddConsoleRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/admin/console", d.Console.Serve)
}
