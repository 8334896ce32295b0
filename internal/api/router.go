package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"equipment-dashboard/internal/mw"
	"equipment-dashboard/internal/probe"
)

// RouterOptions configures the HTTP surface.
type RouterOptions struct {
	// AllowedOrigins enables CORS for JSON consumers on other origins.
	AllowedOrigins []string
	Cookie         mw.CookieOptions
	// LoginLimiter throttles POST /login per client IP.
	LoginLimiter *mw.KeyedLimiter
	// Probe, when set, adds the backend status to /healthz.
	Probe *probe.Service
}

// Route is one registered endpoint, listed by `dashboardd routes`.
type Route struct {
	Method string
	Path   string
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, opts RouterOptions) (*gin.Engine, error) {
	r := gin.Default()

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", GetHealth(opts.Probe))

	app := r.Group("/")
	app.Use(mw.Session(h.sessions, opts.Cookie), mw.Guard())
	{
		app.GET("/", h.GetHome)
		app.GET("/login", h.GetLogin)
		if opts.LoginLimiter != nil {
			app.POST("/login", mw.RateLimiter(opts.LoginLimiter), h.PostLogin)
		} else {
			app.POST("/login", h.PostLogin)
		}
		app.POST("/logout", h.PostLogout)

		app.GET("/dashboard", h.GetDashboard)

		app.GET("/equipments", h.GetEquipments)
		app.POST("/equipments/new", h.PostEquipment)
		app.POST("/equipments/:id/request", h.PostLoanRequest)
		app.POST("/equipments/manage/:id", h.PostEquipmentUpdate)
		app.POST("/equipments/manage/:id/delete", h.PostEquipmentDelete)

		app.GET("/loans", h.GetLoans)
		app.POST("/loans", h.PostLoan)
		app.POST("/loans/:id/:action", h.PostLoanAction)

		app.GET("/history", h.GetHistory)

		app.GET("/users", h.GetUsers)
		app.POST("/users", h.PostUser)
		app.POST("/users/:id/edit", h.PostUserUpdate)
		app.POST("/users/:id/delete", h.PostUserDelete)

		app.GET("/alerts", h.GetAlerts)
		app.POST("/alerts/new", h.PostAlert)
	}

	return r, nil
}

// Routes lists the registered endpoints of r.
func Routes(r *gin.Engine) []Route {
	infos := r.Routes()
	out := make([]Route, 0, len(infos))
	for _, ri := range infos {
		out = append(out, Route{Method: ri.Method, Path: ri.Path})
	}
	return out
}
