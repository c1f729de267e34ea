package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"strings"

	"mincerdash/app"
	"mincerdash/domain/wage"
	"mincerdash/internal"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// Server is the dashboard web server
type Server struct {
	router    *gin.Engine
	service   *app.DashboardService
	templates *template.Template
	logger    *internal.Logger
}

// NewServer parses the embedded templates and registers every route
func NewServer(service *app.DashboardService) (*Server, error) {
	s := &Server{
		router:  gin.New(),
		service: service,
		logger:  internal.DefaultLogger.With("ui"),
	}

	funcMap := template.FuncMap{
		"f2":    func(v float64) string { return formatFloat(v, 2) },
		"f3":    func(v float64) string { return formatFloat(v, 3) },
		"f4":    func(v float64) string { return formatFloat(v, 4) },
		"pct":   func(v float64) string { return formatFloat(v*100, 2) + "%" },
		"join":  strings.Join,
		"label": func(v wage.Variable) string { return v.Label() },
		"until": func(lo, hi int) []int {
			res := make([]int, 0, hi-lo+1)
			for i := lo; i <= hi; i++ {
				res = append(res, i)
			}
			return res
		},
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware and static assets
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.logger.Error("static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/dashboard", s.handleDashboard)
	api.GET("/exports", s.handleExports)

	export := s.router.Group("/export")
	export.GET("/report", s.handleExportReport)
	export.GET("/data", s.handleExportData)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting dashboard on http://%s", addr)
	return s.router.Run(addr)
}

func formatFloat(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}
