package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"

	_ "aiinterviewer/docs"
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/service"
	"aiinterviewer/internal/transport/rest/handler"
	"aiinterviewer/internal/transport/rest/middleware"
	"aiinterviewer/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	TemplateService  *service.TemplateService
	InterviewService *service.InterviewService
	Health           handler.HealthChecker
	WSHub            *ws.Hub
	Server           config.ServerConfig
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	templateHandler := handler.NewTemplateHandler(c.TemplateService)
	interviewHandler := handler.NewInterviewHandler(c.InterviewService)
	healthHandler := handler.NewHealthHandler(c.Health)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.InterviewService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Server))

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/swagger/doc.json", swaggerDoc).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/interviews", interviewHandler.Start).Methods("POST", "OPTIONS")

	// WebSocket routes (researcher token in query param)
	v1.HandleFunc("/ws/interviews/{sessionId}/watch", wsHandler.WatchWS).Methods("GET")

	// Researcher routes
	researcherRoutes := v1.NewRoute().Subrouter()
	researcherRoutes.Use(authMW.RequireResearcher)

	researcherRoutes.HandleFunc("/templates", templateHandler.Create).Methods("POST", "OPTIONS")
	researcherRoutes.HandleFunc("/templates", templateHandler.List).Methods("GET", "OPTIONS")
	researcherRoutes.HandleFunc("/templates/{templateId}", templateHandler.Get).Methods("GET", "OPTIONS")
	researcherRoutes.HandleFunc("/interviews/{sessionId}/summary", interviewHandler.Summary).Methods("GET", "OPTIONS")
	researcherRoutes.HandleFunc("/interviews/{sessionId}/transcript", interviewHandler.Transcript).Methods("GET", "OPTIONS")

	// Respondent routes (session-scoped token)
	respondentRoutes := v1.NewRoute().Subrouter()
	respondentRoutes.Use(authMW.RequireRespondent)

	respondentRoutes.HandleFunc("/interviews/{sessionId}/messages", interviewHandler.Message).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/interviews/{sessionId}/end", interviewHandler.End).Methods("POST", "OPTIONS")

	return r
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, `{"error":"api doc unavailable"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func corsMiddleware(cfg config.ServerConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", orDefault(cfg.AllowedOrigins, "*"))
			w.Header().Set("Access-Control-Allow-Methods", orDefault(cfg.AllowedMethods, "GET, POST, PUT, DELETE, OPTIONS"))
			w.Header().Set("Access-Control-Allow-Headers", orDefault(cfg.AllowedHeaders, "Content-Type, Authorization"))

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
