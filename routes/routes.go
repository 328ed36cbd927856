package routes

import (
	"github.com/campus-sports/intramural-portal/handlers"
	"github.com/campus-sports/intramural-portal/middleware"
	"github.com/campus-sports/intramural-portal/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes wires the portal's endpoints onto the router. Admin
// resources require the ADMIN role; the feed, student events, and the
// student dashboard accept any authenticated user.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	eventHandler *handlers.EventHandler,
	postHandler *handlers.PostHandler,
	participantHandler *handlers.ParticipantHandler,
	dashboardHandler *handlers.DashboardHandler,
	feedWSHandler *handlers.FeedWebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	authenticate := middleware.Authenticate(jwtSecret)

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin))

		r.Get("/dashboard", dashboardHandler.AdminDashboard)
		r.Get("/users", userHandler.ListStudents)

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.ListTeams)
			r.Post("/", teamHandler.CreateTeam)
			r.Put("/", teamHandler.UpdateTeam)
			r.Delete("/", teamHandler.DeleteTeam)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.Post("/", eventHandler.CreateEvent)
			r.Put("/", eventHandler.UpdateEvent)
			r.Delete("/", eventHandler.DeleteEvent)
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", postHandler.ListAnnouncements)
			r.Post("/", postHandler.CreatePost)
			r.Put("/", postHandler.UpdatePost)
			r.Delete("/", postHandler.DeletePost)
		})
	})

	router.Route("/student", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin, models.RoleStudent))

		r.Get("/dashboard", dashboardHandler.StudentDashboard)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", participantHandler.ListStudentEvents)
			r.Post("/", participantHandler.JoinEvent)
			r.Delete("/", participantHandler.WithdrawFromEvent)
		})
	})

	router.Route("/feed", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin, models.RoleStudent))

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.ListFeed)
			r.Post("/", postHandler.CreatePost)
			r.Put("/", postHandler.UpdatePost)
			r.Delete("/", postHandler.DeletePost)
			r.Post("/{postID}/image", postHandler.UploadPostImage)
		})

		r.Get("/live", feedWSHandler.Subscribe)
	})
}
