package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/benkyoapp/nihongo-api/internal/api"
	apiMiddleware "github.com/benkyoapp/nihongo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.learnerStore,
		app.jwtService,
		app.passwordVerifier,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	profileHandler := api.NewProfileHandler(app.progressService, app.logger)
	quizHandler := api.NewQuizHandler(app.progressService, app.logger)
	achievementHandler := api.NewAchievementHandler(app.progressService, app.logger)
	contentHandler := api.NewContentHandler()

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Study content endpoints (public)
		r.Get("/content/hiragana", contentHandler.GetHiragana)
		r.Get("/content/katakana", contentHandler.GetKatakana)
		r.Get("/content/kanji", contentHandler.GetKanji)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Profile endpoints
			r.Get("/profile", profileHandler.GetProfile)
			r.Get("/profile/summary", profileHandler.GetSummary)
			r.Post("/profile/onboarding", profileHandler.CompleteOnboarding)
			r.Post("/profile/reset", profileHandler.ResetProfile)

			// Quiz and review endpoints
			r.Post("/quiz/results", quizHandler.SubmitResults)
			r.Get("/reviews/due", profileHandler.GetDueReviews)

			// Achievement endpoints
			r.Get("/achievements", achievementHandler.ListAchievements)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
