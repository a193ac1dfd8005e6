package routes

import (
	"flashlingo/backend/config"
	"flashlingo/backend/controllers"
	"flashlingo/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Public share links
	attemptsController := controllers.NewAttemptsController(db, cfg)
	app.Get("/api/share/:token", attemptsController.GetShared)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Language routes
	languagesController := controllers.NewLanguagesController(db, cfg)
	app.Get("/api/languages", authMiddleware, languagesController.GetLanguages)
	app.Get("/api/languages/:id/categories", authMiddleware, languagesController.GetCategories)

	// Category routes
	categoriesController := controllers.NewCategoriesController(db, cfg)
	app.Get("/api/categories/:id/cards", authMiddleware, categoriesController.GetCards)

	// Card submission (the scoring/progress/unlock path)
	cardsController := controllers.NewCardsController(db, cfg)
	app.Post("/api/cards/:id/submit", authMiddleware, cardsController.Submit)

	// Legacy spaced-repetition routes
	reviewController := controllers.NewReviewController(db, cfg)
	app.Get("/api/review/due", authMiddleware, reviewController.GetDueCards)
	app.Post("/api/review/cards/:id", authMiddleware, reviewController.SubmitReview)

	// Attempt routes
	app.Get("/api/attempts", authMiddleware, attemptsController.GetAttempts)
	app.Post("/api/attempts/:attemptId/share", authMiddleware, attemptsController.Share)

	// Leaderboard
	leaderboardController := controllers.NewLeaderboardController(db, cfg)
	app.Get("/api/leaderboard", authMiddleware, leaderboardController.GetLeaderboard)

	// Admin routes for languages
	adminLanguages := app.Group("/api/admin/languages", authMiddleware, adminMiddleware)
	adminLanguages.Post("/", languagesController.CreateLanguage)
	adminLanguages.Put("/:id", languagesController.UpdateLanguage)
	adminLanguages.Delete("/:id", languagesController.DeleteLanguage)

	// Admin routes for categories
	adminCategories := app.Group("/api/admin/categories", authMiddleware, adminMiddleware)
	adminCategories.Post("/", categoriesController.CreateCategory)
	adminCategories.Put("/reorder", categoriesController.Reorder)
	adminCategories.Put("/:id", categoriesController.UpdateCategory)
	adminCategories.Delete("/:id", categoriesController.DeleteCategory)

	// Admin routes for words
	wordsController := controllers.NewWordsController(db, cfg)
	app.Get("/api/words", authMiddleware, wordsController.GetWords)
	adminWords := app.Group("/api/admin/words", authMiddleware, adminMiddleware)
	adminWords.Post("/", wordsController.CreateWord)
	adminWords.Post("/import", wordsController.ImportWords)
	adminWords.Put("/:id", wordsController.UpdateWord)
	adminWords.Delete("/:id", wordsController.DeleteWord)

	// Admin routes for cards
	adminCards := app.Group("/api/admin/cards", authMiddleware, adminMiddleware)
	adminCards.Post("/", cardsController.CreateCard)
	adminCards.Delete("/:id", cardsController.DeleteCard)
}
