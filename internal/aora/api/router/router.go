package router

import (
	"aora_backend/internal/aora/api/handlers"
	"aora_backend/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册用户与影片相关的路由
func RegisterRoutes(app *fiber.App, aoraHandler *handlers.AoraHandler) {
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	userRoutes := app.Group("/user")
	userRoutes.Post("/register", aoraHandler.Register)
	userRoutes.Post("/login", aoraHandler.Login)

	userRoutes.Use(middlewares.JWTMiddleware())
	userRoutes.Post("/logout", aoraHandler.Logout)
	userRoutes.Get("/me", aoraHandler.Me)

	videoRoutes := app.Group("/video", middlewares.JWTMiddleware())
	videoRoutes.Get("/", aoraHandler.GetAllPosts)
	videoRoutes.Get("/latest", aoraHandler.GetLatestPosts)
	videoRoutes.Get("/search", aoraHandler.SearchPosts)
	videoRoutes.Get("/user/:id", aoraHandler.GetUserPosts)
	videoRoutes.Post("/", aoraHandler.CreateVideoPost)
	videoRoutes.Delete("/:id", aoraHandler.DeletePost)

	app.Post("/upload", middlewares.JWTMiddleware(), aoraHandler.UploadFile)
}
