package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stellarwrite/blog-backend/internal/database"
	"github.com/stellarwrite/blog-backend/internal/handlers"
	"github.com/stellarwrite/blog-backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Ensure the schema (with its cascade rules) exists before GORM connects
	rawDB, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := rawDB.Initialize(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	rawDB.Close()

	dbService := database.New()
	handler := handlers.NewHandler(dbService.GetDB())

	// Create server instance
	newServer := &Server{
		db:      dbService,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoints
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/db", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)
		api.POST("/auth/google", s.handler.Auth.GoogleLogin)

		// Post routes (public reads)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/:id", s.handler.Post.GetPost)
		api.GET("/posts/slug/:slug", s.handler.Post.GetPostBySlug)

		// Category routes (public reads)
		api.GET("/categories", s.handler.Category.GetCategories)
		api.GET("/categories/:id", s.handler.Category.GetCategory)

		// User routes (public reads)
		api.GET("/users/:id", s.handler.User.GetUserProfile)
		api.GET("/users/:id/posts/count", s.handler.User.GetUserPostsCount)

		// AI routes
		api.GET("/ai/suggest-categories", s.handler.AI.SuggestCategories)
		api.POST("/ai/summarize", s.handler.AI.SummarizePost)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)

			// Post protected routes
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)

			// Category protected routes
			protected.POST("/categories", s.handler.Category.CreateCategory)
			protected.PUT("/categories/:id", s.handler.Category.UpdateCategory)
			protected.DELETE("/categories/:id", s.handler.Category.DeleteCategory)

			// User protected routes
			protected.PATCH("/users/profile", s.handler.User.UpdateProfile)
		}
	}

	return r
}
