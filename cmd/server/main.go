package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/halofit/halo-be/internal/api"
	"github.com/halofit/halo-be/internal/api/middleware"
	"github.com/halofit/halo-be/internal/chat"
	"github.com/halofit/halo-be/internal/classifier"
	"github.com/halofit/halo-be/internal/prompt"
	"github.com/halofit/halo-be/internal/schedule"
	"github.com/halofit/halo-be/internal/store"
	"github.com/halofit/halo-be/internal/suggest"
	"github.com/halofit/halo-be/internal/ws"
	"github.com/halofit/halo-be/pkg/deepseek"
	"github.com/halofit/halo-be/pkg/gcal"
	"github.com/halofit/halo-be/pkg/gemini"
	"github.com/halofit/halo-be/pkg/llm"
	"github.com/halofit/halo-be/pkg/weather"
	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Get configuration from environment
	port := getEnv("PORT", "8080")
	databaseURL := getEnv("DATABASE_URL", "")
	deepseekAPIKey := getEnv("DEEPSEEK_API_KEY", "")
	geminiAPIKey := getEnv("GEMINI_API_KEY", "")
	weatherAPIKey := getEnv("OPENWEATHER_API_KEY", "")
	weatherCity := getEnv("WEATHER_CITY", "")
	scheduleCSV := getEnv("SCHEDULE_CSV", "")

	// Storage: Postgres when configured, in-memory otherwise
	var dataStore store.Store
	if databaseURL != "" {
		pg, err := store.OpenURL(databaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		dataStore = pg
		log.Println("✅ Database connected")
	} else {
		dataStore = store.NewMemory()
		log.Println("⚠️  DATABASE_URL not set, using in-memory store")
	}
	defer dataStore.Close()

	// Generative model: optional, chat degrades to rule-based without it
	var llmClient llm.Client
	if deepseekAPIKey != "" {
		llmClient = deepseek.NewHTTPClient(deepseek.Config{APIKey: deepseekAPIKey})
		log.Println("✅ DeepSeek client initialized")
	} else {
		log.Println("⚠️  DEEPSEEK_API_KEY not set, running rule-based only")
	}

	// Vision model: optional, stub estimates without it
	var estimator gemini.Client
	if geminiAPIKey != "" {
		estimator = gemini.NewHTTPClient(gemini.Config{APIKey: geminiAPIKey})
		log.Println("✅ Gemini vision client initialized")
	} else {
		estimator = gemini.NewStubClient()
		log.Println("⚠️  GEMINI_API_KEY not set, calorie estimates are stubbed")
	}

	// Core components
	catalog := schedule.NewCatalog(scheduleCSV)
	advisor := weather.NewService(weather.Config{APIKey: weatherAPIKey, City: weatherCity})
	generator := suggest.NewGenerator(catalog, advisor)
	chatEngine := chat.NewEngine(
		classifier.NewClassifier(),
		generator,
		prompt.NewBuilder(),
		llmClient,
		catalog,
	)

	// Handlers
	chatHandler := api.NewChatHandler(chatEngine)
	classesHandler := api.NewClassesHandler(generator)
	plannerHandler := api.NewPlannerHandler(dataStore)
	workoutsHandler := api.NewWorkoutsHandler(dataStore)
	calendarHandler := api.NewCalendarHandler(gcal.NewClient())
	calorieHandler := api.NewCalorieHandler(estimator)
	wsHandler := ws.NewChatHandler(chatEngine)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.PerIP(100.0/60.0, 200)) // ~100 req/min per IP

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "Halo API",
			"version": version,
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/chat", chatHandler.Chat)
		apiGroup.GET("/classes", classesHandler.List)

		apiGroup.POST("/planner/save", plannerHandler.Save)
		apiGroup.GET("/planner/:date", plannerHandler.Get)
		apiGroup.POST("/planner/email", plannerHandler.Email)

		apiGroup.POST("/workouts/log", workoutsHandler.Log)
		apiGroup.GET("/workouts/summary", workoutsHandler.Summary)

		apiGroup.POST("/calendar/add", calendarHandler.AddEvent)
		apiGroup.POST("/calorie/estimate", calorieHandler.Estimate)
	}

	router.GET("/ws/chat", wsHandler.HandleChat)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", port)
		log.Printf("📝 API endpoints:")
		log.Printf("   POST   /api/chat")
		log.Printf("   GET    /api/classes")
		log.Printf("   POST   /api/planner/save")
		log.Printf("   GET    /api/planner/:date")
		log.Printf("   POST   /api/planner/email")
		log.Printf("   POST   /api/workouts/log")
		log.Printf("   GET    /api/workouts/summary")
		log.Printf("   POST   /api/calendar/add")
		log.Printf("   POST   /api/calorie/estimate")
		log.Printf("   WS     /ws/chat")
		log.Printf("")
		log.Printf("Press Ctrl+C to stop")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
