package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"stashly/internal/config"
	"stashly/internal/database"
	"stashly/internal/handlers"
	"stashly/internal/logger"
	"stashly/internal/middleware"
	"stashly/internal/services"
	"stashly/internal/validator"

	_ "stashly/internal/docs" // Import swagger docs
)

// @title           Stashly API
// @version         1.0
// @description     Stashly is a personal finance application that tracks expenses, savings goals, budgets, streaks, and challenges, and generates deterministic saving tips and advice.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	expenseService := services.NewExpenseService(db)
	goalService := services.NewGoalService(db)
	budgetService := services.NewBudgetService(db)
	incomeService := services.NewIncomeService(db)
	projectionService := services.NewProjectionService()
	streakService := services.NewStreakService(db)
	challengeService := services.NewChallengeService(db)
	advisorService := services.NewAdvisorService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	incomeHandler := handlers.NewIncomeHandler(incomeService, auditService)
	projectionHandler := handlers.NewProjectionHandler(projectionService)
	streakHandler := handlers.NewStreakHandler(streakService, auditService)
	challengeHandler := handlers.NewChallengeHandler(challengeService, auditService)
	advisorHandler := handlers.NewAdvisorHandler(advisorService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contribute", goalHandler.Contribute)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	// Income routes
	income := protected.Group("/income")
	income.POST("", incomeHandler.CreateIncome)
	income.GET("", incomeHandler.GetIncomes)
	income.DELETE("/:id", incomeHandler.DeleteIncome)

	// Projection routes
	projections := protected.Group("/projections")
	projections.POST("", projectionHandler.Project)

	// Streak routes
	streaks := protected.Group("/streaks")
	streaks.GET("", streakHandler.GetStreak)
	streaks.POST("/activity", streakHandler.RecordActivity)
	streaks.GET("/badges", streakHandler.GetBadges)

	// Challenge routes
	challenges := protected.Group("/challenges")
	challenges.POST("", challengeHandler.CreateChallenge)
	challenges.GET("", challengeHandler.GetChallenges)
	challenges.GET("/:id", challengeHandler.GetChallenge)
	challenges.POST("/evaluate", challengeHandler.EvaluateChallenges)

	// Advisor routes
	advisor := protected.Group("/advisor")
	advisor.GET("/tips", advisorHandler.GetTips)
	advisor.POST("/tips/generate", advisorHandler.GenerateTips)
	advisor.GET("/advice", advisorHandler.GetAdvice)

	log.Infof("Starting Stashly backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
