package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/moneyflow/moneyflow-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, reportLimiter *middleware.RateLimiter, authHandler *AuthHandler, walletHandler *WalletHandler, transactionHandler *TransactionHandler, categoryHandler *CategoryHandler, labelHandler *LabelHandler, budgetHandler *BudgetHandler, reportHandler *ReportHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// The callback runs before the local user exists
	api.POST("/auth/callback", authHandler.Callback, authMiddleware.AuthenticateIdentity())

	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	wallets := api.Group("/wallets")
	wallets.Use(authMiddleware.Authenticate())
	wallets.POST("", walletHandler.CreateWallet)
	wallets.GET("", walletHandler.GetWallets)
	wallets.GET("/:id", walletHandler.GetWallet)
	wallets.PATCH("/:id", walletHandler.UpdateWallet)
	wallets.DELETE("/:id", walletHandler.DeleteWallet)
	wallets.POST("/:id/recompute", walletHandler.RecomputeBalance)

	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.PUT("/:id/icon", categoryHandler.UploadIcon)
	categories.DELETE("/:id/icon", categoryHandler.DeleteIcon)

	labels := api.Group("/labels")
	labels.Use(authMiddleware.Authenticate())
	labels.POST("", labelHandler.CreateLabel)
	labels.GET("", labelHandler.GetLabels)
	labels.PATCH("/:id", labelHandler.UpdateLabel)
	labels.DELETE("/:id", labelHandler.DeleteLabel)

	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate())
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PATCH("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetProgress)

	// Reports are rate limited per user
	reports := api.Group("/reports")
	reports.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(reportLimiter))
	reports.GET("/spending-flow", reportHandler.SpendingFlow)
	reports.GET("/spending-flow/chart", reportHandler.SpendingFlowChart)
	reports.GET("/category-breakdown", reportHandler.CategoryBreakdown)
}
