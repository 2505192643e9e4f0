package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"moneytracker/models"
	"moneytracker/pkg/apperr"
	"moneytracker/pkg/auth"
	"moneytracker/pkg/category"
	"moneytracker/pkg/config"
	"moneytracker/pkg/ledger"
	"moneytracker/pkg/logging"
	"moneytracker/pkg/stats"
	"moneytracker/pkg/store"

	"github.com/gin-gonic/gin"
)

// App holds every component a handler needs. It is built once in main.
type App struct {
	store      *store.Store
	users      *auth.Credentials
	guard      *auth.Guard
	categories *category.Resolver
	ledger     *ledger.Ledger
	stats      *stats.Service
	limiter    *loginLimiter
}

// newRouter builds the engine with the shared middleware stack. Forwarded
// headers are only honoured from cfg.TrustedProxies, so c.ClientIP() is the
// TCP peer unless a configured proxy sits in front.
func newRouter(cfg *config.Config, app *App, logger *slog.Logger) (*gin.Engine, error) {
	r := gin.New()
	var proxies []string
	if len(cfg.TrustedProxies) > 0 {
		proxies = cfg.TrustedProxies
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), logging.GinMiddleware(logger), corsMiddleware(cfg.CORSOrigins))
	setupRoutes(r, app)
	return r, nil
}

func setupRoutes(r *gin.Engine, app *App) {
	api := r.Group("/api")
	api.GET("/", rootHandler)
	api.GET("/health", app.healthHandler)
	api.POST("/auth/login", app.loginHandler)

	authGroup := api.Group("")
	authGroup.Use(authMiddleware(app.guard))
	authGroup.GET("/users/me", meHandler)
	authGroup.GET("/categories", app.listCategoriesHandler)
	authGroup.POST("/categories", app.createCategoryHandler)
	authGroup.GET("/transactions", app.listTransactionsHandler)
	authGroup.POST("/transactions", app.createTransactionHandler)
	authGroup.GET("/transactions/stats", app.statsHandler)
	authGroup.PUT("/transactions/:id", app.updateTransactionHandler)
	authGroup.DELETE("/transactions/:id", app.deleteTransactionHandler)

	admin := authGroup.Group("")
	admin.Use(requireSuperadmin())
	admin.POST("/auth/register", app.registerHandler)
	admin.GET("/users", app.listUsersHandler)
}

// respondError writes err as {"error": msg} with the status of its kind.
// Internal errors are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed", logging.FieldError, err)
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

func abortWithError(c *gin.Context, err error) {
	respondError(c, err)
	c.Abort()
}

// bindJSON decodes the body into v and reports malformed input as 422.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, apperr.New(apperr.Unprocessable, err.Error()))
		return false
	}
	return true
}

type userSummary struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func summaryOf(id auth.Identity) userSummary {
	return userSummary{ID: id.ID(), Username: id.Username(), Role: id.Role()}
}

func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Money Tracker API"})
}

func (a *App) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := a.store.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error("health check failed", logging.FieldError, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (a *App) loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	ip := c.ClientIP()
	if !a.limiter.Allow(ip) {
		respondError(c, apperr.New(apperr.TooManyRequests, "too many login attempts, try again later"))
		return
	}
	id, err := a.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.Unauthenticated {
			a.limiter.RecordFailure(ip)
			logging.FromContext(c.Request.Context()).Warn("login failed",
				"username", req.Username, logging.FieldClientIP, ip)
		}
		respondError(c, err)
		return
	}
	a.limiter.Reset(ip)

	token, err := a.guard.IssueToken(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         summaryOf(id),
	})
}

func (a *App) registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := a.users.Register(c.Request.Context(), req.Username, req.Password, role)
	if err != nil {
		respondError(c, err)
		return
	}
	logging.FromContext(c.Request.Context()).Info("user registered", "username", user.Username, "role", user.Role)
	c.JSON(http.StatusOK, gin.H{
		"message": "User created successfully",
		"user":    userSummary{ID: user.ID, Username: user.Username, Role: user.Role},
	})
}

func meHandler(c *gin.Context) {
	c.JSON(http.StatusOK, summaryOf(currentIdentity(c)))
}

func (a *App) listUsersHandler(c *gin.Context) {
	users, err := a.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *App) listCategoriesHandler(c *gin.Context) {
	cats, err := a.categories.VisibleTo(c.Request.Context(), currentIdentity(c).ID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (a *App) createCategoryHandler(c *gin.Context) {
	var req struct {
		Name string           `json:"name" binding:"required"`
		Type models.EntryType `json:"type" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	cat, err := a.categories.Create(c.Request.Context(), currentIdentity(c).ID(), req.Name, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (a *App) listTransactionsHandler(c *gin.Context) {
	txs, err := a.ledger.List(c.Request.Context(), currentIdentity(c).ID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (a *App) createTransactionHandler(c *gin.Context) {
	var req struct {
		Type        models.EntryType `json:"type" binding:"required"`
		CategoryID  string           `json:"category_id" binding:"required"`
		Amount      *float64         `json:"amount" binding:"required"`
		Description *string          `json:"description"`
		Date        string           `json:"date" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	t, err := a.ledger.Create(c.Request.Context(), currentIdentity(c).ID(), ledger.NewTransaction{
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Amount:      *req.Amount,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (a *App) updateTransactionHandler(c *gin.Context) {
	var req struct {
		Type        *models.EntryType `json:"type"`
		CategoryID  *string           `json:"category_id"`
		Amount      *float64          `json:"amount"`
		Description *string           `json:"description"`
		Date        *string           `json:"date"`
	}
	if !bindJSON(c, &req) {
		return
	}
	t, err := a.ledger.Update(c.Request.Context(), currentIdentity(c).ID(), c.Param("id"), ledger.Patch{
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (a *App) deleteTransactionHandler(c *gin.Context) {
	if err := a.ledger.Delete(c.Request.Context(), currentIdentity(c).ID(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

func (a *App) statsHandler(c *gin.Context) {
	s, err := a.stats.Summarize(c.Request.Context(), currentIdentity(c).ID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
