package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vinecunha/riscae/internal/config"
	"github.com/vinecunha/riscae/internal/handler"
	"github.com/vinecunha/riscae/internal/infra"
	"github.com/vinecunha/riscae/internal/middleware"
	"github.com/vinecunha/riscae/internal/repository"
	"github.com/vinecunha/riscae/internal/service"
	"github.com/vinecunha/riscae/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	cb *infra.CircuitBreaker,
	publisher *worker.PricePublisher,
	dispatcher *worker.Dispatcher,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	entitlement := infra.NewEntitlementClient(cfg.EntitlementURL, cfg.EntitlementName)

	// ── Repositories ─────────────────────────────────────────────────────────
	listRepo := repository.NewListRepository(db)
	itemRepo := repository.NewItemRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	indexRepo := repository.NewPriceIndexRepository(db, rdb)
	backupRepo := repository.NewBackupRepository(db)
	dictRepo := repository.NewDictionaryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	hint := decimal.NewFromFloat(cfg.SavingsUnpricedHint)

	cartSvc := service.NewCartService(listRepo, itemRepo, historyRepo)
	savingsSvc := service.NewSavingsService(listRepo, itemRepo, historyRepo, indexRepo, publisher, entitlement, hint)
	syncSvc := service.NewSyncService(listRepo, itemRepo, historyRepo, backupRepo, rdb, entitlement, publisher)
	shareSvc := service.NewShareService(listRepo, itemRepo)
	suggestionSvc := service.NewSuggestionService(dictRepo, indexRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	listsH := handler.NewListsHandler(cartSvc)
	itemsH := handler.NewItemsHandler(cartSvc)
	savingsH := handler.NewSavingsHandler(savingsSvc)
	historyH := handler.NewHistoryHandler(cartSvc, historyRepo, dispatcher, cfg.PDFStoragePath)
	syncH := handler.NewSyncHandler(syncSvc)
	shareH := handler.NewShareHandler(shareSvc)
	suggestionsH := handler.NewSuggestionsHandler(suggestionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, cb))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		lists := v1.Group("/lists")
		{
			lists.POST("", listsH.Create)
			lists.GET("", listsH.List)
			lists.GET("/:id", listsH.Get)
			lists.PATCH("/:id", listsH.Rename)
			lists.DELETE("/:id", listsH.Delete)

			lists.POST("/:id/items", itemsH.Add)
			lists.GET("/:id/savings", savingsH.GetSavings)
			lists.GET("/:id/intelligence", savingsH.GetIntelligence)
			lists.POST("/:id/finalize", savingsH.Finalize)
			lists.GET("/:id/share-code", shareH.Export)
		}

		items := v1.Group("/items")
		{
			items.PATCH("/:id/confirm", itemsH.Confirm)
			items.PATCH("/:id/reopen", itemsH.Reopen)
			items.DELETE("/:id", itemsH.Remove)
		}

		history := v1.Group("/history")
		{
			history.GET("", historyH.List)
			history.DELETE("", historyH.Clear)
			history.DELETE("/:id", historyH.Delete)
			history.POST("/:id/duplicate", historyH.Duplicate)
			history.GET("/:id/receipt", historyH.Receipt)
		}

		sync := v1.Group("/sync", middleware.SyncRateLimiter())
		{
			sync.POST("/push", syncH.Push)
			sync.POST("/pull", syncH.Pull)
		}

		v1.POST("/import", shareH.Import)
		v1.GET("/suggestions", suggestionsH.Suggest)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
