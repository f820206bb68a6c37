package main

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/go-pkgz/lgr"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/seojun-park/naverboard/api/handlers"
	"github.com/seojun-park/naverboard/internal/cache"
	"github.com/seojun-park/naverboard/internal/config"
	"github.com/seojun-park/naverboard/internal/services"
	"github.com/seojun-park/naverboard/internal/session"
	"github.com/seojun-park/naverboard/web"
)

func main() {
	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("[INFO] shutdown signal received")
		cancel()
	}()

	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] no .env file found, using environment variables")
	}

	logOpts := []log.Option{log.Msec, log.LevelBraces}
	if os.Getenv("DEBUG") != "" {
		logOpts = append(logOpts, log.Debug)
	}
	log.Setup(logOpts...)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ERROR] cannot load configuration: %v", err)
	}
	if _, err := cfg.Credentials(); err != nil {
		log.Printf("[WARN] naver api credentials not configured; remote calls will fail until they are supplied")
	}

	responseCache, closeCache := cache.New(cfg)
	defer closeCache()

	searchClient := services.NewSearchClient(responseCache, cfg.CacheTTL)
	dataLabClient := services.NewDataLabClient(responseCache, cfg.CacheTTL)

	sessions := session.NewStore(cfg.SessionTTL)
	sweeper := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := sweeper.AddFunc("@every 10m", func() {
		if removed := sessions.Sweep(); removed > 0 {
			log.Printf("[INFO] evicted %d idle sessions, %d live", removed, sessions.Len())
		}
	}); err != nil {
		log.Fatalf("[ERROR] cannot schedule session sweep: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	handler := handlers.New(cfg, searchClient, dataLabClient, sessions)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.FS, "templates/*.html")))

	r.GET("/", sessions.Middleware(), handler.HandleIndex)

	api := r.Group("/api", sessions.Middleware())
	{
		api.POST("/search/blog", handler.HandleBlogSearch)
		api.POST("/search/cafe", handler.HandleCafeSearch)
		api.GET("/search/local", handler.HandleLocalSearch)

		api.POST("/trend", handler.HandleTrend)
		api.POST("/shopping/categories", handler.HandleShoppingCategories)
		api.POST("/shopping/keywords", handler.HandleShoppingKeywords)

		api.GET("/export/blog.csv", handler.HandleExportBlog)
		api.GET("/export/cafe.csv", handler.HandleExportCafe)
		api.GET("/export/local.csv", handler.HandleExportLocal)
		api.POST("/export/trend.csv", handler.HandleExportTrend)

		api.POST("/session/credentials", handler.HandleSetCredentials)
		api.GET("/health", handler.HandleHealth)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[ERROR] failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	log.Printf("[INFO] shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("[ERROR] server shutdown error: %v", err)
	}
	log.Printf("[INFO] server gracefully stopped")
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[INFO] %s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
