package main

import (
	"errors"
	"log"
	"net/http"
	"os"

	"validea/config"
	"validea/middlewares"
	"validea/routes"
	"validea/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./config/config.yml"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "validea",
		Short:         "Startup idea evaluation relay",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to YAML config file")

	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newEvaluateCommand(&configPath))
	return root
}

// loadConfig reads the YAML file at path. The default path may be absent, in
// which case defaults and environment variables are used.
func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return nil, err
	}
	if os.Getenv("APP_ENV") != "production" {
		log.Printf("%s API key loaded: %v", cfg.Upstream.Provider, cfg.APIKeyLoaded())
	}
	return cfg, nil
}

func setupRouter(cfg *config.Config, ev routes.Evaluator, limiter middlewares.Limiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// The rate limiter keys on ClientIP, so only configured proxies may set it.
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Printf("Invalid trusted proxies, using connection peer only: %v", err)
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	router.GET("/healthz", routes.HealthzRouteHandler)
	router.POST("/evaluate",
		middlewares.RateLimitMiddleware(limiter, services.MsgTooManyRequests),
		routes.EvaluateRouteHandler(ev),
	)

	return router
}
