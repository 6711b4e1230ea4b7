package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aiwis-cl/portal-core/internal/common/config"
	"github.com/aiwis-cl/portal-core/internal/proxy"
	"github.com/aiwis-cl/portal-core/pkg/logger"
	"github.com/aiwis-cl/portal-core/pkg/version"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sqlproxy",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sqlproxy version %s\n", version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "sqlproxy",
		Short: "Reference SQL execution proxy for the portal",
		Long:  `Accepts {query, params, config} envelopes from the portal and runs them against the configured database providers`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "configs/sqlproxy.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

func run() {
	cfg, err := config.LoadConfig[config.ProxyConfig](configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	executor := proxy.NewExecutor(zl, cfg.Providers)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	// The portal posts to whatever proxyUrl it was given, so serve the
	// endpoint on both the root and a named path.
	r.POST("/", executor.Handler())
	r.POST("/execute", executor.Handler())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zl.Info("SQL proxy listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zl.Fatal("Server exited", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute command: %v", err)
	}
}
