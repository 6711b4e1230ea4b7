package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aiwis-cl/portal-core/internal/common/config"
	"github.com/aiwis-cl/portal-core/internal/portal/cloud"
	"github.com/aiwis-cl/portal-core/internal/portal/storage"
	"github.com/aiwis-cl/portal-core/internal/portal/sync"
	"github.com/aiwis-cl/portal-core/internal/server"
	"github.com/aiwis-cl/portal-core/pkg/logger"
	"github.com/aiwis-cl/portal-core/pkg/metrics"
	"github.com/aiwis-cl/portal-core/pkg/version"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of portal",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("portal version %s\n", version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "portal",
		Short: "AIWIS portal API server",
		Long:  `Serves the corporate portal's collections, auth and cloud sync administration`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "configs/portal.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

func run() {
	cfg, err := config.LoadConfig[config.PortalConfig](configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	store, err := storage.NewStore(zl, &cfg.Storage)
	if err != nil {
		zl.Fatal("Failed to create local store", zap.Error(err))
	}

	m := metrics.New("portal")
	bridge := cloud.NewBridge(zl)

	engine, err := sync.NewEngine(context.Background(), zl, store, bridge, m)
	if err != nil {
		zl.Fatal("Failed to initialize sync engine", zap.Error(err))
	}

	srv := server.New(zl, engine, m, cfg.Auth.JWTSecret)
	if err := srv.Run(cfg.Server.Port); err != nil {
		zl.Fatal("Server exited", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute command: %v", err)
	}
}
