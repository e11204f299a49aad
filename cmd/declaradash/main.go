package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/declaradash/declaradash/internal/api"
	"github.com/declaradash/declaradash/internal/pkg/constants"
	"github.com/declaradash/declaradash/internal/pkg/localstore"
	"github.com/declaradash/declaradash/internal/pkg/logger"
	"github.com/declaradash/declaradash/internal/pkg/store"
	"github.com/declaradash/declaradash/internal/service/auth"
	"github.com/declaradash/declaradash/internal/service/catalog"
	"github.com/declaradash/declaradash/internal/service/explorer"
	"github.com/declaradash/declaradash/internal/service/reports"
	"github.com/declaradash/declaradash/internal/service/session"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	initConfig()

	zl, err := zap.NewProduction()
	if err == nil {
		logger.Init(zl)
	}

	localPath := viper.GetString(constants.ViperKeyLocalStorePath)
	if localPath == "" {
		configDir, dirErr := os.UserConfigDir()
		logger.Fatal(ctx, dirErr)
		localPath = filepath.Join(configDir, "declaradash", "local.json")
	}
	local, err := localstore.Open(localPath)
	logger.Fatal(ctx, err)

	// The engine session lives in memory: its tables and view exist only for
	// this process, rebuilt from the remote files and the durable log.
	db, err := store.Open(":memory:")
	logger.Fatal(ctx, err)
	defer db.Close()

	sessionService := session.NewService(store.NewStore(db), local)

	cfg, err := resolveDataFiles(ctx)
	logger.Fatal(ctx, err)

	// A failed init leaves the session errored; the API still serves so the
	// status endpoint can surface the fatal message.
	if initErr := sessionService.Init(ctx, *cfg); initErr != nil {
		logger.Errorf(ctx, "session initialization failed: %s", initErr.Error())
	}

	explorerService := explorer.NewService(sessionService)
	submitDelay := time.Duration(viper.GetInt(constants.ViperKeySubmitDelayMS)) * time.Millisecond
	reportsService := reports.NewService(sessionService, submitDelay)
	authService := auth.NewService()

	apiService, err := api.NewAPIService(sessionService, explorerService, reportsService, authService)
	logger.Fatal(ctx, err)

	go apiService.Serve(viper.GetString(constants.ViperKeyListenAddr))

	stop, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiService.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "shutdown: %s", err.Error())
	}
}

// resolveDataFiles prefers explicitly configured file URLs and falls back to
// scraping the data portal index.
func resolveDataFiles(ctx context.Context) (*session.Config, error) {
	cfg := &session.Config{
		MasterFileURL:  viper.GetString(constants.ViperKeyMasterFileURL),
		StagingFileURL: viper.GetString(constants.ViperKeyStagingFileURL),
	}
	if cfg.MasterFileURL != "" && cfg.StagingFileURL != "" {
		return cfg, nil
	}

	files, err := catalog.NewService().Resolve(ctx, viper.GetString(constants.ViperKeyCatalogURL))
	if err != nil {
		return nil, err
	}
	if cfg.MasterFileURL == "" {
		cfg.MasterFileURL = files.MasterURL
	}
	if cfg.StagingFileURL == "" {
		cfg.StagingFileURL = files.StagingURL
	}

	return cfg, nil
}

func initConfig() {
	viper.SetDefault(constants.ViperKeyListenAddr, ":8080")
	viper.SetDefault(constants.ViperKeyCatalogURL, "https://datos.example.mx/system_1")
	viper.SetDefault(constants.ViperKeySubmitDelayMS, 800)
	viper.SetDefault(constants.ViperKeyAllowedOrigins, []string{"http://localhost:3000"})

	viper.SetConfigName("declaradash")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/declaradash")
	_ = viper.ReadInConfig()

	viper.SetEnvPrefix("DECLARADASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}
