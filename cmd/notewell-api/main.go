package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notewell/backend/internal/auth"
	"github.com/notewell/backend/internal/cache"
	"github.com/notewell/backend/internal/config"
	"github.com/notewell/backend/internal/database"
	"github.com/notewell/backend/internal/logging"
	"github.com/notewell/backend/internal/notes"
	"github.com/notewell/backend/internal/server"
	"github.com/notewell/backend/internal/users"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "notewell-api",
		Short: "Notewell REST API backend",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("signing-secret", "", "Token signing secret (overrides env)")
	cmd.PersistentFlags().Int("token-ttl-hours", defaults.GetInt("auth.token_ttl_hours"), "Bearer token TTL in hours")
	cmd.PersistentFlags().Bool("cache-enabled", defaults.GetBool("cache.enabled"), "Enable the Redis record cache")
	cmd.PersistentFlags().String("cache-address", defaults.GetString("cache.address"), "Redis server address")
	cmd.PersistentFlags().Int("cache-ttl-seconds", defaults.GetInt("cache.ttl_seconds"), "Cache entry TTL in seconds")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
	bindFlag(cmd, "auth.token_ttl_hours", "token-ttl-hours")
	bindFlag(cmd, "cache.enabled", "cache-enabled")
	bindFlag(cmd, "cache.address", "cache-address")
	bindFlag(cmd, "cache.ttl_seconds", "cache-ttl-seconds")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var cacheStore cache.Store
	if appConfig.CacheEnabled {
		redisStore := cache.NewRedisStore(appConfig.CacheAddress)
		if err := redisStore.Ping(ctx); err != nil {
			return err
		}
		defer redisStore.Close()
		cacheStore = redisStore
		logger.Info("record cache enabled", zap.String("address", appConfig.CacheAddress))
	}
	cacheView := cache.NewView(cache.ViewConfig{
		Store:   cacheStore,
		Enabled: appConfig.CacheEnabled,
		TTL:     appConfig.CacheTTL,
		Logger:  logger,
	})

	tokenIssuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		TokenTTL:      appConfig.TokenTTL,
	})
	if err != nil {
		return err
	}

	notesStore, err := notes.NewStore(db)
	if err != nil {
		return err
	}
	notesService, err := notes.NewService(notes.ServiceConfig{
		Store:  notesStore,
		Cache:  cacheView,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	usersStore, err := users.NewStore(db)
	if err != nil {
		return err
	}
	usersService, err := users.NewService(users.ServiceConfig{
		Store:  usersStore,
		Cache:  cacheView,
		Tokens: tokenIssuer,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		NotesService: notesService,
		UsersService: usersService,
		Tokens:       tokenIssuer,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
