package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/swaroski/ai-shelves/internal/auth"
	"github.com/swaroski/ai-shelves/internal/catalog"
	"github.com/swaroski/ai-shelves/internal/config"
	"github.com/swaroski/ai-shelves/internal/database"
	"github.com/swaroski/ai-shelves/internal/favorites"
	"github.com/swaroski/ai-shelves/internal/gemini"
	"github.com/swaroski/ai-shelves/internal/insights"
	"github.com/swaroski/ai-shelves/internal/kvstore"
	"github.com/swaroski/ai-shelves/internal/library"
	"github.com/swaroski/ai-shelves/internal/logging"
	"github.com/swaroski/ai-shelves/internal/server"
	"github.com/swaroski/ai-shelves/internal/users"
	"github.com/swaroski/ai-shelves/internal/workspaces"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shelves-api",
		Short: "AI Shelves library backend service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)
	rootCmd.AddCommand(newIssueTokenCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to configuration file")
	flags.String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	flags.StringSlice("allowed-origins", nil, "CORS origins allowed to call the API (default: any)")
	flags.String("database-path", defaults.GetString("database.path"), "SQLite database path")
	flags.String("storage-driver", defaults.GetString("storage.driver"), "Key-value storage driver (sqlite, redis, memory)")
	flags.Int("max-value-bytes", defaults.GetInt("storage.max_value_bytes"), "Largest value accepted by the key-value store")
	flags.String("redis-address", defaults.GetString("redis.address"), "Redis address for the redis storage driver")
	flags.Int("redis-db", defaults.GetInt("redis.db"), "Redis logical database")
	flags.String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	flags.String("signing-secret", "", "Session signing secret (overrides env)")
	flags.StringSlice("operators", nil, "User ids allowed to change server-wide settings")
	flags.String("catalog-base-url", defaults.GetString("catalog.base_url"), "Open Library base URL")
	flags.Uint64("catalog-seed", defaults.GetUint64("catalog.seed"), "Seed for synthesized catalog availability")
	flags.String("gemini-model", defaults.GetString("gemini.model"), "Gemini model used for insights and summaries")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "http.allowed_origins", "allowed-origins")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "storage.driver", "storage-driver")
	bindFlag(cmd, "storage.max_value_bytes", "max-value-bytes")
	bindFlag(cmd, "redis.address", "redis-address")
	bindFlag(cmd, "redis.db", "redis-db")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
	bindFlag(cmd, "auth.operators", "operators")
	bindFlag(cmd, "catalog.base_url", "catalog-base-url")
	bindFlag(cmd, "catalog.seed", "catalog-seed")
	bindFlag(cmd, "gemini.model", "gemini-model")
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

// newIssueTokenCommand mints a session token for local development and smoke tests.
func newIssueTokenCommand() *cobra.Command {
	var (
		userID      string
		email       string
		displayName string
		ttl         time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Print a signed session token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			issuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{
				SigningSecret: []byte(appConfig.AuthSigningKey),
				Issuer:        appConfig.AuthIssuer,
				TokenTTL:      ttl,
			})
			if err != nil {
				return err
			}
			token, _, err := issuer.Issue(auth.SessionIdentity{
				UserID:      userID,
				Email:       email,
				DisplayName: displayName,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "Canonical user id to embed")
	cmd.Flags().StringVar(&email, "email", "", "User email to embed")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name to embed")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

// openStorage returns the key-value store for the configured driver and the gorm handle
// backing user identities. The returned cleanup releases both.
func openStorage(ctx context.Context, appConfig config.AppConfig, logger *zap.Logger) (kvstore.Store, *gorm.DB, func(), error) {
	identityPath := appConfig.DatabasePath
	if appConfig.StorageDriver == config.StorageDriverMemory || identityPath == "" {
		identityPath = database.MemoryPath
	}
	db, err := database.OpenSQLite(identityPath, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, err
	}
	closers := []func(){func() { _ = sqlDB.Close() }}
	cleanup := func() {
		for index := len(closers) - 1; index >= 0; index-- {
			closers[index]()
		}
	}

	var store kvstore.Store
	switch appConfig.StorageDriver {
	case config.StorageDriverRedis:
		client, err := kvstore.DialRedis(ctx, appConfig.RedisAddress, appConfig.RedisPassword, appConfig.RedisDB)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })
		store, err = kvstore.NewRedisStore(kvstore.RedisStoreConfig{
			Client:        client,
			KeyPrefix:     appConfig.RedisKeyPrefix,
			MaxValueBytes: appConfig.MaxValueBytes,
		})
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
	case config.StorageDriverMemory:
		store = kvstore.NewMemoryStore(appConfig.MaxValueBytes)
	default:
		store, err = kvstore.NewSQLStore(kvstore.SQLStoreConfig{
			Database:      db,
			MaxValueBytes: appConfig.MaxValueBytes,
		})
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
	}
	logger.Info("storage ready",
		zap.String("driver", appConfig.StorageDriver),
		zap.String("identity_database", identityPath))
	return store, db, cleanup, nil
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

	store, db, closeStorage, err := openStorage(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	sessionValidator, err := auth.NewSessionValidator(auth.SessionValidatorConfig{
		SigningSecret: []byte(appConfig.AuthSigningKey),
		Issuer:        appConfig.AuthIssuer,
		CookieName:    appConfig.AuthCookieName,
	})
	if err != nil {
		return err
	}

	userService, err := users.NewService(users.ServiceConfig{
		Database: db,
		Clock:    time.Now,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	workspaceService, err := workspaces.NewService(workspaces.ServiceConfig{
		Store:      store,
		Clock:      time.Now,
		IDProvider: workspaces.NewUUIDProvider(),
		Tokens:     workspaces.NewNanoidTokenGenerator(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	libraryService, err := library.NewService(library.ServiceConfig{
		Store:      store,
		Clock:      time.Now,
		IDProvider: library.NewUUIDProvider(),
		Roles:      workspaceService,
		Activities: workspaceService,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	favoriteService, err := favorites.NewService(favorites.ServiceConfig{
		Store:      store,
		Clock:      time.Now,
		IDProvider: favorites.NewUUIDProvider(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	catalogClient, err := catalog.NewClient(appConfig.CatalogBaseURL,
		catalog.WithTimeout(time.Duration(appConfig.CatalogTimeoutSeconds)*time.Second))
	if err != nil {
		return err
	}
	catalogAdapter := catalog.NewAdapter(catalog.AdapterConfig{
		Searcher: catalogClient,
		Seed:     appConfig.CatalogSeed,
		Clock:    time.Now,
		Logger:   logger,
	})

	geminiKeys := gemini.NewStoredKey(store, appConfig.GeminiAPIKey)
	geminiClient := gemini.NewClient(gemini.Config{
		BaseURL:        appConfig.GeminiBaseURL,
		Model:          appConfig.GeminiModel,
		TimeoutSeconds: appConfig.GeminiTimeoutSeconds,
	}, geminiKeys)
	insightsService := insights.NewService(insights.ServiceConfig{
		Generator: geminiClient,
		Logger:    logger,
	})

	if appConfig.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler, err := server.NewHTTPHandler(server.Dependencies{
		Sessions:       sessionValidator,
		Users:          userService,
		Library:        libraryService,
		Favorites:      favoriteService,
		Workspaces:     workspaceService,
		Catalog:        catalogAdapter,
		Insights:       insightsService,
		GeminiKeys:     geminiKeys,
		Realtime:       server.NewRealtimeDispatcher(),
		AllowedOrigins: appConfig.HTTPAllowedOrigins,
		Operators:      appConfig.AuthOperators,
		Clock:          time.Now,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              appConfig.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
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
