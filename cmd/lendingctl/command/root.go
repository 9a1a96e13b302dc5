package command

// root.go defines the root command of lendingctl, the librarian's desk tool.
// It talks to the database directly, with the same services the API server uses.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"lendinghub/database"
	"lendinghub/internal/config"
	"lendinghub/internal/microservices/http-api/repository"
	"lendinghub/internal/microservices/http-api/service"
	"lendinghub/internal/notifier"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	envFile string // .env to load before reading the environment
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lendingctl",
	Short: "lendingctl - desk tool for the library lending core",
	Long: `lendingctl runs lending operations against the library database:
return and renew lendings, fulfill or cancel holdings, sweep expired holdings,
inspect a stock and its reservation queue, and manage the schema.

Configuration is read from the same environment variables as the API server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file first")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// app is what every command needs to run lending operations
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB

	stocks       service.StockService
	holds        service.HoldService
	lendings     service.LendingService
	reservations service.ReservationService

	channels *notifier.Channels
}

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp connects to the migrated database and wires the services
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger().With("service", "lendingctl")

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	store := repository.NewStore(db)
	channels, err := notifier.FromConfig(cfg, store.Notifications(), logger)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	rules, err := service.NewRules(cfg)
	if err != nil {
		channels.Close()
		database.Close(db)
		return nil, err
	}

	return &app{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		stocks:       service.NewStockService(store.Stocks()),
		holds:        service.NewHoldService(store, channels, rules, logger),
		lendings:     service.NewLendingService(store, channels, rules, logger),
		reservations: service.NewReservationService(store, rules, logger),
		channels:     channels,
	}, nil
}

func (a *app) Close() {
	a.channels.Close()
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("closing database", "error", err)
	}
}

// withApp runs fn with a connected app and closes it afterwards
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}
