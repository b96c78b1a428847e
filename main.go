package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-site/api"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/models"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "portfolio",
		Short:        "Portfolio site with its content admin",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the dotenv file, snapshots the environment and merges SSM parameters
// when SSM_PARAMETER_PATH is set.
func loadConfig(ctx context.Context) (map[string]string, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Debug().Err(err).Str("file", envFile).Msg("no dotenv file loaded")
	}

	c := config.New()
	setupLogging(c)

	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		source, err := config.NewSSMSource(ctx, config.GetString(c, "AWS_REGION", ""))
		if err != nil {
			return nil, err
		}
		if err := config.MergeParameters(ctx, source, prefix, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !isProduction(c) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func isProduction(c map[string]string) bool {
	return config.GetString(c, "APP_ENV", "development") == "production"
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the public site and the admin panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	c, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	deps, closeBackend, err := buildDeps(ctx, c)
	if err != nil {
		log.Error().Err(err).Msg("Error initializing backend")
		return err
	}
	defer closeBackend()

	server, err := api.NewServer(c, deps)
	if err != nil {
		log.Error().Err(err).Msg("Error initializing server")
		return err
	}

	errChannel := make(chan error)
	defer close(errChannel)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	return nil
}

// openDatabase connects to the sql database selected by DB_TYPE.
func openDatabase(c map[string]string) (database.Database, error) {
	db, err := database.Open(c, database.NewLogger())
	if err != nil {
		return database.Database{}, err
	}
	return database.New(db), nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the content tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			db, err := openDatabase(c)
			if err != nil {
				return err
			}
			if err := db.Migrate(); err != nil {
				return err
			}
			log.Info().Msg("Migration complete")
			return nil
		},
	}
}

func generateCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate typed query helpers from the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			db, err := openDatabase(c)
			if err != nil {
				return err
			}
			log.Info().Str("out", outPath).Msg("Generating models and query helpers...")
			return models.GenerateModels(db.DB(), outPath)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "./query", "output directory")
	return cmd
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Compare the database columns with the model fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			db, err := openDatabase(c)
			if err != nil {
				return err
			}
			if n := models.GenerateColumnMismatchReport(db.DB(), cmd.OutOrStdout()); n > 0 {
				return fmt.Errorf("%d column mismatches", n)
			}
			return nil
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash to use as ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
