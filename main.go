package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/devfolio/projects-api/api"
	"github.com/devfolio/projects-api/config"
	"github.com/devfolio/projects-api/database"
	"github.com/devfolio/projects-api/logging"
	"github.com/devfolio/projects-api/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		if err := overlaySSM(c, prefix); err != nil {
			fmt.Printf("Error loading parameters from SSM: %v\n", err)
			os.Exit(1)
		}
	}

	settings, err := config.Load(c)
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Init(settings.Log)

	log.Info().Str("dbType", settings.Database.Type).Msg("Connecting to database")
	db, err := database.Open(settings.Database, logging.GormLogger(10*time.Second))
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if settings.GenerateModels {
		if err := database.GenerateModels(db, "./generated", os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if settings.GenerateColumnReport {
		if _, err := database.ColumnMismatchReport(db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error running migrations")
	}

	verifier := services.NewAdminVerifier(settings.Auth)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(database.New(db), verifier, settings.Server)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func overlaySSM(c map[string]string, prefix string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := config.NewSSMClient(ctx)
	if err != nil {
		return err
	}
	n, err := config.OverlaySSM(ctx, client, c, prefix)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d parameters from %s\n", n, prefix)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
