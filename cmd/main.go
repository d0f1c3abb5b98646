package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saeidalz13/battleship-voice-backend/api"
	"github.com/saeidalz13/battleship-voice-backend/db"
	"github.com/saeidalz13/battleship-voice-backend/internal/voice"
)

const (
	cleanupInterval   = time.Minute * 5
	maxGameIdle       = time.Minute * 30
	maxSessionAge     = time.Minute * 40
	classifierTimeout = time.Second * 5
	transcribeTimeout = time.Second * 20
)

func main() {
	if os.Getenv("STAGE") != api.StageProd {
		if err := godotenv.Load(".env"); err != nil {
			log.Warn().Err(err).Msg("no .env file loaded")
		}
	}

	stage := getEnv("STAGE", api.StageDev)
	if stage != api.StageDev && stage != api.StageProd {
		panic("stage must be either dev or prod")
	}

	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if stage == api.StageDev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	opts := []api.Option{
		api.WithPort(getEnv("PORT", "8000")),
		api.WithStage(stage),
		api.WithTokenSecret(os.Getenv("JWT_SECRET")),
	}

	// Analytics are optional; without a driver the server keeps no database
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		conn := db.MustConnectToDb(driver, os.Getenv("DATABASE_URL"))
		defer conn.Close()
		opts = append(opts, api.WithDb(conn))
	}

	if url := os.Getenv("CLASSIFIER_URL"); url != "" {
		opts = append(opts, api.WithClassifier(voice.NewHTTPClassifier(url, classifierTimeout)))
	}
	if url := os.Getenv("TRANSCRIBER_URL"); url != "" {
		opts = append(opts, api.WithTranscriber(voice.NewHTTPTranscriber(url, os.Getenv("TRANSCRIBER_CONTENT_TYPE"), transcribeTimeout)))
	}

	server := api.NewServer(opts...)

	stop := make(chan struct{})
	defer close(stop)
	go server.GameManager.CleanupPeriodically(cleanupInterval, maxGameIdle, server.SessionManager.HasSeats, stop)
	go server.SessionManager.CleanupPeriodically(cleanupInterval, maxSessionAge, stop)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
