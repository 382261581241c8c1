package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/sintesi/internal/ai"
	"github.com/Vovarama1992/sintesi/internal/config"
	"github.com/Vovarama1992/sintesi/internal/credits"
	"github.com/Vovarama1992/sintesi/internal/delivery"
	"github.com/Vovarama1992/sintesi/internal/domain"
	"github.com/Vovarama1992/sintesi/internal/error_notificator"
	"github.com/Vovarama1992/sintesi/internal/infra"
	"github.com/Vovarama1992/sintesi/internal/pipeline"
	"github.com/Vovarama1992/sintesi/internal/ports"
	"github.com/Vovarama1992/sintesi/internal/speech"
	"github.com/Vovarama1992/sintesi/internal/transcript"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / DB INIT
	// =========================================================================

	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}
	defer db.Close()

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	// без S3 работаем на локальных файлах
	var s3Service ports.S3Service
	if cfg.S3.Enabled() {
		s3Client, err := infra.NewS3Client(cfg.S3)
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		s3Service = domain.NewS3Service(s3Client)
	} else {
		log.Println("s3 is not configured, audio will be served from local disk")
	}

	creditsRepo := credits.NewRepo(db)

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	errInfra := error_notificator.NewInfra(cfg.TelegramToken, cfg.AdminChatID)
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// CLIENTS (AI / TTS / SUBTITLE MIRRORS)
	// =========================================================================

	openAIClient := ai.NewOpenAIClient(cfg.OpenAIKey)
	ttsClient := speech.NewElevenLabsClient(cfg.ElevenLabsKey)
	mirrors := transcript.NewMirrorProviders(cfg.SubtitleMirrors)

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	transcriptService := transcript.NewService(mirrors)
	metadataService := transcript.NewMetadataService(cfg.SubtitleMirrors)
	summarizer := ai.NewService(openAIClient)
	speechService := speech.NewService(ttsClient, s3Service, cfg.SummariesDir)
	ledger := credits.NewService(creditsRepo, cfg.FreeTrialCredits)

	pipelineService := pipeline.NewService(
		transcriptService,
		metadataService,
		summarizer,
		speechService,
		ledger,
		errService,
	)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Admin-Token"},
	}))

	summaryHandler := delivery.NewSummaryHandler(pipelineService, ledger, cfg.AdminToken, zl)
	delivery.RegisterRoutes(r, summaryHandler, cfg.SummariesDir)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "sintesi",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
