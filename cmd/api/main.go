package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/capnotes/docs"
	"github.com/johnquangdev/capnotes/internal/adapter/handler"
	"github.com/johnquangdev/capnotes/internal/domain/gateways"
	"github.com/johnquangdev/capnotes/internal/infrastructure/cache"
	"github.com/johnquangdev/capnotes/internal/infrastructure/external/calendar"
	"github.com/johnquangdev/capnotes/internal/infrastructure/external/oauth"
	httpmw "github.com/johnquangdev/capnotes/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/capnotes/internal/infrastructure/logger"
	"github.com/johnquangdev/capnotes/internal/infrastructure/metrics"
	aiuse "github.com/johnquangdev/capnotes/internal/usecase/ai"
	"github.com/johnquangdev/capnotes/internal/usecase/pipeline"
	"github.com/johnquangdev/capnotes/internal/usecase/schedule"
	"github.com/johnquangdev/capnotes/internal/usecase/transcription"
	pkgai "github.com/johnquangdev/capnotes/pkg/ai"
	"github.com/johnquangdev/capnotes/pkg/config"
	"github.com/johnquangdev/capnotes/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/capnotes/pkg/validator"
)

// @title           CapNotes API
// @version         1.0
// @description     Transcribes audio, summarizes it and schedules follow-up meetings.

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Server, cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = handler.ErrorHandler(appLogger)

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Cookie"},
		AllowCredentials: true,
	}))

	ctx := context.Background()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Google service account, shared by speech and calendar
	log.Println("🔐 Loading Google credentials...")
	googleProvider, err := oauth.NewGoogleProviderFromFile(ctx, cfg.Google.CredentialsFile)
	if err != nil {
		log.Printf("⚠️  Google credentials unavailable: %v", err)
		googleProvider = nil
	}

	log.Printf("🎙️  Initializing speech provider (%s)...", cfg.Speech.Provider)
	recognizer, err := newRecognizer(ctx, cfg, googleProvider)
	if err != nil {
		log.Fatalf("Failed to initialize speech provider: %v", err)
	}

	log.Printf("🤖 Initializing text generator (%s)...", cfg.LLM.Provider)
	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize text generator: %v", err)
	}

	// Invite cache
	var inviteCache gateways.InviteCache
	if cfg.UseRedis() {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(ctx, cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		inviteCache = redisStore
	} else {
		log.Println("📦 Using in-memory invite cache")
		memoryStore := cache.NewMemoryStore()
		defer memoryStore.Close()
		inviteCache = memoryStore
	}

	// Calendar scheduling is optional; without credentials meetings are detected but not booked
	var scheduler pipeline.EventScheduler
	if googleProvider != nil {
		log.Println("📅 Initializing Google Calendar...")
		cal, err := calendar.NewGoogleCalendar(ctx, googleProvider.Client(ctx), cfg.Calendar.Endpoint, cfg.Calendar.CalendarID)
		if err != nil {
			log.Fatalf("Failed to initialize calendar: %v", err)
		}
		scheduler = schedule.NewScheduler(cal, inviteCache, cfg.Location(), cfg.Calendar.InviteTTL, appLogger)
	} else {
		log.Println("⚠️  Calendar disabled: no Google credentials")
	}

	log.Println("⚙️  Initializing pipeline...")
	orchestrator := pipeline.NewOrchestrator(
		transcription.NewService(recognizer, cfg.Pipeline.StageTimeout, appLogger),
		aiuse.NewSummarizer(generator),
		aiuse.NewMeetingExtractor(generator, appLogger),
		schedule.NewResolver(cfg.Location()),
		scheduler,
		metrics.NewPipelineRecorder(),
		pipeline.Options{
			StageTimeout:     cfg.Pipeline.StageTimeout,
			ParallelAnalysis: cfg.Pipeline.ParallelAnalysis,
			MeetingDuration:  cfg.Pipeline.MeetingDuration,
		},
		appLogger,
	)

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	transcribeHandler := handler.NewTranscribeHandler(orchestrator, aiuse.NewAssistant(generator), cfg.Pipeline.MaxAudioBytes, appLogger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, transcribeHandler, httpmw.EchoAuth(jwtManager))
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server.shutdown.forced", zap.Error(err))
		return
	}

	log.Println("✅ Server stopped gracefully")
}

func newRecognizer(ctx context.Context, cfg *config.Config, googleProvider *oauth.GoogleProvider) (gateways.SpeechRecognizer, error) {
	switch cfg.Speech.Provider {
	case config.SpeechProviderAssemblyAI:
		return pkgai.NewAssemblyAIClient(&cfg.Assembly, cfg.Speech.LanguageCode), nil
	default:
		if googleProvider == nil {
			return nil, fmt.Errorf("SPEECH_PROVIDER=google requires GOOGLE_CREDENTIALS_FILE")
		}
		return pkgai.NewGoogleSpeechClient(ctx, googleProvider.Client(ctx), cfg.Google.SpeechEndpoint, cfg.Speech.LanguageCode)
	}
}

func newGenerator(ctx context.Context, cfg *config.Config) (gateways.TextGenerator, error) {
	switch cfg.LLM.Provider {
	case config.LLMProviderGroq:
		return pkgai.NewGroqClient(&cfg.Groq, cfg.LLM.MaxRetries), nil
	default:
		return pkgai.NewGeminiClient(ctx, &cfg.Gemini, cfg.LLM.MaxRetries)
	}
}
