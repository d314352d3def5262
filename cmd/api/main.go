package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/brightcart/support-chat/backend/internal/config"
	"github.com/brightcart/support-chat/backend/internal/handler"
	chatHandler "github.com/brightcart/support-chat/backend/internal/handler/chat"
	chatModel "github.com/brightcart/support-chat/backend/internal/model/chat"
	"github.com/brightcart/support-chat/backend/internal/repository/memory"
	"github.com/brightcart/support-chat/backend/internal/repository/postgres"
	"github.com/brightcart/support-chat/backend/internal/service/ai"
	"github.com/brightcart/support-chat/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store := newTurnStore(ctx, cfg.Database)
	chatService := chat.NewService(store)

	var generator chatHandler.ReplyGenerator
	if cfg.AI.Enabled() {
		llmModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Fatalf("failed to create chat model: %v", err)
		}
		aiService, err := ai.NewService(ctx, llmModel)
		if err != nil {
			log.Fatalf("failed to initialize reply generator: %v", err)
		}
		generator = aiService
		log.Println("reply generator initialized")
	} else {
		log.Println("warning: model credentials not configured, message submissions will fail")
	}

	router := handler.NewRouter(chatService, generator, cfg.Server.CORSOrigins)

	startServer(ctx, cfg.Server, router)
}

// newTurnStore selects Postgres when DATABASE_URL is set, otherwise the
// in-memory store for credential-free local development.
func newTurnStore(ctx context.Context, cfg config.DatabaseConfig) chatModel.TurnStore {
	if cfg.URL == "" {
		log.Println("DATABASE_URL not set, using in-memory turn store")
		return memory.NewTurnStore()
	}

	pool, err := postgres.NewPool(ctx, cfg.URL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	store := postgres.NewTurnStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to prepare database schema: %v", err)
	}

	log.Println("postgres turn store initialized")
	return store
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("support chat backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
