package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/tools"

	"github.com/xiaot623/postcard/internal/adapter/agent"
	"github.com/xiaot623/postcard/internal/adapter/email"
	"github.com/xiaot623/postcard/internal/adapter/scrape"
	"github.com/xiaot623/postcard/internal/adapter/search"
	"github.com/xiaot623/postcard/internal/chatcli"
	"github.com/xiaot623/postcard/internal/config"
	"github.com/xiaot623/postcard/internal/observability"
	store "github.com/xiaot623/postcard/internal/repository"
	"github.com/xiaot623/postcard/internal/service"
	handler "github.com/xiaot623/postcard/internal/transport/http"
	"github.com/xiaot623/postcard/policy"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "postcard",
		Short:        "AirPods shopping assistant backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(newChatCmd())
	return root
}

func newChatCmd() *cobra.Command {
	var addr, conversationID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a running server over WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if conversationID == "" {
				conversationID = "cli_" + uuid.New().String()[:8]
			}
			fmt.Printf("Connecting to %s (conversation %s)...\n", addr, conversationID)

			client, err := chatcli.Dial(cmd.Context(), addr, conversationID)
			if err != nil {
				return err
			}
			defer client.Close()
			return client.Run(os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "ws://localhost:8000/api/v1/chat/ws", "chat WebSocket address")
	cmd.Flags().StringVar(&conversationID, "conversation", "", "conversation id (random when empty)")
	return cmd
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		return err
	}

	slog.Info("starting assistant backend",
		"http_port", cfg.HTTPPort,
		"llm_provider", cfg.LLMProvider,
		"model", cfg.LLMProviderModel,
		"web_search", cfg.WebSearchEnabled,
		"store", storeKind(cfg.StoreDSN),
	)

	// Initialize store
	db, err := store.New(cfg.StoreDSN)
	if err != nil {
		return errors.Wrap(err, "failed to initialize store")
	}
	defer db.Close()

	// Initialize policy engine
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		return errors.Wrap(err, "failed to initialize policy engine")
	}

	// Initialize agent
	var agentTools []tools.Tool
	if cfg.WebSearchEnabled && cfg.WebSearchAPIKey != "" {
		agentTools = append(agentTools, search.NewTavilyTool(cfg.WebSearchAPIKey, cfg.HTTPClientTimeout, search.WithMaxResults(cfg.WebSearchResults)))
	}
	llmAgent, err := agent.New(ctx, cfg, agent.Deps{Tools: agentTools, Policy: policyEngine})
	if err != nil {
		return errors.Wrap(err, "failed to initialize agent")
	}

	// Initialize external clients
	scraper := scrape.NewClient(cfg.FirecrawlAPIBaseURL, cfg.FirecrawlAPIKey, cfg.HTTPClientTimeout)
	mailer := email.NewClient("", cfg.ResendAPIKey, cfg.HTTPClientTimeout)

	// Initialize service and server
	metrics := observability.NewMetrics()
	svc := service.New(db, llmAgent, scraper, mailer, cfg, metrics)
	server := handler.NewServer(svc, cfg, metrics)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	slog.Info("HTTP API started", "port", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return errors.Wrap(err, "failed to start server")
	}

	slog.Info("shutting down")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("failed to shutdown server gracefully", "err", err)
	}

	slog.Info("stopped")
	return nil
}

func storeKind(dsn string) string {
	if dsn == "" {
		return "memory"
	}
	return "sqlite"
}
