package service

import (
	"context"

	"github.com/xiaot623/postcard/internal/adapter/agent"
	"github.com/xiaot623/postcard/internal/adapter/email"
	"github.com/xiaot623/postcard/internal/config"
	"github.com/xiaot623/postcard/internal/observability"
	store "github.com/xiaot623/postcard/internal/repository"
)

// Scraper finds the representative image of a web page.
type Scraper interface {
	OGImage(ctx context.Context, pageURL string) (string, error)
}

// Mailer delivers an email.
type Mailer interface {
	Send(ctx context.Context, msg email.Message) (*email.SendResponse, error)
}

type Service struct {
	store   store.Store
	agent   agent.Agent
	scraper Scraper
	mailer  Mailer
	config  *config.Config
	metrics *observability.Metrics
}

// New creates the service. scraper may be nil, which disables image
// enrichment.
func New(store store.Store, agent agent.Agent, scraper Scraper, mailer Mailer, cfg *config.Config, metrics *observability.Metrics) *Service {
	return &Service{
		store:   store,
		agent:   agent,
		scraper: scraper,
		mailer:  mailer,
		config:  cfg,
		metrics: metrics,
	}
}

// agentContext bounds one agent run by the configured timeout.
func (s *Service) agentContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.AgentTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.AgentTimeout)
}
