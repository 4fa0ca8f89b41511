package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xiaot623/postcard/internal/adapter/agent"
	"github.com/xiaot623/postcard/internal/adapter/email"
	"github.com/xiaot623/postcard/internal/config"
	"github.com/xiaot623/postcard/internal/domain"
	"github.com/xiaot623/postcard/internal/observability"
	store "github.com/xiaot623/postcard/internal/repository"
)

// stubAgent replays fixed tokens, then returns err.
type stubAgent struct {
	tokens []domain.StreamToken
	answer string
	err    error
	// onStream runs before any token is handed out.
	onStream func()

	mu     sync.Mutex
	inputs []domain.LLMInput
}

func (a *stubAgent) record(input domain.LLMInput) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inputs = append(a.inputs, input)
}

func (a *stubAgent) Invoke(_ context.Context, input domain.LLMInput) (string, error) {
	a.record(input)
	return a.answer, a.err
}

func (a *stubAgent) Stream(_ context.Context, input domain.LLMInput, handler agent.TokenHandler) error {
	a.record(input)
	if a.onStream != nil {
		a.onStream()
	}
	for _, token := range a.tokens {
		if err := handler(token); err != nil {
			return err
		}
	}
	return a.err
}

type scrapeResult struct {
	image string
	err   error
}

type stubScraper struct {
	results map[string]scrapeResult

	mu      sync.Mutex
	calls   []string
	running int
	peak    int
	// gate, when set, holds every call until it is closed.
	gate chan struct{}
}

func (s *stubScraper) OGImage(_ context.Context, pageURL string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, pageURL)
	s.running++
	if s.running > s.peak {
		s.peak = s.running
	}
	s.mu.Unlock()

	if s.gate != nil {
		<-s.gate
	}

	s.mu.Lock()
	s.running--
	s.mu.Unlock()

	r := s.results[pageURL]
	return r.image, r.err
}

type stubMailer struct {
	sent []email.Message
	resp *email.SendResponse
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg email.Message) (*email.SendResponse, error) {
	m.sent = append(m.sent, msg)
	return m.resp, m.err
}

type fixture struct {
	svc     *Service
	store   store.Store
	agent   *stubAgent
	scraper *stubScraper
	mailer  *stubMailer
	metrics *observability.Metrics
}

func newFixture(t *testing.T, a *stubAgent) *fixture {
	t.Helper()
	f := &fixture{
		store:   store.NewMemoryStore(),
		agent:   a,
		scraper: &stubScraper{results: map[string]scrapeResult{}},
		mailer:  &stubMailer{},
		metrics: observability.NewMetrics(),
	}
	cfg := &config.Config{
		ScrapeConcurrency:   2,
		ResendFrom:          "Airpods Assistant <onboarding@resend.dev>",
		ResendFeedbackEmail: "owner@example.com",
	}
	f.svc = New(f.store, f.agent, f.scraper, f.mailer, cfg, f.metrics)
	return f
}

func (f *fixture) messages(t *testing.T, conversationID string) []domain.Message {
	t.Helper()
	msgs, err := f.store.GetMessages(context.Background(), conversationID)
	require.NoError(t, err)
	return msgs
}

// collect returns an EmitFunc that records every event.
func collect(events *[]domain.SSEEvent) EmitFunc {
	return func(evt domain.SSEEvent) error {
		*events = append(*events, evt)
		return nil
	}
}

func textBlock(text string, annotations ...domain.Annotation) domain.ContentBlock {
	return domain.ContentBlock{Type: domain.BlockTypeText, Text: text, Annotations: annotations}
}

func citationAnnotation(id, url string, endIndex int) domain.Annotation {
	return domain.Annotation{
		Type:      domain.AnnotationTypeCitation,
		ID:        id,
		URL:       url,
		Title:     id,
		CitedText: "cited " + id,
		EndIndex:  endIndex,
	}
}
