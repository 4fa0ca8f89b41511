package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xiaot623/postcard/internal/domain"
)

func TestEnrichImagesKeepsOrderAndIsolatesFailures(t *testing.T) {
	f := newFixture(t, &stubAgent{})
	f.scraper.results = map[string]scrapeResult{
		"https://1": {image: "img1"},
		"https://2": {err: errors.New("timeout")},
		"https://3": {},
		"https://4": {image: "img4"},
	}

	got := f.svc.enrichImages(context.Background(), []domain.Citation{
		{URL: "https://1"},
		{URL: "https://2"},
		{URL: ""},
		{URL: "https://3"},
		{URL: "https://4"},
		{URL: "https://1"},
	})

	assert.Equal(t, []string{"img1", "img4", "img1"}, got)
	assert.ElementsMatch(t, []string{"https://1", "https://2", "https://3", "https://4", "https://1"}, f.scraper.calls)
}

func TestEnrichImagesBoundsConcurrency(t *testing.T) {
	f := newFixture(t, &stubAgent{})
	f.scraper.gate = make(chan struct{})

	citations := make([]domain.Citation, 6)
	for i := range citations {
		citations[i] = domain.Citation{URL: "https://example.com"}
	}

	done := make(chan []string)
	go func() { done <- f.svc.enrichImages(context.Background(), citations) }()

	assert.Eventually(t, func() bool {
		f.scraper.mu.Lock()
		defer f.scraper.mu.Unlock()
		return f.scraper.running == 2
	}, time.Second, time.Millisecond)
	close(f.scraper.gate)
	<-done

	assert.Equal(t, 2, f.scraper.peak)
	assert.Len(t, f.scraper.calls, 6)
}

func TestEnrichImagesWithoutScraper(t *testing.T) {
	f := newFixture(t, &stubAgent{})
	f.svc.scraper = nil
	assert.Empty(t, f.svc.enrichImages(context.Background(), []domain.Citation{{URL: "https://1"}}))
}
