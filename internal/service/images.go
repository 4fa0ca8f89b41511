package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xiaot623/postcard/internal/domain"
)

// enrichImages scrapes the og:image of every cited page. Results follow
// citation order; pages without an image, and failed scrapes, are omitted.
func (s *Service) enrichImages(ctx context.Context, citations []domain.Citation) []string {
	if s.scraper == nil {
		return nil
	}

	found := make([]string, len(citations))
	var g errgroup.Group
	if n := s.config.ScrapeConcurrency; n > 0 {
		g.SetLimit(n)
	}

	for i, c := range citations {
		if c.URL == "" {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			image, err := s.scraper.OGImage(ctx, c.URL)
			status := "ok"
			switch {
			case err != nil:
				status = "error"
				slog.Warn("image scrape failed", "url", c.URL, "err", err)
			case image == "":
				status = "empty"
			default:
				found[i] = image
			}
			s.metrics.ScrapeDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
			return nil
		})
	}
	_ = g.Wait()

	images := make([]string, 0, len(found))
	for _, image := range found {
		if image != "" {
			images = append(images, image)
		}
	}
	return images
}
