package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/postcard/internal/adapter/email"
	"github.com/xiaot623/postcard/internal/domain"
)

func TestSendFeedback(t *testing.T) {
	f := newFixture(t, &stubAgent{})
	f.mailer.resp = &email.SendResponse{ID: "ignored"}

	resp, err := f.svc.SendFeedback(context.Background(), domain.FeedbackRequest{Message: "Great!", Email: "x@y.com", Rating: 5})
	require.NoError(t, err)

	assert.Equal(t, &domain.FeedbackResponse{Message: "Feedback sent successfully", Rating: 5}, resp)
	require.Len(t, f.mailer.sent, 1)
	sent := f.mailer.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, sent.To)
	assert.Equal(t, "Airpods Assistant <onboarding@resend.dev>", sent.From)
	assert.Equal(t, "Thank you for your feedback!", sent.Subject)
	assert.Contains(t, sent.HTML, "<p><b>Rating:</b> 5</p>")
	assert.Contains(t, sent.HTML, "<p>Great!</p>")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FeedbackSent.WithLabelValues("ok")))
}

func TestSendFeedbackIgnoresEmptyResponse(t *testing.T) {
	f := newFixture(t, &stubAgent{})

	resp, err := f.svc.SendFeedback(context.Background(), domain.FeedbackRequest{Message: "ok", Email: "x@y.com", Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Rating)
}

func TestSendFeedbackEmailError(t *testing.T) {
	f := newFixture(t, &stubAgent{})
	f.mailer.err = errors.New("email API error [401]")

	_, err := f.svc.SendFeedback(context.Background(), domain.FeedbackRequest{Message: "ok", Email: "x@y.com", Rating: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send feedback email")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FeedbackSent.WithLabelValues("error")))
}

func TestRenderFeedbackEscapesHTML(t *testing.T) {
	html, err := renderFeedback(domain.FeedbackRequest{Message: "**loved** it <script>alert(1)</script>", Rating: 4})
	require.NoError(t, err)

	assert.Contains(t, html, "<strong>loved</strong>")
	assert.NotContains(t, html, "<script>")
}
