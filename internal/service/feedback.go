package service

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"

	"github.com/xiaot623/postcard/internal/adapter/email"
	"github.com/xiaot623/postcard/internal/domain"
)

const feedbackSubject = "Thank you for your feedback!"

var feedbackTemplate = template.Must(template.New("feedback").Parse(
	`<h3>Thank you for your feedback! I really value your feedback and it helps me improve the product quality.</h3>` +
		`<p></p><p><b>Rating:</b> {{.Rating}}</p><p><b>Feedback:</b></p>{{.Message}}`))

// goldmark's default renderer drops raw HTML, so user input cannot inject
// markup into the email.
var markdown = goldmark.New()

// SendFeedback emails the feedback to the configured recipient. The email
// API's response body is not inspected.
func (s *Service) SendFeedback(ctx context.Context, req domain.FeedbackRequest) (*domain.FeedbackResponse, error) {
	html, err := renderFeedback(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.mailer.Send(ctx, email.Message{
		From:    s.config.ResendFrom,
		To:      []string{s.config.ResendFeedbackEmail},
		Subject: feedbackSubject,
		HTML:    html,
	})
	if err != nil {
		s.metrics.FeedbackSent.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "failed to send feedback email")
	}
	s.metrics.FeedbackSent.WithLabelValues("ok").Inc()

	id := ""
	if resp != nil {
		id = resp.ID
	}
	slog.Info("feedback email sent", "email_id", id, "from_user", req.Email, "rating", req.Rating)

	return &domain.FeedbackResponse{
		Message: "Feedback sent successfully",
		Rating:  req.Rating,
	}, nil
}

func renderFeedback(req domain.FeedbackRequest) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(req.Message), &body); err != nil {
		return "", errors.Wrap(err, "failed to render feedback message")
	}

	var out bytes.Buffer
	err := feedbackTemplate.Execute(&out, struct {
		Rating  int
		Message template.HTML
	}{
		Rating:  req.Rating,
		Message: template.HTML(body.String()),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to render feedback email")
	}
	return out.String(), nil
}
