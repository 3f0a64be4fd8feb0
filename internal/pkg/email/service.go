package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Template names understood by the service.
const (
	TemplateVerification  = "verification"
	TemplatePasswordReset = "password_reset"
)

const sendTimeout = 15 * time.Second

// Message is a rendered email ready for delivery
type Message struct {
	To          string
	ToName      string
	Subject     string
	HTMLContent string
}

// Sender delivers a rendered message through a concrete transport
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// QueuedEmail represents an email in the send queue
type QueuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         map[string]string
}

// Service renders templates and delivers emails from a background worker.
// Queue never blocks the caller and never reports delivery failures.
type Service struct {
	sender       Sender
	templates    map[string]*template.Template
	baseTemplate *template.Template
	queue        chan *QueuedEmail
	wg           sync.WaitGroup
	closeOnce    sync.Once
}

// NewService creates email service and starts its worker
func NewService(sender Sender, queueSize int) *Service {
	if queueSize <= 0 {
		queueSize = 100
	}

	s := &Service{
		sender:       sender,
		templates:    make(map[string]*template.Template),
		baseTemplate: template.Must(template.New("base").Parse(BaseTemplate)),
		queue:        make(chan *QueuedEmail, queueSize),
	}
	s.loadTemplates()

	s.wg.Add(1)
	go s.worker()

	return s
}

func (s *Service) loadTemplates() {
	templates := map[string]string{
		TemplateVerification:  VerificationTemplate,
		TemplatePasswordReset: PasswordResetTemplate,
	}

	for name, content := range templates {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			log.Error().Err(err).Str("template", name).Msg("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

func (s *Service) worker() {
	defer s.wg.Done()

	for email := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := s.send(ctx, email); err != nil {
			log.Error().Err(err).
				Str("to", email.To).
				Str("template", email.TemplateName).
				Msg("Failed to send email")
		}
		cancel()
	}
}

func (s *Service) send(ctx context.Context, email *QueuedEmail) error {
	html, err := s.render(email.TemplateName, email.Data)
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, &Message{
		To:          email.To,
		ToName:      email.ToName,
		Subject:     email.Subject,
		HTMLContent: html,
	})
}

func (s *Service) render(templateName string, data map[string]string) (string, error) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return "", fmt.Errorf("email template %q not found", templateName)
	}

	var contentBuf bytes.Buffer
	if err := tmpl.Execute(&contentBuf, data); err != nil {
		return "", err
	}

	var htmlBuf bytes.Buffer
	if err := s.baseTemplate.Execute(&htmlBuf, map[string]interface{}{
		"Content": template.HTML(contentBuf.String()),
	}); err != nil {
		return "", err
	}

	return htmlBuf.String(), nil
}

// Queue adds an email to the async send queue
func (s *Service) Queue(to, toName, templateName, subject string, data map[string]string) {
	select {
	case s.queue <- &QueuedEmail{
		To:           to,
		ToName:       toName,
		Subject:      subject,
		TemplateName: templateName,
		Data:         data,
	}:
	default:
		log.Warn().Str("to", to).Str("template", templateName).Msg("Email queue full, dropping email")
	}
}

// Close drains the queue and stops the worker
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}
