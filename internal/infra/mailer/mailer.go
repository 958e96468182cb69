package mailer

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"lab-booking-api/internal/pkg/config"

	"github.com/google/uuid"
	gomail "gopkg.in/gomail.v2"
)

// AddressDirectory resolves a user id to a deliverable address.
type AddressDirectory interface {
	FindEmail(ctx context.Context, id uuid.UUID) (string, error)
}

type template struct {
	subject string
	body    string
}

// Placeholders are {name} keys from the vars map.
var templates = map[string]template{
	"booking_created": {
		subject: "Your lab booking is received",
		body:    "Your booking {booking_id} has been received and is pending confirmation.",
	},
	"booking_cancelled": {
		subject: "Your lab booking was cancelled",
		body:    "Your booking {booking_id} has been cancelled.",
	},
	"payment_confirmed": {
		subject: "Payment received for your lab booking",
		body:    "We received your payment of {amount} for booking {booking_id}. Your appointment is confirmed.",
	},
	"results_published": {
		subject: "Your test results are ready",
		body:    "Results for booking {booking_id} have been published. Log in to view them.",
	},
	"report_uploaded": {
		subject: "Your lab report is ready",
		body:    "The report for booking {booking_id} is ready for download.",
	},
}

type message struct {
	template string
	userID   uuid.UUID
	vars     map[string]string
}

// Mailer delivers templated mail through a buffered background worker. When
// the queue is full the message is dropped and logged; mail never blocks or
// fails an API response.
type Mailer struct {
	cfg       config.SMTPConfig
	directory AddressDirectory
	logger    *slog.Logger

	mu     sync.Mutex
	queue  chan message
	closed bool
}

func NewMailer(cfg config.SMTPConfig, directory AddressDirectory, logger *slog.Logger) *Mailer {
	m := &Mailer{
		cfg:       cfg,
		directory: directory,
		logger:    logger,
		queue:     make(chan message, 100),
	}

	go m.worker()
	return m
}

func (m *Mailer) Send(tmpl string, userID uuid.UUID, vars map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		m.logger.Warn("mailer closed, dropping message", "template", tmpl, "user_id", userID)
		return
	}
	select {
	case m.queue <- message{template: tmpl, userID: userID, vars: vars}:
	default:
		m.logger.Warn("mail queue full, dropping message", "template", tmpl, "user_id", userID)
	}
}

// Close stops accepting messages and lets the worker drain the queue.
// Safe to call more than once, and a Send racing it just drops the message.
func (m *Mailer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.queue)
}

func (m *Mailer) worker() {
	for msg := range m.queue {
		if err := m.deliver(msg); err != nil {
			m.logger.Warn("failed to deliver mail", "template", msg.template, "user_id", msg.userID, "error", err)
		}
	}
}

func (m *Mailer) deliver(msg message) error {
	tmpl, ok := templates[msg.template]
	if !ok {
		m.logger.Warn("unknown mail template", "template", msg.template)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	to, err := m.directory.FindEmail(ctx, msg.userID)
	if err != nil {
		return err
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.cfg.From)
	mail.SetHeader("To", to)
	mail.SetHeader("Subject", tmpl.subject)
	mail.SetBody("text/plain", render(tmpl.body, msg.vars))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	return dialer.DialAndSend(mail)
}

func render(body string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(body)
}
