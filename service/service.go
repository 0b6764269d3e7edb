package service

import (
	"context"
	"sync"

	"github.com/emzola/bookreviews/config"
	"github.com/emzola/bookreviews/internal/jsonlog"
	"github.com/emzola/bookreviews/repository"
)

type Service interface {
	books
	reviews
	users
	tokens
}

// Mailer sends a templated email. internal/mailer.Mailer satisfies it.
type Mailer interface {
	Send(recipient, templateFile string, data any) error
}

// Uploader stores a file and returns its public URL. clients.S3Uploader satisfies it.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// service defines the service layer.
type service struct {
	config   config.Config
	wg       *sync.WaitGroup
	logger   *jsonlog.Logger
	repo     repository.Repository
	mailer   Mailer
	uploader Uploader
}

// Option configures optional collaborators of the service.
type Option func(*service)

// WithMailer enables email notifications.
func WithMailer(m Mailer) Option {
	return func(s *service) { s.mailer = m }
}

// WithUploader enables book cover uploads.
func WithUploader(u Uploader) Option {
	return func(s *service) { s.uploader = u }
}

// New creates a new instance of Service. Background work is tracked on wg so
// the server can wait for it during shutdown.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository, opts ...Option) *service {
	s := &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		repo:   repo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
