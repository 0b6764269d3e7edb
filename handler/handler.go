package handler

import (
	"github.com/emzola/bookreviews/config"
	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/internal/jsonlog"
	"github.com/emzola/bookreviews/service"
	"github.com/jellydator/ttlcache/v3"
)

// Handler defines Handler layer.
type Handler struct {
	config  config.Config
	logger  *jsonlog.Logger
	cache   *ttlcache.Cache[string, *data.User]
	service service.Service
}

// New creates a new instance of Handler. cache holds the users resolved from
// authentication tokens, keyed by token hash.
func New(cfg config.Config, logger *jsonlog.Logger, cache *ttlcache.Cache[string, *data.User], service service.Service) *Handler {
	return &Handler{
		config:  cfg,
		logger:  logger,
		cache:   cache,
		service: service,
	}
}
