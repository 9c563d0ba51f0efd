// Package handler exposes the session redirect bridge: the stateless HTTP
// endpoint pair that drives the provider round trip and hands the resulting
// identity to the front-end via redirect query parameters.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"coursegate/internal/identity/models"
	"coursegate/internal/identity/provider"
	"coursegate/internal/identity/service"
	"coursegate/internal/identity/token"
	"coursegate/internal/platform/metrics"
	"coursegate/internal/platform/middleware"
	dErrors "coursegate/pkg/domain-errors"
	"coursegate/pkg/platform/httputil"
)

// Exchanger trades an authorization code for an identity profile.
type Exchanger interface {
	Exchange(ctx context.Context, prov *provider.Provider, code string) (models.Profile, error)
}

// Handler handles the login and callback endpoints. It keeps no state
// between requests: the two halves of the OAuth round trip are correlated
// only by the provider's authorization code.
type Handler struct {
	logger      *slog.Logger
	providers   *provider.Registry
	exchange    Exchanger
	metrics     *metrics.Metrics
	frontendURL string
}

// New creates the identity Handler.
func New(
	providers *provider.Registry,
	exchange Exchanger,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	frontendURL string) *Handler {
	return &Handler{
		logger:      logger,
		providers:   providers,
		exchange:    exchange,
		metrics:     metrics,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// Register registers the identity routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/auth/{provider}", h.handleLogin)
	r.Get("/auth/{provider}/callback", h.handleCallback)
}

// handleLogin redirects the browser to the provider's authorization page.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	prov, ok := h.lookupProvider(w, r)
	if !ok {
		return
	}
	h.metrics.ObserveLoginStarted(string(prov.Name()))
	http.Redirect(w, r, prov.AuthCodeURL(), http.StatusFound)
}

// handleCallback exchanges the authorization code and redirects back to the
// front-end's landing route with name and email as query parameters.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	prov, ok := h.lookupProvider(w, r)
	if !ok {
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		// Terminal: without a code there is nothing to exchange. The user
		// can only re-initiate the login flow from the start.
		h.logger.WarnContext(ctx, "callback missing authorization code",
			"request_id", middleware.GetRequestID(ctx),
			"provider", prov.Name(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing authorization code"))
		return
	}

	profile, err := h.exchange.Exchange(ctx, prov, code)
	if err != nil {
		h.logger.ErrorContext(ctx, "identity exchange failed",
			"request_id", middleware.GetRequestID(ctx),
			"provider", prov.Name(),
			"error", err.Error(),
		)
		h.metrics.ObserveExchange(string(prov.Name()), outcome(err))
		// Provider error bodies stay in the logs; clients get a generic
		// failure regardless of the underlying cause.
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication failed"))
		return
	}
	h.metrics.ObserveExchange(string(prov.Name()), "success")

	q := url.Values{}
	q.Set("name", profile.Name)
	q.Set("email", profile.Email)
	http.Redirect(w, r, h.frontendURL+"/student?"+q.Encode(), http.StatusFound)
}

func (h *Handler) lookupProvider(w http.ResponseWriter, r *http.Request) (*provider.Provider, bool) {
	name := chi.URLParam(r, "provider")
	prov, ok := h.providers.Lookup(name)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown provider"))
		return nil, false
	}
	return prov, true
}

// outcome labels exchange failures for metrics.
func outcome(err error) string {
	switch {
	case errors.Is(err, service.ErrExchangeTimeout):
		return "timeout"
	case errors.Is(err, service.ErrMissingIDToken):
		return "missing_id_token"
	case errors.Is(err, token.ErrMalformedToken):
		return "malformed_token"
	default:
		return "exchange_failed"
	}
}
