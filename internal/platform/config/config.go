package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Provider holds the static OAuth client registration for one identity
// provider. A provider with an empty ClientID is treated as not configured.
type Provider struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Configured reports whether the provider can be used for login.
func (p Provider) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != "" && p.RedirectURI != ""
}

// Server captures gateway-level configuration so main stays lean.
type Server struct {
	Addr        string `envconfig:"COURSEGATE_ADDR" default:":8080"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`
	CatalogPath string `envconfig:"CATALOG_PATH" default:"courses.json"`

	// ExchangeTimeout bounds the provider token-exchange round trip. The
	// provider offers no cancellation of its own, so a hung call would
	// otherwise pin the callback request forever.
	ExchangeTimeout time.Duration `envconfig:"EXCHANGE_TIMEOUT" default:"10s"`

	LinkedInClientID     string `envconfig:"LINKEDIN_CLIENT_ID"`
	LinkedInClientSecret string `envconfig:"LINKEDIN_CLIENT_SECRET"`
	LinkedInRedirectURI  string `envconfig:"LINKEDIN_REDIRECT_URI"`

	GitHubClientID     string `envconfig:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `envconfig:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURI  string `envconfig:"GITHUB_REDIRECT_URI"`
}

// FromEnv builds a Server config from environment variables.
func FromEnv() (Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return Server{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// LinkedIn returns the LinkedIn provider registration.
func (s Server) LinkedIn() Provider {
	return Provider{
		ClientID:     s.LinkedInClientID,
		ClientSecret: s.LinkedInClientSecret,
		RedirectURI:  s.LinkedInRedirectURI,
	}
}

// GitHub returns the GitHub provider registration.
func (s Server) GitHub() Provider {
	return Provider{
		ClientID:     s.GitHubClientID,
		ClientSecret: s.GitHubClientSecret,
		RedirectURI:  s.GitHubRedirectURI,
	}
}
