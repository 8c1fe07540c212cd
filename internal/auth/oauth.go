package auth

import (
	"cinevault-backend/config"

	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"
)

// InitProviders registers the configured OAuth providers with goth.
// OAuth logins end in the same token-pair issuance path as local login.
func InitProviders(cfg *config.Config) {
	providers := []goth.Provider{}

	if cfg.Auth.Google.ClientID != "" && cfg.Auth.Google.ClientSecret != "" {
		log.Debug().Str("redirect_url", cfg.Auth.Google.RedirectURL).Msg("Initializing Google provider")

		provider := google.New(
			cfg.Auth.Google.ClientID,
			cfg.Auth.Google.ClientSecret,
			cfg.Auth.Google.RedirectURL,
			"email",
			"profile",
			"openid",
		)
		provider.SetHostedDomain("") // Allow any domain
		providers = append(providers, provider)
	}

	if cfg.Auth.Github.ClientID != "" && cfg.Auth.Github.ClientSecret != "" {
		log.Debug().Str("redirect_url", cfg.Auth.Github.RedirectURL).Msg("Initializing GitHub provider")
		providers = append(providers, github.New(
			cfg.Auth.Github.ClientID,
			cfg.Auth.Github.ClientSecret,
			cfg.Auth.Github.RedirectURL,
			"user:email",
		))
	}

	log.Debug().Int("provider_count", len(providers)).Msg("Using providers")
	goth.UseProviders(providers...)
}
