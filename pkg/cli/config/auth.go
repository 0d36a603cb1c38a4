package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/usecase"
	"github.com/secmon-lab/riskhub/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for bearer token verification
type Auth struct {
	jwtSecret string
	jwksURL   string
	issuer    string
	audience  string
	noAuthUID string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HS256 secret for verifying bearer tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("RISKHUB_JWT_SECRET"),
			Destination: &x.jwtSecret,
		},
		&cli.StringFlag{
			Name:        "jwks-url",
			Usage:       "JWKS endpoint for verifying bearer tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("RISKHUB_JWKS_URL"),
			Destination: &x.jwksURL,
		},
		&cli.StringFlag{
			Name:        "jwt-issuer",
			Usage:       "Required iss claim",
			Category:    "Authentication",
			Sources:     cli.EnvVars("RISKHUB_JWT_ISSUER"),
			Destination: &x.issuer,
		},
		&cli.StringFlag{
			Name:        "jwt-audience",
			Usage:       "Required aud claim",
			Category:    "Authentication",
			Sources:     cli.EnvVars("RISKHUB_JWT_AUDIENCE"),
			Destination: &x.audience,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and act as the given user ID (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("RISKHUB_NO_AUTH"),
			Destination: &x.noAuthUID,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("jwt-secret.len", len(x.jwtSecret)),
		slog.String("jwks-url", x.jwksURL),
		slog.String("issuer", x.issuer),
		slog.String("audience", x.audience),
		slog.String("no-auth", x.noAuthUID),
	)
}

// IsNoAuthMode reports whether requests run as a fixed user
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuthUID != ""
}

// Configure returns the AuthUseCase selected by the flags. Exactly one of --jwt-secret,
// --jwks-url or --no-auth must be given.
func (x *Auth) Configure(ctx context.Context, repo interfaces.Repository) (usecase.AuthUseCaseInterface, error) {
	set := 0
	for _, v := range []string{x.jwtSecret, x.jwksURL, x.noAuthUID} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, goerr.Wrap(ErrInvalidConfig, "exactly one of --jwt-secret, --jwks-url or --no-auth is required")
	}

	opts := []usecase.AuthOption{}
	if x.issuer != "" {
		opts = append(opts, usecase.WithIssuer(x.issuer))
	}
	if x.audience != "" {
		opts = append(opts, usecase.WithAudience(x.audience))
	}

	switch {
	case x.noAuthUID != "":
		logging.Default().Warn("Running in no-auth mode (development only)", "user_id", x.noAuthUID)
		return usecase.NewNoAuthnUseCase(repo, x.noAuthUID), nil

	case x.jwksURL != "":
		uc, err := usecase.NewJWKSAuthUseCase(ctx, repo, x.jwksURL, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure JWKS authentication")
		}
		return uc, nil

	default:
		return usecase.NewHMACAuthUseCase(repo, []byte(x.jwtSecret), opts...), nil
	}
}
