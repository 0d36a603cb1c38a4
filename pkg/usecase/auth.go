package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/utils/logging"
)

// AuthUseCaseInterface resolves a bearer token to the user making the request
type AuthUseCaseInterface interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
	IsNoAuthn() bool
}

// AuthUseCase verifies signed JWTs and resolves their subject through the user repository
type AuthUseCase struct {
	repo     interfaces.Repository
	keyOpt   jwt.ParseOption
	issuer   string
	audience string
	cache    *authCache
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithIssuer requires the iss claim to equal issuer
func WithIssuer(issuer string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.issuer = issuer
	}
}

// WithAudience requires the aud claim to contain audience
func WithAudience(audience string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.audience = audience
	}
}

func newAuthUseCase(repo interfaces.Repository, keyOpt jwt.ParseOption, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		repo:   repo,
		keyOpt: keyOpt,
		cache:  newAuthCache(),
	}
	for _, opt := range options {
		opt(uc)
	}
	return uc
}

// NewHMACAuthUseCase verifies HS256 tokens signed with secret
func NewHMACAuthUseCase(repo interfaces.Repository, secret []byte, options ...AuthOption) *AuthUseCase {
	return newAuthUseCase(repo, jwt.WithKey(jwa.HS256, secret), options...)
}

// NewJWKSAuthUseCase fetches the key set at jwksURL once and verifies tokens against it
func NewJWKSAuthUseCase(ctx context.Context, repo interfaces.Repository, jwksURL string, options ...AuthOption) (*AuthUseCase, error) {
	keySet, err := jwk.Fetch(ctx, jwksURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch JWKS", goerr.V("url", jwksURL))
	}
	return newAuthUseCase(repo, jwt.WithKeySet(keySet, jws.WithInferAlgorithmFromKey(true)), options...), nil
}

// Authenticate verifies token and returns the user named by its subject. Every failure,
// including an unknown subject, is ErrUnauthenticated except a user store outage.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, goerr.Wrap(model.ErrUnauthenticated, "bearer token is required")
	}

	if user, ok := uc.cache.get(token); ok {
		return user, nil
	}

	opts := []jwt.ParseOption{
		uc.keyOpt,
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(10 * time.Second),
	}
	if uc.issuer != "" {
		opts = append(opts, jwt.WithIssuer(uc.issuer))
	}
	if uc.audience != "" {
		opts = append(opts, jwt.WithAudience(uc.audience))
	}

	parsed, err := jwt.Parse([]byte(token), opts...)
	if err != nil {
		logging.From(ctx).Debug("token rejected", "error", err)
		return nil, goerr.Wrap(errors.Join(model.ErrUnauthenticated, err), "invalid token")
	}

	sub := parsed.Subject()
	if sub == "" {
		return nil, goerr.Wrap(model.ErrUnauthenticated, "token has no subject")
	}

	user, err := uc.repo.User().Get(ctx, sub)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(model.ErrUnauthenticated, "token subject is not a known user",
				goerr.V(model.UserIDKey, sub))
		}
		return nil, storeError(err, "failed to look up user", goerr.V(model.UserIDKey, sub))
	}

	uc.cache.set(token, user, parsed.Expiration())
	return user, nil
}

// IsNoAuthn returns false for AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}
