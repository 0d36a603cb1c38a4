package usecase_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
	"github.com/secmon-lab/riskhub/pkg/usecase"
)

func signHS256(t *testing.T, secret []byte, build func(*jwt.Builder) *jwt.Builder) string {
	t.Helper()
	tok, err := build(jwt.NewBuilder()).Build()
	gt.NoError(t, err).Required()
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, secret))
	gt.NoError(t, err).Required()
	return string(signed)
}

func TestAuthUseCase_HMAC(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	secret := []byte("test-secret-0123456789")
	uc := usecase.NewHMACAuthUseCase(f.repo, secret,
		usecase.WithIssuer("riskhub-test"),
		usecase.WithAudience("riskhub"),
	)

	valid := func(b *jwt.Builder) *jwt.Builder {
		return b.Subject(f.peer.ID).
			Issuer("riskhub-test").
			Audience([]string{"riskhub"}).
			Expiration(time.Now().Add(time.Hour))
	}

	t.Run("valid token resolves the user", func(t *testing.T) {
		user, err := uc.Authenticate(ctx, signHS256(t, secret, valid))
		gt.NoError(t, err).Required()
		gt.Value(t, user.ID).Equal(f.peer.ID)
		gt.Value(t, user.Department).Equal("Finance")
		gt.Value(t, user.Role).Equal(types.RoleUser)
	})

	t.Run("cached token returns the same user", func(t *testing.T) {
		token := signHS256(t, secret, valid)
		first, err := uc.Authenticate(ctx, token)
		gt.NoError(t, err).Required()
		second, err := uc.Authenticate(ctx, token)
		gt.NoError(t, err).Required()
		gt.Value(t, second).Equal(first)
	})

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{"empty token", func(t *testing.T) string { return "" }},
		{"garbage", func(t *testing.T) string { return "not-a-jwt" }},
		{"wrong secret", func(t *testing.T) string {
			return signHS256(t, []byte("another-secret-9876543210"), valid)
		}},
		{"expired", func(t *testing.T) string {
			return signHS256(t, secret, func(b *jwt.Builder) *jwt.Builder {
				return valid(b).Expiration(time.Now().Add(-time.Hour))
			})
		}},
		{"wrong issuer", func(t *testing.T) string {
			return signHS256(t, secret, func(b *jwt.Builder) *jwt.Builder {
				return valid(b).Issuer("someone-else")
			})
		}},
		{"wrong audience", func(t *testing.T) string {
			return signHS256(t, secret, func(b *jwt.Builder) *jwt.Builder {
				return valid(b).Audience([]string{"other"})
			})
		}},
		{"unknown subject", func(t *testing.T) string {
			return signHS256(t, secret, func(b *jwt.Builder) *jwt.Builder {
				return valid(b).Subject("ghost")
			})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Authenticate(ctx, tt.token(t))
			gt.Error(t, err).Is(model.ErrUnauthenticated)
			gt.Value(t, model.KindOf(err)).Equal(model.KindUnauthenticated)
		})
	}

	gt.Bool(t, uc.IsNoAuthn()).False()
}

func TestAuthUseCase_JWKS(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	gt.NoError(t, err).Required()

	privKey, err := jwk.FromRaw(raw)
	gt.NoError(t, err).Required()
	gt.NoError(t, privKey.Set(jwk.KeyIDKey, "test-key")).Required()
	gt.NoError(t, privKey.Set(jwk.AlgorithmKey, jwa.RS256)).Required()

	pubKey, err := privKey.PublicKey()
	gt.NoError(t, err).Required()
	set := jwk.NewSet()
	gt.NoError(t, set.AddKey(pubKey)).Required()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	}))
	defer srv.Close()

	uc, err := usecase.NewJWKSAuthUseCase(ctx, f.repo, srv.URL)
	gt.NoError(t, err).Required()

	tok, err := jwt.NewBuilder().Subject(f.admin.ID).Expiration(time.Now().Add(time.Hour)).Build()
	gt.NoError(t, err).Required()
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, privKey))
	gt.NoError(t, err).Required()

	user, err := uc.Authenticate(ctx, string(signed))
	gt.NoError(t, err).Required()
	gt.Value(t, user.ID).Equal(f.admin.ID)
	gt.Bool(t, user.IsAdmin()).True()

	t.Run("unreachable JWKS", func(t *testing.T) {
		_, err := usecase.NewJWKSAuthUseCase(ctx, f.repo, "http://127.0.0.1:1/jwks.json")
		gt.Value(t, err).NotNil()
	})
}

func TestNoAuthnUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("registered user", func(t *testing.T) {
		uc := usecase.NewNoAuthnUseCase(f.repo, f.admin.ID)
		user, err := uc.Authenticate(ctx, "")
		gt.NoError(t, err).Required()
		gt.Value(t, user.ID).Equal(f.admin.ID)
		gt.Bool(t, user.IsAdmin()).True()
		gt.Bool(t, uc.IsNoAuthn()).True()
	})

	t.Run("unregistered user falls back to a plain user", func(t *testing.T) {
		uc := usecase.NewNoAuthnUseCase(f.repo, "dev")
		user, err := uc.Authenticate(ctx, "ignored")
		gt.NoError(t, err).Required()
		gt.Value(t, user.ID).Equal("dev")
		gt.Bool(t, user.IsAdmin()).False()
	})
}
