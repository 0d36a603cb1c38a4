package usecase

import (
	"crypto/sha256"
	"sync"
	"time"

	"github.com/secmon-lab/riskhub/pkg/domain/model"
)

const (
	authCacheTTL = 5 * time.Minute
)

type cachedUser struct {
	user      *model.User
	expiresAt time.Time
}

// authCache remembers verified tokens so a burst of requests does not re-verify the
// signature and re-read the user every time. Entries never outlive the token.
type authCache struct {
	cache sync.Map
}

func newAuthCache() *authCache {
	return &authCache{}
}

func tokenKey(token string) [sha256.Size]byte {
	return sha256.Sum256([]byte(token))
}

func (c *authCache) get(token string) (*model.User, bool) {
	key := tokenKey(token)
	val, ok := c.cache.Load(key)
	if !ok {
		return nil, false
	}

	cached := val.(*cachedUser)
	if time.Now().After(cached.expiresAt) {
		c.cache.Delete(key)
		return nil, false
	}

	u := *cached.user
	return &u, true
}

func (c *authCache) set(token string, user *model.User, tokenExpiry time.Time) {
	expiresAt := time.Now().Add(authCacheTTL)
	if !tokenExpiry.IsZero() && tokenExpiry.Before(expiresAt) {
		expiresAt = tokenExpiry
	}

	u := *user
	c.cache.Store(tokenKey(token), &cachedUser{
		user:      &u,
		expiresAt: expiresAt,
	})
}
