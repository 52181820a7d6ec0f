package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linkdeck/linkdeck/internal/ratelimit"
	"github.com/linkdeck/linkdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Record(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, errors.New("store error")
}

func testPolicy() *ratelimit.Policy {
	return &ratelimit.Policy{
		Limits: map[ratelimit.Scope][]ratelimit.LimitConfig{
			ratelimit.ScopeGlobal: {
				{Window: time.Minute, Max: 5},
			},
			ratelimit.ScopeAuth: {
				{Window: time.Minute, Max: 2},
			},
		},
	}
}

func TestPolicyLimiter_Allow(t *testing.T) {
	t.Run("allows requests under the limit", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), testPolicy())

		for range 5 {
			allowed, exceeded, err := limiter.Allow(context.Background(), "client1",
				[]ratelimit.Scope{ratelimit.ScopeGlobal})

			require.NoError(t, err)
			assert.True(t, allowed)
			assert.Nil(t, exceeded)
		}
	})

	t.Run("rejects requests over the limit", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), testPolicy())
		scopes := []ratelimit.Scope{ratelimit.ScopeGlobal}

		for range 5 {
			_, _, err := limiter.Allow(context.Background(), "client1", scopes)
			require.NoError(t, err)
		}

		allowed, exceeded, err := limiter.Allow(context.Background(), "client1", scopes)

		require.NoError(t, err)
		assert.False(t, allowed)
		require.NotNil(t, exceeded)
		assert.Equal(t, ratelimit.ScopeGlobal, exceeded.Scope)
		assert.Equal(t, int64(6), exceeded.Count)
	})

	t.Run("tightest scope wins", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), testPolicy())
		scopes := []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeAuth}

		for range 2 {
			allowed, _, err := limiter.Allow(context.Background(), "client1", scopes)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, exceeded, err := limiter.Allow(context.Background(), "client1", scopes)

		require.NoError(t, err)
		assert.False(t, allowed)
		require.NotNil(t, exceeded)
		assert.Equal(t, ratelimit.ScopeAuth, exceeded.Scope)
	})

	t.Run("clients are tracked independently", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), testPolicy())
		scopes := []ratelimit.Scope{ratelimit.ScopeGlobal}

		for range 5 {
			_, _, err := limiter.Allow(context.Background(), "client1", scopes)
			require.NoError(t, err)
		}

		allowed, _, err := limiter.Allow(context.Background(), "client2", scopes)

		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("unknown scope has no limits", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), testPolicy())

		allowed, exceeded, err := limiter.Allow(context.Background(), "client1",
			[]ratelimit.Scope{ratelimit.Scope("unconfigured")})

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Nil(t, exceeded)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		limiter := ratelimit.NewPolicyLimiter(failingStore{}, testPolicy())

		_, _, err := limiter.Allow(context.Background(), "client1",
			[]ratelimit.Scope{ratelimit.ScopeGlobal})

		assert.Error(t, err)
	})
}

func TestDefaultPolicy(t *testing.T) {
	t.Run("covers every scope", func(t *testing.T) {
		policy := ratelimit.DefaultPolicy()

		for _, scope := range []ratelimit.Scope{
			ratelimit.ScopeGlobal,
			ratelimit.ScopeRead,
			ratelimit.ScopeWrite,
			ratelimit.ScopeAuth,
		} {
			assert.NotEmpty(t, policy.Limits[scope], "scope %s", scope)
		}
	})

	t.Run("auth is the tightest scope", func(t *testing.T) {
		policy := ratelimit.DefaultPolicy()

		assert.Less(t, policy.Limits[ratelimit.ScopeAuth][0].Max,
			policy.Limits[ratelimit.ScopeWrite][0].Max)
	})
}
