package ratelimit

import "time"

// LimitConfig is a single window/max pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps scopes to the limits enforced for them. A request may
// match several scopes; every matching limit must hold.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// DefaultPolicy returns the default rate limit policy: generous reads,
// moderate writes, tight credential operations.
func DefaultPolicy() *Policy {
	return &Policy{
		Limits: map[Scope][]LimitConfig{
			ScopeGlobal: {
				{Window: time.Minute, Max: 300},
			},
			ScopeRead: {
				{Window: time.Minute, Max: 240},
			},
			ScopeWrite: {
				{Window: time.Minute, Max: 60},
				{Window: time.Hour, Max: 600},
			},
			ScopeAuth: {
				{Window: time.Minute, Max: 10},
				{Window: time.Hour, Max: 50},
			},
		},
	}
}
