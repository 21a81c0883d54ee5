package ratelimit

import (
	"strings"
	"time"
)

// Tier names a quota tier. Tier is a pure function of a client's
// identity: two requests that Identify to the same string always
// resolve to the same Tier.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierVIP     Tier = "vip"
)

// Quota is the maximum allowed request count within a trailing window.
type Quota struct {
	Limit  int64
	Window time.Duration
}

const (
	vipCredentialPrefix     = "vip_"
	premiumCredentialPrefix = "prem_"
)

// QuotaResolver maps a client identity to a Quota, purely and without
// side effects. The tier-to-quota table is immutable after
// construction and safe to read lock-free from any number of concurrent
// interceptor invocations.
type QuotaResolver struct {
	tiers map[Tier]Quota
}

// DefaultTiers is the quota table shipped with the engine: a strict
// free tier, a standard premium tier, and a high-throughput VIP tier.
func DefaultTiers() map[Tier]Quota {
	return map[Tier]Quota{
		TierFree:    {Limit: 5, Window: 60 * time.Second},
		TierPremium: {Limit: 50, Window: 60 * time.Second},
		TierVIP:     {Limit: 500, Window: 60 * time.Second},
	}
}

// NewQuotaResolver constructs a resolver from an explicit tier table. A
// nil or empty table is replaced with DefaultTiers so a zero-value
// caller still gets a sensible policy.
func NewQuotaResolver(tiers map[Tier]Quota) *QuotaResolver {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	return &QuotaResolver{tiers: tiers}
}

// Tier returns the displayable tier name for a client identity built by
// Identify. Only the api:-credential form of an identity can resolve to
// a paid tier; every ip:-only identity (and the literal "ip:unknown")
// resolves to free.
func (r *QuotaResolver) Tier(clientID string) Tier {
	cred, ok := strings.CutPrefix(clientID, "api:")
	if !ok {
		return TierFree
	}
	switch {
	case strings.HasPrefix(cred, vipCredentialPrefix):
		return TierVIP
	case strings.HasPrefix(cred, premiumCredentialPrefix):
		return TierPremium
	default:
		return TierFree
	}
}

// Resolve returns the Quota for a client identity.
func (r *QuotaResolver) Resolve(clientID string) Quota {
	return r.tiers[r.Tier(clientID)]
}
