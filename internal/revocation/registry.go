// Package revocation answers "is this access token revoked?" through a
// two-tier membership set: a bounded, time-expiring local cache in front of a
// durable Redis store keyed "BL:"+token.
//
// Revocation must be visible to every node promptly, which the durable tier
// provides; the local cache absorbs the per-request read volume without a
// store round trip per request. Staleness is bounded by the cache TTL, which
// is short relative to token lifetimes.
package revocation

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrUnavailable reports that the durable tier could not be reached.
var ErrUnavailable = errors.New("revocation: store unavailable")

// Tier is a TTL-bounded boolean membership set. Two implementations exist:
// the durable Redis tier and the in-process sharded cache. Keeping both
// behind one interface makes the registry backend-agnostic and mockable.
type Tier interface {
	// Get reports the stored verdict for the token. found is false when the
	// tier holds no entry (the caller decides what a miss means).
	Get(ctx context.Context, token string) (revoked, found bool, err error)

	// Set records a verdict with the given TTL.
	Set(ctx context.Context, token string, revoked bool, ttl time.Duration) error
}

// Registry combines the two tiers with a read-through, write-through policy.
type Registry struct {
	local    Tier
	durable  Tier
	cacheTTL time.Duration
	log      *slog.Logger
}

// NewRegistry builds a registry over the given tiers. cacheTTL is the fixed
// local-cache entry lifetime, deliberately independent of any token's own
// remaining life.
func NewRegistry(durable, local Tier, cacheTTL time.Duration, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Registry{local: local, durable: durable, cacheTTL: cacheTTL, log: log}
}

// MarkRevoked records the token in both tiers. The durable entry lives for
// remaining, never longer than the token itself could stay valid. A
// non-positive remaining means the token is already expired and needs no
// entry; that case is logged and ignored.
func (r *Registry) MarkRevoked(ctx context.Context, token string, remaining time.Duration) error {
	if remaining <= 0 {
		r.log.Warn("skipping blacklist of already-expired token")
		return nil
	}

	if err := r.durable.Set(ctx, token, true, remaining); err != nil {
		return errors.Join(ErrUnavailable, err)
	}

	// Local population is an optimisation; the durable write already took
	// effect for every node.
	if err := r.local.Set(ctx, token, true, r.cacheTTL); err != nil {
		r.log.Warn("local blacklist cache write failed", "error", err)
	}
	return nil
}

// IsRevoked checks the local cache first; on a miss it consults the durable
// tier and caches the verdict, positive or negative, so repeated checks for
// the same token don't each cost a store round trip.
func (r *Registry) IsRevoked(ctx context.Context, token string) (bool, error) {
	if revoked, found, err := r.local.Get(ctx, token); err == nil && found {
		return revoked, nil
	}

	revoked, _, err := r.durable.Get(ctx, token)
	if err != nil {
		return false, errors.Join(ErrUnavailable, err)
	}

	if err := r.local.Set(ctx, token, revoked, r.cacheTTL); err != nil {
		r.log.Warn("local blacklist cache write failed", "error", err)
	}
	return revoked, nil
}
