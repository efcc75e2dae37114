// Package nixos resolves the active NixOS generation from the
// /run/current-system symlink.
package nixos

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creamcroissant/ansine/internal/cache"
)

const (
	// DefaultPath is the well-known symlink to the active generation.
	DefaultPath = "/run/current-system"

	storePrefix = "/nix/store/"
	cacheKey    = "current-system"
)

// Resolver reads and parses the current-system link, memoizing the result
// so a slow store readlink is not repeated on every tick.
type Resolver struct {
	path     string
	cache    cache.Store
	ttl      time.Duration
	readLink func(string) (string, error)
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithPath overrides the symlink location (tests).
func WithPath(path string) Option {
	return func(r *Resolver) { r.path = path }
}

// WithTTL overrides how long a resolved value is reused.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) { r.ttl = ttl }
}

// WithReadLink overrides the readlink syscall (tests).
func WithReadLink(fn func(string) (string, error)) Option {
	return func(r *Resolver) { r.readLink = fn }
}

// NewResolver returns a resolver over the default path. store may be nil to
// disable memoization.
func NewResolver(store cache.Store, opts ...Option) *Resolver {
	r := &Resolver{
		path:     DefaultPath,
		cache:    store,
		ttl:      time.Minute,
		readLink: os.Readlink,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache != nil {
		r.cache = r.cache.Namespace("nixos")
	}
	return r
}

// Current returns the human-readable name of the active generation.
func (r *Resolver) Current(ctx context.Context) (string, error) {
	if r.cache != nil {
		if cached, ok := r.cache.GetString(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	target, err := r.readLink(r.path)
	if err != nil {
		return "", fmt.Errorf("read link %s: %w", r.path, err)
	}
	system, err := ParseStorePath(target)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		r.cache.SetString(ctx, cacheKey, system, r.ttl)
	}
	return system, nil
}

// ParseStorePath strips the /nix/store/<hash>- prefix from a store path,
// leaving the derivation name, e.g.
// /nix/store/abc…xyz-nixos-system-atlas-24.05 → nixos-system-atlas-24.05.
func ParseStorePath(target string) (string, error) {
	rest, ok := strings.CutPrefix(target, storePrefix)
	if !ok {
		return "", fmt.Errorf("not a nix store path: %s", target)
	}
	hash, name, ok := strings.Cut(rest, "-")
	if !ok || hash == "" || name == "" {
		return "", fmt.Errorf("malformed store path: %s", target)
	}
	return name, nil
}
