package chart

import (
	"context"
	"fmt"
	"sync"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/shared"
)

// Registry resolves fixed account codes for the posting adapters. It is loaded
// once at startup and injected everywhere an adapter needs an account, so a
// missing or renamed code fails in one place instead of per call site.
type Registry struct {
	repo Repository

	mu     sync.RWMutex
	byCode map[string]Account
}

func NewRegistry(repo Repository) *Registry {
	return &Registry{repo: repo, byCode: make(map[string]Account)}
}

// Load refreshes the in-memory code map from storage.
func (r *Registry) Load(ctx context.Context) error {
	accounts, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("chart: load: %w", err)
	}
	byCode := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	r.mu.Lock()
	r.byCode = byCode
	r.mu.Unlock()
	return nil
}

// Resolve returns the active account for code. Absent or inactive codes are a
// configuration error: adapters must fail loudly rather than default silently.
func (r *Registry) Resolve(code string) (Account, error) {
	r.mu.RLock()
	account, ok := r.byCode[code]
	r.mu.RUnlock()
	if !ok {
		return Account{}, fmt.Errorf("%w: code %q", shared.ErrAccountNotConfigured, code)
	}
	if !account.IsActive {
		return Account{}, fmt.Errorf("%w: code %q is inactive", shared.ErrAccountNotConfigured, code)
	}
	return account, nil
}

// ResolveMany resolves a set of codes, failing on the first missing one.
func (r *Registry) ResolveMany(codes ...string) (map[string]Account, error) {
	out := make(map[string]Account, len(codes))
	for _, code := range codes {
		account, err := r.Resolve(code)
		if err != nil {
			return nil, err
		}
		out[code] = account
	}
	return out, nil
}

// All returns a snapshot of every loaded account ordered as stored.
func (r *Registry) All() []Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Account, 0, len(r.byCode))
	for _, a := range r.byCode {
		out = append(out, a)
	}
	return out
}
