// Package enrich merges the known-entity table with best-effort network
// lookups into a complete per-address view.
package enrich

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"whalerelay/internal/chain"
	"whalerelay/internal/entities"
	"whalerelay/internal/model"
)

// AccountReader returns activity metrics for an address.
type AccountReader interface {
	AccountState(ctx context.Context, address string) (chain.AccountState, error)
}

// NameResolver maps an address to a human-readable name.
type NameResolver interface {
	Resolve(ctx context.Context, address string) (string, error)
}

// Enricher runs the per-address lookups for one alert. Account and name
// lookups may be nil when the corresponding endpoint is not configured;
// the table is always present.
type Enricher struct {
	table    *entities.Table
	accounts AccountReader
	names    NameResolver
	logger   *zap.Logger
}

// NewEnricher builds an Enricher with its dependencies.
func NewEnricher(table *entities.Table, accounts AccountReader, names NameResolver, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		table:    table,
		accounts: accounts,
		names:    names,
		logger:   logger,
	}
}

// EnrichPair enriches the origin and destination addresses concurrently.
// Every network lookup that times out or errors degrades to nil fields;
// the join always produces two structurally complete results. Absent
// data is valid data.
func (e *Enricher) EnrichPair(ctx context.Context, from, to string) (model.EnrichedAddress, model.EnrichedAddress) {
	var (
		mu  sync.Mutex
		out [2]model.EnrichedAddress
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, addr := range []string{from, to} {
		i, addr := i, addr
		out[i].Address = addr
		if addr == "" {
			continue
		}

		if label, ok := e.table.Lookup(addr); ok {
			out[i].Label = label
			out[i].IsKnown = true
		}

		if e.accounts != nil {
			g.Go(func() error {
				state, err := e.accounts.AccountState(gctx, addr)
				if err != nil {
					e.logger.Warn("account lookup degraded", zap.String("address", addr), zap.Error(err))
					return nil
				}
				mu.Lock()
				txCount := state.TxCount
				balance := state.BalanceETH
				out[i].TxCount = &txCount
				out[i].Balance = &balance
				mu.Unlock()
				return nil
			})
		}

		if e.names != nil {
			g.Go(func() error {
				name, err := e.names.Resolve(gctx, addr)
				if err != nil {
					e.logger.Debug("name lookup degraded", zap.String("address", addr), zap.Error(err))
					return nil
				}
				mu.Lock()
				out[i].Name = name
				mu.Unlock()
				return nil
			})
		}
	}

	// Lookups never return errors; Wait is a pure join.
	_ = g.Wait()

	return out[0], out[1]
}
