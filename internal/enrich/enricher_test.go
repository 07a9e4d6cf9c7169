package enrich

import (
	"context"
	"errors"
	"testing"

	"whalerelay/internal/chain"
	"whalerelay/internal/entities"
	"whalerelay/internal/model"
)

type fakeAccounts struct {
	states map[string]chain.AccountState
	err    error
}

func (f *fakeAccounts) AccountState(_ context.Context, address string) (chain.AccountState, error) {
	if f.err != nil {
		return chain.AccountState{}, f.err
	}
	return f.states[model.NormalizeAddress(address)], nil
}

type fakeNames struct {
	names map[string]string
	err   error
}

func (f *fakeNames) Resolve(_ context.Context, address string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	name, ok := f.names[model.NormalizeAddress(address)]
	if !ok {
		return "", errors.New("no name")
	}
	return name, nil
}

func TestEnrichPairMergesAllSources(t *testing.T) {
	table := entities.NewTable(nil)
	accounts := &fakeAccounts{states: map[string]chain.AccountState{
		"0xaaa": {TxCount: 42, BalanceETH: 1200.5},
	}}
	names := &fakeNames{names: map[string]string{"0xaaa": "whale.eth"}}

	e := NewEnricher(table, accounts, names, nil)
	from, to := e.EnrichPair(context.Background(), "0xAAA", "0x28c6c06298d514db089934071355e5743bf21d60")

	if from.Name != "whale.eth" {
		t.Fatalf("from name mismatch: %q", from.Name)
	}
	if from.TxCount == nil || *from.TxCount != 42 {
		t.Fatalf("from tx count mismatch: %v", from.TxCount)
	}
	if from.Balance == nil || *from.Balance != 1200.5 {
		t.Fatalf("from balance mismatch: %v", from.Balance)
	}
	if from.IsKnown {
		t.Fatalf("from should not be a known entity")
	}

	if !to.IsKnown || to.Label != "Binance Hot Wallet" {
		t.Fatalf("to should match the known-entity table: %+v", to)
	}
}

func TestEnrichPairAllLookupsFail(t *testing.T) {
	table := entities.NewTable(nil)
	accounts := &fakeAccounts{err: errors.New("rpc timeout")}
	names := &fakeNames{err: errors.New("resolver down")}

	e := NewEnricher(table, accounts, names, nil)
	from, to := e.EnrichPair(context.Background(), "0xaaa", "0xbbb")

	if from.TxCount != nil || from.Balance != nil || from.Name != "" {
		t.Fatalf("failed lookups must degrade to nil fields: %+v", from)
	}
	if to.TxCount != nil || to.Balance != nil || to.Name != "" {
		t.Fatalf("failed lookups must degrade to nil fields: %+v", to)
	}
	if from.Address != "0xaaa" || to.Address != "0xbbb" {
		t.Fatalf("addresses must survive total lookup failure")
	}
}

func TestEnrichPairNilClients(t *testing.T) {
	e := NewEnricher(entities.NewTable(nil), nil, nil, nil)
	from, to := e.EnrichPair(context.Background(), "", "0x4200000000000000000000000000000000000010")

	if from.Address != "" || from.IsKnown {
		t.Fatalf("empty origin must stay empty: %+v", from)
	}
	if to.Label != "Base L2 Bridge" {
		t.Fatalf("table lookup must work without network clients: %+v", to)
	}
}
