// Package entities provides the static address-to-label directory
// consulted before any network lookup.
package entities

import (
	"whalerelay/internal/model"
)

// builtin labels for well-known Base/Ethereum addresses. User-supplied
// labels from the config file are merged on top and win on conflict.
var builtin = map[string]string{
	"0x71660c4005ba85c37ccec55d0c4493e66fe775d3": "Coinbase Hot Wallet",
	"0xa9d1e08c7793af67e9d92fe308d5697fb81d3e43": "Coinbase Cold Storage",
	"0x503828976d22510aad0201ac7ec88293211d23da": "Coinbase 2",
	"0xddfabcdc4d8ffc6d5beaf154f18b778f892a0740": "Coinbase 3",
	"0x28c6c06298d514db089934071355e5743bf21d60": "Binance Hot Wallet",
	"0x21a31ee1afc51d94c2efccaa2092ad1028285549": "Binance Cold Wallet",
	"0x3154cf16ccdb4c6d922629664174b904d80f2c35": "Base Bridge (L1)",
	"0x4200000000000000000000000000000000000010": "Base L2 Bridge",
	"0x2626664c2603336e57b271c5c0b26f421741e481": "Uniswap V3 Router (Base)",
	"0x198ef1ec325a96cc354c7266a038be8b5c558f67": "Uniswap Universal Router (Base)",
	"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913": "USDC (Base)",
}

// Table is an immutable address→label lookup. Built once at startup
// and shared read-only across pipeline runs.
type Table struct {
	labels map[string]string
}

// NewTable merges the built-in directory with extra labels (typically
// from the config file). Keys are normalized to lowercase.
func NewTable(extra map[string]string) *Table {
	labels := make(map[string]string, len(builtin)+len(extra))
	for addr, label := range builtin {
		labels[addr] = label
	}
	for addr, label := range extra {
		if label == "" {
			continue
		}
		labels[model.NormalizeAddress(addr)] = label
	}
	return &Table{labels: labels}
}

// Lookup returns the label for an address, case-insensitively.
func (t *Table) Lookup(addr string) (string, bool) {
	label, ok := t.labels[model.NormalizeAddress(addr)]
	return label, ok
}

// Len reports the number of known entities.
func (t *Table) Len() int {
	return len(t.labels)
}
