package entities

import "testing"

func TestLookupCaseInsensitive(t *testing.T) {
	table := NewTable(nil)

	label, ok := table.Lookup("0x28C6C06298D514DB089934071355E5743BF21D60")
	if !ok {
		t.Fatalf("expected builtin match")
	}
	if label != "Binance Hot Wallet" {
		t.Fatalf("label mismatch: %q", label)
	}

	if _, ok := table.Lookup("0x0000000000000000000000000000000000000001"); ok {
		t.Fatalf("unexpected match for unknown address")
	}
}

func TestExtraLabelsOverrideBuiltin(t *testing.T) {
	table := NewTable(map[string]string{
		"0x28C6C06298d514db089934071355e5743bf21d60": "Binance 14",
		"0xAAAA000000000000000000000000000000000000": "Treasury Multisig",
		"0xbbbb000000000000000000000000000000000000": "",
	})

	label, _ := table.Lookup("0x28c6c06298d514db089934071355e5743bf21d60")
	if label != "Binance 14" {
		t.Fatalf("config label should win: %q", label)
	}

	if _, ok := table.Lookup("0xaaaa000000000000000000000000000000000000"); !ok {
		t.Fatalf("extra label not merged")
	}

	if _, ok := table.Lookup("0xbbbb000000000000000000000000000000000000"); ok {
		t.Fatalf("empty labels must be ignored")
	}
}
