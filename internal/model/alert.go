package model

import (
	"strings"
	"time"
)

// AlertEvent is the payload the upstream detector posts to the webhook.
// The relay never mutates it.
type AlertEvent struct {
	RuleName        string  `json:"rule_name"`
	BlockNumber     *uint64 `json:"block_number,omitempty"`
	FlashblockIndex uint64  `json:"flashblock_index"`
	Tx              AlertTx `json:"tx"`
	Timestamp       uint64  `json:"timestamp,omitempty"`
}

// AlertTx describes the transaction that triggered the rule.
// ValueETH decodes to 0 when absent; addresses are case-insensitive.
type AlertTx struct {
	Hash     string  `json:"hash,omitempty"`
	From     string  `json:"from,omitempty"`
	To       string  `json:"to,omitempty"`
	ToLabel  string  `json:"to_label,omitempty"`
	ValueETH float64 `json:"value_eth"`
	Action   string  `json:"action,omitempty"`
	Category string  `json:"category,omitempty"`
}

// EnrichedAddress is the merged identity/activity view of one address,
// scoped to a single pipeline run. Any network-derived field may be nil.
type EnrichedAddress struct {
	Address string
	Label   string
	Name    string
	TxCount *uint64
	Balance *float64
	IsKnown bool
}

// DisplayName returns the best available identity: known label, then
// resolved name, then the raw address.
func (ea EnrichedAddress) DisplayName() string {
	if ea.Label != "" {
		return ea.Label
	}
	if ea.Name != "" {
		return ea.Name
	}
	return ea.Address
}

// Path is the classification outcome for one alert.
type Path string

const (
	PathTemplate Path = "template"
	PathEnriched Path = "enriched"
)

// ContentType records how the published content was produced.
type ContentType string

const (
	ContentTemplate          ContentType = "template"
	ContentNarrative         ContentType = "narrative"
	ContentNarrativeFallback ContentType = "narrative-fallback"
)

// PublishRecord is the append-only audit entry written once per alert
// that reaches a terminal state.
type PublishRecord struct {
	Timestamp   time.Time   `json:"timestamp"`
	RuleName    string      `json:"rule_name"`
	Path        Path        `json:"path"`
	ContentType ContentType `json:"content_type"`
	StatusCode  int         `json:"status_code"`
	Success     bool        `json:"success"`
}

// NormalizeAddress lowercases an address for case-insensitive comparison.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// TruncateAddress shortens a raw address for display (0x1234567890… form).
func TruncateAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:12] + "…"
}
