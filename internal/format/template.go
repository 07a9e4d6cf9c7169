// Package format renders alerts into publishable text without any
// network dependency. It must always succeed.
package format

import (
	"fmt"
	"strings"

	"whalerelay/internal/model"
)

const attribution = "— whalerelay, watching the chain so you don't have to"

// Tier is a presentation band selected by transferred value.
type Tier struct {
	Marker string
	Name   string
}

// Tier thresholds in ETH, highest first.
var tiers = []struct {
	min  float64
	tier Tier
}{
	{500, Tier{"🐋", "exceptional"}},
	{200, Tier{"🦈", "large"}},
	{100, Tier{"🔥", "notable"}},
	{0, Tier{"📦", "generic"}},
}

// TierFor selects the presentation tier for a value.
func TierFor(valueETH float64) Tier {
	for _, t := range tiers {
		if valueETH >= t.min {
			return t.tier
		}
	}
	return tiers[len(tiers)-1].tier
}

// Title renders the post title for an alert.
func Title(ev model.AlertEvent) string {
	tier := TierFor(ev.Tx.ValueETH)
	return fmt.Sprintf("%s %.2f ETH %s", tier.Marker, ev.Tx.ValueETH, actionSummary(ev))
}

// Render produces the full template post body. It is a pure function of
// the event: identical input always yields identical output.
func Render(ev model.AlertEvent) string {
	tier := TierFor(ev.Tx.ValueETH)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %.2f ETH %s → %s\n", tier.Marker, ev.Tx.ValueETH, actionSummary(ev), counterpart(ev))
	fmt.Fprintf(&b, "Rule: %s\n", ev.RuleName)
	if ev.BlockNumber != nil {
		fmt.Fprintf(&b, "Block %d fb%d\n", *ev.BlockNumber, ev.FlashblockIndex)
	}
	if ev.Tx.Hash != "" {
		fmt.Fprintf(&b, "🔗 https://basescan.org/tx/%s\n", ev.Tx.Hash)
	}
	b.WriteString(attribution)

	return b.String()
}

func actionSummary(ev model.AlertEvent) string {
	if ev.Tx.Action != "" {
		return ev.Tx.Action
	}
	if ev.Tx.ValueETH > 0 {
		return "ETH transfer"
	}
	return "contract call"
}

// counterpart is the destination label when known, else the truncated
// raw address — never an invented identity.
func counterpart(ev model.AlertEvent) string {
	if ev.Tx.ToLabel != "" {
		return ev.Tx.ToLabel
	}
	if ev.Tx.To != "" {
		return model.TruncateAddress(ev.Tx.To)
	}
	return "unknown"
}
