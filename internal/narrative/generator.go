// Package narrative turns an enriched alert into a short first-person
// post via an external language-completion service.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"whalerelay/internal/model"
)

// persona is the fixed instruction set sent with every request. The
// post must stay honest: an unrecognized address is reported as such,
// never given an invented identity.
const persona = `You are a whale-watching bot narrating large on-chain moves in first person.
Write one post of at most 280 characters plus a link line.
Start with the tier marker you are given, keep at most that one emoji.
Be direct and specific; have a take on what the movement means.
If an address is not a recognized entity, say so honestly. Never invent a label or identity for an unrecognized address. Do not pad with generic phrases.`

// Generator issues a single bounded call to a chat-completions style
// endpoint. A zero Token disables generation entirely.
type Generator struct {
	url    string
	token  string
	model  string
	client *http.Client
	logger *zap.Logger
}

// NewGenerator builds a Generator. The timeout is longer than the
// enrichment timeouts to allow for generation latency.
func NewGenerator(url, token, modelName string, timeout time.Duration, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		url:    url,
		token:  token,
		model:  modelName,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Enabled reports whether a narrative credential is configured.
func (g *Generator) Enabled() bool {
	return g != nil && g.token != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate returns the narrated post and true on success, or ("", false)
// on any failure mode. The caller treats false as "use the template
// fallback", never as an error.
func (g *Generator) Generate(ctx context.Context, ev model.AlertEvent, from, to model.EnrichedAddress, tierMarker string) (string, bool) {
	if !g.Enabled() {
		return "", false
	}

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: persona},
			{Role: "user", Content: BuildContext(ev, from, to, tierMarker)},
		},
	})
	if err != nil {
		g.logger.Warn("narrative request marshal failed", zap.Error(err))
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		g.logger.Warn("narrative request build failed", zap.Error(err))
		return "", false
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("narrative call failed", zap.String("rule", ev.RuleName), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warn("narrative call rejected", zap.Int("status", resp.StatusCode))
		return "", false
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		g.logger.Warn("narrative response decode failed", zap.Error(err))
		return "", false
	}
	if len(out.Choices) == 0 {
		return "", false
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", false
	}
	return text, true
}

// BuildContext renders the structured context block for the completion
// request: rule, value, action, and the best-available identity plus
// activity metrics for each address, with explicit recognized flags.
func BuildContext(ev model.AlertEvent, from, to model.EnrichedAddress, tierMarker string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Alert rule: %s\n", ev.RuleName)
	fmt.Fprintf(&b, "Value: %.2f ETH\n", ev.Tx.ValueETH)
	if ev.Tx.Action != "" {
		fmt.Fprintf(&b, "Action: %s\n", ev.Tx.Action)
	}
	if ev.Tx.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", ev.Tx.Category)
	}
	if ev.BlockNumber != nil {
		fmt.Fprintf(&b, "Block: %d fb%d\n", *ev.BlockNumber, ev.FlashblockIndex)
	}
	fmt.Fprintf(&b, "Tier marker: %s\n\n", tierMarker)

	writeAddress(&b, "From", from)
	writeAddress(&b, "To", to)

	if ev.Tx.Hash != "" {
		fmt.Fprintf(&b, "\nTx link: https://basescan.org/tx/%s\n", ev.Tx.Hash)
	}

	return b.String()
}

func writeAddress(b *strings.Builder, side string, ea model.EnrichedAddress) {
	if ea.Address == "" {
		fmt.Fprintf(b, "%s: unknown\n", side)
		return
	}

	fmt.Fprintf(b, "%s: %s (%s)\n", side, ea.DisplayName(), ea.Address)
	if ea.IsKnown {
		fmt.Fprintf(b, "  recognized entity: yes (%s)\n", ea.Label)
	} else {
		fmt.Fprintf(b, "  recognized entity: no\n")
	}
	if ea.TxCount != nil {
		fmt.Fprintf(b, "  transaction count: %d\n", *ea.TxCount)
	}
	if ea.Balance != nil {
		fmt.Fprintf(b, "  balance: %.2f ETH\n", *ea.Balance)
	}
}
