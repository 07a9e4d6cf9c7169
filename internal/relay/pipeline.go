// Package relay drives one alert from admission to a terminal state.
package relay

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"whalerelay/internal/cooldown"
	"whalerelay/internal/entities"
	"whalerelay/internal/format"
	"whalerelay/internal/metrics"
	"whalerelay/internal/model"
	"whalerelay/internal/publish"
)

// Enricher produces the merged per-address view for one alert.
type Enricher interface {
	EnrichPair(ctx context.Context, from, to string) (model.EnrichedAddress, model.EnrichedAddress)
}

// Narrator generates the narrated post, or signals fallback.
type Narrator interface {
	Enabled() bool
	Generate(ctx context.Context, ev model.AlertEvent, from, to model.EnrichedAddress, tierMarker string) (string, bool)
}

// Poster publishes final content to the platform.
type Poster interface {
	Publish(ctx context.Context, title, content string) publish.Result
}

// AuditSink records each alert's outcome.
type AuditSink interface {
	Write(record model.PublishRecord) error
}

// Pipeline owns the per-alert decision flow. Every admitted alert
// reaches PUBLISHED or PUBLISH_FAILED in bounded time; the only
// earlier exit is rejection at the cooldown gate.
type Pipeline struct {
	thresholdETH float64

	gate     *cooldown.Gate
	table    *entities.Table
	enricher Enricher
	narrator Narrator
	poster   Poster
	audit    AuditSink
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(
	thresholdETH float64,
	gate *cooldown.Gate,
	table *entities.Table,
	enricher Enricher,
	narrator Narrator,
	poster Poster,
	auditSink AuditSink,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		thresholdETH: thresholdETH,
		gate:         gate,
		table:        table,
		enricher:     enricher,
		narrator:     narrator,
		poster:       poster,
		audit:        auditSink,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// NarrativeEnabled reports whether the enriched path is available.
func (p *Pipeline) NarrativeEnabled() bool {
	return p.narrator != nil && p.narrator.Enabled()
}

// ThresholdETH returns the materiality threshold in effect.
func (p *Pipeline) ThresholdETH() float64 {
	return p.thresholdETH
}

// Process runs one alert through the pipeline. It returns the written
// PublishRecord, or nil when the alert was rejected at admission. It is
// called from its own goroutine per alert and never panics outward.
func (p *Pipeline) Process(ctx context.Context, ev model.AlertEvent) *model.PublishRecord {
	start := p.now()
	logger := p.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("rule", ev.RuleName),
		zap.Float64("value_eth", ev.Tx.ValueETH),
	)

	p.metrics.Received.Inc()

	if !p.gate.Admit(ev.RuleName) {
		p.metrics.Rejected.Inc()
		logger.Info("alert rejected by cooldown")
		return nil
	}

	path := Classify(ev.Tx.ValueETH, p.thresholdETH, p.NarrativeEnabled())
	logger.Info("alert classified", zap.String("path", string(path)))

	content, contentType := p.buildContent(ctx, ev, path, logger)
	title := format.Title(p.withKnownLabel(ev))

	result := p.poster.Publish(ctx, title, content)

	record := model.PublishRecord{
		Timestamp:   p.now(),
		RuleName:    ev.RuleName,
		Path:        path,
		ContentType: contentType,
		StatusCode:  result.StatusCode,
		Success:     result.Success,
	}

	if result.Success {
		p.gate.Record(ev.RuleName, record.Timestamp)
		p.metrics.Published.Inc()
		logger.Info("alert published",
			zap.Int("status", result.StatusCode),
			zap.String("content_type", string(contentType)))
	} else {
		// At-most-once: the alert is dropped, the cooldown untouched.
		p.metrics.PublishFailed.Inc()
		logger.Warn("publish failed, alert dropped",
			zap.Int("status", result.StatusCode),
			zap.String("content_type", string(contentType)))
	}

	p.metrics.PipelineSeconds.Observe(p.now().Sub(start).Seconds())

	if err := p.audit.Write(record); err != nil {
		logger.Error("audit write failed", zap.Error(err))
	}

	return &record
}

// buildContent produces the post body for the chosen path. The enriched
// path falls back to the template whenever narration fails, so the
// pipeline always has publishable content.
func (p *Pipeline) buildContent(ctx context.Context, ev model.AlertEvent, path model.Path, logger *zap.Logger) (string, model.ContentType) {
	labeled := p.withKnownLabel(ev)

	if path == model.PathTemplate {
		return format.Render(labeled), model.ContentTemplate
	}

	from, to := p.enricher.EnrichPair(ctx, ev.Tx.From, ev.Tx.To)
	if to.Label != "" {
		labeled.Tx.ToLabel = to.Label
	}

	tier := format.TierFor(ev.Tx.ValueETH)
	if text, ok := p.narrator.Generate(ctx, labeled, from, to, tier.Marker); ok {
		return text, model.ContentNarrative
	}

	logger.Warn("narrative generation failed, using template")
	return format.Render(labeled), model.ContentNarrativeFallback
}

// withKnownLabel returns a copy of the event with the destination label
// filled from the known-entity table when the detector left it empty.
// The caller's event is never mutated.
func (p *Pipeline) withKnownLabel(ev model.AlertEvent) model.AlertEvent {
	if ev.Tx.ToLabel == "" && ev.Tx.To != "" {
		if label, ok := p.table.Lookup(ev.Tx.To); ok {
			ev.Tx.ToLabel = label
		}
	}
	return ev
}
