package relay

import (
	"whalerelay/internal/model"
)

// Classify selects the processing path for one alert. The enriched path
// needs both a material value and a narrative credential; everything
// else stays deterministic and network-free.
func Classify(valueETH, thresholdETH float64, narrativeEnabled bool) model.Path {
	if valueETH >= thresholdETH && narrativeEnabled {
		return model.PathEnriched
	}
	return model.PathTemplate
}
