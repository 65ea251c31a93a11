package probes

import (
	"context"
	"sort"

	"github.com/praetorian-inc/gqlscan/pkg/registry"
	"github.com/praetorian-inc/gqlscan/pkg/transport"
	"github.com/rs/zerolog/log"
)

// Harness runs a set of probes against one target, sequentially, and
// returns their results sorted worst-first.
type Harness struct {
	client  *transport.Client
	exclude map[string]bool
}

// NewHarness builds a Harness. excludeIDs names probes to skip (the
// CLI's `--exclude` flag, or config.ExcludedProbes).
func NewHarness(client *transport.Client, excludeIDs []string) *Harness {
	exclude := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		exclude[id] = true
	}
	return &Harness{client: client, exclude: exclude}
}

// Run executes every registered, non-excluded probe against url in
// catalogOrder's declaration order, swallowing individual probe errors
// (logged, not fatal) so one broken probe never aborts the scan.
func (h *Harness) Run(ctx context.Context, url string) []Result {
	results := make([]Result, 0, len(catalogOrder))

	for _, id := range catalogOrder {
		if h.exclude[id] {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if !Registry.Has(id) {
			log.Debug().Str("probe", id).Msg("catalogOrder entry has no registered probe")
			continue
		}

		probe, err := Registry.Create(id, registry.Config{})
		if err != nil {
			log.Debug().Err(err).Str("probe", id).Msg("failed to instantiate probe")
			continue
		}

		result, err := probe.Run(ctx, h.client, url)
		if err != nil {
			log.Debug().Err(err).Str("probe", id).Msg("probe run failed")
			continue
		}
		results = append(results, result)
	}

	sortBySeverity(results)
	return results
}

// sortBySeverity orders results High -> Info, stable within a
// severity so probes keep catalogOrder's declaration order when tied.
func sortBySeverity(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Severity > results[j].Severity
	})
}
