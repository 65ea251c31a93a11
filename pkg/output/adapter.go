package output

import (
	"github.com/praetorian-inc/capability-sdk/pkg/capability"
	"github.com/praetorian-inc/gqlscan/pkg/probes"
)

// ToFindings converts probe verdicts to SDK findings. Every result
// becomes a finding regardless of verdict, so a clean scan still
// shows which checks ran — Vulnerable distinguishes an exploitable
// result from a confirmed-safe one in the finding's Data.
func ToFindings(results []probes.Result) []capability.Finding {
	findings := make([]capability.Finding, 0, len(results))

	for _, r := range results {
		finding := capability.Finding{
			Type:     capability.FindingAttribute,
			Severity: toSDKSeverity(r.Severity),
			Data: map[string]any{
				"type":        "probe_result",
				"probe_id":    r.ID,
				"title":       r.Title,
				"description": r.Description,
				"impact":      r.Impact,
				"vulnerable":  r.Vulnerable,
				"repro":       r.ReproCmd,
			},
		}
		findings = append(findings, finding)
	}

	return findings
}

// toSDKSeverity maps a probes.Severity onto the SDK's severity scale.
// gqlscan never emits SeverityCritical: the probe catalog's worst
// verdict is High (resource-exhaustion DoS), not a confirmed RCE/data
// breach, so Critical would overstate every finding.
func toSDKSeverity(s probes.Severity) capability.Severity {
	switch s {
	case probes.SeverityHigh:
		return capability.SeverityHigh
	case probes.SeverityMedium:
		return capability.SeverityMedium
	case probes.SeverityLow:
		return capability.SeverityLow
	default:
		return capability.SeverityInfo
	}
}
