// Package probes implements the security test catalog: a uniform
// contract for black-box checks against a live GraphQL endpoint, and a
// harness that runs them and ranks the results by severity.
package probes

import (
	"context"

	"github.com/praetorian-inc/gqlscan/pkg/registry"
	"github.com/praetorian-inc/gqlscan/pkg/transport"
)

// Severity ranks how serious a confirmed finding is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

// String returns the upper-case severity name used in text output.
func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityLow:
		return "LOW"
	default:
		return "INFO"
	}
}

// Color names the severity's terminal color, matching the original
// tool's palette (red/yellow/blue/green for high/medium/low/info).
func (s Severity) Color() string {
	switch s {
	case SeverityHigh:
		return "red"
	case SeverityMedium:
		return "yellow"
	case SeverityLow:
		return "blue"
	default:
		return "green"
	}
}

// Result is a single probe's verdict against one target.
type Result struct {
	ID          string
	Title       string
	Description string
	Impact      string
	Severity    Severity
	Vulnerable  bool
	ReproCmd    string
}

// Probe is the contract every security test implements.
type Probe interface {
	ID() string
	Title() string
	Description() string
	Impact() string
	Severity() Severity

	// Run exercises the probe against url and returns its verdict. An
	// error here means the probe itself couldn't execute (transport
	// failure, malformed response) — it does not mean "not vulnerable".
	Run(ctx context.Context, client *transport.Client, url string) (Result, error)
}

// Registry is the self-registering probe catalog: every probe file's
// init() registers a factory here. Registry.List() sorts alphabetically
// (it's a generic, reusable registry with no notion of declaration
// order), so the harness does not use it for dispatch order — see
// catalogOrder.
var Registry = registry.New[Probe]("probes")

// catalogOrder is the probe run order the harness dispatches in,
// before its severity stable-sort tie-breaks on it (spec §5 "Ordering
// guarantees"). It mirrors original_source/src/tests/mod.rs's
// all_tests() literal list verbatim — DoS group, then info, then csrf
// — with the supplemental subscription_transport probe appended last,
// since it has no original_source counterpart.
var catalogOrder = []string{
	"alias_overloading",
	"batch_query",
	"directive_overloading",
	"circular_introspection",
	"field_duplication",
	"depth_limit",
	"query_complexity",
	"introspection",
	"graphiql",
	"field_suggestions",
	"trace_mode",
	"unhandled_errors",
	"get_query_support",
	"get_mutation",
	"post_urlencoded",
	"subscription_transport",
}
