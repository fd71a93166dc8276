// Package diag exposes a read-only, JSON-encodable view of a resolver's
// configuration, hints table, and telemetry counters — an http.Handler a
// host application can mount on its own mux. It is adapted from the
// original project's dashboard API handler, narrowed to read-only
// diagnostics: this library owns no listener of its own (spec.md §1
// Non-goals), so unlike the original it never calls http.ListenAndServe.
package diag

import (
	"encoding/json"
	"net/http"

	"resolvcore/hints"
	"resolvcore/internal/telemetry"
	"resolvcore/resolvconf"
)

// Report is the full JSON payload returned by Handler.
type Report struct {
	Nameservers []string             `json:"nameservers,omitempty"`
	Search      []string             `json:"search,omitempty"`
	NDots       uint8                `json:"ndots"`
	Zones       []hints.ZoneSnapshot `json:"zones,omitempty"`
	Telemetry   telemetry.Snapshot   `json:"telemetry"`
}

// Source supplies the live state a Handler reports on. A *resolvconf.Ref /
// *hints.Ref pair (or nil counters) satisfies typical use; Source exists so
// callers aren't forced to hand over their Refs directly.
type Source struct {
	Config    *resolvconf.Config
	Hints     *hints.Table
	Telemetry *telemetry.Counters
}

// Handler serves GET /-style diagnostic snapshots of src as JSON. It does
// not accept any method but GET.
func Handler(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		report := Report{}
		if src.Config != nil {
			report.NDots = src.Config.Options.NDots
			report.Search = append([]string(nil), src.Config.Search...)
			for _, ns := range src.Config.Nameservers {
				report.Nameservers = append(report.Nameservers, ns.String())
			}
		}
		if src.Hints != nil {
			report.Zones = src.Hints.Snapshot()
		}
		if src.Telemetry != nil {
			report.Telemetry = src.Telemetry.Snapshot()
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			http.Error(w, "error encoding JSON", http.StatusInternalServerError)
		}
	}
}
