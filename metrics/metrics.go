package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "decktracker_submissions_recorded_total",
		Help: "The total number of deck submissions recorded, including overwrites",
	})
	RosterImportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "decktracker_roster_imports_total",
		Help: "The total number of successful allowlist imports",
	})
	RosterMembersImportedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "decktracker_roster_members_imported_total",
		Help: "The total number of membership rows written by allowlist imports",
	})
)

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
