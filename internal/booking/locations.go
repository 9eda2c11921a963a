package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/hotel-booking-workflow/internal/obs"
)

const msgLocationFailed = "Could not search locations"

// LocationStage resolves free-text city input to IATA city codes. City
// filtering happens in the supplier request parameters, not here.
type LocationStage struct {
	api     API
	cache   *locationCache
	log     *slog.Logger
	metrics *obs.Metrics
	signal  *Signal[[]Location]
}

func NewLocationStage(api API, cacheTTL time.Duration, log *slog.Logger, m *obs.Metrics) *LocationStage {
	return &LocationStage{
		api:     api,
		cache:   newLocationCache(cacheTTL, m),
		log:     log,
		metrics: m,
		signal:  NewSignal[[]Location](),
	}
}

func (s *LocationStage) Signal() *Signal[[]Location] { return s.signal }

// Search looks up cities matching the fragment. An empty fragment is
// passed through to the supplier, and an empty result list is a Success:
// zero matching cities is an answer, not an error.
func (s *LocationStage) Search(ctx context.Context, fragment string) Result[[]Location] {
	s.signal.SetBusy(true)
	defer s.signal.SetBusy(false)

	locs, err := s.cache.getOrFetch(ctx, fragment, func(ctx context.Context) ([]Location, error) {
		return s.api.SearchLocations(ctx, fragment)
	})

	var res Result[[]Location]
	if err != nil {
		s.log.Warn("location search failed", "fragment", fragment, "error", err)
		s.metrics.IncStageResult("location", "failure")
		res = Fail[[]Location](msgLocationFailed)
	} else {
		s.metrics.IncStageResult("location", "success")
		res = Ok(locs)
	}
	s.signal.Publish(res)
	return res
}
