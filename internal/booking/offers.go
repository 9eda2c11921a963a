package booking

import (
	"context"
	"log/slog"
	"sync"

	"github.com/example/hotel-booking-workflow/internal/obs"
)

const (
	msgNoResults     = "No result for your research"
	msgOffersFailed  = "Hotel search failed"
	msgLoadMoreError = "Could not load more results"
)

// OfferStage searches hotel offers for a city and date range and pages
// through the result list. It retains the most recent page set and its
// continuation token for the duration of one search session; a fresh
// search replaces the retained state wholesale, a continuation fetch
// appends to it.
type OfferStage struct {
	api     API
	log     *slog.Logger
	metrics *obs.Metrics
	signal  *Signal[[]HotelOffer]

	mu   sync.Mutex
	busy bool
	page []HotelOffer
	next string
}

func NewOfferStage(api API, log *slog.Logger, m *obs.Metrics) *OfferStage {
	return &OfferStage{api: api, log: log, metrics: m, signal: NewSignal[[]HotelOffer]()}
}

func (s *OfferStage) Signal() *Signal[[]HotelOffer] { return s.signal }

// Page returns a copy of the retained offer list and the current
// continuation token.
func (s *OfferStage) Page() ([]HotelOffer, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HotelOffer(nil), s.page...), s.next
}

func (s *OfferStage) snapshot() Result[[]HotelOffer] {
	page, next := s.Page()
	return OkPage(page, next)
}

// begin marks the stage busy. It reports false if a request is already in
// flight, in which case the caller must back off: overlapping fetches
// would append duplicate or reordered entries to the retained list.
func (s *OfferStage) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *OfferStage) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	s.signal.SetBusy(false)
}

// Search fetches the first page of offers for the city and dates. A valid
// but empty result is reported as a Failure with a "no results" message,
// matching what the search screen shows the user. Date ordering is not
// checked here, the supplier owns date validity.
func (s *OfferStage) Search(ctx context.Context, cityCode string, stay StayDates) Result[[]HotelOffer] {
	if !s.begin() {
		return s.signal.Current().Result
	}
	s.signal.SetBusy(true)
	defer s.end()

	offers, next, err := s.api.SearchHotelOffers(ctx, cityCode, stay)

	var res Result[[]HotelOffer]
	switch {
	case err != nil:
		s.log.Warn("offer search failed", "city", cityCode, "error", err)
		s.metrics.IncStageResult("offers", "failure")
		s.retain(nil, "")
		res = Fail[[]HotelOffer](msgOffersFailed)
	case len(offers) == 0:
		s.metrics.IncStageResult("offers", "empty")
		s.retain(nil, "")
		res = Fail[[]HotelOffer](msgNoResults)
	default:
		s.metrics.IncStageResult("offers", "success")
		s.retain(offers, next)
		res = s.snapshot()
	}
	s.signal.Publish(res)
	return res
}

// LoadMore fetches the next page and appends it to the retained list,
// existing items first. Without a continuation token it is a no-op: no
// network call, retained state untouched. A continuation page that comes
// back empty simply ends pagination; reaching the natural end of the list
// is not an error.
func (s *OfferStage) LoadMore(ctx context.Context) Result[[]HotelOffer] {
	s.mu.Lock()
	if s.busy || s.next == "" {
		s.mu.Unlock()
		return s.snapshot()
	}
	next := s.next
	s.busy = true
	s.mu.Unlock()
	s.signal.SetBusy(true)
	defer s.end()

	offers, newNext, err := s.api.NextHotelOffers(ctx, next)

	var res Result[[]HotelOffer]
	if err != nil {
		s.log.Warn("continuation fetch failed", "error", err)
		s.metrics.IncStageResult("offers_more", "failure")
		// Keep the page the user already has.
		res = Fail[[]HotelOffer](msgLoadMoreError)
	} else {
		s.metrics.IncStageResult("offers_more", "success")
		s.mu.Lock()
		s.page = append(s.page, offers...)
		s.next = newNext
		s.mu.Unlock()
		res = s.snapshot()
	}
	s.signal.Publish(res)
	return res
}

func (s *OfferStage) retain(page []HotelOffer, next string) {
	s.mu.Lock()
	s.page = page
	s.next = next
	s.mu.Unlock()
}

// Contains reports whether the retained list includes the hotel. The
// workflow uses it to refuse selections that did not come from the
// current search result.
func (s *OfferStage) Contains(hotelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.page {
		if o.Hotel.HotelID == hotelID {
			return true
		}
	}
	return false
}
