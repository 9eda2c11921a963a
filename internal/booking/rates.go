package booking

import (
	"context"
	"log/slog"

	"github.com/example/hotel-booking-workflow/internal/obs"
)

const msgRatesFailed = "Could not load rooms for this hotel"

// RateStage fetches the room offers of one hotel. It runs eagerly when
// the workflow enters the rate view, not on user demand.
type RateStage struct {
	api     API
	log     *slog.Logger
	metrics *obs.Metrics
	signal  *Signal[HotelOffer]
}

func NewRateStage(api API, log *slog.Logger, m *obs.Metrics) *RateStage {
	return &RateStage{api: api, log: log, metrics: m, signal: NewSignal[HotelOffer]()}
}

func (s *RateStage) Signal() *Signal[HotelOffer] { return s.signal }

func (s *RateStage) Fetch(ctx context.Context, hotelID string, stay StayDates) Result[HotelOffer] {
	s.signal.SetBusy(true)
	defer s.signal.SetBusy(false)

	offer, err := s.api.HotelOffersByHotel(ctx, hotelID, stay)

	var res Result[HotelOffer]
	if err != nil {
		s.log.Warn("rate lookup failed", "hotel_id", hotelID, "error", err)
		s.metrics.IncStageResult("rates", "failure")
		res = Fail[HotelOffer](msgRatesFailed)
	} else {
		s.metrics.IncStageResult("rates", "success")
		res = Ok(offer)
	}
	s.signal.Publish(res)
	return res
}

// HasOffer reports whether the last successful lookup contains the room
// offer.
func (s *RateStage) HasOffer(offerID string) bool {
	st := s.signal.Current()
	if !st.Settled || !st.Result.Succeeded() {
		return false
	}
	for _, o := range st.Result.Value().Offers {
		if o.ID == offerID {
			return true
		}
	}
	return false
}
