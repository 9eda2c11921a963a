package booking

import (
	"context"
	"log/slog"

	"github.com/example/hotel-booking-workflow/internal/obs"
)

const msgPriceFailed = "Could not confirm the price"

// PriceStage retrieves the finalized, bookable price and conditions for
// one room offer. Like the rate view, it runs eagerly on stage entry.
type PriceStage struct {
	api     API
	log     *slog.Logger
	metrics *obs.Metrics
	signal  *Signal[HotelOffer]
}

func NewPriceStage(api API, log *slog.Logger, m *obs.Metrics) *PriceStage {
	return &PriceStage{api: api, log: log, metrics: m, signal: NewSignal[HotelOffer]()}
}

func (s *PriceStage) Signal() *Signal[HotelOffer] { return s.signal }

func (s *PriceStage) Fetch(ctx context.Context, offerID string) Result[HotelOffer] {
	s.signal.SetBusy(true)
	defer s.signal.SetBusy(false)

	offer, err := s.api.OfferPricing(ctx, offerID)

	var res Result[HotelOffer]
	if err != nil {
		s.log.Warn("price confirmation failed", "offer_id", offerID, "error", err)
		s.metrics.IncStageResult("price", "failure")
		res = Fail[HotelOffer](msgPriceFailed)
	} else {
		s.metrics.IncStageResult("price", "success")
		res = Ok(offer)
	}
	s.signal.Publish(res)
	return res
}
