package booking

import (
	"context"
	"log/slog"

	"github.com/example/hotel-booking-workflow/internal/obs"
)

const msgBookingFailed = "Your booking could not be completed"

// SubmitStage sends the final booking request. Only single-offer booking
// is supported: if the supplier answers with several confirmations, the
// first one is kept and the rest are dropped.
type SubmitStage struct {
	api     API
	log     *slog.Logger
	metrics *obs.Metrics
	signal  *Signal[BookingConfirmation]
}

func NewSubmitStage(api API, log *slog.Logger, m *obs.Metrics) *SubmitStage {
	return &SubmitStage{api: api, log: log, metrics: m, signal: NewSignal[BookingConfirmation]()}
}

func (s *SubmitStage) Signal() *Signal[BookingConfirmation] { return s.signal }

func (s *SubmitStage) Submit(ctx context.Context, offerID string, guests []Guest, payments []PaymentMethod) Result[BookingConfirmation] {
	s.signal.SetBusy(true)
	defer s.signal.SetBusy(false)

	req := BookingRequest{OfferID: offerID, Guests: guests, Payments: payments}
	confs, err := s.api.CreateBooking(ctx, req)

	var res Result[BookingConfirmation]
	switch {
	case err != nil:
		s.log.Error("booking submission failed", "offer_id", offerID, "error", err)
		s.metrics.IncStageResult("booking", "failure")
		res = Fail[BookingConfirmation](msgBookingFailed)
	case len(confs) == 0:
		s.log.Error("booking response contained no confirmation", "offer_id", offerID)
		s.metrics.IncStageResult("booking", "failure")
		res = Fail[BookingConfirmation](msgBookingFailed)
	default:
		s.metrics.IncStageResult("booking", "success")
		res = Ok(confs[0])
	}
	s.signal.Publish(res)
	return res
}
