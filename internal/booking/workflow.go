package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/hotel-booking-workflow/internal/obs"
	"github.com/example/hotel-booking-workflow/internal/validator"
	"github.com/google/uuid"
)

// Stage is one step of the booking workflow. Transitions are strictly
// forward: each stage's required input comes from the previous stage's
// success.
type Stage int

const (
	StageLocationSearch Stage = iota
	StageOfferSearch
	StageRateView
	StagePriceConfirm
	StageBookingSubmit
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageLocationSearch:
		return "location_search"
	case StageOfferSearch:
		return "offer_search"
	case StageRateView:
		return "rate_view"
	case StagePriceConfirm:
		return "price_confirm"
	case StageBookingSubmit:
		return "booking_submit"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

var (
	ErrWrongStage   = errors.New("action not valid in current stage")
	ErrMissingInput = errors.New("selection is not part of the current results")
	ErrClosed       = errors.New("workflow is closed")
)

// Workflow sequences the five booking stages for one user session,
// threading the accumulated context (city code, stay dates, hotel id,
// offer id) forward. One workflow instance owns its stages and their
// retained state exclusively; Close cancels in-flight work and detaches
// every signal, so a late response can never touch a torn-down session.
type Workflow struct {
	ID string

	Locations *LocationStage
	Offers    *OfferStage
	Rates     *RateStage
	Price     *PriceStage
	Booking   *SubmitStage

	log     *slog.Logger
	metrics *obs.Metrics

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	stage        Stage
	stay         StayDates
	cityCode     string
	hotelID      string
	offerID      string
	confirmation *BookingConfirmation
}

// NewWorkflow validates the stay dates and builds a workflow instance in
// the location-search stage.
func NewWorkflow(api API, stay StayDates, locationCacheTTL time.Duration, log *slog.Logger, m *obs.Metrics) (*Workflow, error) {
	if err := stay.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New().String()
	log = log.With("workflow_id", id)
	w := &Workflow{
		ID:        id,
		Locations: NewLocationStage(api, locationCacheTTL, log, m),
		Offers:    NewOfferStage(api, log, m),
		Rates:     NewRateStage(api, log, m),
		Price:     NewPriceStage(api, log, m),
		Booking:   NewSubmitStage(api, log, m),
		log:       log,
		metrics:   m,
		ctx:       ctx,
		cancel:    cancel,
		stay:      stay,
	}
	m.IncWorkflowsStarted()
	return w, nil
}

func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

func (w *Workflow) Stay() StayDates {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stay
}

// Confirmation returns the booking record once the workflow is done.
func (w *Workflow) Confirmation() *BookingConfirmation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmation
}

// Close cancels any in-flight stage request and closes all signals.
// Results arriving after Close are discarded.
func (w *Workflow) Close() {
	w.cancel()
	w.Locations.Signal().Close()
	w.Offers.Signal().Close()
	w.Rates.Signal().Close()
	w.Price.Signal().Close()
	w.Booking.Signal().Close()
}

func (w *Workflow) require(want Stage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ctx.Err(); err != nil {
		return ErrClosed
	}
	if w.stage != want {
		return fmt.Errorf("%w: in %s, want %s", ErrWrongStage, w.stage, want)
	}
	return nil
}

// SearchLocations resolves the city fragment. It does not advance the
// workflow; the user advances by selecting one of the returned cities.
func (w *Workflow) SearchLocations(fragment string) (Result[[]Location], error) {
	if err := w.require(StageLocationSearch); err != nil {
		return Result[[]Location]{}, err
	}
	return w.Locations.Search(w.ctx, fragment), nil
}

// SelectLocation advances to the offer search. The chosen location must
// come from the resolver's current success result, picking a city the
// user was never shown is refused.
func (w *Workflow) SelectLocation(loc Location) (Result[[]HotelOffer], error) {
	if err := w.require(StageLocationSearch); err != nil {
		return Result[[]HotelOffer]{}, err
	}
	code, err := validator.ValidateCityCode(loc.CityCode)
	if err != nil {
		return Result[[]HotelOffer]{}, err
	}
	loc.CityCode = code
	if !w.locationKnown(loc) {
		return Result[[]HotelOffer]{}, ErrMissingInput
	}

	w.mu.Lock()
	w.cityCode = loc.CityCode
	w.stage = StageOfferSearch
	stay := w.stay
	w.mu.Unlock()

	w.log.Info("entering offer search", "city_code", loc.CityCode)
	return w.Offers.Search(w.ctx, loc.CityCode, stay), nil
}

func (w *Workflow) locationKnown(loc Location) bool {
	st := w.Locations.Signal().Current()
	if !st.Settled || !st.Result.Succeeded() {
		return false
	}
	for _, l := range st.Result.Value() {
		if l.CityCode == loc.CityCode {
			return true
		}
	}
	return false
}

// SearchOffers re-runs the offer search with the selected city, replacing
// the retained result set wholesale.
func (w *Workflow) SearchOffers() (Result[[]HotelOffer], error) {
	if err := w.require(StageOfferSearch); err != nil {
		return Result[[]HotelOffer]{}, err
	}
	w.mu.Lock()
	city, stay := w.cityCode, w.stay
	w.mu.Unlock()
	return w.Offers.Search(w.ctx, city, stay), nil
}

// LoadMoreOffers fetches the next page of the current search session.
func (w *Workflow) LoadMoreOffers() (Result[[]HotelOffer], error) {
	if err := w.require(StageOfferSearch); err != nil {
		return Result[[]HotelOffer]{}, err
	}
	return w.Offers.LoadMore(w.ctx), nil
}

// SelectHotel advances to the rate view and eagerly fetches the hotel's
// room offers.
func (w *Workflow) SelectHotel(hotelID string) (Result[HotelOffer], error) {
	if err := w.require(StageOfferSearch); err != nil {
		return Result[HotelOffer]{}, err
	}
	if !w.Offers.Contains(hotelID) {
		return Result[HotelOffer]{}, ErrMissingInput
	}

	w.mu.Lock()
	w.hotelID = hotelID
	w.stage = StageRateView
	stay := w.stay
	w.mu.Unlock()

	w.log.Info("entering rate view", "hotel_id", hotelID)
	return w.Rates.Fetch(w.ctx, hotelID, stay), nil
}

// SelectRoomOffer advances to the price confirmation and eagerly fetches
// the finalized price.
func (w *Workflow) SelectRoomOffer(offerID string) (Result[HotelOffer], error) {
	if err := w.require(StageRateView); err != nil {
		return Result[HotelOffer]{}, err
	}
	if !w.Rates.HasOffer(offerID) {
		return Result[HotelOffer]{}, ErrMissingInput
	}

	w.mu.Lock()
	w.offerID = offerID
	w.stage = StagePriceConfirm
	w.mu.Unlock()

	w.log.Info("entering price confirmation", "offer_id", offerID)
	return w.Price.Fetch(w.ctx, offerID), nil
}

// ConfirmBooking submits the booking with the given guests and the fixed
// demo payment method. The confirmed price must have loaded successfully
// first. On success the workflow is done.
func (w *Workflow) ConfirmBooking(guests []Guest) (Result[BookingConfirmation], error) {
	if err := w.require(StagePriceConfirm); err != nil {
		return Result[BookingConfirmation]{}, err
	}
	if st := w.Price.Signal().Current(); !st.Settled || !st.Result.Succeeded() {
		return Result[BookingConfirmation]{}, ErrMissingInput
	}
	if len(guests) == 0 {
		return Result[BookingConfirmation]{}, errors.New("at least one guest is required")
	}
	for _, g := range guests {
		if err := g.Validate(); err != nil {
			return Result[BookingConfirmation]{}, err
		}
	}

	w.mu.Lock()
	w.stage = StageBookingSubmit
	offerID := w.offerID
	w.mu.Unlock()

	w.log.Info("submitting booking", "offer_id", offerID, "guests", len(guests))
	res := w.Booking.Submit(w.ctx, offerID, guests, []PaymentMethod{TestCard()})

	if res.Succeeded() {
		conf := res.Value()
		w.mu.Lock()
		w.confirmation = &conf
		w.stage = StageDone
		w.mu.Unlock()
		w.metrics.IncWorkflowsCompleted()
		w.log.Info("booking confirmed", "booking_id", conf.ID)
	} else {
		// Allow the user to retry from the price screen.
		w.mu.Lock()
		w.stage = StagePriceConfirm
		w.mu.Unlock()
	}
	return res, nil
}
