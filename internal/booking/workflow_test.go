package booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/hotel-booking-workflow/internal/booking"
)

func newTestWorkflow(t *testing.T, api *fakeAPI) *booking.Workflow {
	t.Helper()
	w, err := booking.NewWorkflow(api, stay, time.Minute, testLogger(), testMetrics())
	if err != nil {
		t.Fatalf("NewWorkflow: %v", err)
	}
	t.Cleanup(w.Close)
	return w
}

// scriptHappyPath wires the fake supplier for the full Paris scenario.
func scriptHappyPath(api *fakeAPI) {
	api.searchLocations = func(ctx context.Context, fragment string) ([]booking.Location, error) {
		return []booking.Location{{Name: "Paris", CityCode: "PAR"}}, nil
	}
	api.searchOffers = func(ctx context.Context, cityCode string, st booking.StayDates) ([]booking.HotelOffer, string, error) {
		if cityCode != "PAR" || st.CheckIn != "2023-06-01" || st.CheckOut != "2023-06-03" {
			return nil, "", errors.New("unexpected search parameters")
		}
		return []booking.HotelOffer{hotelOffer("H1", "O1"), hotelOffer("H2", "O2")}, "", nil
	}
	api.byHotel = func(ctx context.Context, hotelID string, st booking.StayDates) (booking.HotelOffer, error) {
		if hotelID != "H1" {
			return booking.HotelOffer{}, errors.New("unexpected hotel")
		}
		return hotelOffer("H1", "O1"), nil
	}
	api.pricing = func(ctx context.Context, offerID string) (booking.HotelOffer, error) {
		if offerID != "O1" {
			return booking.HotelOffer{}, errors.New("unexpected offer")
		}
		return hotelOffer("H1", "O1"), nil
	}
	api.createBooking = func(ctx context.Context, req booking.BookingRequest) ([]booking.BookingConfirmation, error) {
		return []booking.BookingConfirmation{{ID: "BK-1", ProviderConfirmationID: "P-1"}}, nil
	}
}

func TestWorkflow_EndToEnd(t *testing.T) {
	api := newFakeAPI()
	scriptHappyPath(api)

	var submitted booking.BookingRequest
	inner := api.createBooking
	api.createBooking = func(ctx context.Context, req booking.BookingRequest) ([]booking.BookingConfirmation, error) {
		submitted = req
		return inner(ctx, req)
	}

	w := newTestWorkflow(t, api)

	locRes, err := w.SearchLocations("Paris")
	if err != nil || !locRes.Succeeded() {
		t.Fatalf("location search: err=%v msg=%q", err, locRes.Message())
	}

	offerRes, err := w.SelectLocation(locRes.Value()[0])
	if err != nil || !offerRes.Succeeded() {
		t.Fatalf("select location: err=%v msg=%q", err, offerRes.Message())
	}
	if len(offerRes.Value()) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(offerRes.Value()))
	}

	rateRes, err := w.SelectHotel("H1")
	if err != nil || !rateRes.Succeeded() {
		t.Fatalf("select hotel: err=%v msg=%q", err, rateRes.Message())
	}

	priceRes, err := w.SelectRoomOffer("O1")
	if err != nil || !priceRes.Succeeded() {
		t.Fatalf("select offer: err=%v msg=%q", err, priceRes.Message())
	}

	guests := []booking.Guest{{FirstName: "Jane", LastName: "Doe", Phone: "555-0100", Email: "jane@x.com"}}
	bookRes, err := w.ConfirmBooking(guests)
	if err != nil || !bookRes.Succeeded() {
		t.Fatalf("confirm booking: err=%v msg=%q", err, bookRes.Message())
	}
	if bookRes.Value().ID == "" {
		t.Fatal("expected a non-empty booking id")
	}
	if w.Stage() != booking.StageDone {
		t.Fatalf("expected done, got %s", w.Stage())
	}
	if w.Confirmation() == nil || w.Confirmation().ID != "BK-1" {
		t.Fatalf("confirmation not recorded: %+v", w.Confirmation())
	}

	if submitted.OfferID != "O1" {
		t.Fatalf("expected offer O1 in request, got %q", submitted.OfferID)
	}
	if len(submitted.Guests) != 1 || submitted.Guests[0].LastName != "Doe" {
		t.Fatalf("guest not threaded through: %+v", submitted.Guests)
	}
	if len(submitted.Payments) != 1 || submitted.Payments[0] != booking.TestCard() {
		t.Fatalf("expected the fixed test card, got %+v", submitted.Payments)
	}
}

func TestWorkflow_NoAvailabilityDoesNotAdvance(t *testing.T) {
	api := newFakeAPI()
	scriptHappyPath(api)
	api.searchOffers = func(ctx context.Context, cityCode string, st booking.StayDates) ([]booking.HotelOffer, string, error) {
		return nil, "", nil
	}

	w := newTestWorkflow(t, api)
	locRes, _ := w.SearchLocations("Paris")
	offerRes, err := w.SelectLocation(locRes.Value()[0])
	if err != nil {
		t.Fatalf("select location: %v", err)
	}
	if offerRes.Succeeded() {
		t.Fatal("expected failure for empty availability")
	}
	if offerRes.Message() != "No result for your research" {
		t.Fatalf("unexpected message %q", offerRes.Message())
	}

	// No hotel to pick: the workflow refuses to move forward.
	if _, err := w.SelectHotel("H1"); !errors.Is(err, booking.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if w.Stage() != booking.StageOfferSearch {
		t.Fatalf("workflow advanced past a failed search: %s", w.Stage())
	}
}

func TestWorkflow_FirstConfirmationWins(t *testing.T) {
	api := newFakeAPI()
	scriptHappyPath(api)
	api.createBooking = func(ctx context.Context, req booking.BookingRequest) ([]booking.BookingConfirmation, error) {
		return []booking.BookingConfirmation{{ID: "FIRST"}, {ID: "SECOND"}, {ID: "THIRD"}}, nil
	}

	w := newTestWorkflow(t, api)
	locRes, _ := w.SearchLocations("Paris")
	w.SelectLocation(locRes.Value()[0])
	w.SelectHotel("H1")
	w.SelectRoomOffer("O1")

	res, err := w.ConfirmBooking([]booking.Guest{{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"}})
	if err != nil || !res.Succeeded() {
		t.Fatalf("confirm booking: err=%v msg=%q", err, res.Message())
	}
	if res.Value().ID != "FIRST" {
		t.Fatalf("expected first confirmation only, got %q", res.Value().ID)
	}
}

func TestWorkflow_RejectsOutOfOrderActions(t *testing.T) {
	api := newFakeAPI()
	scriptHappyPath(api)

	w := newTestWorkflow(t, api)
	if _, err := w.SelectHotel("H1"); !errors.Is(err, booking.ErrWrongStage) {
		t.Fatalf("expected ErrWrongStage, got %v", err)
	}
	if _, err := w.ConfirmBooking(nil); !errors.Is(err, booking.ErrWrongStage) {
		t.Fatalf("expected ErrWrongStage, got %v", err)
	}
}

func TestWorkflow_RejectsUnknownSelection(t *testing.T) {
	api := newFakeAPI()
	scriptHappyPath(api)

	w := newTestWorkflow(t, api)
	locRes, _ := w.SearchLocations("Paris")

	// LON was never part of the search results.
	if _, err := w.SelectLocation(booking.Location{Name: "London", CityCode: "LON"}); !errors.Is(err, booking.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}

	w.SelectLocation(locRes.Value()[0])
	if _, err := w.SelectHotel("H99"); !errors.Is(err, booking.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	w.SelectHotel("H1")
	if _, err := w.SelectRoomOffer("O99"); !errors.Is(err, booking.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

func TestWorkflow_FailedSubmissionAllowsRetry(t *testing.T) {
	api := newFakeAPI()
	scriptHappyPath(api)
	failing := true
	api.createBooking = func(ctx context.Context, req booking.BookingRequest) ([]booking.BookingConfirmation, error) {
		if failing {
			return nil, errors.New("supplier down")
		}
		return []booking.BookingConfirmation{{ID: "BK-2"}}, nil
	}

	w := newTestWorkflow(t, api)
	locRes, _ := w.SearchLocations("Paris")
	w.SelectLocation(locRes.Value()[0])
	w.SelectHotel("H1")
	w.SelectRoomOffer("O1")

	guests := []booking.Guest{{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"}}
	res, err := w.ConfirmBooking(guests)
	if err != nil || res.Succeeded() {
		t.Fatalf("expected stage failure, err=%v", err)
	}
	if res.Message() != "Your booking could not be completed" {
		t.Fatalf("unexpected message %q", res.Message())
	}

	failing = false
	res, err = w.ConfirmBooking(guests)
	if err != nil || !res.Succeeded() {
		t.Fatalf("retry failed: err=%v msg=%q", err, res.Message())
	}
	if w.Stage() != booking.StageDone {
		t.Fatalf("expected done after retry, got %s", w.Stage())
	}
}

func TestWorkflow_InvalidDatesRejected(t *testing.T) {
	api := newFakeAPI()
	_, err := booking.NewWorkflow(api, booking.StayDates{CheckIn: "06/01/2023", CheckOut: "2023-06-03"}, time.Minute, testLogger(), testMetrics())
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestWorkflow_CloseDropsActions(t *testing.T) {
	api := newFakeAPI()
	scriptHappyPath(api)

	w := newTestWorkflow(t, api)
	w.Close()
	if _, err := w.SearchLocations("Paris"); !errors.Is(err, booking.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
