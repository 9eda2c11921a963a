package booking_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/hotel-booking-workflow/internal/booking"
)

func TestRateStage_FailureIsSurfaced(t *testing.T) {
	api := newFakeAPI()
	api.byHotel = func(ctx context.Context, hotelID string, st booking.StayDates) (booking.HotelOffer, error) {
		return booking.HotelOffer{}, errors.New("boom")
	}
	stage := booking.NewRateStage(api, testLogger(), testMetrics())

	res := stage.Fetch(context.Background(), "H1", stay)
	if res.Succeeded() {
		t.Fatal("expected failure")
	}
	if res.Message() == "" {
		t.Fatal("rate lookup failures must carry a user-facing message")
	}
	if st := stage.Signal().Current(); !st.Settled || st.Result.Succeeded() {
		t.Fatalf("failure not published to observers: %+v", st)
	}
}

func TestRateStage_HasOffer(t *testing.T) {
	api := newFakeAPI()
	api.byHotel = func(ctx context.Context, hotelID string, st booking.StayDates) (booking.HotelOffer, error) {
		return hotelOffer("H1", "O1", "O2"), nil
	}
	stage := booking.NewRateStage(api, testLogger(), testMetrics())
	stage.Fetch(context.Background(), "H1", stay)

	if !stage.HasOffer("O2") {
		t.Fatal("expected O2 to be known")
	}
	if stage.HasOffer("O9") {
		t.Fatal("O9 was never fetched")
	}
}

func TestPriceStage_FailureIsSurfaced(t *testing.T) {
	api := newFakeAPI()
	api.pricing = func(ctx context.Context, offerID string) (booking.HotelOffer, error) {
		return booking.HotelOffer{}, errors.New("boom")
	}
	stage := booking.NewPriceStage(api, testLogger(), testMetrics())

	res := stage.Fetch(context.Background(), "O1")
	if res.Succeeded() {
		t.Fatal("expected failure")
	}
	if res.Message() == "" {
		t.Fatal("price confirmation failures must carry a user-facing message")
	}
}

func TestSubmitStage_EmptyConfirmationListIsFailure(t *testing.T) {
	api := newFakeAPI()
	api.createBooking = func(ctx context.Context, req booking.BookingRequest) ([]booking.BookingConfirmation, error) {
		return nil, nil
	}
	stage := booking.NewSubmitStage(api, testLogger(), testMetrics())

	res := stage.Submit(context.Background(), "O1", []booking.Guest{{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"}}, []booking.PaymentMethod{booking.TestCard()})
	if res.Succeeded() {
		t.Fatal("expected failure when no confirmation is returned")
	}
}
