package booking_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/example/hotel-booking-workflow/internal/booking"
	"github.com/example/hotel-booking-workflow/internal/obs"
	"github.com/prometheus/client_golang/prometheus"
)

// fakeAPI scripts supplier responses per capability and counts calls.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	searchLocations func(ctx context.Context, fragment string) ([]booking.Location, error)
	searchOffers    func(ctx context.Context, cityCode string, stay booking.StayDates) ([]booking.HotelOffer, string, error)
	nextOffers      func(ctx context.Context, next string) ([]booking.HotelOffer, string, error)
	byHotel         func(ctx context.Context, hotelID string, stay booking.StayDates) (booking.HotelOffer, error)
	pricing         func(ctx context.Context, offerID string) (booking.HotelOffer, error)
	createBooking   func(ctx context.Context, req booking.BookingRequest) ([]booking.BookingConfirmation, error)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int)}
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) SearchLocations(ctx context.Context, fragment string) ([]booking.Location, error) {
	f.count("locations")
	return f.searchLocations(ctx, fragment)
}

func (f *fakeAPI) SearchHotelOffers(ctx context.Context, cityCode string, stay booking.StayDates) ([]booking.HotelOffer, string, error) {
	f.count("offers")
	return f.searchOffers(ctx, cityCode, stay)
}

func (f *fakeAPI) NextHotelOffers(ctx context.Context, next string) ([]booking.HotelOffer, string, error) {
	f.count("next")
	return f.nextOffers(ctx, next)
}

func (f *fakeAPI) HotelOffersByHotel(ctx context.Context, hotelID string, stay booking.StayDates) (booking.HotelOffer, error) {
	f.count("by_hotel")
	return f.byHotel(ctx, hotelID, stay)
}

func (f *fakeAPI) OfferPricing(ctx context.Context, offerID string) (booking.HotelOffer, error) {
	f.count("pricing")
	return f.pricing(ctx, offerID)
}

func (f *fakeAPI) CreateBooking(ctx context.Context, req booking.BookingRequest) ([]booking.BookingConfirmation, error) {
	f.count("booking")
	return f.createBooking(ctx, req)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *obs.Metrics {
	return obs.NewMetrics(prometheus.NewRegistry())
}
