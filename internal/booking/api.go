package booking

import "context"

// API is the supplier capability set the workflow consumes. The concrete
// HTTP client lives in internal/supplier; tests inject scripted fakes.
//
// List capabilities return an opaque next-page token alongside the page;
// an empty token means no further page exists.
type API interface {
	SearchLocations(ctx context.Context, fragment string) ([]Location, error)
	SearchHotelOffers(ctx context.Context, cityCode string, stay StayDates) ([]HotelOffer, string, error)
	NextHotelOffers(ctx context.Context, next string) ([]HotelOffer, string, error)
	HotelOffersByHotel(ctx context.Context, hotelID string, stay StayDates) (HotelOffer, error)
	OfferPricing(ctx context.Context, offerID string) (HotelOffer, error)
	CreateBooking(ctx context.Context, req BookingRequest) ([]BookingConfirmation, error)
}
