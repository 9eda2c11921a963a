package booking

import (
	"errors"
	"fmt"

	"github.com/example/hotel-booking-workflow/internal/validator"
)

// Location is a city returned by the location search, identified by its
// IATA city code. It only lives long enough to seed the offer search.
type Location struct {
	Name     string `json:"name"`
	CityCode string `json:"iataCode"`
}

type Hotel struct {
	HotelID  string `json:"hotelId"`
	Name     string `json:"name"`
	CityCode string `json:"cityCode,omitempty"`
	Rating   string `json:"rating,omitempty"`
}

type Price struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
}

// RoomOffer is one priced, bookable room-and-rate combination.
type RoomOffer struct {
	ID       string `json:"id"`
	RoomType string `json:"roomType,omitempty"`
	CheckIn  string `json:"checkInDate,omitempty"`
	CheckOut string `json:"checkOutDate,omitempty"`
	Price    Price  `json:"price"`
}

// HotelOffer groups the room offers available for one hotel.
type HotelOffer struct {
	Hotel  Hotel       `json:"hotel"`
	Offers []RoomOffer `json:"offers"`
}

// StayDates is the check-in/check-out pair threaded through the workflow,
// both in ISO 8601 date form. Ordering is not checked here: the supplier
// owns date validity and reports its own error for an inverted range.
type StayDates struct {
	CheckIn  string `json:"checkInDate"`
	CheckOut string `json:"checkOutDate"`
}

func (s StayDates) Validate() error {
	if _, err := validator.ParseDate(s.CheckIn); err != nil {
		return fmt.Errorf("check-in: %w", err)
	}
	if _, err := validator.ParseDate(s.CheckOut); err != nil {
		return fmt.Errorf("check-out: %w", err)
	}
	return nil
}

type Guest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (g Guest) Validate() error {
	if g.FirstName == "" || g.LastName == "" {
		return errors.New("guest name is required")
	}
	if g.Email == "" {
		return errors.New("guest email is required")
	}
	return nil
}

type PaymentMethod struct {
	Method     string `json:"method"`
	VendorCode string `json:"vendorCode"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiryDate"`
}

// TestCard is the fixed demo payment method. This application never
// collects real payment data.
func TestCard() PaymentMethod {
	return PaymentMethod{
		Method:     "creditCard",
		VendorCode: "VI",
		CardNumber: "4151289722471370",
		Expiry:     "2027-08",
	}
}

// BookingRequest is built once per booking attempt and discarded after
// the response.
type BookingRequest struct {
	OfferID  string          `json:"offerId"`
	Guests   []Guest         `json:"guests"`
	Payments []PaymentMethod `json:"payments"`
}

// BookingConfirmation is the server-assigned record ending the workflow.
type BookingConfirmation struct {
	ID                     string `json:"id"`
	ProviderConfirmationID string `json:"providerConfirmationId,omitempty"`
}
