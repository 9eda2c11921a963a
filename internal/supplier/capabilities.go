package supplier

import (
	"context"
	"net/http"
	"net/url"

	"github.com/example/hotel-booking-workflow/internal/booking"
)

type locationsResponse struct {
	Data []struct {
		Name     string `json:"name"`
		IataCode string `json:"iataCode"`
		Address  struct {
			CityName string `json:"cityName"`
		} `json:"address"`
	} `json:"data"`
}

// SearchLocations looks up cities matching the fragment. Airports are
// excluded by the subType parameter, not filtered here.
func (c *Client) SearchLocations(ctx context.Context, fragment string) ([]booking.Location, error) {
	q := url.Values{}
	q.Set("subType", "CITY")
	q.Set("keyword", fragment)

	var resp locationsResponse
	if err := c.do(ctx, "locations", http.MethodGet, c.endpoint("/v1/reference-data/locations", q), nil, &resp); err != nil {
		return nil, err
	}

	locs := make([]booking.Location, 0, len(resp.Data))
	for _, d := range resp.Data {
		name := d.Name
		if name == "" {
			name = d.Address.CityName
		}
		locs = append(locs, booking.Location{Name: name, CityCode: d.IataCode})
	}
	return locs, nil
}

type offerListResponse struct {
	Data []booking.HotelOffer `json:"data"`
	Meta struct {
		Links struct {
			Next string `json:"next"`
		} `json:"links"`
	} `json:"meta"`
}

func (c *Client) SearchHotelOffers(ctx context.Context, cityCode string, stay booking.StayDates) ([]booking.HotelOffer, string, error) {
	q := url.Values{}
	q.Set("cityCode", cityCode)
	q.Set("checkInDate", stay.CheckIn)
	q.Set("checkOutDate", stay.CheckOut)

	var resp offerListResponse
	if err := c.do(ctx, "hotel_offers", http.MethodGet, c.endpoint("/v2/shopping/hotel-offers", q), nil, &resp); err != nil {
		return nil, "", err
	}
	return resp.Data, resp.Meta.Links.Next, nil
}

// NextHotelOffers follows the continuation link returned by a previous
// page.
func (c *Client) NextHotelOffers(ctx context.Context, next string) ([]booking.HotelOffer, string, error) {
	u, err := c.resolve(next)
	if err != nil {
		return nil, "", err
	}
	var resp offerListResponse
	if err := c.do(ctx, "hotel_offers_next", http.MethodGet, u, nil, &resp); err != nil {
		return nil, "", err
	}
	return resp.Data, resp.Meta.Links.Next, nil
}

type offerResponse struct {
	Data booking.HotelOffer `json:"data"`
}

func (c *Client) HotelOffersByHotel(ctx context.Context, hotelID string, stay booking.StayDates) (booking.HotelOffer, error) {
	q := url.Values{}
	q.Set("hotelId", hotelID)
	q.Set("checkInDate", stay.CheckIn)
	q.Set("checkOutDate", stay.CheckOut)

	var resp offerResponse
	if err := c.do(ctx, "hotel_offers_by_hotel", http.MethodGet, c.endpoint("/v2/shopping/hotel-offers/by-hotel", q), nil, &resp); err != nil {
		return booking.HotelOffer{}, err
	}
	return resp.Data, nil
}

func (c *Client) OfferPricing(ctx context.Context, offerID string) (booking.HotelOffer, error) {
	var resp offerResponse
	if err := c.do(ctx, "offer_pricing", http.MethodGet, c.endpoint("/v2/shopping/hotel-offers/"+url.PathEscape(offerID), nil), nil, &resp); err != nil {
		return booking.HotelOffer{}, err
	}
	return resp.Data, nil
}

type bookingRequestEnvelope struct {
	Data bookingRequestData `json:"data"`
}

type bookingRequestData struct {
	OfferID  string        `json:"offerId"`
	Guests   []guestData   `json:"guests"`
	Payments []paymentData `json:"payments"`
}

type guestData struct {
	Name struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"name"`
	Contact struct {
		Phone string `json:"phone"`
		Email string `json:"email"`
	} `json:"contact"`
}

type paymentData struct {
	Method string `json:"method"`
	Card   struct {
		VendorCode string `json:"vendorCode"`
		CardNumber string `json:"cardNumber"`
		ExpiryDate string `json:"expiryDate"`
	} `json:"card"`
}

type bookingResponse struct {
	Data []booking.BookingConfirmation `json:"data"`
}

func (c *Client) CreateBooking(ctx context.Context, req booking.BookingRequest) ([]booking.BookingConfirmation, error) {
	env := bookingRequestEnvelope{}
	env.Data.OfferID = req.OfferID
	for _, g := range req.Guests {
		var gd guestData
		gd.Name.FirstName = g.FirstName
		gd.Name.LastName = g.LastName
		gd.Contact.Phone = g.Phone
		gd.Contact.Email = g.Email
		env.Data.Guests = append(env.Data.Guests, gd)
	}
	for _, p := range req.Payments {
		var pd paymentData
		pd.Method = p.Method
		pd.Card.VendorCode = p.VendorCode
		pd.Card.CardNumber = p.CardNumber
		pd.Card.ExpiryDate = p.Expiry
		env.Data.Payments = append(env.Data.Payments, pd)
	}

	var resp bookingResponse
	if err := c.do(ctx, "create_booking", http.MethodPost, c.endpoint("/v1/booking/hotel-bookings", nil), env, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
