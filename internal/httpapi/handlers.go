package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/example/hotel-booking-workflow/internal/booking"
	"github.com/example/hotel-booking-workflow/internal/obs"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler drives booking workflow instances over REST, one route per
// screen action of the original demo. Stage failures are workflow data
// and ship inside a 200 snapshot; transport-level errors (unknown id,
// wrong stage, bad input) map to HTTP status codes.
type Handler struct {
	api         booking.API
	registry    *Registry
	ratelimiter *IPRateLimiter
	metrics     *obs.Metrics
	log         *slog.Logger

	locationCacheTTL time.Duration
}

func NewHandler(api booking.API, reg *Registry, rl *IPRateLimiter, m *obs.Metrics, log *slog.Logger, locationCacheTTL time.Duration) *Handler {
	return &Handler{
		api:              api,
		registry:         reg,
		ratelimiter:      rl,
		metrics:          m,
		log:              log,
		locationCacheTTL: locationCacheTTL,
	}
}

func (h *Handler) ipFromRequest(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func requestID(r *http.Request) string {
	// chi's middleware.RequestID sets X-Request-Id header
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		return rid
	}
	return uuid.New().String()
}

type stageView struct {
	Busy    bool   `json:"busy"`
	Settled bool   `json:"settled"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	HasMore bool   `json:"hasMore,omitempty"`
}

func stateView[T any](st booking.State[T]) stageView {
	v := stageView{Busy: st.Busy, Settled: st.Settled}
	if !st.Settled {
		return v
	}
	if st.Result.Succeeded() {
		v.OK = true
		v.Data = st.Result.Value()
		v.HasMore = st.Result.Next() != ""
	} else {
		v.Message = st.Result.Message()
	}
	return v
}

type resultView struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	HasMore bool   `json:"hasMore,omitempty"`
}

func view[T any](res booking.Result[T]) resultView {
	if res.Succeeded() {
		return resultView{OK: true, Data: res.Value(), HasMore: res.Next() != ""}
	}
	return resultView{Message: res.Message()}
}

type workflowView struct {
	ID           string            `json:"id"`
	Stage        string            `json:"stage"`
	Stay         booking.StayDates `json:"stay"`
	Locations    stageView         `json:"locations"`
	Offers       stageView         `json:"offers"`
	Rates        stageView         `json:"rates"`
	Price        stageView         `json:"price"`
	Booking      stageView         `json:"booking"`
	Confirmation any               `json:"confirmation,omitempty"`
}

func snapshot(w *booking.Workflow) workflowView {
	v := workflowView{
		ID:        w.ID,
		Stage:     w.Stage().String(),
		Stay:      w.Stay(),
		Locations: stateView(w.Locations.Signal().Current()),
		Offers:    stateView(w.Offers.Signal().Current()),
		Rates:     stateView(w.Rates.Signal().Current()),
		Price:     stateView(w.Price.Signal().Current()),
		Booking:   stateView(w.Booking.Signal().Current()),
	}
	if conf := w.Confirmation(); conf != nil {
		v.Confirmation = conf
	}
	return v
}

func (h *Handler) workflow(w http.ResponseWriter, r *http.Request) (*booking.Workflow, bool) {
	id := chi.URLParam(r, "id")
	wf, ok := h.registry.Get(id)
	if !ok {
		NotFound(w, "unknown workflow", map[string]string{"request_id": requestID(r)})
		return nil, false
	}
	return wf, true
}

func (h *Handler) transitionError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{"request_id": requestID(r)}
	switch {
	case errors.Is(err, booking.ErrWrongStage), errors.Is(err, booking.ErrClosed), errors.Is(err, booking.ErrMissingInput):
		Conflict(w, err.Error(), meta)
	default:
		BadRequest(w, err.Error(), meta)
	}
}

type createWorkflowRequest struct {
	CheckIn  string `json:"checkInDate"`
	CheckOut string `json:"checkOutDate"`
}

// POST /workflows
func (h *Handler) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	ip := h.ipFromRequest(r)
	if !h.ratelimiter.Allow(ip) {
		h.metrics.IncRateLimitDrops()
		TooManyRequests(w, "rate limit exceeded", map[string]string{"request_id": reqID})
		return
	}

	var req createWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", map[string]string{"request_id": reqID})
		return
	}

	stay := booking.StayDates{CheckIn: req.CheckIn, CheckOut: req.CheckOut}
	wf, err := booking.NewWorkflow(h.api, stay, h.locationCacheTTL, h.log, h.metrics)
	if err != nil {
		BadRequest(w, err.Error(), map[string]string{"request_id": reqID})
		return
	}
	h.registry.Add(wf)

	WriteJSON(w, http.StatusCreated, snapshot(wf))
}

// GET /workflows/{id}
func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, snapshot(wf))
}

// DELETE /workflows/{id}
func (h *Handler) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.registry.Remove(id) {
		NotFound(w, "unknown workflow", map[string]string{"request_id": requestID(r)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /workflows/{id}/locations?q=par
func (h *Handler) SearchLocations(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	res, err := wf.SearchLocations(r.URL.Query().Get("q"))
	if err != nil {
		h.transitionError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view(res))
}

// POST /workflows/{id}/location
func (h *Handler) SelectLocation(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	var loc booking.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		BadRequest(w, "invalid request body", map[string]string{"request_id": requestID(r)})
		return
	}
	res, err := wf.SelectLocation(loc)
	if err != nil {
		h.transitionError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view(res))
}

// POST /workflows/{id}/offers
func (h *Handler) SearchOffers(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	res, err := wf.SearchOffers()
	if err != nil {
		h.transitionError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view(res))
}

// POST /workflows/{id}/offers/more
func (h *Handler) LoadMoreOffers(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	res, err := wf.LoadMoreOffers()
	if err != nil {
		h.transitionError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view(res))
}

type selectHotelRequest struct {
	HotelID string `json:"hotelId"`
}

// POST /workflows/{id}/hotel
func (h *Handler) SelectHotel(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	var req selectHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", map[string]string{"request_id": requestID(r)})
		return
	}
	res, err := wf.SelectHotel(req.HotelID)
	if err != nil {
		h.transitionError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view(res))
}

type selectOfferRequest struct {
	OfferID string `json:"offerId"`
}

// POST /workflows/{id}/offer
func (h *Handler) SelectRoomOffer(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	var req selectOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", map[string]string{"request_id": requestID(r)})
		return
	}
	res, err := wf.SelectRoomOffer(req.OfferID)
	if err != nil {
		h.transitionError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view(res))
}

type bookRequest struct {
	Guests []booking.Guest `json:"guests"`
}

// POST /workflows/{id}/book
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", map[string]string{"request_id": requestID(r)})
		return
	}
	res, err := wf.ConfirmBooking(req.Guests)
	if err != nil {
		h.transitionError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view(res))
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
