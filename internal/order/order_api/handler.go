package order_api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ms-airport/internal/auth"
	"ms-airport/internal/domain"
	"ms-airport/internal/logger"
	"ms-airport/internal/models"
	"ms-airport/internal/order"
	"ms-airport/internal/presenters"
	"ms-airport/internal/tickets/qr"
	"ms-airport/internal/tickets/template"
	"ms-airport/internal/utils"

	"github.com/go-chi/chi/v5"
)

// FlightLookup resolves the flights of an order's tickets for rendering.
type FlightLookup interface {
	GetFlightsByIDs(ctx context.Context, ids []int64) (map[int64]models.Flight, error)
}

type Handler struct {
	OrderService *order.OrderService
	Flights      FlightLookup
	QRGenerator  *qr.QRGenerator
	PDFGenerator *template.BoardingPassPDFGenerator
	Logger       *logger.Logger
}

func NewHandler(orderService *order.OrderService, flights FlightLookup, qrGenerator *qr.QRGenerator, log *logger.Logger) *Handler {
	return &Handler{
		OrderService: orderService,
		Flights:      flights,
		QRGenerator:  qrGenerator,
		PDFGenerator: template.NewBoardingPassPDFGenerator(),
		Logger:       log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Get("/{orderId}", h.GetOrder)
		r.Get("/{orderId}/tickets/{ticketId}/boarding-pass", h.GetBoardingPass)
	})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := utils.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		return
	}
	h.Logger.Debug("API", fmt.Sprintf("%s: %d %v", op, status, err))
}

func userID(r *http.Request) (string, error) {
	id := auth.UserID(r.Context())
	if id == "" {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}

// flightsOf loads every flight referenced by the tickets of orders.
func (h *Handler) flightsOf(ctx context.Context, orders ...models.Order) (map[int64]models.Flight, error) {
	seen := map[int64]bool{}
	var ids []int64
	for _, o := range orders {
		for _, t := range o.Tickets {
			if !seen[t.FlightID] {
				seen[t.FlightID] = true
				ids = append(ids, t.FlightID)
			}
		}
	}
	return h.Flights.GetFlightsByIDs(ctx, ids)
}

// ListOrders returns the caller's orders, oldest first unless ?ordering= says otherwise.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.fail(w, "ListOrders", err)
		return
	}
	o, err := utils.ParseOrdering(r.URL.Query().Get("ordering"), order.Orderings, order.DefaultOrdering)
	if err != nil {
		h.fail(w, "ListOrders", err)
		return
	}

	orders, err := h.OrderService.ListOrders(r.Context(), uid, o)
	if err != nil {
		h.fail(w, "ListOrders", err)
		return
	}
	flights, err := h.flightsOf(r.Context(), orders...)
	if err != nil {
		h.fail(w, "ListOrders", err)
		return
	}

	body := make([]presenters.OrderBody, 0, len(orders))
	for _, ord := range orders {
		body = append(body, presenters.Order(ord, flights, models.ViewList))
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.fail(w, "GetOrder", err)
		return
	}
	id, err := utils.URLID(r, "orderId")
	if err != nil {
		h.fail(w, "GetOrder", err)
		return
	}

	ord, err := h.OrderService.GetOrder(r.Context(), uid, id)
	if err != nil {
		h.fail(w, "GetOrder", err)
		return
	}
	flights, err := h.flightsOf(r.Context(), *ord)
	if err != nil {
		h.fail(w, "GetOrder", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Order(*ord, flights, models.ViewDetail))
}

// CreateOrder accepts {"tickets":[{"row":1,"seat":2,"flight":3}]} and an
// optional Idempotency-Key header. A replayed key answers 200 with the original order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.fail(w, "CreateOrder", err)
		return
	}

	var req models.OrderRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, "CreateOrder", err)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	h.Logger.Debug("API", fmt.Sprintf("CreateOrder: user=%s tickets=%d", uid, len(req.Tickets)))

	ord, created, err := h.OrderService.CreateOrder(r.Context(), uid, req)
	if err != nil {
		h.fail(w, "CreateOrder", err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	utils.WriteJSON(w, status, presenters.Order(*ord, nil, models.ViewWrite))
}

// GetBoardingPass renders an owned ticket as a PNG QR code carrying an
// encrypted pass, or as a printable PDF with ?format=pdf.
func (h *Handler) GetBoardingPass(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.fail(w, "GetBoardingPass", err)
		return
	}
	orderID, err := utils.URLID(r, "orderId")
	if err != nil {
		h.fail(w, "GetBoardingPass", err)
		return
	}
	ticketID, err := utils.URLID(r, "ticketId")
	if err != nil {
		h.fail(w, "GetBoardingPass", err)
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "png" && format != "pdf" {
		h.fail(w, "GetBoardingPass", domain.NewValidationError(domain.FieldError{Field: "format", Message: "format must be png or pdf"}))
		return
	}

	ord, ticket, err := h.OrderService.GetTicket(r.Context(), uid, orderID, ticketID)
	if err != nil {
		h.fail(w, "GetBoardingPass", err)
		return
	}
	flights, err := h.flightsOf(r.Context(), models.Order{Tickets: []models.Ticket{*ticket}})
	if err != nil {
		h.fail(w, "GetBoardingPass", err)
		return
	}
	flight := flights[ticket.FlightID]

	pass := qr.BoardingPass{
		TicketID:      ticket.ID,
		OrderID:       ord.ID,
		UserID:        ord.UserID,
		FlightID:      ticket.FlightID,
		Row:           ticket.Row,
		Seat:          ticket.Seat,
		DepartureTime: flight.DepartureTime,
	}

	png, err := h.QRGenerator.GenerateEncryptedQR(pass, 256)
	if err != nil {
		h.fail(w, "GetBoardingPass", err)
		return
	}

	if format != "pdf" {
		h.Logger.LogOrder("BOARDING_PASS", ord.ID, fmt.Sprintf("ticket=%d png", ticket.ID))
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
		return
	}

	pdf, err := h.PDFGenerator.Generate(passDetails(pass, flight), png)
	if err != nil {
		h.fail(w, "GetBoardingPass", err)
		return
	}
	h.Logger.LogOrder("BOARDING_PASS", ord.ID, fmt.Sprintf("ticket=%d pdf", ticket.ID))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=boarding-pass-%d.pdf", ticket.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func passDetails(pass qr.BoardingPass, f models.Flight) template.PassDetails {
	d := template.PassDetails{
		TicketID:      pass.TicketID,
		OrderID:       pass.OrderID,
		Passenger:     pass.UserID,
		FlightID:      pass.FlightID,
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
		Row:           pass.Row,
		Seat:          pass.Seat,
	}
	if f.Route != nil && f.Route.Source != nil && f.Route.Destination != nil {
		d.From = f.Route.Source.String()
		d.To = f.Route.Destination.String()
	}
	if f.Airplane != nil {
		d.Airplane = f.Airplane.Name
	}
	return d
}
