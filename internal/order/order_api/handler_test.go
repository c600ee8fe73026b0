package order_api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ms-airport/internal/auth"
	"ms-airport/internal/database/dbtest"
	"ms-airport/internal/flights"
	flightsdb "ms-airport/internal/flights/db"
	"ms-airport/internal/logger"
	"ms-airport/internal/order"
	orderdb "ms-airport/internal/order/db"
	"ms-airport/internal/order/order_api"
	"ms-airport/internal/tickets/qr"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type testServer struct {
	handler http.Handler
	fx      dbtest.Fixture
}

func newServer(t *testing.T) testServer {
	t.Helper()
	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db, 15, 30)
	log := logger.NewWithWriter(&bytes.Buffer{})

	orders := order.NewOrderService(&orderdb.DB{Bun: db}, nil, nil, log)
	flightSvc := flights.NewFlightService(&flightsdb.DB{Bun: db}, log)
	h := order_api.NewHandler(orders, flightSvc, qr.NewQRGenerator("qr"), log)

	r := chi.NewRouter()
	r.Use(auth.Authenticate(auth.NewHMACVerifier(secret), log))
	h.RegisterRoutes(r)
	return testServer{handler: r, fx: fx}
}

func (s testServer) do(t *testing.T, user, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != "" {
		token, err := auth.IssueHMACToken(secret, user, nil, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func orderPayload(flightID int64, seats ...[2]int) string {
	parts := make([]string, 0, len(seats))
	for _, s := range seats {
		parts = append(parts, fmt.Sprintf(`{"row":%d,"seat":%d,"flight":%d}`, s[0], s[1], flightID))
	}
	return `{"tickets":[` + strings.Join(parts, ",") + `]}`
}

func TestCreateOrder_Created(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, "alice", http.MethodPost, "/orders", orderPayload(s.fx.Flight.ID, [2]int{1, 1}, [2]int{15, 30}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		ID      int64 `json:"id"`
		Tickets []struct {
			Row    int   `json:"row"`
			Seat   int   `json:"seat"`
			Flight int64 `json:"flight"`
		} `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotZero(t, body.ID)
	require.Len(t, body.Tickets, 2)
	assert.Equal(t, s.fx.Flight.ID, body.Tickets[1].Flight)
	assert.Equal(t, 30, body.Tickets[1].Seat)
}

func TestCreateOrder_Rejections(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, "alice", http.MethodPost, "/orders", orderPayload(s.fx.Flight.ID, [2]int{16, 1}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"index":0`)
	assert.Contains(t, rec.Body.String(), `"field":"row"`)

	rec = s.do(t, "alice", http.MethodPost, "/orders", `{"tickets":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, "alice", http.MethodPost, "/orders", `{"tickets":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, "", http.MethodPost, "/orders", orderPayload(s.fx.Flight.ID, [2]int{1, 1}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrder_SeatTakenIs400(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, "alice", http.MethodPost, "/orders", orderPayload(s.fx.Flight.ID, [2]int{5, 5}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, "bob", http.MethodPost, "/orders", orderPayload(s.fx.Flight.ID, [2]int{5, 5}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "seat_taken")
}

func TestListAndGetOrders(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, "alice", http.MethodPost, "/orders", orderPayload(s.fx.Flight.ID, [2]int{2, 2}))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = s.do(t, "alice", http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		Tickets []struct {
			Flight struct {
				DepartureAirport string `json:"departure_airport"`
				TicketsAvailable int    `json:"tickets_available"`
			} `json:"flight"`
		} `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Kyiv", list[0].Tickets[0].Flight.DepartureAirport)
	assert.Equal(t, 449, list[0].Tickets[0].Flight.TicketsAvailable)

	rec = s.do(t, "bob", http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	target := fmt.Sprintf("/orders/%d", created.ID)
	rec = s.do(t, "alice", http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"route"`)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = s.do(t, "bob", http.MethodGet, target, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBoardingPass(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, "alice", http.MethodPost, "/orders", orderPayload(s.fx.Flight.ID, [2]int{3, 4}))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID      int64 `json:"id"`
		Tickets []struct {
			ID int64 `json:"id"`
		} `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	target := fmt.Sprintf("/orders/%d/tickets/%d/boarding-pass", created.ID, created.Tickets[0].ID)
	rec = s.do(t, "alice", http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	_, err := png.Decode(rec.Body)
	assert.NoError(t, err)

	rec = s.do(t, "alice", http.MethodGet, target+"?format=pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = s.do(t, "alice", http.MethodGet, target+"?format=gif", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, "bob", http.MethodGet, target, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

