package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourops/backend/internal/application/reconcile"
	"github.com/tourops/backend/internal/domain/travel"
	"github.com/tourops/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubViewReader serves a fixed view, or nil to simulate pre-bootstrap state
type stubViewReader struct {
	view *reconcile.AggregateView
}

func (s *stubViewReader) Latest() *reconcile.AggregateView {
	return s.view
}

func newTestRouter(view *reconcile.AggregateView) *gin.Engine {
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewDashboardHandler(&stubViewReader{view: view}).RegisterRoutes(api)
	return engine
}

func sampleView(bookingID, tourID uuid.UUID) *reconcile.AggregateView {
	return &reconcile.AggregateView{
		ComputedAt: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		Bookings: []reconcile.BookingView{
			{
				BookingID:     bookingID,
				CustomerName:  "Ivanov",
				Status:        travel.BookingConfirmed,
				Profit:        decimal.NewFromInt(350),
				PaidTotal:     decimal.NewFromInt(400),
				Remaining:     decimal.NewFromInt(600),
				PaymentStatus: reconcile.PaymentPartial,
			},
		},
		Tours: []reconcile.TourView{
			{TourID: tourID, Name: "Summer Rome", MaxSeats: 40, BookedSeats: 10, FulfillmentPercent: decimal.NewFromInt(25)},
		},
		Accounts: []reconcile.AccountView{
			{Account: travel.AccountBank, Balance: decimal.NewFromInt(70)},
		},
		Portfolio: reconcile.PortfolioView{TotalProfit: decimal.NewFromInt(350)},
		Monthly: []reconcile.MonthlySummary{
			{Month: "2026-03", Income: decimal.NewFromInt(400), BookingCount: 1},
		},
	}
}

func doRequest(t *testing.T, engine *gin.Engine, path string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestDashboardBeforeFirstPublish(t *testing.T) {
	engine := newTestRouter(nil)

	paths := []string{
		"/api/v1/dashboard",
		"/api/v1/dashboard/portfolio",
		"/api/v1/dashboard/bookings",
		"/api/v1/dashboard/tours",
		"/api/v1/dashboard/policies",
		"/api/v1/dashboard/accounts",
		"/api/v1/dashboard/monthly",
	}
	for _, path := range paths {
		w, resp := doRequest(t, engine, path)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		require.NotNil(t, resp.Error, path)
		assert.Equal(t, dto.ErrCodeViewNotReady, resp.Error.Code, path)
	}
}

func TestGetDashboard(t *testing.T) {
	bookingID := uuid.New()
	engine := newTestRouter(sampleView(bookingID, uuid.New()))

	w, resp := doRequest(t, engine, "/api/v1/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, data, "bookings")
	assert.Contains(t, data, "portfolio")
	assert.Contains(t, data, "monthly")
}

func TestGetBooking(t *testing.T) {
	bookingID := uuid.New()
	engine := newTestRouter(sampleView(bookingID, uuid.New()))

	w, resp := doRequest(t, engine, "/api/v1/dashboard/bookings/"+bookingID.String())
	assert.Equal(t, http.StatusOK, w.Code)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, bookingID.String(), data["booking_id"])
	assert.Equal(t, string(reconcile.PaymentPartial), data["payment_status"])
}

func TestGetBookingNotFound(t *testing.T) {
	engine := newTestRouter(sampleView(uuid.New(), uuid.New()))

	w, resp := doRequest(t, engine, "/api/v1/dashboard/bookings/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestGetBookingInvalidID(t *testing.T) {
	engine := newTestRouter(sampleView(uuid.New(), uuid.New()))

	w, resp := doRequest(t, engine, "/api/v1/dashboard/bookings/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
}

func TestGetTour(t *testing.T) {
	tourID := uuid.New()
	engine := newTestRouter(sampleView(uuid.New(), tourID))

	w, resp := doRequest(t, engine, "/api/v1/dashboard/tours/"+tourID.String())
	assert.Equal(t, http.StatusOK, w.Code)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Summer Rome", data["name"])
	assert.Equal(t, "25", data["fulfillment_percent"])
}

func TestListAccounts(t *testing.T) {
	engine := newTestRouter(sampleView(uuid.New(), uuid.New()))

	w, resp := doRequest(t, engine, "/api/v1/dashboard/accounts")
	assert.Equal(t, http.StatusOK, w.Code)

	accounts, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, accounts, 1)
	account := accounts[0].(map[string]any)
	assert.Equal(t, string(travel.AccountBank), account["account"])
	assert.Equal(t, "70", account["balance"])
}

func TestListMonthly(t *testing.T) {
	engine := newTestRouter(sampleView(uuid.New(), uuid.New()))

	w, resp := doRequest(t, engine, "/api/v1/dashboard/monthly")
	assert.Equal(t, http.StatusOK, w.Code)

	months, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, months, 1)
	assert.Equal(t, "2026-03", months[0].(map[string]any)["month"])
}

func TestGetPortfolio(t *testing.T) {
	engine := newTestRouter(sampleView(uuid.New(), uuid.New()))

	w, resp := doRequest(t, engine, "/api/v1/dashboard/portfolio")
	assert.Equal(t, http.StatusOK, w.Code)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	portfolio := data["portfolio"].(map[string]any)
	assert.Equal(t, "350", portfolio["total_profit"])
}
