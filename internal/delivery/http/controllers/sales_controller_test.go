package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seatledger/internal/delivery/http/middleware"
	"seatledger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInventoryService implements domain.InventoryService for handler tests.
type fakeInventoryService struct {
	sellErr         error
	refundErr       error
	listErr         error
	listResult      []*domain.Movement
	reconcileErr    error
	reconcileResult *domain.Reconciliation
	lastEventID     int64
	lastQty         int
	lastUserID      int64
}

func (f *fakeInventoryService) Sell(ctx context.Context, eventID int64, qty int, userID int64) error {
	f.lastEventID = eventID
	f.lastQty = qty
	f.lastUserID = userID
	return f.sellErr
}

func (f *fakeInventoryService) Refund(ctx context.Context, eventID int64, qty int, userID int64) error {
	f.lastEventID = eventID
	f.lastQty = qty
	f.lastUserID = userID
	return f.refundErr
}

func (f *fakeInventoryService) ListMovements(ctx context.Context, eventID int64) ([]*domain.Movement, error) {
	f.lastEventID = eventID
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listResult != nil {
		return f.listResult, nil
	}
	return []*domain.Movement{}, nil
}

func (f *fakeInventoryService) Reconcile(ctx context.Context, eventID int64) (*domain.Reconciliation, error) {
	f.lastEventID = eventID
	if f.reconcileErr != nil {
		return nil, f.reconcileErr
	}
	return f.reconcileResult, nil
}

func salesRequest(method, target, body string, actor *middleware.Actor) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.SetPathValue("eventID", "7")
	if actor != nil {
		req = req.WithContext(middleware.SetActor(req.Context(), *actor))
	}
	return req
}

func TestSalesController_Sell(t *testing.T) {
	admin := &middleware.Actor{UserID: 12, Role: domain.RoleAdmin}

	tests := []struct {
		name       string
		body       string
		actor      *middleware.Actor
		svc        *fakeInventoryService
		wantStatus int
	}{
		{"success", `{"qty":3}`, admin, &fakeInventoryService{}, http.StatusNoContent},
		{"zero quantity", `{"qty":0}`, admin, &fakeInventoryService{}, http.StatusBadRequest},
		{"negative quantity", `{"qty":-2}`, admin, &fakeInventoryService{}, http.StatusBadRequest},
		{"insufficient seats", `{"qty":9}`, admin, &fakeInventoryService{sellErr: domain.ErrInsufficientSeats}, http.StatusConflict},
		{"event not found", `{"qty":1}`, admin, &fakeInventoryService{sellErr: domain.ErrEventNotFound}, http.StatusNotFound},
		{"no actor in context", `{"qty":1}`, nil, &fakeInventoryService{}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewSalesController(testLogger, tt.svc)
			req := salesRequest(http.MethodPost, "http://test/events/7/sales", tt.body, tt.actor)
			rr := httptest.NewRecorder()

			controller.Sell(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, int64(7), tt.svc.lastEventID)
				assert.Equal(t, 3, tt.svc.lastQty)
				assert.Equal(t, int64(12), tt.svc.lastUserID)
			}
		})
	}
}

func TestSalesController_Refund(t *testing.T) {
	admin := &middleware.Actor{UserID: 12, Role: domain.RoleAdmin}

	tests := []struct {
		name       string
		body       string
		actor      *middleware.Actor
		svc        *fakeInventoryService
		wantStatus int
	}{
		{"success", `{"qty":5}`, admin, &fakeInventoryService{}, http.StatusNoContent},
		{"over refund", `{"qty":50}`, admin, &fakeInventoryService{refundErr: domain.ErrOverRefund}, http.StatusConflict},
		{"zero quantity", `{"qty":0}`, admin, &fakeInventoryService{}, http.StatusBadRequest},
		{"no actor in context", `{"qty":1}`, nil, &fakeInventoryService{}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewSalesController(testLogger, tt.svc)
			req := salesRequest(http.MethodPost, "http://test/events/7/refunds", tt.body, tt.actor)
			rr := httptest.NewRecorder()

			controller.Refund(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, 5, tt.svc.lastQty)
				assert.Equal(t, int64(12), tt.svc.lastUserID)
			}
		})
	}
}

func TestSalesController_ListMovements(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeInventoryService{listResult: []*domain.Movement{
			{ID: 2, EventID: 7, Type: domain.MovementRefund, Qty: 1, UserID: 12, CreatedAt: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)},
			{ID: 1, EventID: 7, Type: domain.MovementSale, Qty: 4, UserID: 12, CreatedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		}}
		controller := NewSalesController(testLogger, svc)
		req := httptest.NewRequest(http.MethodGet, "http://test/events/7/movements", nil)
		req.SetPathValue("eventID", "7")
		rr := httptest.NewRecorder()

		controller.ListMovements(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(7), svc.lastEventID)
		assert.Contains(t, rr.Body.String(), `"REFUND"`)
	})

	t.Run("event not found", func(t *testing.T) {
		controller := NewSalesController(testLogger, &fakeInventoryService{listErr: domain.ErrEventNotFound})
		req := httptest.NewRequest(http.MethodGet, "http://test/events/99/movements", nil)
		req.SetPathValue("eventID", "99")
		rr := httptest.NewRecorder()

		controller.ListMovements(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSalesController_Reconcile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeInventoryService{reconcileResult: &domain.Reconciliation{
			EventID: 7, SeatsSold: 40, LedgerNet: 40, Consistent: true,
		}}
		controller := NewSalesController(testLogger, svc)
		req := httptest.NewRequest(http.MethodGet, "http://test/events/7/reconciliation", nil)
		req.SetPathValue("eventID", "7")
		rr := httptest.NewRecorder()

		controller.Reconcile(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"consistent":true`)
	})

	t.Run("event not found", func(t *testing.T) {
		controller := NewSalesController(testLogger, &fakeInventoryService{reconcileErr: domain.ErrEventNotFound})
		req := httptest.NewRequest(http.MethodGet, "http://test/events/99/reconciliation", nil)
		req.SetPathValue("eventID", "99")
		rr := httptest.NewRecorder()

		controller.Reconcile(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
