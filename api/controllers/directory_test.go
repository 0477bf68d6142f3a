package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jedmarcnocum/spendledger-backend/internal/directory"
	pkgerrors "github.com/jedmarcnocum/spendledger-backend/pkg/errors"
)

type stubDirectoryService struct {
	customers []directory.CustomerDTO
	changes   []directory.AddressChangeDTO
	batches   []directory.BatchDTO
	err       error
}

func (s *stubDirectoryService) PersistBatch(ctx context.Context, input directory.PersistInput) (*directory.PersistResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not used")
}

func (s *stubDirectoryService) ListCustomers(ctx context.Context) ([]directory.CustomerDTO, error) {
	return s.customers, s.err
}

func (s *stubDirectoryService) ListAddressChanges(ctx context.Context, customerID string) ([]directory.AddressChangeDTO, error) {
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	return s.changes, s.err
}

func (s *stubDirectoryService) ListBatches(ctx context.Context) ([]directory.BatchDTO, error) {
	return s.batches, s.err
}

func TestListCustomers(t *testing.T) {
	svc := &stubDirectoryService{customers: []directory.CustomerDTO{
		{CustomerID: "C001", Name: "Ana Reyes", Address: "12 Mabini St"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/v1/customers", nil)
	rec := httptest.NewRecorder()
	ListCustomers(svc, controllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Customers []directory.CustomerDTO `json:"customers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(envelope.Data.Customers) != 1 || envelope.Data.Customers[0].CustomerID != "C001" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestCustomerAddressChanges(t *testing.T) {
	svc := &stubDirectoryService{changes: []directory.AddressChangeDTO{
		{ID: 1, CustomerID: "C001", OldAddress: "12 Mabini St", NewAddress: "88 Rizal Ave", BatchID: 2},
	}}

	req := httptest.NewRequest(http.MethodGet, "/v1/customers/C001/address-changes", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("customerID", "C001")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	CustomerAddressChanges(svc, controllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			CustomerID     string                       `json:"customer_id"`
			AddressChanges []directory.AddressChangeDTO `json:"address_changes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.CustomerID != "C001" || len(envelope.Data.AddressChanges) != 1 {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestListBatchesDependencyError(t *testing.T) {
	svc := &stubDirectoryService{err: pkgerrors.New(pkgerrors.CodeDependency, "listing batches")}

	req := httptest.NewRequest(http.MethodGet, "/v1/batches", nil)
	rec := httptest.NewRecorder()
	ListBatches(svc, controllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestListCustomersNilService(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/customers", nil)
	rec := httptest.NewRecorder()
	ListCustomers(nil, controllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
