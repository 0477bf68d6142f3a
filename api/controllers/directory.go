package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jedmarcnocum/spendledger-backend/api/responses"
	"github.com/jedmarcnocum/spendledger-backend/internal/directory"
	pkgerrors "github.com/jedmarcnocum/spendledger-backend/pkg/errors"
	"github.com/jedmarcnocum/spendledger-backend/pkg/logger"
)

// ListCustomers returns the current canonical directory, latest batch wins.
func ListCustomers(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		customers, err := svc.ListCustomers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customers": customers})
	}
}

// CustomerAddressChanges returns one customer's address audit trail in insert
// order.
func CustomerAddressChanges(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		customerID := chi.URLParam(r, "customerID")
		changes, err := svc.ListAddressChanges(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"customer_id":     customerID,
			"address_changes": changes,
		})
	}
}

// ListBatches returns the per-batch ingestion log.
func ListBatches(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		batches, err := svc.ListBatches(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"batches": batches})
	}
}
