package controllers

import (
	"net/http"

	"github.com/jedmarcnocum/spendledger-backend/api/responses"
	"github.com/jedmarcnocum/spendledger-backend/pkg/config"
	"github.com/jedmarcnocum/spendledger-backend/pkg/db"
	pkgerrors "github.com/jedmarcnocum/spendledger-backend/pkg/errors"
	"github.com/jedmarcnocum/spendledger-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SpendLedger-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, dbP db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SpendLedger-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
