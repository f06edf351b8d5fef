package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/boostbd/smmpanel/internal/handlers/render"
	"github.com/boostbd/smmpanel/internal/logger"
)

func handleVerifyTransaction(verifyService verifyService, l logger.Logger) http.Handler {
	type request struct {
		TransactionID string `json:"transactionId" validate:"required"`
	}

	type response struct {
		Verified bool `json:"verified"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		verified, err := verifyService.Check(r.Context(), req.TransactionID)

		switch {
		case err == nil:
			render.JSON(w, response{Verified: verified})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Client went away during the simulated delay, nothing to answer
		default:
			l.Error("Verification check failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
