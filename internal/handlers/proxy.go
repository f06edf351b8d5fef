package handlers

import (
	"errors"
	"net/http"

	"github.com/boostbd/smmpanel/internal/handlers/render"
	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/service/reseller"
)

// handleProxy relays one action to the reseller panel. The secret key is
// injected server-side; the panel's JSON answer is returned verbatim.
func handleProxy(relayService relayService, l logger.Logger) http.Handler {
	type request struct {
		Action string            `json:"action" validate:"required"`
		Params map[string]string `json:"params"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		raw, err := relayService.Relay(r.Context(), req.Action, req.Params)

		var resellerErr *reseller.Error

		switch {
		case err == nil:
			render.Raw(w, raw)
		case errors.As(err, &resellerErr):
			render.ServiceError(w, "Invalid response from provider API", http.StatusBadGateway)
		default:
			l.Error("Failed to relay to panel", "error", err, "action", req.Action)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
