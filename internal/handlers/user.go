package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/boostbd/smmpanel/internal/handlers/render"
	"github.com/boostbd/smmpanel/internal/handlers/userctx"
	"github.com/boostbd/smmpanel/internal/logger"
)

func handleUserMe(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		ID          uuid.UUID `json:"id"`
		Email       string    `json:"email"`
		DisplayName string    `json:"display_name"`
		Role        string    `json:"role"`
		Balance     float64   `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		// Re-read so the balance is current, not the one ensured at auth time
		fresh, err := walletService.GetBalance(r.Context(), user.ID)

		switch err {
		case nil:
			balance, _ := fresh.Balance.Float64()
			render.JSON(w, response{
				ID:          fresh.ID,
				Email:       fresh.Email,
				DisplayName: fresh.DisplayName,
				Role:        principal.Role,
				Balance:     balance,
			})
		default:
			l.Error("Failed to get balance", "error", err, "user_id", user.ID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
