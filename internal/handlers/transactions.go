package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/handlers/render"
	"github.com/boostbd/smmpanel/internal/handlers/userctx"
	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/models"
)

type transactionResponse struct {
	ID         uuid.UUID  `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	UserEmail  string     `json:"user_email"`
	Method     string     `json:"method"`
	Amount     float64    `json:"amount"`
	Reference  string     `json:"reference"`
	Status     string     `json:"status"`
}

func toTransactionResponse(t models.Transaction) transactionResponse {
	amount, _ := t.Amount.Float64()
	return transactionResponse{
		ID:         t.ID,
		CreatedAt:  t.CreatedAt,
		ReviewedAt: t.ReviewedAt,
		UserEmail:  t.UserEmail,
		Method:     t.Method,
		Amount:     amount,
		Reference:  t.Reference,
		Status:     t.Status,
	}
}

func handleSubmitTopUp(walletService walletService, l logger.Logger) http.Handler {
	type request struct {
		Method    string  `json:"method" validate:"required"`
		Amount    float64 `json:"amount" validate:"required,gt=0"`
		Reference string  `json:"reference" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		tr, err := walletService.SubmitTopUp(r.Context(), &user, req.Method, decimal.NewFromFloat(req.Amount), req.Reference)

		switch {
		case err == nil:
			render.JSONWithStatus(w, toTransactionResponse(tr), http.StatusAccepted)
		case errors.Is(err, apperrors.ErrMethodUnknown),
			errors.Is(err, apperrors.ErrAmountBelowMinimum),
			errors.Is(err, apperrors.ErrReferenceInvalid):
			render.ServiceError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			l.Error("Failed to queue top-up", "error", err, "user_id", user.ID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListAllTransactions(walletService walletService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		transactions, err := walletService.ListAll(r.Context())

		switch err {
		case nil:
			res := make([]transactionResponse, 0, len(transactions))
			for _, t := range transactions {
				res = append(res, toTransactionResponse(t))
			}
			render.JSON(w, res)
		default:
			l.Error("Failed to list transactions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListUserTransactions(walletService walletService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		// A customer may only read their own claims
		email := r.PathValue("email")
		if email != principal.Email && !principal.IsAdmin() {
			render.ServiceError(w, "Forbidden", http.StatusForbidden)
			return
		}

		transactions, err := walletService.ListForUser(r.Context(), email)

		switch err {
		case nil:
			res := make([]transactionResponse, 0, len(transactions))
			for _, t := range transactions {
				res = append(res, toTransactionResponse(t))
			}
			render.JSON(w, res)
		default:
			l.Error("Failed to list user transactions", "error", err, "email", email)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleReviewTransaction(walletService walletService, l logger.Logger) http.Handler {
	type request struct {
		Status string `json:"status" validate:"required,oneof=completed rejected"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		transactionID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid transaction id", http.StatusUnprocessableEntity)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		reviewed, err := walletService.Review(r.Context(), transactionID, req.Status)

		switch {
		case err == nil:
			render.JSON(w, toTransactionResponse(reviewed))
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			render.ServiceError(w, "Transaction not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrTransactionAlreadyReviewed):
			render.ServiceError(w, "Transaction already reviewed", http.StatusConflict)
		default:
			l.Error("Failed to review transaction", "error", err, "transaction_id", transactionID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
