package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/handlers/render"
	"github.com/boostbd/smmpanel/internal/handlers/userctx"
	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/service/order"
	"github.com/boostbd/smmpanel/internal/service/reseller"
)

type orderResponse struct {
	ID              uuid.UUID `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UserEmail       string    `json:"user_email"`
	Category        string    `json:"category"`
	ServiceName     string    `json:"service_name"`
	ServiceID       string    `json:"service_id"`
	Link            string    `json:"link"`
	Quantity        int       `json:"quantity"`
	Charge          float64   `json:"charge"`
	FundingRef      string    `json:"funding_ref,omitempty"`
	ProviderOrderID string    `json:"provider_order_id"`
	Status          string    `json:"status"`
}

func toOrderResponse(o models.Order) orderResponse {
	charge, _ := o.Charge.Float64()
	return orderResponse{
		ID:              o.ID,
		CreatedAt:       o.CreatedAt,
		UserEmail:       o.UserEmail,
		Category:        o.Category,
		ServiceName:     o.ServiceName,
		ServiceID:       o.ServiceID,
		Link:            o.Link,
		Quantity:        o.Quantity,
		Charge:          charge,
		FundingRef:      o.FundingRef,
		ProviderOrderID: o.ProviderOrderID,
		Status:          o.Status,
	}
}

func handleCreateOrder(orderService orderService, l logger.Logger) http.Handler {
	type request struct {
		ServiceID  string `json:"service_id" validate:"required"`
		Link       string `json:"link" validate:"required"`
		Quantity   int    `json:"quantity" validate:"required,gte=1"`
		FundingRef string `json:"funding_ref"`
	}

	type response struct {
		Order   orderResponse `json:"order"`
		Balance float64       `json:"balance"`
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

		fundingRef := req.FundingRef
		if fundingRef == "" {
			fundingRef = models.FundingBalance
		}

		placed, balance, err := orderService.Place(r.Context(), &user, order.PlaceParams{
			ServiceID:  req.ServiceID,
			Link:       req.Link,
			Quantity:   req.Quantity,
			FundingRef: fundingRef,
		})

		var resellerErr *reseller.Error

		switch {
		case err == nil:
			current, _ := balance.Balance.Float64()
			render.JSONWithStatus(w, response{Order: toOrderResponse(placed), Balance: current}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			render.ServiceError(w, "Insufficient balance", http.StatusPaymentRequired)
		case errors.Is(err, apperrors.ErrServiceNotFound):
			render.ServiceError(w, "Unknown service", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrLinkRequired):
			render.ServiceError(w, "Link is required", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrQuantityOutOfRange):
			render.ServiceError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrCompensationFailed):
			l.Error("Order placement failed and refund did not apply", "error", err, "user_id", user.ID)
			render.ServiceError(w, "Order failed, contact support about your balance", http.StatusBadGateway)
		case errors.As(err, &resellerErr):
			render.ServiceError(w, "Order rejected by provider", http.StatusBadGateway)
		default:
			l.Error("Failed to place order", "error", err, "user_id", user.ID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListAllOrders(orderService orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orders, err := orderService.ListAllOrders(r.Context())

		switch err {
		case nil:
			res := make([]orderResponse, 0, len(orders))
			for _, o := range orders {
				res = append(res, toOrderResponse(o))
			}
			render.JSON(w, res)
		default:
			l.Error("Failed to list all orders", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListOrders(orderService orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		orders, err := orderService.ListOrders(r.Context(), &user)

		switch err {
		case nil:
			res := make([]orderResponse, 0, len(orders))
			for _, o := range orders {
				res = append(res, toOrderResponse(o))
			}
			render.JSON(w, res)
		default:
			l.Error("Failed to list orders", "error", err, "user_id", user.ID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
