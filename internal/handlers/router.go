// Package handlers is the HTTP surface of the storefront core.
//
// Every handler is a closure over the service it needs, wired by NewRouter.
// Authentication is a middleware concern: handlers read the already-ensured
// profile from the request context and never see a token.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boostbd/smmpanel/internal/handlers/middleware"
	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/service/auth"
	"github.com/boostbd/smmpanel/internal/service/order"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	orderService orderService,
	walletService walletService,
	catalogService catalogService,
	verifyService verifyService,
	relayService relayService,
	logger logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService)
	adminOnly := middleware.AdminOnly()
	withAdmin := func(h http.Handler) http.Handler {
		return withAuth(adminOnly(h))
	}

	api := http.NewServeMux()

	api.Handle("GET /catalog", handleCatalog(catalogService))
	api.Handle("POST /verify-transaction", handleVerifyTransaction(verifyService, logger))

	api.Handle("POST /proxy", withAuth(handleProxy(relayService, logger)))

	api.Handle("POST /orders", withAuth(handleCreateOrder(orderService, logger)))
	api.Handle("GET /orders", withAuth(handleListOrders(orderService, logger)))
	api.Handle("GET /orders/all", withAdmin(handleListAllOrders(orderService, logger)))

	api.Handle("POST /transactions/submit", withAuth(handleSubmitTopUp(walletService, logger)))
	api.Handle("GET /transactions/user/{email}", withAuth(handleListUserTransactions(walletService, logger)))
	api.Handle("GET /transactions/all", withAdmin(handleListAllTransactions(walletService, logger)))
	api.Handle("POST /transactions/{id}/status", withAdmin(handleReviewTransaction(walletService, logger)))

	api.Handle("GET /me", withAuth(handleUserMe(walletService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Resolve the request's bearer token into an ensured profile.
	// Has to fail for requests without a valid token
	Auth(ctx context.Context, r *http.Request) (models.User, auth.Principal, error)
}

type orderService interface {
	Place(ctx context.Context, user *models.User, arg order.PlaceParams) (models.Order, models.User, error)
	ListOrders(ctx context.Context, user *models.User) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
}

type walletService interface {
	SubmitTopUp(ctx context.Context, user *models.User, method string, amount decimal.Decimal, reference string) (models.Transaction, error)
	Review(ctx context.Context, transactionID uuid.UUID, decision string) (models.Transaction, error)
	ListAll(ctx context.Context) ([]models.Transaction, error)
	ListForUser(ctx context.Context, email string) ([]models.Transaction, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type catalogService interface {
	Load(ctx context.Context) []models.Category
}

type verifyService interface {
	Check(ctx context.Context, reference string) (bool, error)
}

type relayService interface {
	Relay(ctx context.Context, action string, params map[string]string) (json.RawMessage, error)
}
