// Package catalog projects the reseller's raw service list into the
// categories the storefront sells from.
//
// The projection is rebuilt in full on every load and kept nowhere: rates
// change upstream and the panel is the source of truth. When the panel is
// unreachable a small built-in catalog keeps the ordering flow usable.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/service/reseller"
)

// Upstream rates are USD per 1000 units; the storefront charges BDT.
// Flat margin is added per 1000 on top of the converted rate.
var (
	usdToBDT      = decimal.NewFromInt(120)
	marginPer1000 = decimal.NewFromInt(5)
)

const (
	defaultCategory = "Other Services"
	defaultMin      = 10
	defaultMax      = 10000
)

// fallback keeps the ordering UI alive when the panel is down
var fallbackServices = []reseller.RawService{
	{Service: "1", Name: "Facebook Page Likes", Category: "Facebook Services", Rate: "0.50", Min: "100", Max: "10000", Type: "Default", Refill: true},
	{Service: "2", Name: "Facebook Post Likes", Category: "Facebook Services", Rate: "0.10", Min: "100", Max: "50000", Type: "Default"},
	{Service: "3", Name: "TikTok Views", Category: "TikTok Services", Rate: "0.01", Min: "1000", Max: "1000000", Type: "Default"},
	{Service: "5", Name: "Instagram Followers", Category: "Instagram Services", Rate: "0.80", Min: "100", Max: "50000", Type: "Default", Refill: true, Cancel: true},
	{Service: "9", Name: "YouTube Subscribers", Category: "YouTube Services", Rate: "2.50", Min: "100", Max: "5000", Type: "Default", Refill: true, Cancel: true},
}

type resellerClient interface {
	Services(ctx context.Context) ([]reseller.RawService, error)
}

type CatalogService struct {
	client resellerClient
	logger logger.Logger
}

func NewService(client resellerClient, l logger.Logger) *CatalogService {
	return &CatalogService{
		client: client,
		logger: l,
	}
}

// Load fetches and projects the catalog. It never fails: any gateway trouble
// or an empty payload falls back to the built-in list.
func (s *CatalogService) Load(ctx context.Context) []models.Category {
	raw, err := s.client.Services(ctx)

	switch {
	case err != nil:
		s.logger.Warn("Failed to fetch services, using fallback catalog", "error", err)
		raw = fallbackServices
	case len(raw) == 0:
		s.logger.Warn("Panel returned no services, using fallback catalog")
		raw = fallbackServices
	}

	return project(raw)
}

// FindService resolves a service id against a fresh projection.
// Returns the service and the name of its category.
func (s *CatalogService) FindService(ctx context.Context, serviceID string) (models.Service, string, error) {
	for _, category := range s.Load(ctx) {
		for _, svc := range category.Services {
			if svc.ID == serviceID {
				return svc, category.Name, nil
			}
		}
	}

	return models.Service{}, "", apperrors.ErrServiceNotFound
}

func project(raw []reseller.RawService) []models.Category {
	grouped := map[string]*models.Category{}
	names := make([]string, 0) // category order follows first sighting

	for _, svc := range raw {
		id := svc.Service.String()
		if id == "" {
			id = svc.ID.String()
		}
		if id == "" {
			continue
		}

		categoryName := svc.Category
		if categoryName == "" {
			categoryName = defaultCategory
		}

		category, ok := grouped[categoryName]
		if !ok {
			category = &models.Category{
				Name: categoryName,
				Icon: IconFor(categoryName),
			}
			grouped[categoryName] = category
			names = append(names, categoryName)
		}

		category.Services = append(category.Services, toService(id, svc))
	}

	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, *grouped[name])
	}

	return categories
}

func toService(id string, svc reseller.RawService) models.Service {
	name := svc.Name
	if name == "" {
		name = "Unknown Service"
	}

	rate := LocalRate(parseDecimal(svc.Rate.String()))
	serviceType := svc.Type
	if serviceType == "" {
		serviceType = "Default"
	}

	return models.Service{
		ID:          id,
		Name:        name,
		RatePer1000: rate,
		Min:         parseInt(svc.Min.String(), defaultMin),
		Max:         parseInt(svc.Max.String(), defaultMax),
		Description: []string{
			fmt.Sprintf("Type: %s", serviceType),
			fmt.Sprintf("Refill: %s", yesNo(svc.Refill)),
			fmt.Sprintf("Cancel: %s", yesNo(svc.Cancel)),
			fmt.Sprintf("Rate: ৳%s per 1000", rate.StringFixed(2)),
		},
	}
}

// LocalRate converts a USD-per-1000 rate to BDT and adds the flat margin
func LocalRate(usdRate decimal.Decimal) decimal.Decimal {
	return usdRate.Mul(usdToBDT).Add(marginPer1000)
}

// IconFor picks the icon key by case-insensitive substring match against
// known platform names
func IconFor(categoryName string) string {
	name := strings.ToLower(categoryName)

	switch {
	case strings.Contains(name, "facebook") || strings.Contains(name, "fb"):
		return models.IconFacebook
	case strings.Contains(name, "tiktok") || strings.Contains(name, "tik tok"):
		return models.IconTiktok
	case strings.Contains(name, "instagram") || strings.Contains(name, "ig"):
		return models.IconInstagram
	case strings.Contains(name, "youtube") || strings.Contains(name, "yt"):
		return models.IconYoutube
	case strings.Contains(name, "twitter") || strings.Contains(name, "x"):
		return models.IconTwitter
	case strings.Contains(name, "telegram") || strings.Contains(name, "tg"):
		return models.IconTelegram
	default:
		return models.IconGeneric
	}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(s string, fallback int) int {
	// Some panels send "1000.0"
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
