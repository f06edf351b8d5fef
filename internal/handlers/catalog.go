package handlers

import (
	"net/http"

	"github.com/boostbd/smmpanel/internal/handlers/render"
)

func handleCatalog(catalogService catalogService) http.Handler {
	type service struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		RatePer1000 float64  `json:"rate_per_1000"`
		Min         int      `json:"min"`
		Max         int      `json:"max"`
		Description []string `json:"description"`
	}

	type category struct {
		Name     string    `json:"name"`
		Icon     string    `json:"icon"`
		Services []service `json:"services"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never fails: the projection falls back to a built-in list
		categories := catalogService.Load(r.Context())

		res := make([]category, 0, len(categories))
		for _, c := range categories {
			services := make([]service, 0, len(c.Services))
			for _, s := range c.Services {
				rate, _ := s.RatePer1000.Float64()
				services = append(services, service{
					ID:          s.ID,
					Name:        s.Name,
					RatePer1000: rate,
					Min:         s.Min,
					Max:         s.Max,
					Description: s.Description,
				})
			}
			res = append(res, category{Name: c.Name, Icon: c.Icon, Services: services})
		}

		render.JSON(w, res)
	})
}
