package models

import (
	"github.com/shopspring/decimal"
)

// Category icon keys. The web client maps these to actual artwork; the
// server only picks the key by matching the category name.
const (
	IconFacebook  = "facebook"
	IconTiktok    = "tiktok"
	IconInstagram = "instagram"
	IconYoutube   = "youtube"
	IconTwitter   = "twitter"
	IconTelegram  = "telegram"
	IconGeneric   = "generic"
)

// Service is a single orderable reseller service, already converted to the
// local currency. Services are a projection of the reseller's catalog: they
// are rebuilt on every fetch and never persisted.
type Service struct {
	ID          string
	Name        string
	RatePer1000 decimal.Decimal
	Min         int
	Max         int
	Description []string
}

// Charge computes the cost for quantity units: (quantity / 1000) * rate.
func (s Service) Charge(quantity int) decimal.Decimal {
	return s.RatePer1000.Mul(decimal.NewFromInt(int64(quantity))).Div(decimal.NewFromInt(1000))
}

// Category groups services under one platform heading.
type Category struct {
	Name     string
	Icon     string
	Services []Service
}
