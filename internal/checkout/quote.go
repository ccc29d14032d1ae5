package checkout

import (
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/shipping"
)

// buildPackage derives the parcel sent to the rate API from the cart lines.
// Weight is the sum over quantities; each dimension is the largest seen so
// the parcel fits every item. Variants missing shipping data fall back to the
// configured defaults.
func buildPackage(items []models.CartItem, cfg config.ShippingConfig) shipping.Package {
	pkg := shipping.Package{
		LengthCM: cfg.FallbackLengthCM,
		WidthCM:  cfg.FallbackWidthCM,
		HeightCM: cfg.FallbackHeightCM,
	}

	for _, item := range items {
		weight := cfg.FallbackWeightGrams
		if item.Variant != nil && item.Variant.WeightGrams > 0 {
			weight = item.Variant.WeightGrams
		}
		pkg.WeightGrams += weight * item.Quantity

		if item.Variant == nil {
			continue
		}
		if item.Variant.LengthCM != nil && *item.Variant.LengthCM > pkg.LengthCM {
			pkg.LengthCM = *item.Variant.LengthCM
		}
		if item.Variant.WidthCM != nil && *item.Variant.WidthCM > pkg.WidthCM {
			pkg.WidthCM = *item.Variant.WidthCM
		}
		if item.Variant.HeightCM != nil && *item.Variant.HeightCM > pkg.HeightCM {
			pkg.HeightCM = *item.Variant.HeightCM
		}
	}

	if pkg.WeightGrams == 0 {
		pkg.WeightGrams = cfg.FallbackWeightGrams
	}
	return pkg
}

// cheapestRate returns the lowest-priced rate, breaking ties by the shorter
// estimate.
func cheapestRate(rates []shipping.Rate) *shipping.Rate {
	var best *shipping.Rate
	for i := range rates {
		candidate := &rates[i]
		if best == nil ||
			candidate.PriceCents < best.PriceCents ||
			(candidate.PriceCents == best.PriceCents && candidate.EstimatedDays < best.EstimatedDays) {
			best = candidate
		}
	}
	return best
}

// matchRate finds the rate the client selected by carrier and service name.
func matchRate(rates []shipping.Rate, carrier, service string) *shipping.Rate {
	for i := range rates {
		if rates[i].Carrier == carrier && rates[i].Service == service {
			return &rates[i]
		}
	}
	return nil
}
