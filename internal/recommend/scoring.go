// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package recommend

import "sort"

// preferenceProfile holds per-attribute interaction counts for one user.
type preferenceProfile struct {
	brands   map[string]int
	strains  map[StrainType]int
	terpenes map[string]int
}

// buildProfile tallies a user's recent events.
//
// Brand affinity only counts favorites, strain affinity counts views and
// purchases, and terpene affinity counts all three event types. Empty
// attribute values are skipped.
func buildProfile(events []UserEvent) preferenceProfile {
	p := preferenceProfile{
		brands:   make(map[string]int),
		strains:  make(map[StrainType]int),
		terpenes: make(map[string]int),
	}

	for i := range events {
		ev := &events[i]
		switch ev.Type {
		case EventFavorite:
			if ev.Brand != "" {
				p.brands[ev.Brand]++
			}
		case EventView, EventPurchase:
			if ev.StrainType != "" {
				p.strains[ev.StrainType]++
			}
		default:
			continue
		}

		for _, t := range ev.Terpenes {
			if t != "" {
				p.terpenes[t]++
			}
		}
	}

	return p
}

func (p *preferenceProfile) empty() bool {
	return len(p.brands) == 0 && len(p.strains) == 0 && len(p.terpenes) == 0
}

// scoreForYou applies the personalized linear formula to one candidate.
//
//nolint:gocritic // hugeParam: product passed by value, read-only
func scoreForYou(w *WeightsConfig, p *preferenceProfile, product Product) float64 {
	var terpeneAffinity float64
	for _, t := range product.Terpenes {
		terpeneAffinity += float64(p.terpenes[t])
	}

	return w.Brand*float64(p.brands[product.Brand]) +
		w.Strain*float64(p.strains[product.StrainType]) +
		w.Terpene*terpeneAffinity +
		w.Popularity*float64(product.PurchasesLast30d)
}

// scoreRelated scores a sibling against the base product.
//
//nolint:gocritic // hugeParam: products passed by value, read-only
func scoreRelated(w *WeightsConfig, base, sibling Product) float64 {
	score := jaccard(base.Terpenes, sibling.Terpenes)
	if base.Brand != "" && sibling.Brand == base.Brand {
		score += w.RelatedBrand
	}
	if base.StrainType != "" && sibling.StrainType == base.StrainType {
		score += w.RelatedStrain
	}
	return score
}

// jaccard returns |a ∩ b| / max(1, |a ∪ b|) over de-duplicated, non-empty
// values. Two empty sets score 0.
func jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for v := range setA {
		if _, ok := setB[v]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union < 1 {
		union = 1
	}
	return float64(intersection) / float64(union)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// rankAndProject sorts scored candidates by descending score and returns
// at most limit products. Ties keep their input order.
func rankAndProject(scored []ScoredProduct, limit int) []Product {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]Product, len(scored))
	for i := range scored {
		out[i] = scored[i].Product
	}
	return out
}
