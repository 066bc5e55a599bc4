// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

// Package recommend ranks dispensary products for shoppers.
//
// # Rankings
//
// The engine exposes two rankings:
//
//   - ForYou: personalized ranking of a store's popular products, driven by
//     the shopper's recent views, favorites and purchases
//   - RelatedTo: products similar to a base product, by terpene overlap,
//     brand and strain type
//
// Both are pure functions of the DataStore's answers. The engine keeps no
// model state and does not train.
//
// # ForYou Scoring
//
// A preference profile is built from up to Limits.EventWindow recent events:
//
//	brandFreq   = favorites per brand
//	strainFreq  = views + purchases per strain type
//	terpeneFreq = views + favorites + purchases per terpene
//
// Each candidate then scores
//
//	0.6*brandFreq[brand] + 0.6*strainFreq[strain] + 0.3*Σ terpeneFreq[t] + 0.02*purchasesLast30d
//
// with the coefficients taken from Config.Weights. Anonymous requests skip
// scoring and return the store's popularity order.
//
// # RelatedTo Scoring
//
//	jaccard(base.Terpenes, sibling.Terpenes) + 0.3*sameBrand + 0.3*sameStrain
//
// The jaccard denominator is floored at 1, so two products without terpenes
// contribute 0.
//
// # Ordering
//
// Ranking uses a stable sort. Equal scores keep the order the store returned
// them in, which for ForYou is descending popularity.
//
// # Usage
//
//	engine, err := recommend.NewEngine(store, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//
//	products, err := engine.ForYou(ctx, recommend.ForYouRequest{
//	    UserID:  userID,
//	    StoreID: storeID,
//	    Limit:   12,
//	})
//
// # Errors
//
// Store failures are wrapped and returned; there is no retry and no fallback
// ranking. Negative limits return ErrInvalidRequest.
package recommend
