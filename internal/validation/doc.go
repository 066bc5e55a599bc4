// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

// Package validation validates API request structs with go-playground/validator.
//
// A single validator instance is shared; it caches struct metadata and is
// safe for concurrent use. The custom "identifier" tag accepts the product,
// store, user and variant IDs that appear in URLs and event bodies.
//
//	type relatedQuery struct {
//	    ProductID string `query:"productID" validate:"required,identifier"`
//	    Limit     int    `query:"limit" validate:"gte=0,lte=100"`
//	}
//
//	if err := validation.ValidateStruct(&q); err != nil {
//	    var ve *validation.RequestValidationError
//	    errors.As(err, &ve)
//	    // ve.Fields lists every failing field by its query name
//	}
package validation
