// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package recommend

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestJaccard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{name: "subset", a: []string{"A", "B"}, b: []string{"A", "B", "C"}, want: 2.0 / 3.0},
		{name: "sibling without terpenes", a: []string{"A", "B"}, b: nil, want: 0},
		{name: "both empty", a: nil, b: []string{}, want: 0},
		{name: "identical", a: []string{"A"}, b: []string{"A"}, want: 1},
		{name: "disjoint", a: []string{"A"}, b: []string{"B"}, want: 0},
		{name: "duplicates collapse", a: []string{"A", "A", "B"}, b: []string{"A", "B", "B"}, want: 1},
		{name: "empty strings ignored", a: []string{"", "A"}, b: []string{""}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := jaccard(tt.a, tt.b)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("jaccard(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestBuildProfile(t *testing.T) {
	t.Parallel()

	events := []UserEvent{
		{Type: EventFavorite, Brand: "House", StrainType: StrainIndica, Terpenes: []string{"myrcene"}},
		{Type: EventFavorite, Brand: "House"},
		{Type: EventFavorite, Brand: ""},
		{Type: EventView, Brand: "Ignored", StrainType: StrainSativa, Terpenes: []string{"myrcene", "pinene"}},
		{Type: EventPurchase, StrainType: StrainSativa},
		{Type: EventType("share"), Brand: "House", StrainType: StrainSativa, Terpenes: []string{"pinene"}},
	}

	p := buildProfile(events)

	if p.brands["House"] != 2 {
		t.Errorf("brands[House] = %d, want 2", p.brands["House"])
	}
	if _, ok := p.brands["Ignored"]; ok {
		t.Error("viewed brand must not count toward brand affinity")
	}
	if _, ok := p.brands[""]; ok {
		t.Error("empty brand must be ignored")
	}
	if p.strains[StrainSativa] != 2 {
		t.Errorf("strains[sativa] = %d, want 2", p.strains[StrainSativa])
	}
	if _, ok := p.strains[StrainIndica]; ok {
		t.Error("favorited strain must not count toward strain affinity")
	}
	if p.terpenes["myrcene"] != 2 || p.terpenes["pinene"] != 1 {
		t.Errorf("terpenes = %v, want myrcene=2 pinene=1", p.terpenes)
	}
}

func TestScoreForYou(t *testing.T) {
	t.Parallel()

	w := DefaultConfig().Weights
	p := preferenceProfile{
		brands:   map[string]int{"House": 2},
		strains:  map[StrainType]int{StrainIndica: 3},
		terpenes: map[string]int{"myrcene": 4, "limonene": 1},
	}
	product := Product{
		Brand:            "House",
		StrainType:       StrainIndica,
		Terpenes:         []string{"myrcene", "limonene", "caryophyllene"},
		PurchasesLast30d: 50,
	}

	// 0.6*2 + 0.6*3 + 0.3*5 + 0.02*50
	want := 1.2 + 1.8 + 1.5 + 1.0
	if got := scoreForYou(&w, &p, product); math.Abs(got-want) > epsilon {
		t.Errorf("scoreForYou() = %f, want %f", got, want)
	}
}

func TestScoreRelated(t *testing.T) {
	t.Parallel()

	w := DefaultConfig().Weights
	base := Product{Brand: "House", StrainType: StrainHybrid, Terpenes: []string{"A", "B"}}

	tests := []struct {
		name    string
		sibling Product
		want    float64
	}{
		{name: "terpenes only", sibling: Product{Brand: "X", StrainType: StrainCBD, Terpenes: []string{"A", "B", "C"}}, want: 2.0 / 3.0},
		{name: "brand and strain", sibling: Product{Brand: "House", StrainType: StrainHybrid}, want: 0.6},
		{name: "everything", sibling: Product{Brand: "House", StrainType: StrainHybrid, Terpenes: []string{"A", "B"}}, want: 1.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := scoreRelated(&w, base, tt.sibling); math.Abs(got-tt.want) > epsilon {
				t.Errorf("scoreRelated() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScoreRelated_EmptyAttributesNeverMatch(t *testing.T) {
	t.Parallel()

	w := DefaultConfig().Weights
	if got := scoreRelated(&w, Product{}, Product{}); got != 0 {
		t.Errorf("scoreRelated(empty, empty) = %f, want 0", got)
	}
}

func TestRankAndProject(t *testing.T) {
	t.Parallel()

	scored := []ScoredProduct{
		{Product: Product{ID: "a"}, Score: 1},
		{Product: Product{ID: "b"}, Score: 3},
		{Product: Product{ID: "c"}, Score: 1},
		{Product: Product{ID: "d"}, Score: 2},
	}

	got := rankAndProject(scored, 3)
	if !equalIDs(got, "b", "d", "a") {
		t.Errorf("rankAndProject() = %v, want [b d a]", productIDs(got))
	}

	if got := rankAndProject(nil, 5); got == nil || len(got) != 0 {
		t.Errorf("rankAndProject(nil) = %v, want empty non-nil slice", got)
	}
}

func TestParseEventType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    EventType
		wantErr bool
	}{
		{in: "view", want: EventView},
		{in: "Favorite", want: EventFavorite},
		{in: " purchase ", want: EventPurchase},
		{in: "share", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseEventType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEventType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEventType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
