package game

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestComputeEV(t *testing.T) {
	tests := []struct {
		name  string
		price *float64
		tiers []PrizeTier
		want  float64
		ok    bool
	}{
		{
			name:  "no tiers means no EV",
			price: floatPtr(5),
			tiers: nil,
			ok:    false,
		},
		{
			name:  "exhausted inventory is exactly zero",
			price: floatPtr(5),
			tiers: []PrizeTier{{Value: 0, Remaining: 0}},
			want:  0,
			ok:    true,
		},
		{
			name:  "weighted average",
			price: floatPtr(5),
			tiers: []PrizeTier{
				{Value: 100, Remaining: 10},
				{Value: 5, Remaining: 30},
			},
			want: (100*10 + 5*30) / 40.0,
			ok:   true,
		},
		{
			name:  "ticket tier revalued at price",
			price: floatPtr(5),
			tiers: []PrizeTier{
				{Value: 100, Remaining: 10},
				{Value: 0, Remaining: 5, IsTicket: true},
			},
			want: (100*10 + 5*5) / 15.0,
			ok:   true,
		},
		{
			name:  "ticket tier with zero remaining contributes nothing",
			price: floatPtr(5),
			tiers: []PrizeTier{
				{Value: 10, Remaining: 2},
				{Value: 0, Remaining: 0, IsTicket: true},
			},
			want: 10,
			ok:   true,
		},
		{
			name:  "ticket tier without a known price stays at face value",
			price: nil,
			tiers: []PrizeTier{
				{Value: 0, Remaining: 4, IsTicket: true},
				{Value: 20, Remaining: 4},
			},
			want: 10,
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeEV(tt.price, tt.tiers)
			if ok != tt.ok {
				t.Fatalf("ComputeEV ok = %v, want %v", ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComputeEV = %v, want %v", got, tt.want)
			}
		})
	}
}

// The EV of any non-empty tier set with remaining inventory is a weighted
// average, so it must lie between the smallest and largest value used.
func TestComputeEVBounds(t *testing.T) {
	price := floatPtr(10)
	sets := [][]PrizeTier{
		{{Value: 1, Remaining: 3}, {Value: 500, Remaining: 1}},
		{{Value: 0, Remaining: 7, IsTicket: true}, {Value: 50, Remaining: 2}, {Value: 2, Remaining: 90}},
		{{Value: 25, Remaining: 1}},
	}

	for _, tiers := range sets {
		ev, ok := ComputeEV(price, tiers)
		if !ok {
			t.Fatal("expected EV to be defined")
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, tier := range tiers {
			v := tier.Value
			if tier.IsTicket {
				v = *price
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if ev < lo || ev > hi {
			t.Errorf("EV %v outside [%v, %v] for %+v", ev, lo, hi, tiers)
		}
	}
}
