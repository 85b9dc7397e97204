package calculator

import (
	"math"
	"testing"
)

func TestItemizedShares(t *testing.T) {
	tests := []struct {
		name         string
		items        []Item
		total        float64
		subtotal     float64
		participants []string
		wantErr      bool
		want         map[string]float64
	}{
		{
			name: "simple two-person split with tax",
			items: []Item{
				{Description: "Pizza", Amount: 20.0, AssignedTo: []string{"alice", "bob"}},
				{Description: "Salad", Amount: 10.0, AssignedTo: []string{"alice"}},
			},
			total:        33.0,
			subtotal:     30.0,
			participants: []string{"alice", "bob"},
			// alice: 20 + 20*(3/30) = 22, bob: 10 + 10*(3/30) = 11
			want: map[string]float64{"alice": 22, "bob": 11},
		},
		{
			name:         "zero subtotal should error",
			items:        []Item{{Description: "Item", Amount: 10.0, AssignedTo: []string{"alice"}}},
			total:        10.0,
			subtotal:     0.0,
			participants: []string{"alice"},
			wantErr:      true,
		},
		{
			name:         "no participants should error",
			items:        []Item{{Description: "Item", Amount: 10.0, AssignedTo: []string{"alice"}}},
			total:        10.0,
			subtotal:     10.0,
			participants: []string{},
			wantErr:      true,
		},
		{
			name:         "no items - split equally among participants",
			items:        []Item{},
			total:        33.0,
			subtotal:     30.0,
			participants: []string{"alice", "bob"},
			want:         map[string]float64{"alice": 16.5, "bob": 16.5},
		},
		{
			name:         "no items - three people split",
			total:        90.0,
			subtotal:     75.0,
			participants: []string{"alice", "bob", "carol"},
			want:         map[string]float64{"alice": 30, "bob": 30, "carol": 30},
		},
		{
			name: "items assigned to nobody should error",
			items: []Item{
				{Description: "Bread", Amount: 4.0},
				{Description: "Water", Amount: 6.0, AssignedTo: []string{"mallory"}},
			},
			total:        10.0,
			subtotal:     10.0,
			participants: []string{"alice", "bob"},
			wantErr:      true,
		},
		{
			name: "assignees outside the participants are ignored",
			items: []Item{
				{Description: "Wine", Amount: 30.0, AssignedTo: []string{"alice", "mallory", "bob"}},
				{Description: "Nobody's", Amount: 5.0},
			},
			total:        35.0,
			subtotal:     35.0,
			participants: []string{"alice", "bob"},
			want:         map[string]float64{"alice": 10, "bob": 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ItemizedShares(tt.items, tt.total, tt.subtotal, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Errorf("ItemizedShares() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if len(shares) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.want))
			}
			for person, want := range tt.want {
				if math.Abs(shares[person]-want) > 0.01 {
					t.Errorf("%s share = %v, want %v", person, shares[person], want)
				}
			}
		})
	}
}
