package domain

import "testing"

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"tokentopair", TokenToPair, false},
		{"TokenToPair", TokenToPair, false},
		{"token_to_pair", TokenToPair, false},
		{"cex_to_dex", TokenToPair, false},
		{"pairtotoken", PairToToken, false},
		{"dex-to-cex", PairToToken, false},
		{"sideways", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDirection_Flow(t *testing.T) {
	if TokenToPair.Flow() != "cex_to_dex" || PairToToken.Flow() != "dex_to_cex" {
		t.Error("unexpected flow labels")
	}
	if Direction("x").Valid() {
		t.Error("unknown direction must be invalid")
	}
}
