package asset_test

import (
	"errors"
	"testing"

	"github.com/fd1az/arbscan/internal/asset"
	"github.com/shopspring/decimal"
)

func bscUSDT(t *testing.T) *asset.Asset {
	t.Helper()
	a, ok := asset.DefaultRegistry().Token("bsc", "USDT")
	if !ok {
		t.Fatal("bsc USDT not registered")
	}
	return a
}

func TestParseRaw(t *testing.T) {
	usdt := bscUSDT(t)

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"one and a half", "1500000000000000000", "1.5", nil},
		{"dust", "1", "0.000000000000000001", nil},
		{"zero", "0", "0", nil},
		{"negative", "-5", "", asset.ErrNegativeAmount},
		{"hex", "0x10", "", asset.ErrInvalidRaw},
		{"decimal string", "1.5", "", asset.ErrInvalidRaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amt, err := asset.ParseRaw(usdt, tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !amt.ToDecimal().Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ToDecimal = %s, want %s", amt.ToDecimal(), tt.want)
			}
		})
	}
}

func TestAmount_String(t *testing.T) {
	tests := []struct {
		decimals uint8
		raw      string
		want     string
		float    float64
	}{
		{18, "1234500000000000000000", "1234.5 CAKE", 1234.5},
		{6, "2500000", "2.5 CAKE", 2.5},
		{0, "7", "7 CAKE", 7},
	}
	for _, tt := range tests {
		a := asset.NewAsset(asset.NewOffChainAssetID("CAKE"), "cake", tt.decimals)
		amt, err := asset.ParseRaw(a, tt.raw)
		if err != nil {
			t.Fatal(err)
		}
		if amt.String() != tt.want {
			t.Errorf("String = %q, want %q", amt.String(), tt.want)
		}
		if amt.ToFloat64() != tt.float {
			t.Errorf("ToFloat64 = %v, want %v", amt.ToFloat64(), tt.float)
		}
	}
}

func TestParseRaw_NilAsset(t *testing.T) {
	if _, err := asset.ParseRaw(nil, "1"); !errors.Is(err, asset.ErrNilAsset) {
		t.Errorf("err = %v", err)
	}
	var zero asset.Amount
	if zero.String() != "0" || !zero.ToDecimal().IsZero() {
		t.Errorf("zero amount = %q", zero.String())
	}
}
