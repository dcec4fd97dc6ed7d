package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fd1az/arbscan/internal/apperror"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		// explicit paths must exist
		t.Fatalf("expected error for missing explicit file, got %+v", cfg)
	}
	if !apperror.HasCode(err, apperror.CodeConfigurationError) {
		t.Errorf("missing file error = %v, want CONFIGURATION_ERROR", err)
	}

	t.Chdir(t.TempDir())
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Arbitrage.Fees.TradeRate != 0.0014 {
		t.Errorf("trade_rate = %v", cfg.Arbitrage.Fees.TradeRate)
	}
	if r := cfg.Arbitrage.Fees.TransferRatio; r == nil || *r != 0.5 {
		t.Errorf("transfer_ratio = %v", r)
	}
	if cfg.Arbitrage.MaxCandidates != 3 {
		t.Errorf("max_candidates = %d", cfg.Arbitrage.MaxCandidates)
	}
	if cfg.Arbitrage.VolumeGate != VolumeGateOff {
		t.Errorf("volume_gate = %s", cfg.Arbitrage.VolumeGate)
	}
	if cfg.Notification.Telegram.Timeout != 10*time.Second {
		t.Errorf("telegram timeout = %v", cfg.Notification.Telegram.Timeout)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
arbitrage:
  default_modal: 250
  volume_gate: auto_level
  fees:
    transfer_ratio: 0.4
assets:
  stablecoins: [USDT, FDUSD]
  tokens:
    - chain: bsc
      address: "0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82"
      symbol: CAKE
      decimals: 18
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARB_THRESHOLD", "2.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Arbitrage.DefaultModal != 250 {
		t.Errorf("default_modal = %v", cfg.Arbitrage.DefaultModal)
	}
	if r := cfg.Arbitrage.Fees.TransferRatio; r == nil || *r != 0.4 || cfg.Arbitrage.Fees.TradeRate != 0.0014 {
		t.Errorf("fees = %+v", cfg.Arbitrage.Fees)
	}
	if cfg.Arbitrage.Threshold != 2.5 {
		t.Errorf("threshold = %v", cfg.Arbitrage.Threshold)
	}
	if len(cfg.Assets.Tokens) != 1 || cfg.Assets.Tokens[0].Symbol != "CAKE" {
		t.Errorf("tokens = %+v", cfg.Assets.Tokens)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Arbitrage: ArbitrageConfig{
				DefaultModal: 100,
				Fees:         FeesConfig{TradeRate: 0.0014},
				VolumeGate:   VolumeGateOff,
				Workers:      1,
			},
			Assets: AssetsConfig{Stablecoins: []string{"USDT"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero modal", func(c *Config) { c.Arbitrage.DefaultModal = 0 }, true},
		{"negative transfer ratio", func(c *Config) { c.Arbitrage.Fees.TransferRatio = ptr(-0.1) }, true},
		{"zero transfer ratio", func(c *Config) { c.Arbitrage.Fees.TransferRatio = ptr(0) }, false},
		{"negative threshold", func(c *Config) { c.Arbitrage.Threshold = -1 }, true},
		{"unknown gate", func(c *Config) { c.Arbitrage.VolumeGate = "loose" }, true},
		{"no stables", func(c *Config) { c.Assets.Stablecoins = nil }, true},
		{"bad token address", func(c *Config) {
			c.Assets.Tokens = []TokenConfig{{Symbol: "X", Address: "0x12"}}
		}, true},
		{"telegram without tokens", func(c *Config) {
			c.Notification.Telegram = TelegramConfig{Enabled: true, ChatID: "1", RatePerMinute: 1}
		}, true},
		{"telegram ok", func(c *Config) {
			c.Notification.Telegram = TelegramConfig{Enabled: true, Tokens: []string{"t"}, ChatID: "1", RatePerMinute: 1}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func ptr(f float64) *float64 { return &f }

func TestLoad_ZeroTransferRatio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("arbitrage:\n  fees:\n    transfer_ratio: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r := cfg.Arbitrage.Fees.TransferRatio; r == nil || *r != 0 {
		t.Errorf("transfer_ratio = %v, want explicit 0", r)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("arbitrage:\n  fees:\n    transfer_ratio: -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !apperror.HasCode(err, apperror.CodeConfigurationError) {
		t.Fatalf("Load error = %v, want CONFIGURATION_ERROR", err)
	}
}
