package postgres

import (
	"testing"

	"agendei/internal/config"
)

func TestPoolLimits(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.DatabaseConfig
		wantOpen int
		wantIdle int
	}{
		{
			name:     "defaults when unset",
			cfg:      config.DatabaseConfig{},
			wantOpen: 16,
			wantIdle: 8,
		},
		{
			name:     "explicit values pass through",
			cfg:      config.DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 4},
			wantOpen: 10,
			wantIdle: 4,
		},
		{
			name:     "single connection keeps one idle",
			cfg:      config.DatabaseConfig{MaxOpenConns: 1},
			wantOpen: 1,
			wantIdle: 1,
		},
		{
			name:     "idle capped at open",
			cfg:      config.DatabaseConfig{MaxOpenConns: 2, MaxIdleConns: 5},
			wantOpen: 2,
			wantIdle: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, idle := poolLimits(tt.cfg)
			if open != tt.wantOpen || idle != tt.wantIdle {
				t.Fatalf("poolLimits() = (%d, %d), want (%d, %d)", open, idle, tt.wantOpen, tt.wantIdle)
			}
		})
	}
}
