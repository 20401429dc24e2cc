// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import "testing"

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"empty disables", "", false},
		{"blank disables", "   ", false},
		{"every minute", "* * * * *", false},
		{"every six hours", "0 */6 * * *", false},
		{"descriptor", "@hourly", false},
		{"daily descriptor", "@daily", false},
		{"seconds field", "0 * * * * *", true},
		{"interval", "@every 5m", true},
		{"garbage", "whenever", true},
		{"out of range", "61 * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSchedule(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}
