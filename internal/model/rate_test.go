package model

import (
	"testing"
	"time"
)

func TestRateRecord_SameDaySameValue(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.Local)
	raw := RawRate{Ccy: "USD", BaseCcy: "UAH", Buy: "37.25", Sale: "37.75"}

	tests := []struct {
		name   string
		record RateRecord
		want   bool
	}{
		{
			name: "same day identical values",
			record: RateRecord{
				Buy: "37.25", Sale: "37.75",
				Timestamp: now.Add(-2 * time.Hour),
			},
			want: true,
		},
		{
			name: "same day equivalent decimal form",
			record: RateRecord{
				Buy: "37.250", Sale: "37.7500",
				Timestamp: now.Add(-2 * time.Hour),
			},
			want: true,
		},
		{
			name: "same day changed buy",
			record: RateRecord{
				Buy: "37.30", Sale: "37.75",
				Timestamp: now.Add(-2 * time.Hour),
			},
			want: false,
		},
		{
			name: "same day changed sale",
			record: RateRecord{
				Buy: "37.25", Sale: "37.80",
				Timestamp: now.Add(-2 * time.Hour),
			},
			want: false,
		},
		{
			name: "previous day identical values",
			record: RateRecord{
				Buy: "37.25", Sale: "37.75",
				Timestamp: now.AddDate(0, 0, -1),
			},
			want: false,
		},
		{
			name: "unparseable values fall back to string equality",
			record: RateRecord{
				Buy: "n/a", Sale: "37.75",
				Timestamp: now.Add(-time.Hour),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.SameDaySameValue(raw, now); got != tt.want {
				t.Errorf("SameDaySameValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCredentials_Authenticated(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{"both tokens", Credentials{AccessToken: "T", RefreshToken: "R"}, true},
		{"access only", Credentials{AccessToken: "T"}, false},
		{"refresh only", Credentials{RefreshToken: "R"}, false},
		{"empty", Credentials{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Authenticated(); got != tt.want {
				t.Errorf("Authenticated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrentPeriod(t *testing.T) {
	year, month := CurrentPeriod(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC))
	if year != 2024 || month != 0 {
		t.Errorf("CurrentPeriod(January 2024) = (%d, %d), want (2024, 0)", year, month)
	}

	year, month = CurrentPeriod(time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC))
	if year != 2023 || month != 11 {
		t.Errorf("CurrentPeriod(December 2023) = (%d, %d), want (2023, 11)", year, month)
	}
}
