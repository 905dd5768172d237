package version

import (
	"strings"
	"testing"
)

func withBuildDate(t *testing.T, date string) {
	t.Helper()
	old := BuildDate
	BuildDate = date
	t.Cleanup(func() { BuildDate = old })
}

func TestCalculateBuildID(t *testing.T) {
	cases := []struct {
		name    string
		date    string
		want    int
		wantErr bool
	}{
		{name: "epoch day", date: "2025-12-04", want: 0},
		{name: "next day", date: "2025-12-05", want: 1},
		{name: "one year", date: "2026-12-04", want: 365},
		{name: "across leap years", date: "2032-12-04", want: 2557},
		{name: "garbage", date: "invalid", wantErr: true},
		{name: "unset", date: "", wantErr: true},
		{name: "before epoch", date: "2025-12-03", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withBuildDate(t, tc.date)

			got, err := CalculateBuildID()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got id=%d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("CalculateBuildID() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestInfoCarriesLinkerFields(t *testing.T) {
	withBuildDate(t, "2025-12-05")

	info := Info()
	if !info.Calculated {
		t.Fatalf("build id must be calculated: %s", info.Error)
	}
	if info.BuildID != 1 {
		t.Errorf("BuildID = %d, want 1", info.BuildID)
	}
	if info.BuildDate != "2025-12-05" {
		t.Errorf("BuildDate = %q", info.BuildDate)
	}
}

func TestStringFallsBackWhenUnset(t *testing.T) {
	withBuildDate(t, "")

	s := String()
	if !strings.HasPrefix(s, "zombie-escape build unknown") {
		t.Errorf("String() = %q, want unknown-build prefix", s)
	}
}
