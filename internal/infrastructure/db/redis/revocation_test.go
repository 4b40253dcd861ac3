package redis

import (
	"testing"
	"time"
)

func TestRevokedSince(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_250)
	raw := "1700000000250"

	tests := []struct {
		name     string
		issuedAt time.Time
		want     bool
	}{
		{"issued before", at.Add(-time.Minute), true},
		{"issued the same millisecond", at.Add(300 * time.Microsecond), true},
		{"issued later in the same second", at.Add(400 * time.Millisecond), false},
		{"issued after", at.Add(time.Second), false},
		{"second-precision iat in the same second", time.Unix(1_700_000_000, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := revokedSince(raw, tt.issuedAt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRevokedSince_BadEntry(t *testing.T) {
	if _, err := revokedSince("not-a-number", time.Now()); err == nil {
		t.Fatal("expected an error for a corrupt entry")
	}
}

func TestKeys(t *testing.T) {
	if got := tokenKey("abc"); got != "revoked:jti:abc" {
		t.Errorf("tokenKey = %q", got)
	}
	if got := subjectKey(42); got != "revoked:sub:42" {
		t.Errorf("subjectKey = %q", got)
	}
}
