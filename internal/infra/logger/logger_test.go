package logger

import (
	"context"
	"testing"
)

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "joh***@example.com"},
		{"ab@example.com", "ab***@example.com"},
		{"not-an-email", "***"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := MaskEmail(tc.in); got != tc.want {
			t.Fatalf("MaskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskIP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"192.168.10.42", "192.168.*.*"},
		{"2001:db8:85a3:8d3:1319:8a2e:370:7348", "2001:db8:85a3:8d3:*:*:*:*"},
		{"garbage", "***"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := MaskIP(tc.in); got != tc.want {
			t.Fatalf("MaskIP(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWithContextCarriesRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey{}, "req-123")

	log := WithContext(ctx)
	if log == nil {
		t.Fatalf("expected a logger")
	}
}
