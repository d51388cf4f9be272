package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"10.0.0.1":         "10.0.0.1",
		"10.0.0.1:8080":    "10.0.0.1",
		"[2001:db8::1]:80": "2001:db8::1",
		"[2001:db8::1]":    "2001:db8::1",
		"api.example.com":  "api.example.com",
	}
	for in, want := range tests {
		if got := ParseHostNoPort(in); got != want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		trust   bool
		want    string
	}{
		{"remote addr", nil, false, "203.0.113.9"},
		{"headers ignored without trust", map[string]string{"X-Forwarded-For": "198.51.100.1"}, false, "203.0.113.9"},
		{"cloudflare first", map[string]string{"CF-Connecting-IP": "198.51.100.2", "X-Forwarded-For": "198.51.100.1"}, true, "198.51.100.2"},
		{"left-most forwarded hop", map[string]string{"X-Forwarded-For": " 198.51.100.1 , 10.0.0.1"}, true, "198.51.100.1"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.3"}, true, "198.51.100.3"},
		{"no headers", nil, true, "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = "203.0.113.9:51000"
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trust); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.5 ", "2001:db8::/32", "garbage", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := map[string]bool{
		"10.200.3.4":       true,
		"192.168.1.5":      true,
		"192.168.1.6":      false,
		"::ffff:10.0.0.1":  true,
		"2001:db8:ffff::1": true,
		"2001:db9::1":      false,
		"not-an-ip":        false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should give an empty matcher")
	}
}
