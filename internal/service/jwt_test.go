package service

import (
	"strings"
	"testing"
)

func TestJWT_RoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(42, true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, registered, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 || !registered {
		t.Errorf("claims = (%d, %v), want (42, true)", userID, registered)
	}
}

func TestJWT_RejectsTamperedToken(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(42, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	if _, _, err := ParseJWT(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}
