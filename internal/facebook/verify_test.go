package facebook

import (
	"errors"
	"testing"
)

func TestVerify_Valid(t *testing.T) {
	params := map[string]string{
		"hub.mode":         "subscribe",
		"hub.verify_token": "secret",
		"hub.challenge":    "12345",
	}
	challenge, err := Verify(params, "secret")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if challenge != "12345" {
		t.Errorf("expected challenge 12345, got %q", challenge)
	}
}

func TestVerify_WrongToken(t *testing.T) {
	params := map[string]string{
		"hub.mode":         "subscribe",
		"hub.verify_token": "other",
		"hub.challenge":    "12345",
	}
	if _, err := Verify(params, "secret"); !errors.Is(err, ErrVerification) {
		t.Errorf("expected ErrVerification, got: %v", err)
	}
}

func TestVerify_WrongMode(t *testing.T) {
	params := map[string]string{
		"hub.mode":         "unsubscribe",
		"hub.verify_token": "secret",
		"hub.challenge":    "12345",
	}
	if _, err := Verify(params, "secret"); !errors.Is(err, ErrVerification) {
		t.Errorf("expected ErrVerification, got: %v", err)
	}
}

func TestVerify_MissingChallenge(t *testing.T) {
	params := map[string]string{
		"hub.mode":         "subscribe",
		"hub.verify_token": "secret",
	}
	if _, err := Verify(params, "secret"); !errors.Is(err, ErrVerification) {
		t.Errorf("expected ErrVerification, got: %v", err)
	}
}

func TestVerify_EmptyParams(t *testing.T) {
	if _, err := Verify(map[string]string{}, "secret"); !errors.Is(err, ErrVerification) {
		t.Errorf("expected ErrVerification, got: %v", err)
	}
}
