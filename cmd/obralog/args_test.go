package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/obralog/obralog/client"
)

func TestParseRecordTime(t *testing.T) {
	if _, err := parseRecordTime("2026-08-20T10:30:00Z"); err != nil {
		t.Errorf("RFC 3339 rejected: %v", err)
	}
	if _, err := parseRecordTime("2026-08-20 10:30"); err != nil {
		t.Errorf("short form rejected: %v", err)
	}
	if _, err := parseRecordTime("next tuesday"); err == nil {
		t.Error("expected error for free-form time")
	}
}

func TestReadImageSpecs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(path, []byte{0xFF, 0xD8}, 0o644); err != nil {
		t.Fatal(err)
	}

	images, err := readImageSpecs([]string{"2=" + path})
	if err != nil {
		t.Fatalf("readImageSpecs: %v", err)
	}
	if len(images[2]) != 2 {
		t.Errorf("images = %v", images)
	}

	if _, err := readImageSpecs([]string{"photo.jpg"}); err == nil {
		t.Error("expected error for spec without slot")
	}
	if _, err := readImageSpecs([]string{"x=" + path}); err == nil {
		t.Error("expected error for non-numeric slot")
	}
}

func TestSignatureState(t *testing.T) {
	sig := "signatures/abc.jpg"

	if got := signatureState(&client.Record{}); got != "unsigned" {
		t.Errorf("empty record state = %q", got)
	}
	if got := signatureState(&client.Record{SignatureCompany: &sig}); got != "partially_signed" {
		t.Errorf("one signature state = %q", got)
	}
	if got := signatureState(&client.Record{SignatureCompany: &sig, SignatureClient: &sig}); got != "sealed" {
		t.Errorf("two signature state = %q", got)
	}
}

func TestResolveConfig_EnvFallback(t *testing.T) {
	t.Setenv("OBRALOG_URL", "http://example.com:4040")
	t.Setenv("OBRALOG_API_KEY", "env-key")
	t.Setenv("HOME", t.TempDir())

	flagURL = defaultURL
	flagKey = ""
	resolveConfig()

	if flagURL != "http://example.com:4040" {
		t.Errorf("flagURL = %q", flagURL)
	}
	if flagKey != "env-key" {
		t.Errorf("flagKey = %q", flagKey)
	}
}

func TestResolveConfig_FlagWins(t *testing.T) {
	t.Setenv("OBRALOG_URL", "http://env.example.com")
	t.Setenv("HOME", t.TempDir())

	flagURL = "http://flag.example.com"
	flagKey = "flag-key"
	resolveConfig()

	if flagURL != "http://flag.example.com" {
		t.Errorf("flagURL = %q", flagURL)
	}
}
