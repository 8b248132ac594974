package main

import (
	"bytes"
	"crypto/tls"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_CreatesThenReusesCA(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")

	var out bytes.Buffer
	if err := run([]string{"-dir", dir, "-hosts", "localhost, 127.0.0.1"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Created new CA") {
		t.Errorf("output = %q", out.String())
	}
	for _, f := range []string{"ca.crt", "ca.key", "server.crt", "server.key"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("%s not written: %v", f, err)
		}
	}
	if _, err := tls.LoadX509KeyPair(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key")); err != nil {
		t.Errorf("server pair does not load: %v", err)
	}

	caBefore, err := os.ReadFile(filepath.Join(dir, "ca.crt"))
	if err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := run([]string{"-dir", dir}, &out); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !strings.Contains(out.String(), "Reusing existing CA") {
		t.Errorf("output = %q", out.String())
	}
	caAfter, err := os.ReadFile(filepath.Join(dir, "ca.crt"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(caBefore, caAfter) {
		t.Error("CA was regenerated")
	}
}

func TestRun_Errors(t *testing.T) {
	if err := run([]string{"-unknown"}, &bytes.Buffer{}); err == nil {
		t.Error("expected flag error")
	}

	dir := t.TempDir()
	if err := run([]string{"-dir", dir, "-hosts", " , "}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for empty host list")
	}

	if err := os.WriteFile(filepath.Join(dir, "ca.crt"), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ca.key"), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := run([]string{"-dir", dir}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for corrupt CA")
	}
}
