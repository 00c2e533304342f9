package security

import (
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeCA(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ca.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildDisabled(t *testing.T) {
	var nilCfg *TLSConfig
	for _, c := range []*TLSConfig{nil, nilCfg, {}} {
		cfg, err := c.Build()
		if err != nil || cfg != nil {
			t.Errorf("expected nil config, got %v %v", cfg, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TLSConfig
		wantErr bool
	}{
		{"empty", TLSConfig{}, false},
		{"ca only", TLSConfig{CAFile: "ca.pem"}, false},
		{"cert without key", TLSConfig{CertFile: "cert.pem"}, true},
		{"key without cert", TLSConfig{KeyFile: "key.pem"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestBuildTrustsPrivateCA(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg, err := (&TLSConfig{CAFile: writeCA(t, srv)}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	client := &http.Client{Transport: &http.Transport{TLSClientConfig: cfg}}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("request with private CA failed: %v", err)
	}
	resp.Body.Close()

	if _, err := http.Get(srv.URL); err == nil {
		t.Error("expected the default client to reject the test certificate")
	}
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, c := range []TLSConfig{
		{CAFile: filepath.Join(dir, "missing.pem")},
		{CAFile: garbage},
		{CertFile: garbage, KeyFile: garbage},
	} {
		if _, err := c.Build(); err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
}
