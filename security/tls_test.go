package security

import (
	"crypto/tls"
	"path/filepath"
	"testing"

	"github.com/kbukum/scribe/security/tlstest"
)

func TestBuildDisabled(t *testing.T) {
	var nilCfg *TLSConfig
	for name, c := range map[string]*TLSConfig{"nil": nilCfg, "zero": {}} {
		t.Run(name, func(t *testing.T) {
			got, err := c.Build()
			if err != nil || got != nil {
				t.Errorf("Build = %v, %v", got, err)
			}
			if c.IsEnabled() {
				t.Error("IsEnabled = true")
			}
		})
	}
}

func TestBuild(t *testing.T) {
	certs := tlstest.Generate(t)
	tests := []struct {
		name    string
		cfg     TLSConfig
		check   func(t *testing.T, c *tls.Config)
		wantErr bool
	}{
		{
			name: "skip verify",
			cfg:  TLSConfig{SkipVerify: true},
			check: func(t *testing.T, c *tls.Config) {
				if !c.InsecureSkipVerify || c.MinVersion != tls.VersionTLS12 {
					t.Errorf("got %+v", c)
				}
			},
		},
		{
			name: "server name and min version",
			cfg:  TLSConfig{ServerName: "redis.internal", MinVersion: tls.VersionTLS13},
			check: func(t *testing.T, c *tls.Config) {
				if c.ServerName != "redis.internal" || c.MinVersion != tls.VersionTLS13 {
					t.Errorf("got %+v", c)
				}
			},
		},
		{
			name: "mutual TLS",
			cfg:  TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile},
			check: func(t *testing.T, c *tls.Config) {
				if c.RootCAs == nil || len(c.Certificates) != 1 {
					t.Errorf("RootCAs=%v certificates=%d", c.RootCAs, len(c.Certificates))
				}
			},
		},
		{name: "missing CA", cfg: TLSConfig{CAFile: filepath.Join(t.TempDir(), "none.pem")}, wantErr: true},
		{name: "unparseable CA", cfg: TLSConfig{CAFile: tlstest.InvalidPEM(t)}, wantErr: true},
		{name: "bad key pair", cfg: TLSConfig{CertFile: certs.CAFile, KeyFile: certs.CertFile}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Build()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	var nilCfg *TLSConfig
	if err := nilCfg.Validate(); err != nil {
		t.Errorf("nil: %v", err)
	}
	if err := (&TLSConfig{CertFile: "c.pem", KeyFile: "k.pem"}).Validate(); err != nil {
		t.Errorf("pair: %v", err)
	}
	if err := (&TLSConfig{CertFile: "c.pem"}).Validate(); err == nil {
		t.Error("expected error for cert without key")
	}
}
