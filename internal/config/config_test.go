package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	yaml := []byte(`
app:
  env: dev
store:
  driver: memory
proxy:
  backend_url: http://backend:8080/
  timeout: 5s
telegram:
  admin_chat_id: 42
`)
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_STORE_DRIVER", "postgres")
	t.Setenv("APP_POSTGRES_DSN", "postgres://x")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.App.Env != "dev" {
		t.Errorf("env = %q", c.App.Env)
	}
	if c.Store.Driver != "postgres" || c.Postgres.DSN != "postgres://x" {
		t.Errorf("env overrides not applied: %+v %+v", c.Store, c.Postgres)
	}
	if c.Proxy.BackendURL != "http://backend:8080/" || c.Proxy.Timeout != 5*time.Second {
		t.Errorf("proxy = %+v", c.Proxy)
	}
	if c.Telegram.AdminChatID != 42 {
		t.Errorf("admin chat = %d", c.Telegram.AdminChatID)
	}
	if c.HTTP.Addr != ":8080" || c.Client.Timeout != 15*time.Second || !c.Store.Seed {
		t.Errorf("defaults missing: %+v %+v", c.HTTP, c.Client)
	}
}

func TestLocationFallback(t *testing.T) {
	var c Config
	c.App.Timezone = "Nowhere/Invalid"
	if c.Location() != time.UTC {
		t.Fatal("expected UTC fallback")
	}
}
