package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestLevelByEnv(t *testing.T) {
	var buf bytes.Buffer
	newWith(&buf, "prod", "server").Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written in prod: %s", buf.String())
	}

	newWith(&buf, "dev", "server").Debug("shown", "action", "login")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not JSON: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "shown" || rec["service"] != "server" || rec["action"] != "login" {
		t.Fatalf("unexpected record %#v", rec)
	}
}
