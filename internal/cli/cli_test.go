package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type capture struct {
	requests int
	path     string
	body     map[string]any
}

func newAPIServer(t *testing.T, reply string, status int, cap *capture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.requests++
		cap.path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&cap.body)
		if status != http.StatusOK {
			http.Error(w, http.StatusText(status), status)
			return
		}
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := New().WithOutput(&out, &errOut)
	err = app.ExecuteWithArgs(context.Background(), args)
	return out.String(), err
}

func TestPostDefaultsPayload(t *testing.T) {
	var cap capture
	srv := newAPIServer(t, `{"ok": true, "ts": "1.2", "channel": "C1"}`, http.StatusOK, &cap)

	stdout, err := run(t, "post",
		"--token", "xoxp-test",
		"--msg", "host completed",
		"--api-base", srv.URL+"/")
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	want := map[string]any{
		"text":       "host completed",
		"icon_url":   "https://www.ansible.com/favicon.ico",
		"username":   "Ansible",
		"link_names": float64(1),
	}
	if !reflect.DeepEqual(cap.body, want) {
		t.Fatalf("payload mismatch:\n got %v\nwant %v", cap.body, want)
	}
	if cap.path != "/chat.postMessage" {
		t.Fatalf("expected chat.postMessage, got %s", cap.path)
	}
	if !strings.Contains(stdout, `"ok":true`) {
		t.Fatalf("stdout must carry the parsed reply: %q", stdout)
	}
}

func TestPostRemoteRejection(t *testing.T) {
	var cap capture
	srv := newAPIServer(t, `{"ok": false, "error": "invalid_auth"}`, http.StatusOK, &cap)

	_, err := run(t, "post",
		"--token", "xoxp-test",
		"--msg", "host completed",
		"--api-base", srv.URL+"/")
	if err == nil || !strings.Contains(err.Error(), "invalid_auth") {
		t.Fatalf("expected invalid_auth failure, got %v", err)
	}
}

func TestPostTransportFailure(t *testing.T) {
	var cap capture
	srv := newAPIServer(t, "", http.StatusForbidden, &cap)

	_, err := run(t, "post",
		"--token", "xoxp-test",
		"--msg", "hi",
		"--api-base", srv.URL+"/")
	if err == nil || !strings.Contains(err.Error(), "status 403") {
		t.Fatalf("expected status 403 failure, got %v", err)
	}
}

func TestInvalidColorFailsBeforeNetwork(t *testing.T) {
	var cap capture
	srv := newAPIServer(t, `{"ok": true}`, http.StatusOK, &cap)

	_, err := run(t, "post",
		"--token", "xoxp-test",
		"--msg", "hi",
		"--color", "blue",
		"--api-base", srv.URL+"/")
	if err == nil || !strings.Contains(err.Error(), "invalid color") {
		t.Fatalf("expected color validation error, got %v", err)
	}
	if cap.requests != 0 {
		t.Fatalf("validation failure must not reach the network (%d requests)", cap.requests)
	}
}

func TestInvalidParseModeRejected(t *testing.T) {
	_, err := run(t, "post", "--token", "x", "--msg", "hi", "--parse", "partial")
	if err == nil || !strings.Contains(err.Error(), "parse mode") {
		t.Fatalf("expected parse mode error, got %v", err)
	}
}

func TestMissingTokenFails(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "")
	_, err := run(t, "post", "--msg", "hi")
	if err == nil || !strings.Contains(err.Error(), "missing token") {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestTokenFromEnvironment(t *testing.T) {
	var cap capture
	srv := newAPIServer(t, `{"ok": true}`, http.StatusOK, &cap)
	t.Setenv("SLACK_TOKEN", "xoxp-env")

	if _, err := run(t, "post", "--msg", "hi", "--api-base", srv.URL+"/"); err != nil {
		t.Fatalf("post with env token: %v", err)
	}
	if cap.requests != 1 {
		t.Fatalf("expected one request, got %d", cap.requests)
	}
}

func TestUpdateRequiresTS(t *testing.T) {
	_, err := run(t, "update", "--token", "x", "--msg", "hi")
	if err == nil || !strings.Contains(err.Error(), "ts") {
		t.Fatalf("update without --ts must fail, got %v", err)
	}
}

func TestUpdateTargetsExistingMessage(t *testing.T) {
	var cap capture
	srv := newAPIServer(t, `{"ok": true}`, http.StatusOK, &cap)

	_, err := run(t, "update",
		"--token", "xoxp-test",
		"--channel", "C024BE91L",
		"--msg", "build green",
		"--ts", "1539917263.000100",
		"--api-base", srv.URL+"/")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cap.path != "/chat.update" {
		t.Fatalf("expected chat.update, got %s", cap.path)
	}
	if cap.body["ts"] != "1539917263.000100" {
		t.Fatalf("expected ts field, got %v", cap.body)
	}
	if _, ok := cap.body["thread_ts"]; ok {
		t.Fatalf("update must not emit thread_ts: %v", cap.body)
	}
}

func TestPostInlineAttachments(t *testing.T) {
	var cap capture
	srv := newAPIServer(t, `{"ok": true}`, http.StatusOK, &cap)

	_, err := run(t, "post",
		"--token", "xoxp-test",
		"--attachments", `[{"text": "load high", "color": "#ff00dd"}]`,
		"--api-base", srv.URL+"/")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	atts, ok := cap.body["attachments"].([]any)
	if !ok || len(atts) != 1 {
		t.Fatalf("expected one attachment, got %v", cap.body["attachments"])
	}
	a := atts[0].(map[string]any)
	if a["fallback"] != "load high" {
		t.Fatalf("fallback not synthesized on the wire: %v", a)
	}
}

func TestConfigFileOverridesAndFlagWins(t *testing.T) {
	var cap capture
	srv := newAPIServer(t, `{"ok": true}`, http.StatusOK, &cap)

	cfgPath := filepath.Join(t.TempDir(), "defaults.yaml")
	content := "username: filebot\nicon_url: https://example.com/file.png\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := run(t, "post",
		"--token", "xoxp-test",
		"--msg", "hi",
		"--config", cfgPath,
		"--username", "flagbot",
		"--api-base", srv.URL+"/")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if cap.body["username"] != "flagbot" {
		t.Fatalf("explicit flag must beat the file: %v", cap.body)
	}
	if cap.body["icon_url"] != "https://example.com/file.png" {
		t.Fatalf("file value must beat the built-in default: %v", cap.body)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(stdout, "slackpost") {
		t.Fatalf("unexpected version output %q", stdout)
	}
}
