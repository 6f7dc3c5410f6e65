package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/spawnhook/internal/config"
	"github.com/kingrea/spawnhook/internal/spawn"
)

const twoPhaseCommand = "## Phase 1\n**Spawn @code-scout with mission:**\n```\nFind the bug\n```\n" +
	"## Phase 2\n**Spawn @vue-architect with mission:**\n```\nFix it\n```\n"

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, format)
}

func enabledSettings() Settings {
	return Settings{BridgeSettings: config.BridgeSettings{Enabled: true, Host: "127.0.0.1"}}
}

func TestSettingsFromConfigProjectsBridgeBlock(t *testing.T) {
	t.Setenv(config.EnvBridgePort, "9001")
	settings, err := SettingsFromConfig(nil)
	if err != nil {
		t.Fatalf("SettingsFromConfig: %v", err)
	}
	want := config.BridgeSettings{Enabled: true, Host: config.DefaultBridgeHost, Port: 9001}
	if settings.BridgeSettings != want {
		t.Fatalf("bridge block = %+v, want %+v", settings.BridgeSettings, want)
	}
	if settings.MaxBodyBytes != DefaultMaxBodyBytes || settings.DrainTimeout != DefaultDrainTimeout {
		t.Fatalf("limits not defaulted: %+v", settings)
	}
}

func TestSettingsFromConfigSurfacesEnvErrors(t *testing.T) {
	t.Setenv(config.EnvBridgePort, "not-a-port")
	if _, err := SettingsFromConfig(nil); err == nil {
		t.Fatalf("expected malformed port override to fail")
	}
}

func TestProcessEndpointAppendsInstructions(t *testing.T) {
	logger := &recordingLogger{}
	srv := NewServer(enabledSettings(), WithLogger(logger))
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(twoPhaseCommand))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get(DirectiveCountHeader); got != "2" {
		t.Fatalf("directive header = %q", got)
	}
	if want := spawn.Process(twoPhaseCommand); rec.Body.String() != want {
		t.Fatalf("body differs from pipeline output:\n%s", rec.Body.String())
	}
	if len(logger.lines) != 1 {
		t.Fatalf("expected one log line, got %d", len(logger.lines))
	}
}

func TestProcessEndpointPassesThroughPlainText(t *testing.T) {
	srv := NewServer(enabledSettings())
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader("# nothing to spawn\n"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Body.String() != "# nothing to spawn\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if rec.Header().Get(DirectiveCountHeader) != "0" {
		t.Fatalf("expected zero directives header")
	}
}

func TestPlanEndpointUsesAnalyzerOverrides(t *testing.T) {
	processor := spawn.NewProcessor(spawn.WithAliases(map[string]string{"@code-scout": "deep-explorer"}))
	srv := NewServer(enabledSettings(),
		WithAnalyzer(processor),
		WithIDGenerator(func() string { return "run-1" }))
	req := httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(twoPhaseCommand))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp planResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RunID != "run-1" {
		t.Fatalf("run id = %q", resp.RunID)
	}
	if len(resp.Groups) != 2 || resp.Groups[0].Phase != "## Phase 1" || resp.Groups[1].Phase != "## Phase 2" {
		t.Fatalf("unexpected groups: %+v", resp.Groups)
	}
	if resp.Directives[0].HandlerID != "deep-explorer" {
		t.Fatalf("override not applied: %+v", resp.Directives[0])
	}
}

func TestPlanEndpointEmptyDocument(t *testing.T) {
	srv := NewServer(enabledSettings())
	req := httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader("plain"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"directives":[]`) || !strings.Contains(rec.Body.String(), `"groups":[]`) {
		t.Fatalf("expected empty arrays, got %s", rec.Body.String())
	}
}

func TestProcessEndpointRejectsOversizedBody(t *testing.T) {
	settings := enabledSettings()
	settings.MaxBodyBytes = 8
	srv := NewServer(settings)
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(twoPhaseCommand))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestProcessEndpointRejectsWrongMethod(t *testing.T) {
	srv := NewServer(enabledSettings())
	req := httptest.NewRequest(http.MethodGet, "/process", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestRunDisabledServer(t *testing.T) {
	srv := NewServer(Settings{})
	if err := srv.Run(context.Background(), nil); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestRunServesHealthUntilCancelled(t *testing.T) {
	t.Parallel()
	fixed := time.Unix(1730000000, 0).UTC()
	settings := enabledSettings()
	settings.DrainTimeout = time.Second
	srv := NewServer(settings, WithClock(func() time.Time { return fixed }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	urls := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, func(baseURL string) { urls <- baseURL })
	}()

	var baseURL string
	select {
	case baseURL = <-urls:
	case err := <-done:
		t.Fatalf("run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("server never became ready")
	}
	if srv.Status() != StatusReady {
		t.Fatalf("status = %s", srv.Status())
	}
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", resp.StatusCode)
	}
	var health healthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != string(StatusReady) || health.Version != ProtocolVersion || health.UptimeSeconds != 0 {
		t.Fatalf("unexpected health: %+v", health)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
	if srv.Status() != StatusStopped {
		t.Fatalf("status after cancel = %s", srv.Status())
	}
}

func TestRunReportsListenFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()
	settings := enabledSettings()
	settings.Port = taken.Addr().(*net.TCPAddr).Port
	if err := NewServer(settings).Run(context.Background(), nil); err == nil || !strings.Contains(err.Error(), "bridge: listen") {
		t.Fatalf("expected listen error, got %v", err)
	}
}
