package research

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"browseroskb/pkg/config"
	"browseroskb/pkg/connector"
)

// modelServer serves an OpenAI-compatible stub answering every chat query
// with the given reply.
func modelServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models":
			w.WriteHeader(http.StatusOK)
		case "/chat/completions":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": reply}},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Agents: map[string]config.AgentConfig{
			"ollama": {
				Mode: config.ModeHTTP,
				HTTP: map[string]any{"base_url": baseURL, "api_key": "test-key-1234"},
			},
		},
	}
}

func testResearcher(t *testing.T, cfg *config.Config, opts Options) *Researcher {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return NewResearcher(cfg, connector.NewResolver(cfg, nil, nil), cache, opts)
}

func TestResearcherRunUpdatesKB(t *testing.T) {
	srv := modelServer(t, "workflows gained a scheduling capability")
	defer srv.Close()

	dir := t.TempDir()
	kbPath := filepath.Join(dir, "kb.md")
	if err := os.WriteFile(kbPath, []byte("# KB\n\nbody\n\n## License\nMIT\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := testResearcher(t, testConfig(srv.URL), Options{
		KBPath:      kbPath,
		SourcesPath: filepath.Join(dir, "sources.json"),
		RawDir:      filepath.Join(dir, "raw"),
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	kb, err := os.ReadFile(kbPath)
	if err != nil {
		t.Fatal(err)
	}
	content := string(kb)
	if !strings.Contains(content, "workflows gained a scheduling capability") {
		t.Error("knowledge base missing synthesized insights")
	}
	update := strings.Index(content, "Latest Updates")
	license := strings.Index(content, "## License")
	if update == -1 || license == -1 || update > license {
		t.Errorf("update section not inserted before license (update=%d license=%d)", update, license)
	}
}

func TestResearcherRunFailsWhenNoAgentSucceeds(t *testing.T) {
	// Keep the unconfigured-agent fallback from picking up real keys.
	t.Setenv("OLLAMA_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg := testConfig("http://127.0.0.1:1/v1")

	r := testResearcher(t, cfg, Options{
		KBPath:      filepath.Join(t.TempDir(), "kb.md"),
		SourcesPath: filepath.Join(t.TempDir(), "sources.json"),
		RawDir:      t.TempDir(),
	})

	if err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error when every agent fails")
	}
}

func TestResearcherDryRunWritesNothing(t *testing.T) {
	srv := modelServer(t, "some insight")
	defer srv.Close()

	dir := t.TempDir()
	kbPath := filepath.Join(dir, "kb.md")

	r := testResearcher(t, testConfig(srv.URL), Options{
		KBPath:      kbPath,
		SourcesPath: filepath.Join(dir, "sources.json"),
		RawDir:      filepath.Join(dir, "raw"),
		DryRun:      true,
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(kbPath); !os.IsNotExist(err) {
		t.Error("dry run must not create the knowledge-base file")
	}
}

func TestSynthesizeUsesCache(t *testing.T) {
	srv := modelServer(t, "fresh answer")

	r := testResearcher(t, testConfig(srv.URL), Options{})

	text, agent, err := r.synthesize(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if text != "fresh answer" || agent == "cache" {
		t.Fatalf("first synthesis should come from the agent, got %q via %s", text, agent)
	}

	// Second run must be served from cache even with the server gone.
	srv.Close()
	text, agent, err = r.synthesize(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("cached synthesize failed: %v", err)
	}
	if text != "fresh answer" || agent != "cache" {
		t.Errorf("expected cache hit, got %q via %s", text, agent)
	}
}

func TestSynthesizeForceUpdateSkipsCache(t *testing.T) {
	srv := modelServer(t, "regenerated answer")
	defer srv.Close()

	r := testResearcher(t, testConfig(srv.URL), Options{ForceUpdate: true})
	r.cache.Put("prompt", "stale answer", "ollama")

	text, _, err := r.synthesize(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if text != "regenerated answer" {
		t.Errorf("force update should bypass the cache, got %q", text)
	}
}

func TestUpdateKBSkipsSameDay(t *testing.T) {
	dir := t.TempDir()
	kbPath := filepath.Join(dir, "kb.md")

	r := testResearcher(t, &config.Config{}, Options{KBPath: kbPath})
	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	if err := r.updateKB("first insight"); err != nil {
		t.Fatalf("updateKB failed: %v", err)
	}
	if err := r.updateKB("second insight"); err != nil {
		t.Fatalf("updateKB failed: %v", err)
	}

	kb, _ := os.ReadFile(kbPath)
	if strings.Contains(string(kb), "second insight") {
		t.Error("same-day update should have been skipped")
	}

	r.opts.ForceUpdate = true
	if err := r.updateKB("forced insight"); err != nil {
		t.Fatalf("updateKB failed: %v", err)
	}
	kb, _ = os.ReadFile(kbPath)
	if !strings.Contains(string(kb), "forced insight") {
		t.Error("forced update should write even on the same day")
	}
}

func TestWebFindingsRefreshesManifest(t *testing.T) {
	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>docs page</html>"))
	}))
	defer content.Close()

	dir := t.TempDir()
	sourcesPath := filepath.Join(dir, "sources.json")
	manifest := []Source{{URL: content.URL, Title: "docs"}}
	data, _ := json.Marshal(manifest)
	if err := os.WriteFile(sourcesPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	r := testResearcher(t, &config.Config{}, Options{
		SourcesPath: sourcesPath,
		RawDir:      filepath.Join(dir, "raw"),
	})

	findings := r.webFindings(context.Background())
	if len(findings) != 1 {
		t.Fatalf("collected %d findings, want 1", len(findings))
	}
	if !strings.Contains(findings[content.URL], "docs page") {
		t.Errorf("unexpected finding %q", findings[content.URL])
	}

	updated, _ := os.ReadFile(sourcesPath)
	var saved []Source
	if err := json.Unmarshal(updated, &saved); err != nil {
		t.Fatalf("manifest unreadable after refresh: %v", err)
	}
	if saved[0].Accessed == "" {
		t.Error("accessed timestamp not refreshed")
	}
}

func TestAgentsPreferenceOrderFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	yml := "research:\n  agents:\n    - openrouter\n    - ollama\n"
	if err := os.WriteFile(cfgPath, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.NewLoader(cfgPath).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	r := testResearcher(t, cfg, Options{})
	got := r.agents()
	if len(got) != 2 || got[0] != "openrouter" || got[1] != "ollama" {
		t.Errorf("agents() = %v, want configured order", got)
	}

	r = testResearcher(t, &config.Config{}, Options{})
	got = r.agents()
	if len(got) != 2 || got[0] != config.AgentOllama || got[1] != config.AgentOpenRouter {
		t.Errorf("default agents() = %v", got)
	}
}
