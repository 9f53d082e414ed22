package research

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"browseroskb/pkg/config"
	"browseroskb/pkg/connector"
	"browseroskb/pkg/logx"
	"browseroskb/pkg/resilience"
	"browseroskb/pkg/utils"
)

// maxWebSources caps how many manifest sources a single run fetches, to
// stay clear of rate limits.
const maxWebSources = 6

// defaultPromptBudget is the token budget for the synthesis prompt when
// research.max_prompt_tokens is not configured.
const defaultPromptBudget = 3000

// Key files read from a local checkout of the tracked repository.
var repoKeyFiles = []string{
	"README.md",
	"docs/workflows.md",
	"docs/README.md",
	"CHANGELOG.md",
}

// Options configures a research run.
type Options struct {
	KBPath      string // Knowledge-base markdown file to append to
	SourcesPath string // Source manifest (sources.json)
	RawDir      string // Archive directory for fetched sources
	RepoDir     string // Local checkout of the tracked repository, may be absent
	ForceUpdate bool   // Re-query and re-write even when fresh
	DryRun      bool   // Synthesize but do not write anything
}

// Source is one entry of the source manifest.
type Source struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Accessed string `json:"accessed,omitempty"`
}

// Researcher drives the research pipeline: collect findings, synthesize
// them through an agent chain, and append the result to the knowledge base.
type Researcher struct {
	cfg      *config.Config
	resolver *connector.Resolver
	cache    *Cache
	archiver *Archiver
	counter  *utils.TokenCounter
	opts     Options
	log      *logx.Logger

	now func() time.Time
}

// NewResearcher creates a researcher. The cache may be nil, in which case
// every run re-queries.
func NewResearcher(cfg *config.Config, resolver *connector.Resolver, cache *Cache, opts Options) *Researcher {
	counter, err := utils.NewTokenCounter()
	if err != nil {
		logx.Warnf("token counter unavailable, using character estimate: %v", err)
	}
	return &Researcher{
		cfg:      cfg,
		resolver: resolver,
		cache:    cache,
		archiver: NewArchiver(opts.RawDir, opts.ForceUpdate),
		counter:  counter,
		opts:     opts,
		log:      logx.NewLogger("research"),
		now:      time.Now,
	}
}

// Run executes the full pipeline. Individual source or agent failures
// degrade with a warning; Run returns an error only when no agent produced
// a usable synthesis.
func (r *Researcher) Run(ctx context.Context) error {
	runID := uuid.NewString()
	r.log.Info("starting research run %s", runID)

	repoFindings := r.repoFindings()
	webFindings := r.webFindings(ctx)

	if len(repoFindings) == 0 && len(webFindings) == 0 {
		r.log.Warn("no findings collected, synthesizing from scratch")
	}

	prompt := r.buildPrompt(repoFindings, webFindings)

	insights, agent, err := r.synthesize(ctx, prompt)
	if err != nil {
		return fmt.Errorf("research run %s produced no synthesis: %w", runID, err)
	}
	r.log.Info("synthesis complete via %s (%d chars)", agent, len(insights))

	if r.opts.DryRun {
		r.log.Info("dry run, skipping knowledge-base update")
		return nil
	}

	if err := r.updateKB(insights); err != nil {
		return err
	}
	r.log.Info("research run %s complete", runID)
	return nil
}

// repoFindings reads the key files of a local repository checkout. A
// missing checkout yields no findings.
func (r *Researcher) repoFindings() map[string]string {
	findings := make(map[string]string)
	if r.opts.RepoDir == "" {
		return findings
	}
	if _, err := os.Stat(r.opts.RepoDir); err != nil {
		r.log.Warn("tracked repository checkout not found at %s", r.opts.RepoDir)
		return findings
	}

	for _, rel := range repoKeyFiles {
		content := resilience.SafeFileRead(filepath.Join(r.opts.RepoDir, rel), "")
		if content == "" {
			continue
		}
		if len(content) > 10000 {
			content = content[:10000]
		}
		findings[rel] = content
	}
	r.log.Info("collected %d repository findings", len(findings))
	return findings
}

// webFindings fetches the manifest sources and refreshes their access
// timestamps. The updated manifest is written back unless this is a dry run.
func (r *Researcher) webFindings(ctx context.Context) map[string]string {
	findings := make(map[string]string)

	sources := resilience.SafeJSONFileLoad(r.opts.SourcesPath, []Source{})
	for i := range sources {
		if len(findings) >= maxWebSources {
			break
		}
		content := r.archiver.Fetch(ctx, sources[i].URL)
		if content == "" {
			continue
		}
		if len(content) > 5000 {
			content = content[:5000]
		}
		findings[sources[i].URL] = content
		sources[i].Accessed = r.now().UTC().Format(time.RFC3339)
	}

	if !r.opts.DryRun && len(sources) > 0 {
		if data, err := json.MarshalIndent(sources, "", "  "); err == nil {
			if err := resilience.SafeFileWrite(r.opts.SourcesPath, string(data), true); err != nil {
				r.log.Warn("failed to save source manifest: %v", err)
			}
		}
	}

	r.log.Info("collected %d web findings", len(findings))
	return findings
}

// buildPrompt renders the findings into the synthesis prompt, truncated to
// the configured token budget.
func (r *Researcher) buildPrompt(repoFindings, webFindings map[string]string) string {
	var b strings.Builder
	b.WriteString("# Research Findings Summary\n\n")

	fmt.Fprintf(&b, "## Repository Analysis (%d files)\n", len(repoFindings))
	for file, content := range repoFindings {
		fmt.Fprintf(&b, "\n### %s\n%s\n", file, clip(content, 1000))
	}

	fmt.Fprintf(&b, "\n## Web Sources (%d sources)\n", len(webFindings))
	for url, content := range webFindings {
		fmt.Fprintf(&b, "\n### %s\n%s\n", url, clip(content, 500))
	}

	budget := r.cfg.GetInt("research.max_prompt_tokens", defaultPromptBudget)
	summary := r.counter.TruncateToTokenLimit(b.String(), budget)

	return fmt.Sprintf(`Analyze these research findings about BrowserOS Workflows and identify:
1. New features or capabilities discovered
2. Updates to existing documentation
3. Important changes or deprecations
4. Security considerations
5. Best practices and patterns

Research Summary:
%s

Provide a concise summary of key findings that should update the knowledge base.`, summary)
}

// synthesize answers the prompt from cache or by querying the configured
// agents in preference order.
func (r *Researcher) synthesize(ctx context.Context, prompt string) (string, string, error) {
	if !r.opts.ForceUpdate {
		if cached, ok := r.cache.Get(prompt); ok {
			r.log.Info("using cached synthesis")
			return cached, "cache", nil
		}
	}

	var lastErr error
	for _, agent := range r.agents() {
		chain := r.resolver.Resolve(ctx, agent)
		text, err := chain.Query(ctx, prompt, connector.QueryOptions{})
		if err != nil {
			r.log.Warn("agent %s failed: %v", agent, err)
			lastErr = err
			continue
		}
		r.cache.Put(prompt, text, agent)
		return text, agent, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no research agents configured")
	}
	return "", "", lastErr
}

// agents returns the agent preference order from research.agents, falling
// back to the local-first default.
func (r *Researcher) agents() []string {
	raw, ok := r.cfg.Get("research.agents", nil).([]any)
	if !ok || len(raw) == 0 {
		return []string{config.AgentOllama, config.AgentOpenRouter}
	}
	agents := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			agents = append(agents, s)
		}
	}
	if len(agents) == 0 {
		return []string{config.AgentOllama, config.AgentOpenRouter}
	}
	return agents
}

// updateKB appends a dated update section to the knowledge-base file,
// before its license section when one exists. A same-day section suppresses
// the write unless force is set.
func (r *Researcher) updateKB(insights string) error {
	today := r.now().Format("2006-01-02")
	kb := resilience.SafeFileRead(r.opts.KBPath, "")

	if strings.Contains(kb, "Auto-generated "+today) && !r.opts.ForceUpdate {
		r.log.Info("knowledge base already updated today, skipping")
		return nil
	}

	section := fmt.Sprintf(`

---

## Latest Updates (Auto-generated %s)

%s

**Note**: This section was automatically generated by the research pipeline.
For the most current information, always refer to the official sources listed
in the knowledge base.

`, today, insights)

	if strings.Contains(kb, "## License") {
		kb = strings.Replace(kb, "## License", section+"\n## License", 1)
	} else {
		kb += section
	}

	if err := resilience.SafeFileWrite(r.opts.KBPath, kb, true); err != nil {
		return fmt.Errorf("failed to update knowledge base: %w", err)
	}
	r.log.Info("knowledge base updated")
	return nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
