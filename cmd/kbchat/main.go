// kbchat sends one prompt to the configured model agents and prints the
// answer. The agent is picked from the model name: slash-qualified or
// gpt/claude models go through openrouter, everything else through ollama.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"browseroskb/pkg/config"
	"browseroskb/pkg/connector"
	"browseroskb/pkg/connector/middleware"
	"browseroskb/pkg/connector/middleware/metrics"
	"browseroskb/pkg/logx"
)

func main() {
	flagSet := flag.NewFlagSet("kbchat", flag.ExitOnError)
	model := flagSet.String("model", "llama3", "Model to use (e.g. llama3, google/gemini-flash-1.5)")
	system := flagSet.String("system", "", "Optional system prompt")
	jsonOut := flagSet.Bool("json", false, "Output as JSON")
	configPath := flagSet.String("config", "", "Config file path (default: ./config.yml)")
	verbose := flagSet.Bool("verbose", false, "Enable debug logging")

	flagSet.Usage = printUsage
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if flagSet.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one prompt argument\n\n")
		printUsage()
		os.Exit(1)
	}
	prompt := flagSet.Arg(0)

	if *verbose {
		logx.SetDebug(true)
	}

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	resolver := connector.NewResolver(cfg, nil, middleware.Stack(metrics.Nop(), nil))
	chain := resolver.Resolve(context.Background(), agentForModel(*model))

	text, err := chain.Query(context.Background(), prompt, connector.QueryOptions{
		Model:  *model,
		System: *system,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		out, _ := json.Marshal(map[string]string{
			"id":       uuid.NewString(),
			"model":    *model,
			"response": text,
		})
		fmt.Println(string(out))
	} else {
		fmt.Println(text)
	}
}

// agentForModel routes slash-qualified and hosted-frontier model names to
// openrouter, everything else to the local ollama agent.
func agentForModel(model string) string {
	lower := strings.ToLower(model)
	if strings.Contains(lower, "/") || strings.Contains(lower, "gpt") || strings.Contains(lower, "claude") {
		return config.AgentOpenRouter
	}
	return config.AgentOllama
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "kbchat - one-shot chat against the configured model agents\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s [flags] <prompt>\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Examples:\n")
	fmt.Fprintf(os.Stderr, "  %s \"summarize browseros workflows\"\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --model google/gemini-flash-1.5 --json \"list new features\"\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Flags:\n")
	fmt.Fprintf(os.Stderr, "  --model string\n        Model to use (default: llama3)\n")
	fmt.Fprintf(os.Stderr, "  --system string\n        Optional system prompt\n")
	fmt.Fprintf(os.Stderr, "  --json\n        Output as JSON\n")
	fmt.Fprintf(os.Stderr, "  --config string\n        Config file path (default: ./config.yml)\n")
	fmt.Fprintf(os.Stderr, "  --verbose\n        Enable debug logging\n")
}
