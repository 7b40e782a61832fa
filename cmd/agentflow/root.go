package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

type rootOption func(*app)

// withGenerator replaces the OpenAI client factory. Tests use it to run
// every command against a scripted generator.
func withGenerator(f generatorFactory) rootOption {
	return func(a *app) { a.newGenerator = f }
}

func newApp(opts ...rootOption) *app {
	a := &app{newGenerator: openAIGenerator}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// execute runs cmd and then releases the archive. Cobra skips post-run
// hooks when RunE fails, so closing happens here instead.
func (a *app) execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agentflow",
		Short: "Multi-agent research assistant and chat bot",
		Long: "agentflow runs a fixed research pipeline (research, analyze, write)\n" +
			"or a single-turn chat agent against an OpenAI-compatible model.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.flags.configPath, "config", "", "path to agentflow.yml (default: ./agentflow.yml if present)")
	f.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.flags.logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(
		newChatCmd(a),
		newResearchCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newDiagramCmd(a),
		newRunsCmd(a),
	)
	return cmd
}
