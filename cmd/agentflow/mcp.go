package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/agentflow/internal/logging"
	"github.com/dusk-indust/agentflow/internal/mcptools"
)

func newMCPCmd(a *app) *cobra.Command {
	var httpAddr string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server (stdio by default)",
		Long: "Starts an MCP server exposing the research, chat and list_runs tools.\n" +
			"It speaks over stdin/stdout unless --http is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			research, err := a.researchWorkflow()
			if err != nil {
				return err
			}
			chat, err := a.chatWorkflow()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := a.archive(ctx)
			if err != nil {
				return err
			}
			srv := mcptools.NewMCPServer(mcptools.NewService(research, chat, store))

			log := logging.New("mcp")
			if httpAddr != "" {
				log.Info("starting MCP server over HTTP", "addr", httpAddr)
				return mcptools.RunHTTP(ctx, srv, httpAddr)
			}
			log.Info("starting MCP server over stdio")
			return mcptools.RunStdio(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	return cmd
}
