package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/agentflow/internal/agent"
	"github.com/dusk-indust/agentflow/internal/export"
	"github.com/dusk-indust/agentflow/internal/llm"
	"github.com/dusk-indust/agentflow/internal/workflow"
)

func newDiagramCmd(a *app) *cobra.Command {
	var runID string
	cmd := &cobra.Command{
		Use:       "diagram [research|chat]",
		Short:     "Print a Mermaid diagram of a pipeline or an archived run",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{workflow.PipelineResearch, workflow.PipelineChat},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if runID != "" {
				if !a.persistentArchive() {
					return errMemoryArchive
				}
				store, err := a.archive(cmd.Context())
				if err != nil {
					return err
				}
				run, err := store.GetRun(cmd.Context(), runID)
				if err != nil {
					return err
				}
				fmt.Fprint(out, export.RunMermaid(*run))
				return nil
			}

			// The stage chain does not depend on the model, so no API key
			// is needed here.
			reg := agent.NewRegistry(llm.GeneratorFunc(func(context.Context, llm.GenerateRequest) (string, error) {
				return "", errNoAPIKey
			}))
			steps := workflow.NewResearchWorkflow(reg).Steps()
			if len(args) == 1 && args[0] == workflow.PipelineChat {
				steps = workflow.NewChatWorkflow(reg).Steps()
			}
			fmt.Fprint(out, export.PipelineMermaid(steps))
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "diagram an archived run by id instead")
	return cmd
}
