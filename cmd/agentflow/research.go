package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dusk-indust/agentflow/internal/archive"
	"github.com/dusk-indust/agentflow/internal/export"
	"github.com/dusk-indust/agentflow/internal/logging"
	"github.com/dusk-indust/agentflow/internal/orchestrator"
	"github.com/dusk-indust/agentflow/internal/tui"
	"github.com/dusk-indust/agentflow/internal/workflow"
)

type researchFlags struct {
	output  string
	json    bool
	tui     bool
	noStore bool
}

func newResearchCmd(a *app) *cobra.Command {
	var flags researchFlags
	cmd := &cobra.Command{
		Use:   "research [topic]",
		Short: "Research a topic and print the report",
		Long: "Runs the research, analyze and write agents in sequence and prints\n" +
			"the result. Without a topic (or with --tui) an interactive shell opens.",
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := a.researchWorkflow()
			if err != nil {
				return err
			}
			topic := strings.Join(args, " ")
			if flags.tui || strings.TrimSpace(topic) == "" {
				return runResearchTUI(cmd.Context(), wf, topic, flags.output)
			}
			return runResearch(cmd, a, wf, topic, flags)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "directory to write {topic}_report.md into")
	f.BoolVar(&flags.json, "json", false, "print the JSON export instead of the panels")
	f.BoolVar(&flags.tui, "tui", false, "open the interactive terminal UI")
	f.BoolVar(&flags.noStore, "no-archive", false, "do not archive the finished run")
	return cmd
}

func runResearch(cmd *cobra.Command, a *app, wf *workflow.ResearchWorkflow, topic string, flags researchFlags) error {
	ctx := cmd.Context()
	progress := cmd.ErrOrStderr()
	state, err := wf.Run(ctx, topic, orchestrator.WithObserver(printProgress(progress)))
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if flags.json {
		data, err := export.ResearchJSON(state)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintln(out, tui.RenderResult(state, 0))
	}

	if flags.output != "" {
		if err := os.MkdirAll(flags.output, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path, err := export.WriteReport(flags.output, state)
		if err != nil {
			return err
		}
		fmt.Fprintf(progress, "Report saved to %s\n", path)
	}

	switch {
	case flags.noStore:
	case !a.persistentArchive():
		logging.New("cli").Debug("run not archived", "reason", "memory backend")
	default:
		archiveRun(ctx, a, state)
	}
	return nil
}

// printProgress writes one line per stage transition, skipping the initial
// pending announcements.
func printProgress(w io.Writer) orchestrator.Observer {
	return func(ev orchestrator.ProgressEvent) {
		switch ev.Status {
		case orchestrator.ProgressPending:
			return
		case orchestrator.ProgressWorking:
			fmt.Fprintln(w, orchestrator.FormatStageHeader(ev))
		default:
			fmt.Fprintln(w, orchestrator.FormatProgress(ev))
		}
	}
}

// archiveRun saves a completed run. Archive failures are logged, never fatal.
func archiveRun(ctx context.Context, a *app, state workflow.ResearchState) {
	log := logging.New("cli")
	store, err := a.archive(ctx)
	if err != nil {
		log.Warn("run not archived", "error", err)
		return
	}
	run, err := archive.NewRun(state, time.Now())
	if err == nil {
		err = store.SaveRun(ctx, run)
	}
	if err != nil {
		log.Warn("run not archived", "topic", state.Topic, "error", err)
		return
	}
	log.Info("run archived", "id", run.ID, "topic", run.Topic)
}

func runResearchTUI(ctx context.Context, wf *workflow.ResearchWorkflow, topic, outputDir string) error {
	opts := []tui.Option{tui.WithTopic(strings.TrimSpace(topic))}
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		opts = append(opts, tui.WithOutputDir(outputDir))
	}
	p := tea.NewProgram(tui.New(wf.Run, opts...), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
