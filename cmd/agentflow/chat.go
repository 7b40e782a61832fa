package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/agentflow/internal/workflow"
)

// quitWord ends the chat loop, compared case-insensitively after trimming.
const quitWord = "quit"

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the conversation agent on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := a.chatWorkflow()
			if err != nil {
				return err
			}
			return chatLoop(cmd.Context(), wf, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// chatLoop reads one line per turn from in until the quit word or EOF.
// A generation error ends the loop and is returned.
func chatLoop(ctx context.Context, wf *workflow.ChatWorkflow, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Agentflow chat bot started!")
	fmt.Fprintf(out, "Type %s to exit\n\n", quitWord)

	state := workflow.NewChatState()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(out)
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, quitWord) {
			break
		}
		if input == "" {
			continue
		}

		next, err := wf.Turn(ctx, state, input)
		if err != nil {
			return err
		}
		state = next
		fmt.Fprintf(out, "Bot: %s\n\n", state.Response)
	}
	fmt.Fprintln(out, "Goodbye!")
	return nil
}
