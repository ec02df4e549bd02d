package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"go-restaurant/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the restaurant assistant from the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := chat.NewClient(cfg.ChatEndpoint,
			chat.WithHTTPClient(&http.Client{Timeout: cfg.ChatTimeout}),
			chat.WithHistoryLimit(cfg.ChatHistoryLimit),
			chat.WithLogger(logger),
		)
		return runChatLoop(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func isQuit(s string) bool {
	switch strings.ToLower(s) {
	case "quit", "exit", "bye":
		return true
	}
	return false
}

// runChatLoop reads lines from in until quit or end of input, printing each
// reply to out.
func runChatLoop(ctx context.Context, client *chat.Client, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "🍽️  RESTAURANT ASSISTANT 🍽️")
	fmt.Fprintln(out, "Type 'quit' or 'exit' to end the session")

	scanner := bufio.NewScanner(in)
	prompt := func(p string) (string, bool) {
		fmt.Fprint(out, p)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		line, ok := prompt("\nYou: ")
		if !ok {
			fmt.Fprintln(out, "\nSession ended. Goodbye!")
			return scanner.Err()
		}
		if isQuit(line) {
			fmt.Fprintln(out, "Thank you for using Restaurant Assistant. Goodbye!")
			return nil
		}

		reply, err := client.Send(ctx, line)
		if errors.Is(err, chat.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Bot: %s\n", reply.Text)

		if !reply.NeedsConfirmation {
			continue
		}
		fmt.Fprintln(out, "⚠️  ACTION REQUIRES CONFIRMATION")
		answer, ok := prompt("Confirm action? (yes/no): ")
		if !ok {
			return scanner.Err()
		}
		if strings.ToLower(answer) != "yes" {
			fmt.Fprintln(out, "Action cancelled.")
			continue
		}
		reply, err = client.Send(ctx, "yes")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Bot: %s\n", reply.Text)
	}
}
