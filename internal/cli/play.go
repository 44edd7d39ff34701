package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"timed-quiz/internal/app"
	"timed-quiz/internal/config"
	"timed-quiz/internal/domain"
	"timed-quiz/internal/transport/terminal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a single quiz session on the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		topic   string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if topic == "" {
				topic = cfg.Quiz.DefaultTopic
			}
			b, err := newBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			out := cmd.OutOrStdout()
			runner := app.NewRunner(uuid.NewString(), terminal.NewPresenter(out, noColor), sessionOptions(cfg), nil)
			defer runner.Close()
			return play(cmd.Context(), runner, b.questions, topic, cmd.InOrStdin(), out)
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "topic key or category id (defaults to quiz.default_topic)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

// play drives runner from line-based input until the user quits or input ends.
func play(ctx context.Context, runner *app.Runner, questions app.QuestionProvider, topic string, in io.Reader, out io.Writer) error {
	start := func() error {
		set, err := questions.LoadQuestions(ctx, topic)
		if err != nil {
			return err
		}
		return runner.Start(set)
	}
	if err := start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch line {
		case "q", "quit":
			return nil
		case "r":
			// retake from the first question, mid-run or after completion
			if err := start(); err != nil {
				fmt.Fprintf(out, "could not restart: %v\n", err)
			}
			continue
		case "", "n":
			runner.AdvanceNow()
			continue
		}
		code, ok := domain.ParseCode(line)
		if !ok {
			fmt.Fprintf(out, "unrecognized input %q\n", line)
			continue
		}
		if !runner.Select(code) {
			fmt.Fprintf(out, "%s is not available right now\n", code)
		}
	}
	return scanner.Err()
}
