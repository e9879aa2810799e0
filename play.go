package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/hangman-ai/internal/game"
	"github.com/robalobadob/hangman-ai/internal/solver"
)

func newPlayCmd() *cobra.Command {
	var auto bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Enter words and watch the AI guess them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			consoleLogger()
			dict := loadDictionary()
			return runConsole(cmd.InOrStdin(), cmd.OutOrStdout(), dict.Words(), auto)
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "do not wait for enter between guesses")
	return cmd
}

func newSolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve WORD",
		Short: "Let the AI play a single word and print the transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			consoleLogger()
			dict := loadDictionary()
			g, err := game.New(args[0], dict.Words())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for {
				t, err := g.Step()
				if err != nil {
					return err
				}
				printTurn(out, t)
				if g.Outcome().Terminal() {
					break
				}
			}
			printResult(out, g.Outcome())
			return nil
		},
	}
}

// runConsole is the prompt loop: read a word, let the AI play it, offer a replay.
// It returns nil when the player declines another round or input ends.
func runConsole(in io.Reader, out io.Writer, dict []string, auto bool) error {
	sc := bufio.NewScanner(in)
	readLine := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	for {
		fmt.Fprintf(out, "Please enter a word. The AI can guess wrong %d times before losing.\n\n", solver.MaxWrongGuesses)
		line, ok := readLine()
		if !ok {
			return sc.Err()
		}

		g, err := game.New(line, dict)
		var lenErr *solver.InvalidWordLengthError
		switch {
		case errors.As(err, &lenErr):
			fmt.Fprint(out, "ERROR: Word length is zero.\n\n")
			continue
		case errors.Is(err, game.ErrInvalidSecret):
			fmt.Fprint(out, "ERROR: The word may only contain letters.\n\n")
			continue
		case err != nil:
			return err
		}

		for {
			t, err := g.Step()
			if err != nil {
				return err
			}
			printTurn(out, t)
			// a win ends the round at once; the last miss still waits for enter
			if g.Outcome() == solver.OutcomeWin {
				break
			}
			if !auto {
				fmt.Fprint(out, "Press enter to continue: ")
				if _, ok := readLine(); !ok {
					return sc.Err()
				}
				fmt.Fprintln(out)
			}
			if g.Outcome().Terminal() {
				break
			}
		}

		printResult(out, g.Outcome())
		fmt.Fprint(out, "Would you like to play again? (y/n)\n\n")
		line, ok = readLine()
		if !ok || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
			return sc.Err()
		}
		fmt.Fprintln(out)
	}
}

func printTurn(out io.Writer, t game.Turn) {
	fmt.Fprintf(out, "The AI guesses %s.\n", t.Letter)
	fmt.Fprintf(out, "There are %d %ss in the word.\n", t.Count, t.Letter)
	if t.Count == 0 {
		fmt.Fprintf(out, "Incorrect guess! The AI has %d more incorrect guesses.\n", t.Remaining)
	}
	fmt.Fprintf(out, "\n%s\n\n", t.Board)
}

func printResult(out io.Writer, o solver.Outcome) {
	if o == solver.OutcomeWin {
		fmt.Fprint(out, "The AI wins!\n\n")
		return
	}
	fmt.Fprint(out, "The AI loses!\n\n")
}
