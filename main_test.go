package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman-ai/internal/solver"
)

var testDict = []string{"CAT", "COT", "DOG"}

func TestConsoleRejectsBadWordsAndReplays(t *testing.T) {
	in := strings.NewReader("\nd0g\ndog\ny\ncat\nn\n")
	var out bytes.Buffer
	require.NoError(t, runConsole(in, &out, testDict, true))

	s := out.String()
	assert.Contains(t, s, "ERROR: Word length is zero.")
	assert.Contains(t, s, "ERROR: The word may only contain letters.")
	assert.Contains(t, s, "The AI guesses C.\nThere are 0 Cs in the word.\nIncorrect guess! The AI has 5 more incorrect guesses.\n")
	assert.Contains(t, s, "\nD O G\n")
	assert.Contains(t, s, "\nC A T\n")
	assert.Equal(t, 2, strings.Count(s, "The AI wins!"))
	assert.Equal(t, 2, strings.Count(s, "Would you like to play again? (y/n)"))
	assert.NotContains(t, s, "Press enter")
}

func TestConsoleWaitsForEnter(t *testing.T) {
	in := strings.NewReader("dog\n\n\n\nn\n")
	var out bytes.Buffer
	require.NoError(t, runConsole(in, &out, testDict, false))

	s := out.String()
	// four guesses, no prompt after the winning one
	assert.Equal(t, 3, strings.Count(s, "Press enter to continue: "))
	assert.Contains(t, s, "The AI wins!")
}

func TestConsoleLoses(t *testing.T) {
	in := strings.NewReader("zzz\n")
	var out bytes.Buffer
	require.NoError(t, runConsole(in, &out, testDict, true))

	s := out.String()
	assert.Contains(t, s, "The AI has 0 more incorrect guesses.")
	assert.Contains(t, s, "The AI loses!")
}

func TestConsoleWaitsForEnterAfterFinalMiss(t *testing.T) {
	in := strings.NewReader("zzz\n" + strings.Repeat("\n", solver.MaxWrongGuesses) + "n\n")
	var out bytes.Buffer
	require.NoError(t, runConsole(in, &out, testDict, false))

	s := out.String()
	assert.Equal(t, solver.MaxWrongGuesses, strings.Count(s, "Press enter to continue: "))
	assert.Contains(t, s, "Press enter to continue: \nThe AI loses!")
}

func TestConsoleStopsAtEOF(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runConsole(strings.NewReader(""), &out, testDict, false))
	assert.Contains(t, out.String(), "Please enter a word.")
}

func TestSolveCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\ncot\ndog\n"), 0o644))
	t.Setenv("HANGMAN_WORDS_FILE", path)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"solve", "dog"})
	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Equal(t, 4, strings.Count(s, "The AI guesses"))
	assert.True(t, strings.HasSuffix(s, "The AI wins!\n\n"))
}

func TestSolveCommandRejectsNonLetters(t *testing.T) {
	t.Setenv("HANGMAN_WORDS_FILE", "")
	t.Setenv("LOG_LEVEL", "error")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"solve", "d0g"})
	assert.Error(t, cmd.Execute())
}
