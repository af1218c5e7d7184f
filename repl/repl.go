package repl

import (
	"dql/config"
	"dql/parser"
	"dql/render"
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/hauke96/sigolo/v2"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"io"
	"os"
	"sort"
	"strings"
)

const (
	prompt             = "dql> "
	continuationPrompt = "...> "
)

var bannerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#7C3AED")).
	Bold(true)

// Start runs the interactive shell until the user quits with "exit", "quit" or Ctrl+D.
func Start(out io.Writer, cfg *config.Config, version string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	historyFile := cfg.Repl.HistoryFile
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, err = line.ReadHistory(f)
			if err != nil {
				sigolo.Debugf("Unable to read history file %s: %+v", historyFile, err)
			}
			f.Close()
		}

		defer func() {
			f, err := os.Create(historyFile)
			if err != nil {
				sigolo.Errorf("Unable to write history file %s: %+v", historyFile, err)
				return
			}
			defer f.Close()
			_, err = line.WriteHistory(f)
			if err != nil {
				sigolo.Errorf("Unable to write history file %s: %+v", historyFile, err)
			}
		}()
	}

	fmt.Fprintln(out, bannerStyle.Render("dql "+version))
	fmt.Fprintln(out, "Statements end with ';'. Type ':help' for commands, 'exit' or Ctrl+D to quit.")
	fmt.Fprintln(out, "")

	session := NewSession(out, cfg.ParserOptions(), cfg.Output.Format, render.NewRenderer(false))

	for {
		currentPrompt := prompt
		if session.Pending() {
			currentPrompt = continuationPrompt
		}

		input, err := line.Prompt(currentPrompt)
		if err == liner.ErrPromptAborted {
			if session.Reset() {
				fmt.Fprintln(out, "^C (cleared)")
			} else {
				fmt.Fprintln(out, "^C")
			}
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out, "")
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "Unable to read input")
		}

		completeInput, exit := session.Feed(input)
		if exit {
			return nil
		}
		if completeInput != "" {
			line.AppendHistory(completeInput)
		}
	}
}

// complete returns the current line with its last word completed to each matching keyword or type name.
func complete(line string) []string {
	if line == "" || strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return nil
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	lastWord := fields[len(fields)-1]
	prefix := line[:len(line)-len(lastWord)]

	var completions []string
	for _, word := range completionWords() {
		if strings.HasPrefix(strings.ToUpper(word), strings.ToUpper(lastWord)) {
			completions = append(completions, prefix+word)
		}
	}
	return completions
}

func completionWords() []string {
	words := append(parser.Keywords(), parser.TypeNames()...)
	words = append(words, "COUNT")
	sort.Strings(words)
	return words
}
