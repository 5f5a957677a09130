package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
)

const (
	historyFile = ".exprcalc_history"
	prompt      = "> "
)

const replHelp = `Enter an expression to evaluate it. Commands:
  :json   toggle printing JSON trees
  :skip   toggle omitting nodes with no operator from JSON trees
  :help   show this message
  :quit   exit`

func runREPL(opts options) int {
	histPath := historyPath()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				log.Warn().Err(err).Str("file", histPath).Msg("reading history")
			}
			f.Close()
		}
	}

	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			// Ctrl+D, Ctrl+C, or a terminal error all end the session.
			fmt.Println()
			break
		}
		src := strings.TrimSpace(line)
		switch src {
		case "":
			continue
		case ":quit", ":q":
			saveHistory(ln, histPath)
			return 0
		case ":help", ":h":
			fmt.Println(replHelp)
			continue
		case ":json":
			opts.json = !opts.json
			fmt.Println("json:", opts.json)
			continue
		case ":skip":
			opts.skip = !opts.skip
			fmt.Println("skip:", opts.skip)
			continue
		}
		ln.AppendHistory(line)
		report(os.Stdout, line, opts)
	}
	saveHistory(ln, histPath)
	return 0
}

// historyPath gives the location of the history file, or the empty string if
// there is nowhere to keep one.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warn().Err(err).Msg("history disabled")
		return ""
	}
	return filepath.Join(home, historyFile)
}

func saveHistory(ln *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("saving history")
		return
	}
	defer f.Close()
	if _, err := ln.WriteHistory(f); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("saving history")
	}
}
