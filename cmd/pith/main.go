package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	pith "github.com/cheeze36/pith-lang/internal/pith"
)

const (
	historyFile = ".pith_history"
	promptMain  = "pith > "
	promptCont  = "  ... "
)

var banner = fmt.Sprintf("Pith %s REPL\nType 'exit' to quit.", pith.Version)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-i] [script.pith]\n", filepath.Base(os.Args[0]))
}

func main() {
	interactive := flag.Bool("i", false, "enter interactive mode after running the script")
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()

	if len(args) > 1 {
		usage()
		os.Exit(1)
	}

	ip := pith.New()
	defer ip.Close()

	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "pith: %v\n", err)
			os.Exit(1)
		}
		src := string(data)
		if err := ip.Run(src); err != nil {
			fmt.Fprintln(os.Stderr, pith.WrapErrorWithSource(err, src))
			if !*interactive {
				ip.Close()
				os.Exit(1)
			}
		}
		if !*interactive {
			return
		}
	}

	repl(ip)
}

// historyPath places the history file in the user's home directory.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

// needsContinuation reports whether the input so far opens a block: the last
// non-space character of the first line is a colon.
func needsContinuation(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	return strings.HasSuffix(trimmed, ":")
}

func repl(ip *pith.Interpreter) {
	fmt.Println(banner)

	rl := liner.NewLiner()
	defer rl.Close()
	rl.SetCtrlCAborts(true)

	if f, err := os.Open(historyPath()); err == nil {
		rl.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath()); err == nil {
			rl.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		line, err := rl.Prompt(promptMain)
		if err == liner.ErrPromptAborted {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == "exit" {
			return
		}

		buffer := line
		if needsContinuation(line) {
			for {
				cont, err := rl.Prompt(promptCont)
				if err == liner.ErrPromptAborted || err == io.EOF {
					buffer = ""
					break
				}
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					return
				}
				if strings.TrimSpace(cont) == "" {
					break
				}
				buffer += "\n" + cont
			}
			if buffer == "" {
				fmt.Println()
				continue
			}
		}

		rl.AppendHistory(buffer)

		val, echo, err := ip.EvalLine(buffer)
		if err != nil {
			fmt.Fprintln(os.Stderr, pith.WrapErrorWithSource(err, buffer))
			continue
		}
		if echo {
			fmt.Println(pith.RenderValue(val))
		}
	}
}
