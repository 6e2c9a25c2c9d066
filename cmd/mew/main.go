package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	mew "github.com/mewisme/mew-language"
)

const (
	appName     = "mew"
	historyFile = ".mew_history"
	promptMain  = "mew> "
	promptCont  = "...> "
)

var banner = fmt.Sprintf("Mew %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", mew.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl())
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "start":
		os.Exit(cmdRepl())
	case "init":
		os.Exit(cmdInit(os.Args[2:]))
	case "version":
		fmt.Println(mew.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Mew %s

Usage:
  %s                      Start the interactive session.
  %s run <file.mew>       Run a script.
  %s start                Start the interactive session.
  %s init [name]          Scaffold a new project.
  %s version              Print the version.

`, mew.Version, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.mew>\n", appName)
		return 2
	}
	file := args[0]

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := mew.NewInterpreter()
	if _, err := ip.EvalSource(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, mew.FormatErrorWithSource(err, string(src)))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	ip := mew.NewInterpreter()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.EqualFold(trimmed, ":quit") {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(mew.FormatErrorWithSource(err, code)))
			continue
		}
		if v.Tag != mew.VTUndefined {
			fmt.Println(blue(mew.FormatValue(v)))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe accumulates lines until the buffer parses, or fails with
// a hard error (which evaluation will then report with a snippet). Inputs
// that are merely incomplete at EOF keep the continuation prompt going.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := mew.ParseInteractive(src); perr == nil || !mew.IsIncomplete(perr) {
			return src, true
		}
	}
}

// -----------------------------------------------------------------------------
// init
// -----------------------------------------------------------------------------

const scaffold = `// %s — a fresh Mew project.

cat greet(name) {
    return "Meow, " + name + "!";
}

purr(greet("world"));
`

func cmdInit(args []string) int {
	name := "mew-project"
	if len(args) >= 1 {
		name = args[0]
	}

	if err := os.MkdirAll(name, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot create %s: %v\n", appName, name, err)
		return 1
	}
	target := filepath.Join(name, "main.mew")
	if _, err := os.Stat(target); err == nil {
		fmt.Fprintf(os.Stderr, "%s: %s already exists\n", appName, target)
		return 1
	}
	if err := os.WriteFile(target, []byte(fmt.Sprintf(scaffold, name)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot write %s: %v\n", appName, target, err)
		return 1
	}
	fmt.Printf("Created %s. Run it with: %s run %s\n", target, appName, target)
	return 0
}
