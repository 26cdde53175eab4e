package repl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/sqlic/sqlic"
	"github.com/sqlic/sqlic/internal/shell/config"
	"github.com/sqlic/sqlic/internal/util/sysutil"
)

type Repl struct {
	conf        config.Config
	conn        *sqlic.Conn
	ctx         context.Context
	stop        context.CancelFunc
	historyPath string
}

func NewRepl(
	ctx context.Context,
	stop context.CancelFunc,
	conf config.Config,
	conn *sqlic.Conn,
) Repl {
	historyPath := conf.HistoryPath
	if historyPath == "" {
		historyPath = filepath.Join(os.TempDir(), ".sqlic_history")
	}

	return Repl{
		conf:        conf,
		conn:        conn,
		ctx:         ctx,
		stop:        stop,
		historyPath: historyPath,
	}
}

func (r *Repl) Start() error {
	fmt.Println()
	fmt.Printf("Connected to %s\n", r.databaseLabel())
	fmt.Println(`Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Println()

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
			input := r.prompt()

			if input == "" {
				continue
			}

			if input == "exit" || input == ".exit" || input == ".quit" {
				r.Shutdown()
				return nil
			}

			if input == "clear" || input == ".clear" {
				sysutil.ClearTerminal()
				continue
			}

			if input == "help" || input == ".help" {
				cmdHelp()
				continue
			}

			if input == ".tables" {
				cmdQuery(r, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
				continue
			}

			if input == ".indexes" {
				cmdQuery(r, `SELECT name FROM sqlite_master WHERE type = 'index' ORDER BY name`)
				continue
			}

			if input == ".schema" {
				cmdQuery(r, `SELECT sql FROM sqlite_master WHERE sql IS NOT NULL`)
				continue
			}

			if rest, ok := strings.CutPrefix(input, ".dump "); ok {
				cmdDump(r, rest)
				continue
			}

			if strings.HasPrefix(input, ".") {
				fmt.Println("Unknown command, type .help for usage hints")
				continue
			}

			cmdQuery(r, input)
		}
	}
}

// Shutdown stops the REPL.
func (r *Repl) Shutdown() {
	r.stop()
}

// databaseLabel describes the open database for the welcome message.
func (r *Repl) databaseLabel() string {
	if r.conf.DatabasePath == sqlic.MemoryPath {
		return "an in-memory database"
	}
	return r.conf.DatabasePath
}

// prompt shows the prompt and reads the input from the user.
func (r *Repl) prompt() string {
	label := "sqlic> "
	if !r.conn.AutocommitEnabled() {
		label = "sqlic(tx)> "
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	if file, err := os.Open(r.historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}

	prompt, err := line.Prompt(label)
	if err != nil {
		if err == liner.ErrPromptAborted {
			fmt.Println("CTRL+C pressed, exiting...")
			return ".quit"
		}
		return ""
	}

	line.AppendHistory(prompt)
	if file, err := os.Create(r.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}

	return strings.TrimSpace(prompt)
}
