package config

import (
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"github.com/sqlic/sqlic/internal/version"
)

// Config represents the configuration for the sqlic shell.
type Config struct {
	DatabasePath string `arg:"positional" help:"Path to the SQLite database file to open (defaults to an in-memory database)" default:":memory:"`
	HistoryPath  string `arg:"--history,env:SQLIC_HISTORY" help:"Path to the shell history file (defaults to .sqlic_history in the temp directory)"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.ShellVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	return cfg
}
