package repl

import (
	"fmt"
	"os"
)

// cmdDump prints the rows of a query in the raw "name: value" dump format.
func cmdDump(r *Repl, input string) {
	if err := r.conn.Dump(input, os.Stdout); err != nil {
		fmt.Println(cleanError(err))
	}
}
