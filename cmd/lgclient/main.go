// Command lgclient sends messages to a LangGraph assistant from the terminal,
// a terminal form or a local web page.
package main

import "github.com/diogo/lgclient/internal/commands"

func main() {
	commands.Execute()
}
