package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"autorag/tui"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "base URL of the retrieval server")
	flag.Parse()

	client := tui.NewClient(*server)
	m := tui.New(client)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
