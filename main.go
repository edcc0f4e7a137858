package main

import "github.com/justinabrahms/llm-session-sharer/cmd"

func main() {
	cmd.Execute()
}
