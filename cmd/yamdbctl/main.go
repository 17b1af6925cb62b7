package main

import "github.com/pandenic/media-review-board/cmd/yamdbctl/commands"

func main() {
	commands.Execute()
}
