package main

import "lendinghub/cmd/lendingctl/command"

func main() {
	command.Execute()
}
