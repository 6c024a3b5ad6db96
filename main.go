package main

import "github.com/KaramelBytes/boxoffice-cli/cmd"

func main() {
	cmd.Execute()
}
