package main

import "github.com/KaramelBytes/castgraph/cmd"

func main() {
	cmd.Execute()
}
