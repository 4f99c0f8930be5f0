package main

import "datamilo/cmd"

func main() {
	cmd.Execute()
}
