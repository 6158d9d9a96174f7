package main

import "github.com/Alijeyrad/vlog_backend/cmd"

func main() {
	cmd.Execute()
}
