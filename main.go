package main

import "github.com/riskibarqy/go-commitdraft/cmd"

func main() {
	cmd.Execute()
}
