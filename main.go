package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/chainsift/jumpaudit/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = os.Args[0]
	app.Usage = "EVM Jump Resolution Auditor"
	app.Description = "EVM Jump Resolution Auditor"
	app.Commands = []*cli.Command{
		cmd.AnalyzeCommand,
	}
	err := app.RunContext(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
