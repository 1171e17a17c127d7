package main

import (
	"fmt"
	"log"

	"github.com/davxy/w3f-bls/cmd/cpsig/cmd"
)

var (
	Version   = "dev"
	BuildTime = ""
	CommitID  = ""
)

func main() {
	cli := cmd.NewCli()
	cli.SetVer(version())

	if err := cli.Init(); err != nil {
		log.Fatal(err)
	}

	cli.AddCommands(cmd.Commands)
	cli.Execute()
}

func version() string {
	return fmt.Sprintf("%s-%s %s", Version, CommitID, BuildTime)
}
