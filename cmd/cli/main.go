package main

import (
	"context"
	"flag"

	"github.com/dmitrijs2005/accountd/internal/client/cli"
)

func main() {

	serverURL := flag.String("a", "http://localhost:8080", "accountd server URL")
	flag.Parse()

	app := cli.NewApp(*serverURL)
	app.Run(context.Background())
}
