// contextprime primes coding agents with task-relevant project context.
//
// Usage:
//
//	contextprime prime --task "fix the auth bug"   # full priming pipeline
//	contextprime gather                            # inspect gatherable sources
//	contextprime serve                             # MCP server (stdio transport)
//	contextprime config init                       # write a default config
//	contextprime update                            # replace the binary with the latest release
package main

import (
	"os"

	"github.com/contextprime/contextprime/internal/cli"
	"github.com/contextprime/contextprime/internal/server"
)

func main() {
	if err := cli.Execute(server.Version); err != nil {
		os.Exit(1)
	}
}
