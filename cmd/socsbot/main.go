package main

import (
	"context"

	"socsbot/cmd/socsbot/commands"
	"socsbot/internal/components/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext(context.Background())
	commands.ExecuteContext(ctx)
}
