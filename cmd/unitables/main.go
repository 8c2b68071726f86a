package main

import (
	"unitables/cmd/unitables/commands"
	"unitables/internal/components/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
