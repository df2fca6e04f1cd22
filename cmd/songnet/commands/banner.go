package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(verbosity int, addr, src string, watch bool) {
	info := version.Get()

	pterm.DefaultHeader.WithFullWidth().Println("songnet - song network layouts")

	data := src
	if data == "" {
		data = "(none)"
	} else if watch {
		data += " (watching)"
	}

	rows := [][]string{
		{"Version", fmt.Sprintf("%s (commit %s)", info.Version, info.Short())},
		{"Built", info.BuildTime},
		{"Verbosity", logger.LevelName(verbosity)},
		{"Listening", addr},
		{"Dataset", data},
	}
	_ = pterm.DefaultTable.WithData(rows).Render()

	pterm.Println()
	pterm.Info.Println("Open a client against ws://localhost" + addr + "/ws")
	pterm.Info.Println("Press Ctrl+C to stop")
	pterm.Println()
}
