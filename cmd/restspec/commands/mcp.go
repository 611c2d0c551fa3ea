package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/restspec/internal/cliutil"
	"github.com/erraggy/restspec/internal/config"
	"github.com/erraggy/restspec/internal/mcpserver"
)

// ConfigEnv names the configuration file for the MCP server, which MCP
// clients usually start without flags.
const ConfigEnv = "RESTSPEC_CONFIG"

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv(ConfigEnv), "configuration file (default: $"+ConfigEnv+" or ./"+config.DefaultFile+")")
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: restspec mcp [flags]\n\n")
		cliutil.Writef(fs.Output(), "Serve the aggregate, operations and generate tools over MCP on stdio.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	cfg, err := config.Load(*configPath, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := mcpserver.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
