package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	moonbridge "github.com/jerbob92/wazero-moonbridge"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to a YAML bridge configuration")
		dump       = flag.Bool("dump", false, "Print the type and property tables and exit")
		filter     = flag.String("filter", "", "Only show rows containing this text")
	)
	flag.Parse()

	if err := run(*configFile, *dump, *filter); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string, dump bool, filter string) error {
	ctx := context.Background()

	config := moonbridge.NewConfig()
	if configFile != "" {
		f, err := os.Open(configFile)
		if err != nil {
			return fmt.Errorf("open config: %w", err)
		}
		config, err = moonbridge.LoadConfig(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	snap, err := inspect(ctx, config)
	if err != nil {
		return err
	}

	if dump {
		fmt.Println(renderDump(snap, filter))
		return nil
	}

	_, err = tea.NewProgram(newInspectModel(snap, filter), tea.WithAltScreen()).Run()
	return err
}
