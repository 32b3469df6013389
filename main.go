package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/snipvault/snipvault/internal/api"
	"github.com/snipvault/snipvault/internal/cli"
	"github.com/snipvault/snipvault/internal/config"
	"github.com/snipvault/snipvault/internal/service"
	"github.com/snipvault/snipvault/internal/ui"
)

var version = "0.1.0"

func printHelp() {
	fmt.Printf(`snipvault - Keyword-triggered text snippets with template expansion

USAGE:
    snipvault [OPTIONS] [COMMAND]

OPTIONS:
    --help      Show this help information
    --version   Print version information
    --init      Initialize a new snippet library
    --serve     Start the local HTTP API
    --port      Port for the HTTP API (default: %d)

COMMANDS:
    (no command)       Start interactive TUI mode
    list, ls           List all snippets
    search <query>     Search snippets
    get, show <ref>    Show a snippet by ID or keyword
    create, new <kw>   Create a new snippet
    edit <ref>         Edit an existing snippet
    delete, rm <ref>   Delete a snippet
    args <ref>         Show a snippet's argument form
    render <ref>       Expand a snippet with values
    copy <ref>         Expand a snippet and copy to the clipboard
    export             Export snippets as JSON
    import <file>      Import snippets from JSON
    help               Show CLI command help

EXAMPLES:
    snipvault                                  # Start interactive mode
    snipvault --init                           # Initialize new library
    snipvault --serve --port 9000              # Start HTTP API on port 9000
    snipvault create sig --name "Signature" --text "Best, {argument name="name"}"
    snipvault render sig --var name=Ada        # Expand with values
    snipvault copy sig --var name=Ada          # Expand and copy
    snipvault export --output backup.json      # Export everything

STORAGE:
    Default directory: ~/.snipvault
    Override with: SNIPVAULT_DIR=<path>
`, config.DefaultPort)
}

func main() {
	var showVersion bool
	var initLib bool
	var showHelp bool
	var serve bool
	var port int

	flag.BoolVar(&showVersion, "version", false, "Print version information")
	flag.BoolVar(&initLib, "init", false, "Initialize a new snippet library")
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&serve, "serve", false, "Start the local HTTP API")
	flag.IntVar(&port, "port", 0, "Port for the HTTP API")
	flag.Parse()

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("snipvault version %s\n", version)
		os.Exit(0)
	}

	libraryPath, err := config.DefaultLibraryPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(libraryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	svc, err := service.NewService(cfg.LibraryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if initLib {
		if err := svc.InitLibrary(); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing library: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Initialized snippet library at", cfg.LibraryPath)
		return
	}

	if serve {
		if port == 0 {
			port = cfg.Port
		}
		srv := api.NewServer(svc, port)
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting API server: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// CLI mode when a command was given, TUI mode otherwise.
	args := flag.Args()
	if len(args) > 0 {
		cliHandler := cli.NewCLI(svc)
		if err := cliHandler.ExecuteCommand(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(ui.NewModel(svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
