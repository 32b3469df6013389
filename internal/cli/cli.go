// Package cli provides headless command-line access to the snippet service.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/snipvault/snipvault/internal/clipboard"
	apperrors "github.com/snipvault/snipvault/internal/errors"
	"github.com/snipvault/snipvault/internal/models"
	"github.com/snipvault/snipvault/internal/service"
)

// CLI provides headless command-line interface functionality
type CLI struct {
	service *service.Service
	errs    *apperrors.CLIErrorHandler
}

// NewCLI creates a new CLI instance
func NewCLI(svc *service.Service) *CLI {
	return &CLI{
		service: svc,
		errs:    apperrors.NewCLIErrorHandler(os.Getenv("SNIPVAULT_VERBOSE") != ""),
	}
}

// ExecuteCommand processes a CLI command and returns the result
func (c *CLI) ExecuteCommand(args []string) error {
	if len(args) == 0 {
		return c.printUsage()
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "list", "ls":
		return c.listSnippets(commandArgs)
	case "search":
		return c.searchSnippets(commandArgs)
	case "get", "show":
		return c.showSnippet(commandArgs)
	case "create", "new":
		return c.createSnippet(commandArgs)
	case "edit":
		return c.editSnippet(commandArgs)
	case "delete", "rm":
		return c.deleteSnippet(commandArgs)
	case "args":
		return c.showArguments(commandArgs)
	case "render":
		return c.renderSnippet(commandArgs, false)
	case "copy":
		return c.renderSnippet(commandArgs, true)
	case "export":
		return c.handleExport(commandArgs)
	case "import":
		return c.handleImport(commandArgs)
	case "help":
		return c.printHelp()
	default:
		return c.errs.HandleError(apperrors.CommandNotFoundError(command))
	}
}

func (c *CLI) listSnippets(args []string) error {
	format := parseFlag(args, "--format", "table")
	snippets := c.service.ListSnippets()
	return c.printSnippets(snippets, format)
}

func (c *CLI) searchSnippets(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("search requires a query\n\nUsage: snipvault search <query>")
	}
	format := parseFlag(args, "--format", "table")
	snippets := c.service.SearchSnippets(args[0])
	return c.printSnippets(snippets, format)
}

func (c *CLI) printSnippets(snippets []models.Snippet, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(snippets, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(snippets) == 0 {
		fmt.Println("No snippets found")
		return nil
	}
	fmt.Printf("%-12s %-24s %-8s %s\n", "KEYWORD", "NAME", "ACTIVE", "ID")
	for _, sn := range snippets {
		fmt.Printf("%-12s %-24s %-8t %s\n", sn.Keyword, sn.Name, sn.Active, sn.ID)
	}
	return nil
}

// resolveSnippet accepts either a record ID or a keyword.
func (c *CLI) resolveSnippet(ref string) (models.Snippet, error) {
	if sn, err := c.service.GetSnippet(ref); err == nil {
		return sn, nil
	}
	return c.service.GetSnippetByKeyword(ref)
}

func (c *CLI) showSnippet(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("show requires a snippet ID or keyword")
	}
	sn, err := c.resolveSnippet(args[0])
	if err != nil {
		return c.errs.HandleError(err)
	}

	fmt.Printf("Keyword: %s\nName:    %s\nActive:  %t\nID:      %s\n\n%s\n",
		sn.Keyword, sn.Name, sn.Active, sn.ID, sn.Text)
	return nil
}

func (c *CLI) createSnippet(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("create requires a keyword\n\nUsage: snipvault create <keyword> --name <name> --text <template>")
	}

	sn := models.Snippet{
		Keyword: args[0],
		Name:    parseFlag(args, "--name", ""),
		Text:    parseFlag(args, "--text", ""),
		Active:  !hasFlag(args, "--inactive"),
	}
	if file := parseFlag(args, "--text-file", ""); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}
		sn.Text = string(data)
	}

	created, err := c.service.CreateSnippet(sn)
	if err != nil {
		return c.errs.HandleError(err)
	}
	fmt.Printf("Created snippet %q (%s)\n", created.Keyword, created.ID)
	return nil
}

func (c *CLI) editSnippet(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("edit requires a snippet ID or keyword")
	}
	sn, err := c.resolveSnippet(args[0])
	if err != nil {
		return c.errs.HandleError(err)
	}

	if v := parseFlag(args, "--keyword", ""); v != "" {
		sn.Keyword = v
	}
	if v := parseFlag(args, "--name", ""); v != "" {
		sn.Name = v
	}
	if v := parseFlag(args, "--text", ""); v != "" {
		sn.Text = v
	}
	if hasFlag(args, "--activate") {
		sn.Active = true
	}
	if hasFlag(args, "--deactivate") {
		sn.Active = false
	}

	updated, err := c.service.UpdateSnippet(sn)
	if err != nil {
		return c.errs.HandleError(err)
	}
	fmt.Printf("Updated snippet %q\n", updated.Keyword)
	return nil
}

func (c *CLI) deleteSnippet(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("delete requires a snippet ID or keyword")
	}
	sn, err := c.resolveSnippet(args[0])
	if err != nil {
		return c.errs.HandleError(err)
	}
	if err := c.service.DeleteSnippet(sn.ID); err != nil {
		return c.errs.HandleError(err)
	}
	fmt.Printf("Deleted snippet %q\n", sn.Keyword)
	return nil
}

func (c *CLI) showArguments(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("args requires a snippet ID or keyword")
	}
	sn, err := c.resolveSnippet(args[0])
	if err != nil {
		return c.errs.HandleError(err)
	}

	specs := c.service.ParseArguments(sn.Text)
	if len(specs) == 0 {
		fmt.Println("No arguments")
		return nil
	}
	for _, spec := range specs {
		line := spec.Name
		if spec.Options != nil {
			line += fmt.Sprintf("  options=[%s]", strings.Join(spec.Options, ", "))
		}
		if spec.HasDefault {
			line += fmt.Sprintf("  default=%q", spec.Default)
		}
		fmt.Println(line)
	}
	return nil
}

// renderSnippet expands a snippet with --var values; copy also delivers the
// result to the clipboard.
func (c *CLI) renderSnippet(args []string, toClipboard bool) error {
	if len(args) == 0 {
		return fmt.Errorf("expected a snippet ID or keyword\n\nUsage: snipvault render <keyword> [--var name=value ...]")
	}
	sn, err := c.resolveSnippet(args[0])
	if err != nil {
		return c.errs.HandleError(err)
	}

	values, err := parseVars(args)
	if err != nil {
		return err
	}

	res := c.service.ExecuteText(sn.Text, values)
	if !toClipboard {
		fmt.Println(res.Result)
		if res.CursorIndex != nil {
			fmt.Fprintf(os.Stderr, "(cursor at offset %d)\n", *res.CursorIndex)
		}
		return nil
	}

	msg, err := clipboard.CopyWithFallback(res.Result)
	if err != nil {
		// The text is still printed so nothing is lost.
		fmt.Println(res.Result)
		return c.errs.HandleError(apperrors.ClipboardError("write", err))
	}
	fmt.Println(msg)
	return nil
}

func (c *CLI) handleExport(args []string) error {
	data, err := c.service.Export()
	if err != nil {
		return c.errs.HandleError(err)
	}

	if output := parseFlag(args, "--output", ""); output != "" {
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}
		fmt.Printf("Exported %d snippets to %s\n", len(c.service.ListSnippets()), output)
		return nil
	}
	fmt.Println(string(data))
	return nil
}

func (c *CLI) handleImport(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("import requires a file path\n\nUsage: snipvault import <file.json>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	n, err := c.service.Import(data)
	if err != nil {
		return c.errs.HandleError(err)
	}
	fmt.Printf("Imported %d snippets\n", n)
	return nil
}

const helpTopic = `# snipvault

Store text templates keyed by a trigger word and expand them with
placeholders before delivery to the clipboard.

## Placeholders

- ` + "`{clipboard}`" + ` - current clipboard content
- ` + "`{cursor}`" + ` - where the cursor lands after pasting
- ` + "`{argument name=\"X\" options=\"A,B\" default=\"A\"}`" + ` - user-supplied value

## Commands

| Command | Description |
|---|---|
| list, ls | List all snippets |
| search <query> | Fuzzy-search snippets |
| get, show <ref> | Show a snippet by ID or keyword |
| create <keyword> | Create a snippet (--name, --text, --text-file) |
| edit <ref> | Edit a snippet (--keyword, --name, --text, --activate, --deactivate) |
| delete, rm <ref> | Delete a snippet |
| args <ref> | Show a snippet's argument form |
| render <ref> | Expand a snippet (--var name=value) |
| copy <ref> | Expand and copy to the clipboard |
| export | Print or write (--output) the JSON exchange file |
| import <file> | Import a JSON exchange file (all-or-nothing) |
`

func (c *CLI) printHelp() error {
	out, err := glamour.Render(helpTopic, "auto")
	if err != nil {
		// Fall back to the raw markdown when the terminal renderer fails.
		fmt.Print(helpTopic)
		return nil
	}
	fmt.Print(out)
	return nil
}

func (c *CLI) printUsage() error {
	fmt.Println("Usage: snipvault <command> [args]\nRun 'snipvault help' for details.")
	return nil
}

// parseFlag returns the value following flag in args, or fallback.
func parseFlag(args []string, flag, fallback string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return fallback
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// parseVars collects repeated --var name=value pairs.
func parseVars(args []string) (map[string]string, error) {
	values := make(map[string]string)
	for i, a := range args {
		if a != "--var" {
			continue
		}
		if i+1 >= len(args) {
			return nil, fmt.Errorf("--var requires a name=value pair")
		}
		pair := args[i+1]
		eq := strings.Index(pair, "=")
		if eq < 1 {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", pair)
		}
		values[pair[:eq]] = pair[eq+1:]
	}
	return values, nil
}
