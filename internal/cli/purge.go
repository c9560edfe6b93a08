package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if err := c.confirm(); err != nil {
		return err
	}
	return withEnv(c.globals, c.executeWithEnv)
}

// confirm checks --all and, unless --force, asks for the confirmation word.
func (c *PurgeCommand) confirm() error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}
	if c.Force {
		return nil
	}

	fmt.Println("⚠ WARNING: This will permanently delete ALL loaded data.")
	fmt.Println("  - All agency AI usage rows")
	fmt.Println("  - All FedRAMP products and AI service analysis")
	fmt.Println("  - All agency/product matches")
	fmt.Println()
	fmt.Println("This action cannot be undone.")
	fmt.Println()
	fmt.Print(`Type "PURGE" to confirm: `)

	var in io.Reader = os.Stdin
	if c.stdin != nil {
		in = c.stdin
	}
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	if strings.TrimSpace(scanner.Text()) != "PURGE" {
		return fmt.Errorf("aborted: confirmation text did not match")
	}
	return nil
}

func (c *PurgeCommand) executeWithEnv(ctx context.Context, e *env) error {
	if err := e.store.PurgeAll(ctx); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if jsonOutput(c.globals) {
		return printJSON(map[string]any{
			"purged":  true,
			"message": "all data deleted",
		})
	}

	fmt.Println("Purged all data. The database is empty.")
	return nil
}
