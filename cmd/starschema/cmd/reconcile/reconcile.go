package reconcile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/astrolab/starschema"
	"github.com/astrolab/starschema/cmd/application"
	"github.com/astrolab/starschema/internal/cmd/globals"
	"github.com/astrolab/starschema/internal/cmd/output"
	pkgreconcile "github.com/astrolab/starschema/pkg/reconcile"
	"github.com/astrolab/starschema/pkg/schema"
)

// ExecuteReconcile orchestrates the complete reconcile flow.
func ExecuteReconcile(ctx context.Context, app application.Application, flags *Flags, globalFlags *globals.Flags, logger *zerolog.Logger) error {
	opts := flags.Connection.ClientOptions()
	if flags.DryRun {
		opts = append(opts, starschema.WithDryRun(true))
	}

	client, err := app.Client(ctx, opts...)
	if err != nil {
		return err
	}
	if len(opts) > 0 {
		// Flag overrides build a dedicated client this command owns
		defer func() { _ = client.Close() }()
	}

	logCreatedStructures(client, logger)

	if !globalFlags.Quiet {
		fmt.Fprintf(os.Stderr, "\n🔄 Reconciling %s...\n\n", client.Target().Name)
	}

	// Machine formats apply without prompting and print the result document
	format := output.Format(app.OutputFormat())
	if format == output.FormatJSON || format == output.FormatYAML {
		result, err := client.Reconcile(ctx)
		if err != nil {
			return err
		}
		formatter := output.NewFormatter(format)
		return formatter.Format(os.Stdout, result)
	}

	// Plan first so the user sees what would change before anything runs
	plan, err := client.Plan(ctx)
	if err != nil {
		return err
	}

	return handlePlan(ctx, client, plan, flags, globalFlags)
}

// handlePlan walks the user through the plan and applies it when confirmed.
func handlePlan(ctx context.Context, client starschema.Client, plan *pkgreconcile.Plan, flags *Flags, globalFlags *globals.Flags) error {
	if !plan.HasChanges() {
		if !globalFlags.Quiet {
			fmt.Fprintf(os.Stderr, "✅ Schema is up to date - no changes needed\n")
		}
		return nil
	}

	// Show the pending structures
	if !globalFlags.Quiet {
		plan.Print()
		fmt.Println()
	}

	// Handle dry run
	if flags.DryRun {
		if !globalFlags.Quiet {
			fmt.Fprintf(os.Stderr, "🔍 Dry run mode - no changes were made\n")
		}
		return nil
	}

	// Handle auto-approve vs manual confirmation
	if !flags.AutoApprove {
		confirmed, err := ConfirmChanges()
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	if !globalFlags.Quiet {
		fmt.Fprintf(os.Stderr, "\n🚀 Applying changes...\n")
	}

	result, err := client.Reconcile(ctx)
	if err != nil {
		// The engine's error text passes through untouched. Completed
		// structures stay in place; a re-run picks up the remainder.
		return err
	}

	return finalizeChanges(globalFlags.Quiet, result)
}

// ConfirmChanges asks the user to confirm applying changes.
// Returns true if the user confirms, false if cancelled.
func ConfirmChanges() (bool, error) {
	fmt.Printf("Apply these changes? (y/N): ")
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		response = "n"
	}
	response = strings.ToLower(strings.TrimSpace(response))

	if response != "y" && response != "yes" {
		fmt.Println("Reconcile cancelled")
		return false, nil
	}

	return true, nil
}

// finalizeChanges displays the completion message.
func finalizeChanges(isQuiet bool, result *pkgreconcile.Result) error {
	if !isQuiet {
		fmt.Fprintf(os.Stderr, "\n✅ Schema up to date - %d structures added\n", result.StructuresAdded())
		fmt.Fprintf(os.Stderr, "📊 %s\n", result.Summary())
	}
	return nil
}

// logCreatedStructures registers hooks that log each structure as it lands.
func logCreatedStructures(client starschema.Client, logger *zerolog.Logger) {
	client.OnColumnAdded(func(table string, column schema.Column) {
		logger.Info().Str("table", table).Str("column", column.Name).Msg("Added column")
	})
	client.OnIndexCreated(func(table string, index schema.Index) {
		logger.Info().Str("table", table).Str("index", index.Name).Msg("Created index")
	})
	client.OnTriggerCreated(func(table string, trigger schema.Trigger) {
		logger.Info().Str("table", table).Str("trigger", trigger.Name).Msg("Created trigger")
	})
}
