package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fusionqa/internal/connectors/filesystem"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

var (
	ingestFile  string
	ingestURL   string
	ingestDir   string
	ingestWatch bool
)

// watchDir is swapped in tests.
var watchDir = filesystem.Watch

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load documents into the local index",
	Long: `Reads, chunks and embeds documents into the local index.

Supported formats are PDF, plain text, Markdown and HTML. A directory is
ingested recursively; unsupported files are listed as skipped. With
--watch the command keeps running and re-ingests files as they change.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "ingest a single file")
	ingestCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "fetch and ingest a web page")
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "ingest every supported file in a directory")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching --dir for changes")
	ingestCmd.MarkFlagsMutuallyExclusive("file", "url", "dir")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestFile == "" && ingestURL == "" && ingestDir == "" {
		return errNoInput
	}
	if ingestWatch && ingestDir == "" {
		return errors.New("--watch requires --dir")
	}
	if err := ensureServices(cmd, NeedIngest); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := commandContext(cmd)

	var (
		report domain.IngestReport
		err    error
	)
	switch {
	case ingestFile != "":
		cmd.Printf("Ingesting %s...\n", ingestFile)
		report, err = ingestService.IngestFile(ctx, ingestFile)
	case ingestURL != "":
		cmd.Printf("Fetching %s...\n", ingestURL)
		report, err = ingestService.IngestURL(ctx, ingestURL)
	default:
		cmd.Printf("Ingesting directory %s...\n", ingestDir)
		report, err = ingestService.IngestDir(ctx, ingestDir)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printReport(cmd, report)

	if ingestWatch {
		return watchAndIngest(ctx, cmd, ingestDir)
	}
	return nil
}

// watchAndIngest re-ingests changed files until the context is cancelled.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, dir string) error {
	changes, err := watchDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)...\n", dir)
	for path := range changes {
		report, err := ingestService.IngestFile(ctx, path)
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedFormat) {
				continue
			}
			if ctx.Err() != nil {
				break
			}
			cmd.PrintErrln(warningStyle.Render(fmt.Sprintf("  %s: %v", path, err)))
			continue
		}
		cmd.Printf("  %s: %d chunks\n", path, report.Chunks)
	}
	return nil
}

func printReport(cmd *cobra.Command, report domain.IngestReport) {
	cmd.Printf("Ingested %d document(s), %d chunk(s).\n", report.Documents, report.Chunks)
	if len(report.Skipped) == 0 {
		return
	}
	cmd.Printf("Skipped %d:\n", len(report.Skipped))
	for _, s := range report.Skipped {
		cmd.Printf("  %s\n", mutedStyle.Render(s))
	}
}
