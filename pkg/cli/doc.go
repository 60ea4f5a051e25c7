/*
Package cli provides command-line interface utilities for cardpress.

The cli package includes output formatters, progress reporters, and common
helpers used by the cardpress command.

Output Formatting:

Command results can be printed as plain text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Progress Reporting:

For long-running operations such as local batch rendering, use the progress
reporter:

	progress := cli.NewProgressReporter(os.Stdout)
	progress.Start(int64(rowCount))
	for i := range rows {
		// Render the row
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
