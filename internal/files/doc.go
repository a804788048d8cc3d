// Package files resolves input paths and writes run outputs.
//
// Discovery turns the configured input paths into source files: explicit files
// are taken as given, directories expand to their .csv/.xlsx files, and paths
// that do not exist are skipped with a warning.
//
// Manager writes outputs all-or-nothing: destinations are checked, every file
// is staged next to its destination, and files already moved into place are
// rolled back when a later move fails.
//
//	discovery := files.NewDiscovery(logger)
//	found, skipped, err := discovery.Resolve(ctx, []string{"2024.csv", "exports/"})
package files
