// Package logging provides the process-wide structured logger for vcmd.
//
// It is a thin layer over log/slog that tags every record with a subsystem
// name, so background components (the session refresher, the config loader,
// the metrics listener) can report what they are doing without being handed
// a logger explicitly.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
//	logging.Debug("SessionRefresher", "refresh tick skipped, no session held")
//	logging.Error("Metrics", err, "metrics listener stopped")
//
// Until InitForCLI is called all records are dropped. Console output meant for
// the user of the interactive shell does not go through this package; see
// internal/shell.Logger for that.
package logging
