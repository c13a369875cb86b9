// Package app wires the indicator panel together: configuration, logging,
// telemetry, the dataset loader, the panel service and the HTTP server.
//
// # Initialization Flow
//
//	1. Load configuration from file and environment (config.Load)
//	2. Initialize logging and OpenTelemetry
//	3. Create the dataset loader, panel service and reload scheduler
//	4. Set up middleware and routes
//	5. Load the dataset and start the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run stops on SIGINT or SIGTERM: in-flight requests complete, the reload
// scheduler waits for a running reload, and telemetry is flushed. The package
// never calls os.Exit; errors are returned to main.
package app
