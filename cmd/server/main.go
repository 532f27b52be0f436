/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Build directory client, payroll service, and adjustment ledger
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port               HTTP server port (default: 8080)
  -db                 SQLite database path (default: payroll.db)
                      Use ":memory:" for an in-memory database
  -employee-service   Base URL of the employee directory service
                      (default: http://localhost:8081). When empty, a small
                      built-in static directory is used instead, which is
                      only useful for local experimentation.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rh-systems/payroll-engine/api"
	"github.com/rh-systems/payroll-engine/directory"
	"github.com/rh-systems/payroll-engine/payroll"
	"github.com/rh-systems/payroll-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "payroll.db", "SQLite database path")
	employeeService := flag.String("employee-service", "http://localhost:8081", "employee directory base URL (empty for built-in static data)")
	flag.Parse()

	// Initialize store
	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Directory
	var dir payroll.EmployeeDirectory
	if *employeeService != "" {
		dir = directory.NewClient(*employeeService, 10*time.Second)
	} else {
		log.Println("No employee service configured, using built-in static directory")
		dir = devDirectory()
	}

	// Domain wiring
	service := payroll.NewService(db.Payrolls(), dir)
	ledger := payroll.NewAdjustmentLedger(db.Payrolls(), db.Adjustments())

	// HTTP
	handler := api.NewHandler(service, ledger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api/payrolls", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// devDirectory returns a tiny fixed directory for running without the
// employee service.
func devDirectory() *directory.Static {
	return &directory.Static{
		Employees: map[int64]payroll.Employee{
			1: {ID: 1, Name: "Ada Lovelace", Position: "Engineer"},
			2: {ID: 2, Name: "Grace Hopper", Position: "Manager"},
		},
		Positions: map[string]payroll.Position{
			"Engineer": {ID: 1, Name: "Engineer", BaseSalary: decimal.NewFromInt(2000)},
			"Manager":  {ID: 2, Name: "Manager", BaseSalary: decimal.NewFromInt(3000)},
		},
	}
}
