// Package wire provides dependency injection for the jbatch application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"
	"time"

	"github.com/example/jbatch/internal/adapters/sqlite"
	"github.com/example/jbatch/internal/app"
	"github.com/example/jbatch/internal/db"
	"github.com/example/jbatch/internal/ports/primary"
	"github.com/example/jbatch/internal/ports/secondary"
)

var (
	generatorService primary.GeneratorService
	runRepo          secondary.RunRepository
	once             sync.Once
)

// GeneratorService returns the singleton GeneratorService instance.
func GeneratorService() primary.GeneratorService {
	once.Do(initServices)
	return generatorService
}

// ExecutorService builds an ExecutorService around the given transport.
// The transport is per-invocation (it owns credentials and a session);
// the run-history repository behind it is shared.
func ExecutorService(transport secondary.Transport, timeout time.Duration) primary.ExecutorService {
	once.Do(initServices)
	return app.NewExecutorService(transport, runRepo, timeout)
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize run history database: %v", err)
	}

	runRepo = sqlite.NewRunRepository(database)
	generatorService = app.NewGeneratorService()
}

// RunRepository returns the singleton run-history repository.
func RunRepository() secondary.RunRepository {
	once.Do(initServices)
	return runRepo
}
