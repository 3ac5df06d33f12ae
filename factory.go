package instinct

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/rwortham/instinct/internal/application/executor"
	"github.com/rwortham/instinct/internal/command"
	"github.com/rwortham/instinct/internal/domain"
	"github.com/rwortham/instinct/internal/planstore"
	"github.com/rwortham/instinct/internal/snapshot"
)

// NewEngine wires a Plan Store to its host collaborators and returns the
// Engine that drives RunPlan/ProcessTimers cycles against it.
func NewEngine(store *planstore.Store, senses domain.Senses, actions domain.Actions, mon domain.Monitor, cfg executor.Config) *executor.Engine {
	return executor.NewEngine(store, senses, actions, mon, cfg)
}

// NewGateway wraps store for the text command grammar.
func NewGateway(store *planstore.Store) *command.Gateway {
	return command.NewGateway(store)
}

// NewMemorySnapshotStore returns a process-local Snapshot Store, suitable
// for tests and single-process deployments without cross-restart
// durability.
func NewMemorySnapshotStore() snapshot.Store {
	return snapshot.NewMemoryStore()
}

// NewPostgresSnapshotStore returns a Postgres-backed Snapshot Store and
// ensures its table exists before returning, the way a host expects a
// store constructor to already be usable.
func NewPostgresSnapshotStore(dsn string) snapshot.Store {
	bunStore := snapshot.NewBunStore(dsn)
	if err := bunStore.InitSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to initialise snapshot schema")
	}
	return bunStore
}
