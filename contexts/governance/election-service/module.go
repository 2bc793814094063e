package electionservice

import (
	"log/slog"

	httpadapter "ballotbox/contexts/governance/election-service/adapters/http"
	"ballotbox/contexts/governance/election-service/adapters/memory"
	"ballotbox/contexts/governance/election-service/application/commands"
	"ballotbox/contexts/governance/election-service/application/queries"
	"ballotbox/contexts/governance/election-service/application/workers"
	"ballotbox/contexts/governance/election-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Relay   workers.OutboxRelay
	Replay  commands.ReplayUseCase
	Store   *memory.Store
}

type Dependencies struct {
	State     ports.StateStore
	Gate      ports.TokenGate
	Tokens    ports.TokenLedger
	Outbox    ports.OutboxRepository
	Journal   ports.EventJournal
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Metrics   ports.Metrics
	BatchSize int
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	electionUseCase := commands.ElectionUseCase{
		State:   deps.State,
		Gate:    deps.Gate,
		Clock:   deps.Clock,
		IDGen:   deps.IDGen,
		Metrics: deps.Metrics,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Election: electionUseCase,
			Queries:  queries.ElectionQueries{State: deps.State, Tokens: deps.Tokens},
			Logger:   deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Journal:   deps.Journal,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Metrics:   deps.Metrics,
			BatchSize: deps.BatchSize,
			Logger:    deps.Logger,
		},
		Replay: commands.ReplayUseCase{
			Journal: deps.Journal,
			State:   deps.State,
			Tokens:  deps.Tokens,
			Logger:  deps.Logger,
		},
	}
}
