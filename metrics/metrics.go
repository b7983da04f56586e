package metrics

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
)

var (
	MEventsReceived    = stats.Int64("castflow/events_received", "Events accepted by the engine", stats.UnitDimensionless)
	MFlowExecutions    = stats.Int64("castflow/flow_executions", "Flow executions recorded", stats.UnitDimensionless)
	MFlowFailures      = stats.Int64("castflow/flow_failures", "Flow executions that failed", stats.UnitDimensionless)
	MActionExecutions  = stats.Int64("castflow/action_executions", "Flow actions executed", stats.UnitDimensionless)
	MActionFailures    = stats.Int64("castflow/action_failures", "Flow actions that failed", stats.UnitDimensionless)
	MExecutionDuration = stats.Float64("castflow/execution_duration", "Flow execution duration", stats.UnitMilliseconds)
)

func DefaultViews() []*view.View {
	return []*view.View{
		{
			Name:        "castflow/events_received",
			Measure:     MEventsReceived,
			Description: "Number of events accepted by the engine",
			Aggregation: view.Count(),
		},
		{
			Name:        "castflow/flow_executions",
			Measure:     MFlowExecutions,
			Description: "Number of flow executions recorded",
			Aggregation: view.Count(),
		},
		{
			Name:        "castflow/flow_failures",
			Measure:     MFlowFailures,
			Description: "Number of failed flow executions",
			Aggregation: view.Count(),
		},
		{
			Name:        "castflow/action_executions",
			Measure:     MActionExecutions,
			Description: "Number of flow actions executed",
			Aggregation: view.Count(),
		},
		{
			Name:        "castflow/action_failures",
			Measure:     MActionFailures,
			Description: "Number of failed flow actions",
			Aggregation: view.Count(),
		},
		{
			Name:        "castflow/execution_duration",
			Measure:     MExecutionDuration,
			Description: "Distribution of flow execution durations",
			Aggregation: view.Distribution(1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000),
		},
	}
}

func Register() error {
	return view.Register(DefaultViews()...)
}

func RecordEventReceived() {
	stats.Record(context.Background(), MEventsReceived.M(1))
}

func RecordExecution(success bool, durationMs int64) {
	measurements := []stats.Measurement{
		MFlowExecutions.M(1),
		MExecutionDuration.M(float64(durationMs)),
	}
	if !success {
		measurements = append(measurements, MFlowFailures.M(1))
	}
	stats.Record(context.Background(), measurements...)
}

func RecordAction(success bool) {
	if success {
		stats.Record(context.Background(), MActionExecutions.M(1))
		return
	}
	stats.Record(context.Background(), MActionExecutions.M(1), MActionFailures.M(1))
}
