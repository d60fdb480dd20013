// Package engine walks a workflow graph depth-first and executes its nodes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/nodeweave/weave/pkg/eventbus"
	"github.com/nodeweave/weave/pkg/events"
	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/otelhelper"
	"github.com/nodeweave/weave/pkg/recorder"
	"github.com/nodeweave/weave/pkg/registry"
)

// Engine executes workflow graphs. One engine serves many concurrent runs;
// all per-run state lives on the stack of Execute.
type Engine struct {
	logger   *slog.Logger
	registry *registry.Registry
	recorder *recorder.Recorder
	bus      eventbus.EventPublisher
	tracer   trace.Tracer
	validate *validator.Validate
}

// NewEngine creates an engine. The recorder and bus may be nil, which
// disables history recording and event publishing respectively.
func NewEngine(logger *slog.Logger, reg *registry.Registry, rec *recorder.Recorder, bus eventbus.EventPublisher) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		logger:   logger,
		registry: reg,
		recorder: rec,
		bus:      bus,
		tracer:   tracenoop.NewTracerProvider().Tracer("engine"),
		validate: validator.New(),
	}
}

// SetTracer replaces the default no-op tracer.
func (e *Engine) SetTracer(tracer trace.Tracer) {
	if tracer != nil {
		e.tracer = tracer
	}
}

// runState is the mutable state of one in-flight run.
type runState struct {
	workflow *models.Workflow
	run      models.RunContext
	record   *models.RunRecord
	executed map[string]bool
}

// Execute runs a workflow to completion and returns its summary. The graph
// is validated before any node executes; a structural error leaves zero
// nodes executed. A node failure aborts the run with a NodeExecutionError
// and the partial record is still persisted.
func (e *Engine) Execute(ctx context.Context, workflow *models.Workflow, mode models.RunMode) (*models.RunSummary, error) {
	if err := e.validateGraph(workflow); err != nil {
		return nil, err
	}

	entries := workflow.EntryPoints()
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: workflow %s", ErrNoEntryPoint, workflow.ID)
	}

	startedAt := time.Now().UTC()
	record := &models.RunRecord{
		ID:          "run-" + uuid.NewString()[:8],
		WorkflowID:  workflow.ID,
		Status:      models.RunStatusNew,
		Mode:        mode,
		StartedAt:   startedAt,
		NodeResults: make(map[string]models.NodeResult),
	}

	run := models.RunContext{
		RunID:        record.ID,
		WorkflowID:   workflow.ID,
		WorkflowName: workflow.Name,
		Mode:         mode,
		Vars:         workflow.Variables,
		StartedAt:    startedAt,
	}

	logger := e.logger.With(
		slog.String("run_id", record.ID),
		slog.String("workflow_id", workflow.ID),
	)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.RunIDKey, record.ID),
		attribute.String(otelhelper.RunModeKey, string(mode)),
	)
	defer span.End()

	logger.Info("Starting workflow run", slog.String("mode", string(mode)))
	record.Status = models.RunStatusRunning
	e.publish(ctx, workflow.ID, events.RunStarted{
		BaseEvent:    events.NewBaseEvent(events.RunStartedEvent, workflow.ID),
		RunID:        record.ID,
		WorkflowName: workflow.Name,
		Mode:         mode,
		Variables:    workflow.Variables,
	})

	state := &runState{
		workflow: workflow,
		run:      run,
		record:   record,
		executed: make(map[string]bool),
	}

	var runErr error

	for _, entry := range entries {
		if runErr = e.walk(ctx, logger, state, entry, seedItems(entry, run)); runErr != nil {
			break
		}
	}

	e.finalize(ctx, logger, state, span, runErr)

	return record.Summary(), runErr
}

// validateGraph applies struct validation plus structural checks.
func (e *Engine) validateGraph(workflow *models.Workflow) error {
	if err := e.validate.Struct(workflow); err != nil {
		return fmt.Errorf("invalid workflow %s: %w", workflow.ID, err)
	}

	seen := make(map[string]bool, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		if seen[node.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, node.ID)
		}

		seen[node.ID] = true
	}

	for _, conn := range workflow.Connections {
		if !seen[conn.Source] {
			return fmt.Errorf("%w: source %s", ErrDanglingEdge, conn.Source)
		}

		if !seen[conn.Target] {
			return fmt.Errorf("%w: target %s", ErrDanglingEdge, conn.Target)
		}
	}

	return nil
}

// walk executes one node and then its successors, depth-first. A node that
// already ran in this run is skipped, which both deduplicates fan-in arrivals
// and terminates cycles.
func (e *Engine) walk(ctx context.Context, logger *slog.Logger, state *runState, node *models.Node, items []models.Item) error {
	if state.executed[node.ID] {
		return nil
	}

	state.executed[node.ID] = true

	if node.Disabled {
		logger.Debug("Skipping disabled node", slog.String("node_id", node.ID))

		return e.walkSuccessors(ctx, logger, state, node, items)
	}

	output, err := e.executeNode(ctx, logger, state, node, items)
	if err != nil {
		return err
	}

	return e.walkSuccessors(ctx, logger, state, node, output)
}

func (e *Engine) walkSuccessors(ctx context.Context, logger *slog.Logger, state *runState, node *models.Node, items []models.Item) error {
	for _, conn := range state.workflow.Successors(node.ID) {
		successor, ok := state.workflow.NodeByID(conn.Target)
		if !ok {
			// Validated before the run started; cannot happen mid-walk.
			continue
		}

		if err := e.walk(ctx, logger, state, successor, items); err != nil {
			return err
		}
	}

	return nil
}

// executeNode runs one node with retries and records its outcome.
func (e *Engine) executeNode(ctx context.Context, logger *slog.Logger, state *runState, node *models.Node, items []models.Item) ([]models.Item, error) {
	nodeLogger := logger.With(
		slog.String("node_id", node.ID),
		slog.String("node_type", node.Type),
	)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "node.execute",
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeTypeKey, node.Type),
		attribute.Int(otelhelper.ItemCountKey, len(items)),
	)
	defer span.End()

	handler, err := e.registry.CreateHandler(ctx, node)
	if err != nil {
		if _, ok := e.registry.Factory(node.Type); !ok {
			nodeLogger.Warn("No handler registered for node type, passing items through")

			output := models.CloneItems(items)
			state.record.NodeResults[node.ID] = models.NodeResult{
				NodeID:     node.ID,
				Success:    true,
				Data:       output,
				ExecutedAt: time.Now().UTC(),
				Attempts:   1,
			}
			state.record.ExecutionOrder = append(state.record.ExecutionOrder, node.ID)

			e.publish(ctx, state.workflow.ID, events.NodeCompleted{
				BaseEvent: events.NewBaseEvent(events.NodeCompletedEvent, state.workflow.ID),
				RunID:     state.run.RunID,
				NodeID:    node.ID,
				NodeType:  node.Type,
				Success:   true,
				ItemCount: len(output),
				Attempts:  1,
			})

			return output, nil
		}

		return e.handleFailure(ctx, nodeLogger, state, node, span, 1, 0, err)
	}

	started := time.Now()
	attempts := 0

	var (
		output  []models.Item
		execErr error
	)

	for attempts < node.MaxTries() {
		attempts++
		span.SetAttributes(attribute.Int(otelhelper.AttemptKey, attempts))

		output, execErr = handler.Execute(ctx, state.run, items)
		if execErr == nil {
			break
		}

		nodeLogger.Warn("Node attempt failed",
			slog.Int("attempt", attempts),
			slog.String("error", execErr.Error()))

		if attempts < node.MaxTries() {
			if err := e.waitRetry(ctx, node); err != nil {
				execErr = err

				break
			}
		}
	}

	durationMs := time.Since(started).Milliseconds()

	if execErr != nil {
		return e.handleFailure(ctx, nodeLogger, state, node, span, attempts, durationMs, execErr)
	}

	state.record.NodeResults[node.ID] = models.NodeResult{
		NodeID:     node.ID,
		Success:    true,
		Data:       output,
		ExecutedAt: started.UTC(),
		DurationMs: durationMs,
		Attempts:   attempts,
	}
	state.record.ExecutionOrder = append(state.record.ExecutionOrder, node.ID)

	nodeLogger.Info("Node executed",
		slog.Int("items", len(output)),
		slog.Int64("duration_ms", durationMs))

	e.publish(ctx, state.workflow.ID, events.NodeCompleted{
		BaseEvent:  events.NewBaseEvent(events.NodeCompletedEvent, state.workflow.ID),
		RunID:      state.run.RunID,
		NodeID:     node.ID,
		NodeType:   node.Type,
		Success:    true,
		ItemCount:  len(output),
		Attempts:   attempts,
		DurationMs: durationMs,
	})

	return output, nil
}

// handleFailure records a failed node. With continueOnFail the node is
// treated as executed and emits one error-shaped item; otherwise the failure
// aborts the run.
func (e *Engine) handleFailure(ctx context.Context, logger *slog.Logger, state *runState, node *models.Node, span trace.Span, attempts int, durationMs int64, execErr error) ([]models.Item, error) {
	otelhelper.SetError(span, execErr)

	e.publish(ctx, state.workflow.ID, events.NodeCompleted{
		BaseEvent:  events.NewBaseEvent(events.NodeCompletedEvent, state.workflow.ID),
		RunID:      state.run.RunID,
		NodeID:     node.ID,
		NodeType:   node.Type,
		Success:    node.ContinueOnFail,
		Attempts:   attempts,
		DurationMs: durationMs,
		Error:      execErr.Error(),
	})

	if node.ContinueOnFail {
		logger.Warn("Node failed, continuing", slog.String("error", execErr.Error()))

		output := []models.Item{{
			JSON:  map[string]any{"error": execErr.Error()},
			Error: execErr.Error(),
		}}

		state.record.NodeResults[node.ID] = models.NodeResult{
			NodeID:     node.ID,
			Success:    true,
			Data:       output,
			Error:      execErr.Error(),
			ExecutedAt: time.Now().UTC(),
			DurationMs: durationMs,
			Attempts:   attempts,
		}
		state.record.ExecutionOrder = append(state.record.ExecutionOrder, node.ID)

		return output, nil
	}

	logger.Error("Node failed, aborting run", slog.String("error", execErr.Error()))

	state.record.NodeResults[node.ID] = models.NodeResult{
		NodeID:     node.ID,
		Success:    false,
		Error:      execErr.Error(),
		ExecutedAt: time.Now().UTC(),
		DurationMs: durationMs,
		Attempts:   attempts,
	}

	return nil, &NodeExecutionError{NodeID: node.ID, Type: node.Type, Err: execErr}
}

// waitRetry pauses between attempts per the node's retry policy.
func (e *Engine) waitRetry(ctx context.Context, node *models.Node) error {
	if node.RetryPolicy == nil || node.RetryPolicy.WaitBetweenTries <= 0 {
		return nil
	}

	timer := time.NewTimer(time.Duration(node.RetryPolicy.WaitBetweenTries) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finalize closes out the record, persists it, and publishes the terminal
// event.
func (e *Engine) finalize(ctx context.Context, logger *slog.Logger, state *runState, span trace.Span, runErr error) {
	stoppedAt := time.Now().UTC()
	state.record.StoppedAt = &stoppedAt

	durationMs := stoppedAt.Sub(state.record.StartedAt).Milliseconds()

	if runErr != nil {
		state.record.Status = models.RunStatusError
		state.record.Error = runErr.Error()
		otelhelper.SetError(span, runErr)

		var failedNodeID string

		var nodeErr *NodeExecutionError
		if errors.As(runErr, &nodeErr) {
			failedNodeID = nodeErr.NodeID
		}

		logger.Error("Workflow run failed",
			slog.Int64("duration_ms", durationMs),
			slog.String("error", runErr.Error()))

		e.publish(ctx, state.workflow.ID, events.RunFailed{
			BaseEvent:     events.NewBaseEvent(events.RunFailedEvent, state.workflow.ID),
			RunID:         state.record.ID,
			Status:        string(models.RunStatusError),
			DurationMs:    durationMs,
			NodesExecuted: len(state.record.NodeResults),
			FailedNodeID:  failedNodeID,
			Error:         runErr.Error(),
		})
	} else {
		state.record.Status = models.RunStatusSuccess

		logger.Info("Workflow run finished",
			slog.Int64("duration_ms", durationMs),
			slog.Int("nodes_executed", len(state.record.NodeResults)))

		e.publish(ctx, state.workflow.ID, events.RunFinished{
			BaseEvent:     events.NewBaseEvent(events.RunFinishedEvent, state.workflow.ID),
			RunID:         state.record.ID,
			Status:        string(models.RunStatusSuccess),
			DurationMs:    durationMs,
			NodesExecuted: len(state.record.NodeResults),
		})
	}

	e.recorder.Record(ctx, state.record)
}

// publish sends one event, best-effort.
func (e *Engine) publish(ctx context.Context, key string, event eventbus.Event) {
	if e.bus == nil {
		return
	}

	if err := e.bus.Publish(ctx, key, event); err != nil {
		e.logger.Warn("Failed to publish event",
			slog.String("event_type", string(event.GetType())),
			slog.String("error", err.Error()))
	}
}
