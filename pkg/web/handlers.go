package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cast"
	"github.com/xeipuuv/gojsonschema"

	"github.com/nodeweave/weave/pkg/engine"
	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/persistence"
	"github.com/nodeweave/weave/pkg/registry"
)

type APIHandlers struct {
	engine    *engine.Engine
	registry  *registry.Registry
	store     persistence.HistoryStore
	validator *validator.Validate
}

func NewAPIHandlers(eng *engine.Engine, reg *registry.Registry, store persistence.HistoryStore) *APIHandlers {
	return &APIHandlers{
		engine:    eng,
		registry:  reg,
		store:     store,
		validator: validator.New(),
	}
}

// Register mounts every route on the app.
func (h *APIHandlers) Register(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
	app.Post("/runs", h.ExecuteWorkflow)
	app.Get("/runs/:id", h.GetRun)
	app.Get("/workflows/:id/runs", h.GetWorkflowRuns)
	app.Get("/handlers", h.GetHandlers)
	app.Post("/validate", h.ValidateWorkflow)
}

// ExecuteWorkflow runs an inline graph synchronously and returns the run
// summary. A node failure yields 422 with the partial summary; a structural
// problem yields 400 before anything runs.
func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	var req ExecuteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	mode := req.Mode
	if mode == "" {
		mode = models.RunModeManual
	}

	summary, err := h.engine.Execute(c.Context(), req.Workflow, mode)
	if err != nil {
		var nodeErr *engine.NodeExecutionError
		if errors.As(err, &nodeErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(summary)
		}

		return badRequest(c, err.Error())
	}

	return c.JSON(summary)
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Run ID is required")
	}

	record, err := h.store.RunByID(c.Context(), id)
	if err != nil {
		if persistence.IsRunNotFound(err) {
			return notFound(c, "Run not found")
		}

		return internalError(c, err)
	}

	return c.JSON(record)
}

func (h *APIHandlers) GetWorkflowRuns(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	limit := cast.ToInt(c.Query("limit"))

	records, err := h.store.Runs(c.Context(), id, limit)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflow_id": id,
		"count":       len(records),
		"runs":        records,
	})
}

// GetHandlers returns the node-type catalog with parameter schemas.
func (h *APIHandlers) GetHandlers(c fiber.Ctx) error {
	factories := h.registry.Factories()
	catalog := make([]HandlerInfo, 0, len(factories))

	for _, factory := range factories {
		catalog = append(catalog, HandlerInfo{
			ID:          factory.ID(),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return c.JSON(catalog)
}

// ValidateWorkflow checks a graph without executing it: struct validation,
// then each node's parameters against its handler's JSON schema.
func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	var req ValidateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	issues := h.validateGraph(req.Workflow)

	return c.JSON(ValidateResponse{
		Valid:  len(issues) == 0,
		Errors: issues,
	})
}

func (h *APIHandlers) validateGraph(workflow *models.Workflow) []ValidateIssue {
	var issues []ValidateIssue

	if err := h.validator.Struct(workflow); err != nil {
		issues = append(issues, ValidateIssue{Detail: err.Error()})
	}

	nodeIDs := make(map[string]bool, len(workflow.Nodes))

	for _, node := range workflow.Nodes {
		if nodeIDs[node.ID] {
			issues = append(issues, ValidateIssue{NodeID: node.ID, Detail: "duplicate node id"})
		}

		nodeIDs[node.ID] = true

		issues = append(issues, h.validateNodeParameters(node)...)
	}

	for _, conn := range workflow.Connections {
		if !nodeIDs[conn.Source] {
			issues = append(issues, ValidateIssue{NodeID: conn.Source, Detail: "connection source does not exist"})
		}

		if !nodeIDs[conn.Target] {
			issues = append(issues, ValidateIssue{NodeID: conn.Target, Detail: "connection target does not exist"})
		}
	}

	if len(workflow.Nodes) > 0 && len(workflow.EntryPoints()) == 0 {
		issues = append(issues, ValidateIssue{Detail: "workflow has no entry point"})
	}

	return issues
}

func (h *APIHandlers) validateNodeParameters(node *models.Node) []ValidateIssue {
	factory, ok := h.registry.Factory(node.Type)
	if !ok {
		return []ValidateIssue{{NodeID: node.ID, Detail: "unknown node type " + node.Type}}
	}

	params := node.Parameters
	if params == nil {
		params = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(factory.Schema()),
		gojsonschema.NewGoLoader(params),
	)
	if err != nil {
		return []ValidateIssue{{NodeID: node.ID, Detail: "schema validation failed: " + err.Error()}}
	}

	issues := make([]ValidateIssue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, ValidateIssue{
			NodeID: node.ID,
			Field:  desc.Field(),
			Detail: desc.Description(),
		})
	}

	return issues
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	httpStatus := http.StatusOK
	storeStatus := "ok"

	if h.store != nil {
		if err := h.store.HealthCheck(c.Context()); err != nil {
			status = "unhealthy"
			httpStatus = http.StatusInternalServerError
			storeStatus = err.Error()
		}
	} else {
		storeStatus = "disabled"
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"history_store": storeStatus,
			"handlers":      len(h.registry.Factories()),
		},
		"timestamp": time.Now().UTC(),
	})
}
