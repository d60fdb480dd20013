package engine

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cast"

	"github.com/nodeweave/weave/pkg/models"
)

var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// seedItems builds the single input item handed to an entry node. Every seed
// carries the run scopes plus trigger-type specific context, mirroring what a
// live trigger delivery would contain.
func seedItems(node *models.Node, run models.RunContext) []models.Item {
	payload := map[string]any{
		"node_id":    node.ID,
		"$workflow":  run.WorkflowScope(),
		"$execution": run.ExecutionScope(),
	}

	if len(run.Vars) > 0 {
		payload["$vars"] = run.Vars
	}

	now := run.StartedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	switch node.Type {
	case models.NodeTypeTriggerManual:
		payload["manualTrigger"] = true
		payload["timestamp"] = now.Format(time.RFC3339)

	case models.NodeTypeTriggerSchedule:
		expression := cast.ToString(node.Parameters["cron_expression"])
		payload["scheduledExecution"] = true
		payload["cronExpression"] = expression
		payload["triggerTime"] = now.Format(time.RFC3339)

		if schedule, err := cronParser.Parse(expression); err == nil {
			payload["nextFireAt"] = schedule.Next(now).UTC().Format(time.RFC3339)
		}

	case models.NodeTypeTriggerWebhook:
		payload["headers"] = anyMap(node.Parameters["headers"])
		payload["query"] = anyMap(node.Parameters["query"])
		payload["body"] = anyMap(node.Parameters["body"])

	case models.NodeTypeTriggerForm:
		payload["formData"] = anyMap(node.Parameters["fields"])
		payload["submittedAt"] = now.Format(time.RFC3339)

	case models.NodeTypeTriggerChat:
		payload["message"] = cast.ToString(node.Parameters["message"])
		payload["sessionId"] = cast.ToString(node.Parameters["sessionId"])

	case models.NodeTypeTriggerEmail:
		payload["from"] = cast.ToString(node.Parameters["from"])
		payload["subject"] = cast.ToString(node.Parameters["subject"])
		payload["receivedAt"] = now.Format(time.RFC3339)
	}

	return []models.Item{models.NewItem(payload)}
}

func anyMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}

	return map[string]any{}
}
