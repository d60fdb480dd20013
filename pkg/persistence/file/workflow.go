package file

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/nodeweave/weave/pkg/models"
)

var validate = validator.New()

// LoadWorkflow reads and validates a workflow definition from a JSON file.
func LoadWorkflow(path string) (*models.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("invalid workflow JSON in %s: %w", path, err)
	}

	if err := validate.Struct(&workflow); err != nil {
		return nil, fmt.Errorf("invalid workflow in %s: %w", path, err)
	}

	return &workflow, nil
}
