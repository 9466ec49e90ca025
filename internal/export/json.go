package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/StowPack/internal/model"
)

// jsonReport is the on-disk JSON shape: the result plus the warehouse
// configuration that produced it, so a run can be replayed or audited.
type jsonReport struct {
	Warehouse model.WarehouseConfig `json:"warehouse"`
	Result    model.PackingResult   `json:"result"`
}

// ExportJSON writes the packing result and its warehouse configuration to the
// given path as indented JSON.
func ExportJSON(path string, result model.PackingResult, cfg model.WarehouseConfig) error {
	data, err := json.MarshalIndent(jsonReport{Warehouse: cfg, Result: result}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadJSON loads a previously exported packing result.
func ReadJSON(path string) (model.PackingResult, model.WarehouseConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PackingResult{}, model.WarehouseConfig{}, err
	}
	var report jsonReport
	if err := json.Unmarshal(data, &report); err != nil {
		return model.PackingResult{}, model.WarehouseConfig{}, fmt.Errorf("parse result JSON: %w", err)
	}
	return report.Result, report.Warehouse, nil
}
