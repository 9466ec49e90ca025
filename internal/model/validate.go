package model

import "fmt"

// Validate checks the warehouse configuration invariants.
func (c WarehouseConfig) Validate() error {
	if c.StorageWidth <= 0 || c.StorageLength <= 0 {
		return fmt.Errorf("storage bounds must be positive, got %dx%d", c.StorageWidth, c.StorageLength)
	}
	if c.NumBoxes < 0 {
		return fmt.Errorf("num_boxes must be non-negative, got %d", c.NumBoxes)
	}
	if c.MinSide <= 0 {
		return fmt.Errorf("min_side must be positive, got %d", c.MinSide)
	}
	if c.MinSide >= c.MaxSide {
		return fmt.Errorf("min_side (%d) must be less than max_side (%d)", c.MinSide, c.MaxSide)
	}
	if c.Clearance < 0 {
		return fmt.Errorf("clearance must be non-negative, got %d", c.Clearance)
	}
	return nil
}

// Validate checks the tuning parameters.
func (t Tuning) Validate() error {
	if t.Step <= 0 {
		return fmt.Errorf("step must be positive, got %d", t.Step)
	}
	if t.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must be non-negative, got %d", t.MaxIterations)
	}
	switch t.Algorithm {
	case AlgorithmGreedy, AlgorithmGenetic, "":
	default:
		return fmt.Errorf("unknown algorithm %q", t.Algorithm)
	}
	return nil
}
