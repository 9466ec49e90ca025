package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StowPack/internal/model"
)

func buildLabelsTestResult() model.PackingResult {
	return model.PackingResult{
		RunID: "test-run",
		Boxes: []model.Box{
			{ID: 0, Width: 60, Height: 40, X: 0, Y: 0, Packed: true},
			{ID: 1, Width: 30, Height: 50, X: 80, Y: 0, Rotated: true, Packed: true},
			{ID: 2, Width: 40, Height: 40, Packed: false},
		},
		RetrievalOrder: []int{1, 2, 0},
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	result := buildLabelsTestResult()
	err := ExportLabels(path, result)
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_NoPlacedBoxes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	result := model.PackingResult{
		Boxes: []model.Box{
			{ID: 0, Width: 40, Height: 40, Packed: false},
		},
		RetrievalOrder: []int{0},
	}
	err := ExportLabels(path, result)
	if err == nil {
		t.Fatal("expected error for result with no placed boxes, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	result := buildLabelsTestResult()
	labels := CollectLabelInfos(result)

	// Box 2 is unpacked and gets no label; the rest follow retrieval order.
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}

	if labels[0].BoxID != 1 {
		t.Errorf("expected box 1 first (retrieval order), got %d", labels[0].BoxID)
	}
	if labels[0].RetrievalRank != 1 {
		t.Errorf("expected retrieval rank 1, got %d", labels[0].RetrievalRank)
	}
	if !labels[0].Rotated {
		t.Error("expected first label to be rotated")
	}
	if labels[0].X != 80 || labels[0].Y != 0 {
		t.Errorf("wrong slot: got (%d, %d), want (80, 0)", labels[0].X, labels[0].Y)
	}

	if labels[1].BoxID != 0 {
		t.Errorf("expected box 0 second, got %d", labels[1].BoxID)
	}
	if labels[1].RetrievalRank != 3 {
		t.Errorf("expected retrieval rank 3, got %d", labels[1].RetrievalRank)
	}
	if labels[1].RunID != "test-run" {
		t.Errorf("expected run id on label, got %q", labels[1].RunID)
	}
}

func TestLabelInfo_JSONRoundTrip(t *testing.T) {
	info := LabelInfo{
		BoxID:         7,
		RunID:         "run-1",
		Width:         30,
		Height:        20,
		X:             50,
		Y:             100,
		Rotated:       true,
		RetrievalRank: 4,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded LabelInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if decoded != info {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, info)
	}
}

func TestExportLabels_ManyBoxes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many_labels.pdf")

	// 35 boxes exercise multi-page label generation.
	result := model.PackingResult{RunID: "test-run"}
	for i := 0; i < 35; i++ {
		result.Boxes = append(result.Boxes, model.Box{
			ID:     i,
			Width:  30 + i,
			Height: 20 + i,
			X:      i * 40,
			Y:      0,
			Packed: true,
		})
		result.RetrievalOrder = append(result.RetrievalOrder, i)
	}

	err := ExportLabels(path, result)
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestCollectLabelInfos_IgnoresUnknownIDs(t *testing.T) {
	result := model.PackingResult{
		Boxes: []model.Box{
			{ID: 0, Width: 30, Height: 30, Packed: true},
		},
		RetrievalOrder: []int{5, 0},
	}

	labels := CollectLabelInfos(result)
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}
	if labels[0].RetrievalRank != 2 {
		t.Errorf("expected rank 2, got %d", labels[0].RetrievalRank)
	}
}
