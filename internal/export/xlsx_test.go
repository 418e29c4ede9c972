package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, Sheet{
		Name:   "Sales Report",
		Header: []string{"Date", "Product", "Quantity", "Price", "Total", "Customer"},
		Rows: [][]interface{}{
			{"2024-05-01", "Aviator frame", 3, 150.5, 451.5, "Asha Rao"},
			{"2024-05-02", "Lens cleaner", 1, 99, 99, "N/A"},
		},
	})
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sales Report")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][5] != "Customer" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][1] != "Aviator frame" || rows[1][2] != "3" || rows[2][5] != "N/A" {
		t.Fatalf("data rows = %v", rows[1:])
	}
}

func TestWriteXLSXNeedsSheet(t *testing.T) {
	if err := WriteXLSX(&bytes.Buffer{}); err == nil {
		t.Fatalf("expected error with no sheets")
	}
}
