package coa

import "testing"

func TestFillElementsWalksTablesRowMajor(t *testing.T) {
	table := &Table{
		Rows: []*TableRow{
			{Cells: []*TableCell{
				{Elements: []BodyElement{makePara("{{BATCH_1}}")}},
				{Elements: []BodyElement{makePara("{{BATCH_2}}")}},
			}},
			{Cells: []*TableCell{
				{Elements: []BodyElement{makePara("{{M1}}")}},
				{Elements: []BodyElement{makePara("{{M2}}")}},
			}},
		},
	}
	elements := []BodyElement{
		makePara("Date: {{DD/MM/YYYY}}"),
		table,
	}

	values := Replacements{
		"DD/MM/YYYY": "21/08/2026",
		"BATCH_1":    "L-204",
		"BATCH_2":    "L-205",
		"M1":         "8.1",
		"M2":         "8.4",
	}

	if n := FillElements(elements, values); n != 5 {
		t.Fatalf("replacements = %d, want 5", n)
	}

	wantCells := [][]string{
		{"L-204", "L-205"},
		{"8.1", "8.4"},
	}
	for i, row := range table.Rows {
		for j, cell := range row.Cells {
			got := cell.Elements[0].(*Paragraph).Text()
			if got != wantCells[i][j] {
				t.Errorf("cell [%d][%d] = %q, want %q", i, j, got, wantCells[i][j])
			}
		}
	}
}

func TestFillElementsNestedTable(t *testing.T) {
	inner := &Table{
		Rows: []*TableRow{
			{Cells: []*TableCell{
				{Elements: []BodyElement{makePara("{{PH1}}")}},
			}},
		},
	}
	outer := &Table{
		Rows: []*TableRow{
			{Cells: []*TableCell{
				{Elements: []BodyElement{makePara("header"), inner}},
			}},
		},
	}

	FillElements([]BodyElement{outer}, Replacements{"PH1": "7.0"})

	got := inner.Rows[0].Cells[0].Elements[0].(*Paragraph).Text()
	if got != "7.0" {
		t.Errorf("nested cell text = %q, want %q", got, "7.0")
	}
}

func TestFillElementsCoverage(t *testing.T) {
	// After filling, no token whose key exists in the mapping may
	// remain anywhere in the containers.
	elements := []BodyElement{
		makePara("{{M1}} then {{M1}} again"),
		makePara("{{", "M1", "}}"),
	}
	FillElements(elements, Replacements{"M1": "8.1"})

	forEachParagraph(elements, func(p *Paragraph) {
		if text := p.Text(); placeholderPattern.MatchString(text) {
			t.Errorf("placeholder survived in %q", text)
		}
	})
}
