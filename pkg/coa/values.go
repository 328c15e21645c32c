package coa

import (
	"fmt"
	"strings"
)

// COAType selects the certificate variant, which determines the
// placeholder key set a template is expected to carry.
type COAType string

const (
	// TypeMOD is the modified-starch certificate: moisture, 30/60
	// minute viscosities and pH per batch.
	TypeMOD COAType = "MOD"
	// TypeFAR is the FAR-grade certificate: the MOD measurements at
	// 2h/24h staging plus mesh %, bulk density and two Fann readings.
	TypeFAR COAType = "FAR"
)

// Valid reports whether t names a known certificate variant.
func (t COAType) Valid() bool {
	return t == TypeMOD || t == TypeFAR
}

// MaxBatches is the number of batch columns a certificate template
// carries. Templates always declare all four; unused batches are
// filled with empty strings.
const MaxBatches = 4

// Batch holds the lab values for one production batch. All values are
// free-form strings: the generator performs no computation or
// validation on them.
type Batch struct {
	Label       string `yaml:"label"`
	Moisture    string `yaml:"moisture"`
	Viscosity1  string `yaml:"viscosity1"`
	Viscosity2  string `yaml:"viscosity2"`
	PH          string `yaml:"ph"`
	Mesh        string `yaml:"mesh"`
	BulkDensity string `yaml:"bulk_density"`
	Fann3       string `yaml:"fann3"`
	Fann30      string `yaml:"fann30"`
}

// BuildReplacements expands a date and up to MaxBatches batches into
// the flat placeholder mapping the templates use. The date lands under
// both DD/MM/YYYY and DD-MM-YYYY (slashes swapped) for templates that
// use either spelling. Batches beyond those supplied map to empty
// strings so leftover placeholders do not survive into the output.
func BuildReplacements(date string, typ COAType, batches []Batch) Replacements {
	r := Replacements{
		"DD/MM/YYYY": date,
		"DD-MM-YYYY": strings.ReplaceAll(date, "/", "-"),
	}

	for i := 0; i < MaxBatches; i++ {
		var b Batch
		if i < len(batches) {
			b = batches[i]
		}
		n := i + 1

		r[fmt.Sprintf("BATCH_%d", n)] = b.Label
		r[fmt.Sprintf("M%d", n)] = b.Moisture
		r[fmt.Sprintf("B%dV1", n)] = b.Viscosity1
		r[fmt.Sprintf("B%dV2", n)] = b.Viscosity2
		r[fmt.Sprintf("PH%d", n)] = b.PH

		if typ == TypeFAR {
			r[fmt.Sprintf("MESH%d", n)] = b.Mesh
			r[fmt.Sprintf("BD%d", n)] = b.BulkDensity
			r[fmt.Sprintf("F%d", n)] = b.Fann3
			r[fmt.Sprintf("FV%d", n)] = b.Fann30
		}
	}
	return r
}
