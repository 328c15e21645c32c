// Package coa fills Certificate of Analysis templates: DOCX documents
// carrying {{KEY}} placeholders that are replaced with per-batch lab
// values while the surrounding run styling is preserved.
//
// Basic usage:
//
//	tmpl, err := coa.PrepareFile("PH LIPL MOD COA.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	values := coa.BuildReplacements("21/08/2026", coa.TypeMOD, []coa.Batch{
//	    {Label: "L-204", Moisture: "8.1", Viscosity1: "3200", Viscosity2: "3600", PH: "7.2"},
//	})
//
//	out, err := tmpl.Fill(values)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("COA_MOD_L-204.docx", out, 0o644)
//
// A placeholder token may be fragmented across several differently
// styled runs; the substitution engine maps character offsets across
// the runs of each paragraph, merges the affected runs into the first
// one and keeps that run's style. Corrupted delimiters ("((" and "))"
// in place of "{{" and "}}") are repaired before matching. Body
// paragraphs, table cells and header/footer parts all go through the
// same pipeline.
package coa
