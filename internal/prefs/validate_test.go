package prefs_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"expyvr/internal/prefs"
)

func loadTestDocument(t *testing.T, content string) *prefs.Document {
	t.Helper()
	schema := writeSchema(t, testSchema)
	dataPath := writeFile(t, filepath.Join(t.TempDir(), "prefs.cfg"), content)
	doc, err := prefs.LoadDocument(schema, dataPath, prefs.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	return doc
}

func findDiscrepancy(result prefs.Result, location string) (prefs.Discrepancy, bool) {
	for _, d := range result.Discrepancies {
		if d.Location() == location {
			return d, true
		}
	}
	return prefs.Discrepancy{}, false
}

func TestValidateWrongTypeAtRootIsRepairedToDefault(t *testing.T) {
	doc := loadTestDocument(t, "minimum = \"abc\"\n[display]\n[general]\n")

	result := prefs.Validate(doc)
	d, ok := findDiscrepancy(result, "minimum")
	if !ok {
		t.Fatalf("expected minimum to be flagged, got %+v", result.Discrepancies)
	}
	if len(d.Path) != 0 || d.Key == nil || *d.Key != "minimum" {
		t.Fatalf("expected root location, got path=%v key=%v", d.Path, d.Key)
	}
	if d.Kind != prefs.KindWrongType {
		t.Fatalf("kind = %s, want %s", d.Kind, prefs.KindWrongType)
	}

	repaired, unresolved := prefs.Repair(doc, result)
	if len(unresolved) != 0 {
		t.Fatalf("unexpected unresolved: %+v", unresolved)
	}
	if got := repaired.Data["minimum"]; got != 0.0 {
		t.Fatalf("minimum = %#v, want 0.0", got)
	}
	if got := doc.Data["minimum"]; got != "abc" {
		t.Fatalf("Repair must not modify its input, minimum = %#v", got)
	}
}

func TestValidateMissingSectionIsReportedNotFabricated(t *testing.T) {
	doc := loadTestDocument(t, "minimum = 1.5\n[general]\nunits = 'cm'\n")

	result := prefs.Validate(doc)
	d, ok := findDiscrepancy(result, "[display]")
	if !ok {
		t.Fatalf("expected [display] to be reported, got %+v", result.Discrepancies)
	}
	if d.Key != nil || d.Kind != prefs.KindSectionMissing {
		t.Fatalf("expected section-level discrepancy with nil key, got %+v", d)
	}
	if _, ok := findDiscrepancy(result, "display.fullscreen"); ok {
		t.Fatal("missing section must not be descended into")
	}

	repaired, unresolved := prefs.ValidateAndRepair(doc, nil)
	if len(unresolved.Unresolved) != 1 || unresolved.Unresolved[0].Key != nil {
		t.Fatalf("expected only the section to stay unresolved, got %+v", unresolved.Unresolved)
	}
	if _, ok := repaired.Section("display"); ok {
		t.Fatal("repair must not fabricate the missing section")
	}
	if got, _ := repaired.Lookup("general.units"); got != "cm" {
		t.Fatalf("valid value must survive repair, units = %#v", got)
	}
	if got, _ := repaired.Lookup("general.count"); got != int64(3) {
		t.Fatalf("missing key should take default, count = %#v", got)
	}
}

func TestValidateClassifiesFailures(t *testing.T) {
	doc := loadTestDocument(t, `minimum = 1
[display]
fullscreen = "maybe"
[general]
units = "inches"
count = 42
name = "ok"
sizes = [1, 2]
extra = "ignored"
`)

	result := prefs.Validate(doc)
	want := map[string]prefs.Kind{
		"minimum":            prefs.KindCoerced,
		"display.fullscreen": prefs.KindWrongType,
		"general.units":      prefs.KindNotOption,
		"general.count":      prefs.KindOutOfRange,
	}
	if len(result.Discrepancies) != len(want) {
		t.Fatalf("expected %d discrepancies, got %+v", len(want), result.Discrepancies)
	}
	for location, kind := range want {
		d, ok := findDiscrepancy(result, location)
		if !ok {
			t.Fatalf("expected %s to be flagged", location)
		}
		if d.Kind != kind {
			t.Fatalf("%s kind = %s, want %s", location, d.Kind, kind)
		}
	}

	coerced, _ := findDiscrepancy(result, "minimum")
	if coerced.Value != float64(1) {
		t.Fatalf("coerced value = %#v, want float64(1)", coerced.Value)
	}

	repaired, _ := prefs.Repair(doc, result)
	if got := repaired.Data["minimum"]; got != float64(1) {
		t.Fatalf("coerced value should be kept in converted form, got %#v", got)
	}
	if got, _ := repaired.Lookup("general.extra"); got != "ignored" {
		t.Fatalf("undeclared keys pass through, got %#v", got)
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"minimum = \"abc\"\n",
		"[general]\ncount = 0\nunits = 3\nsizes = \"x\"\n",
		"[display]\nfullscreen = 1\n[general]\ncount = \"4\"\n",
	}
	for _, input := range inputs {
		doc := loadTestDocument(t, input)
		repaired, _ := prefs.Repair(doc, prefs.Validate(doc))
		if keyed := prefs.Validate(repaired).Keyed(); len(keyed) != 0 {
			t.Fatalf("input %q: expected no keyed discrepancies after repair, got %+v", input, keyed)
		}
		again, _ := prefs.Repair(repaired, prefs.Validate(repaired))
		if !reflect.DeepEqual(again.Data, repaired.Data) {
			t.Fatalf("input %q: second repair changed data", input)
		}
	}
}

func TestRepairLeavesKeysWithoutDefault(t *testing.T) {
	schema := writeSchema(t, "[general]\nrequired = \"integer(0, 5)\"\n")
	doc, err := prefs.LoadDocument(schema, filepath.Join(t.TempDir(), "prefs.cfg"), prefs.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	_, unresolved := prefs.Repair(doc, prefs.Validate(doc))
	if len(unresolved) != 1 || unresolved[0].Location() != "general.required" {
		t.Fatalf("expected general.required unresolved, got %+v", unresolved)
	}
}
