package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-navparams/pkg/model"
	"github.com/goliatone/go-navparams/pkg/render"
)

func TestMapErrorPayload_Paths(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{Name: "planner_frequency", Type: model.FieldTypeNumber},
			{Name: "local_planner", Type: model.FieldTypeString},
			{Name: "recovery_enabled", Type: model.FieldTypeBoolean},
		},
	}

	payload := map[string][]string{
		"/planner_frequency":           {"must be <= 100"},
		"body.local_planner":           {"required"},
		"$.body.recovery_enabled":      {"expected bool"},
		"planner_frequency":            {" must be <= 100 ", "too fast"},
		"non_field_errors":             {"Form level error"},
		"request/body/unknown_setting": {"Should fall back to form errors"},
		"":                             {"Unscoped form error"},
	}

	mapped := render.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"planner_frequency": {"must be <= 100", "too fast"},
		"local_planner":     {"required"},
		"recovery_enabled":  {"expected bool"},
	}
	sorted := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff(wantFields, mapped.Fields, sorted); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, sorted); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	mapped := render.MapErrorPayload(model.FormModel{}, nil)
	if len(mapped.Fields) != 0 || len(mapped.Form) != 0 {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
