package model_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	pkgmodel "github.com/goliatone/go-navparams/pkg/model"
	"github.com/goliatone/go-navparams/pkg/navigation"
	"github.com/goliatone/go-navparams/pkg/testsupport"
)

// jsonRoundTrip normalises numeric defaults to float64 the way the golden
// file decodes them.
func jsonRoundTrip(t *testing.T, form pkgmodel.FormModel) pkgmodel.FormModel {
	t.Helper()
	payload, err := json.Marshal(form)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out pkgmodel.FormModel
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestBuilder_NavigationGolden(t *testing.T) {
	form, err := pkgmodel.NewBuilder().Build(navigation.MustSchema())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	goldenPath := filepath.Join("testdata", "navigation_formmodel.golden.json")
	testsupport.WriteGolden(t, goldenPath, form)
	want := testsupport.MustLoadFormModel(t, goldenPath)

	if diff := testsupport.CompareGolden(want, jsonRoundTrip(t, form)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_ValidationRulesFollowBounds(t *testing.T) {
	form, err := pkgmodel.Build(navigation.MustSchema())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	expectations := map[string][]pkgmodel.ValidationRule{
		navigation.ParamPlannerMaxRetries: {
			{Kind: pkgmodel.ValidationRuleMin, Params: map[string]string{"value": "-1"}},
			{Kind: pkgmodel.ValidationRuleMax, Params: map[string]string{"value": "1000"}},
		},
		navigation.ParamOscillationTimeout: {
			{Kind: pkgmodel.ValidationRuleMin, Params: map[string]string{"value": "0"}},
			{Kind: pkgmodel.ValidationRuleMax, Params: map[string]string{"value": "60"}},
		},
		navigation.ParamGlobalPlanner:   nil,
		navigation.ParamRecoveryEnabled: nil,
	}

	byName := make(map[string]pkgmodel.Field, len(form.Fields))
	for _, field := range form.Fields {
		byName[field.Name] = field
	}
	for name, want := range expectations {
		field, ok := byName[name]
		if !ok {
			t.Fatalf("field %s missing", name)
		}
		if diff := testsupport.CompareGolden(want, field.Validations); diff != "" {
			t.Fatalf("%s validations mismatch (-want +got):\n%s", name, diff)
		}
	}
}
