package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetAndTraverseNestedMap(t *testing.T) {
	root := map[string]interface{}{
		"preferences": map[string]interface{}{"default_model": "a"},
		"scalar":      1,
	}

	if !SetNestedMapValue(root, []string{"preferences", "default_model"}, "b") {
		t.Fatal("set existing key failed")
	}
	if !SetNestedMapValue(root, []string{"scalar", "child"}, true) {
		t.Fatal("set through scalar failed")
	}
	if SetNestedMapValue(root, nil, "x") {
		t.Error("empty path should fail")
	}

	if got, ok := TraverseNestedMap(root, []string{"preferences", "default_model"}); !ok || got != "b" {
		t.Errorf("default_model = %v, %v", got, ok)
	}
	if got, ok := TraverseNestedMap(root, []string{"scalar", "child"}); !ok || got != true {
		t.Errorf("scalar.child = %v, %v", got, ok)
	}
	if _, ok := TraverseNestedMap(root, []string{"preferences", "missing"}); ok {
		t.Error("missing key should not be found")
	}
	if _, ok := TraverseNestedMap(root, []string{"preferences", "default_model", "deeper"}); ok {
		t.Error("traversing into a string should fail")
	}
}

func TestParseYAMLValue(t *testing.T) {
	if got := ParseYAMLValue("42"); got != 42 {
		t.Errorf("int = %#v", got)
	}
	if got := ParseYAMLValue("[a, b]"); !cmp.Equal(got, []interface{}{"a", "b"}) {
		t.Errorf("list = %#v", got)
	}
	if got := ParseYAMLValue("key: [unclosed"); got != "key: [unclosed" {
		t.Errorf("invalid yaml = %#v", got)
	}
}

func TestSplitAndTrimCSV(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "b"}, SplitAndTrimCSV(" a , ,b ")); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if SplitAndTrimCSV("") != nil {
		t.Error("empty input should return nil")
	}
}

func TestLoadPromptOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("answer: Be brief.\nsuggest: Only commands.\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	prompts, err := LoadPromptOverridesFromFile(path)
	if err != nil {
		t.Fatalf("LoadPromptOverridesFromFile: %v", err)
	}
	if prompts.Answer != "Be brief." || prompts.Suggest != "Only commands." || prompts.Sanitize != "" {
		t.Errorf("prompts = %+v", prompts)
	}

	if _, err := LoadPromptOverridesFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
