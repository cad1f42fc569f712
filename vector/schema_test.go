package vector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestV1(t *testing.T) {
	s := V1()
	if err := s.Validate(); err != nil {
		t.Fatalf("pinned schema must validate: %v", err)
	}
	if s.Version != "v1" {
		t.Errorf("version: got %q", s.Version)
	}
	if s.N() != 24 {
		t.Errorf("dimensionality: got %d, want 24", s.N())
	}
	names := s.Names()
	if len(names) != s.N() {
		t.Fatalf("names length %d != N %d", len(names), s.N())
	}
	if names[0] != SlotBrandHueCos {
		t.Errorf("slot order: first is %q", names[0])
	}
}

func TestSchemaValidate_Failures(t *testing.T) {
	cases := []struct {
		name string
		s    Schema
	}{
		{"empty version", Schema{Features: []Feature{{Name: "a", Strategy: Strategy{Kind: Linear, Max: 1}}}}},
		{"no features", Schema{Version: "v1"}},
		{"unnamed feature", Schema{Version: "v1", Features: []Feature{{Strategy: Strategy{Kind: Linear, Max: 1}}}}},
		{"duplicate name", Schema{Version: "v1", Features: []Feature{
			{Name: "a", Strategy: Strategy{Kind: Linear, Max: 1}},
			{Name: "a", Strategy: Strategy{Kind: Linear, Max: 1}},
		}}},
		{"broken strategy", Schema{Version: "v1", Features: []Feature{
			{Name: "a", Strategy: Strategy{Kind: Log}},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.s.Validate()
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("want ConfigurationError, got %v", err)
			}
		})
	}
}

func TestLoadSchema(t *testing.T) {
	doc := `version: v1-custom
features:
  - name: brand_chroma_peak
    strategy:
      kind: linear
      min: 0
      max: 150
  - name: typo_hierarchy_depth
    strategy:
      kind: piecewise
      points:
        - {x: 0, y: 0}
        - {x: 1, y: 1}
  - name: layout_element_scale_variance
    strategy:
      kind: log-zscore
      mean: 1.1
      std: 0.7
`
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Version != "v1-custom" || s.N() != 3 {
		t.Errorf("got version %q, n %d", s.Version, s.N())
	}
	if s.Features[2].Strategy.Kind != LogZScore || s.Features[2].Strategy.Std != 0.7 {
		t.Errorf("overlay strategy: %+v", s.Features[2].Strategy)
	}
}

func TestLoadSchema_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	doc := `version: ""
features:
  - name: a
    strategy: {kind: linear, min: 0, max: 1}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSchema(path); err == nil {
		t.Fatal("empty version must fail validation")
	}
	if _, err := LoadSchema(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file must error")
	}
}
