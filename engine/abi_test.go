package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero/api"

	doomerrors "github.com/wippyai/wasm-doom/errors"
)

func TestDoomABI_CoreTypes(t *testing.T) {
	abi := DoomABI()

	tests := []struct {
		name     string
		isImport bool
		params   []api.ValueType
		results  []api.ValueType
	}{
		{ImportInit, true, nil, nil},
		{ImportDrawFrame, true, nil, nil},
		{ImportSleepMs, true, []api.ValueType{api.ValueTypeI32}, nil},
		{ImportGetTicksMs, true, nil, []api.ValueType{api.ValueTypeI32}},
		{ImportGetKey, true, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}},
		{ImportSetWindowTitle, true, []api.ValueType{api.ValueTypeI32}, nil},
		{ExportCreate, false, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil},
		{ExportTick, false, nil, nil},
		{ExportMalloc, false, []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}},
		{ExportCabiRealloc, false, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sig *Signature
			if tt.isImport {
				sig = abi.Import(tt.name)
			} else {
				sig = abi.Export(tt.name)
			}
			if sig == nil {
				t.Fatal("signature not found")
			}
			if !equalTypes(sig.CoreParams, tt.params) || !equalTypes(sig.CoreResults, tt.results) {
				t.Errorf("core = %s, want %s", sig, formatCore(tt.params, tt.results))
			}
			if len(sig.Params) != len(tt.params) {
				t.Errorf("WIT params = %d, want %d", len(sig.Params), len(tt.params))
			}
		})
	}

	if got := abi.ImportNames(); len(got) != 6 || got[0] != ImportDrawFrame {
		t.Errorf("ImportNames = %v", got)
	}
}

func TestParseABI_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no functions", "// nothing here"},
		{"unknown type", "import f: func(x: widget);"},
		{"non-scalar param", "import f: func(s: string);"},
		{"non-scalar result", "export g: func() -> list<u8>;"},
		{"duplicate", "import f: func();\nexport f: func();"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseABI(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			var de *doomerrors.Error
			if !errors.As(err, &de) || de.Phase != doomerrors.PhaseLink {
				t.Errorf("error = %v, want link phase error", err)
			}
		})
	}
}

func TestParseABI_Scalars(t *testing.T) {
	abi, err := ParseABI(`export f: func(a: bool, b: s64, c: f32, d: f64) -> u64;`)
	if err != nil {
		t.Fatal(err)
	}
	sig := abi.Export("f")
	want := []api.ValueType{api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64}
	if !equalTypes(sig.CoreParams, want) {
		t.Errorf("params = %v", sig.CoreParams)
	}
	if !equalTypes(sig.CoreResults, []api.ValueType{api.ValueTypeI64}) {
		t.Errorf("results = %v", sig.CoreResults)
	}
	if got := sig.String(); got != "(i32, i64, f32, f64) -> (i64)" {
		t.Errorf("String = %q", got)
	}
}

func TestParseABI_Duplicate(t *testing.T) {
	_, err := ParseABI("import DG_Init: func();\nimport DG_Init: func(ms: u32);")
	var de *doomerrors.Error
	if !errors.As(err, &de) || de.Kind != doomerrors.KindInvalidData {
		t.Fatalf("error = %v, want invalid data", err)
	}
	if got := strings.Join(de.Path, "."); got != "import.DG_Init" {
		t.Errorf("Path = %q, want import.DG_Init", got)
	}
}
