package models

import "testing"

func TestIsErrorShaped(t *testing.T) {
	shaped := []string{"error", "*error", "MyError", "*MyError", "pkg.ParseError", "*pkg.ParseError"}
	for _, s := range shaped {
		if !IsErrorShaped(s) {
			t.Errorf("expected %q to be error-shaped", s)
		}
	}

	unshaped := []string{"int", "string", "*Config", "pkg.Result", "[]error", "Errors"}
	for _, s := range unshaped {
		if IsErrorShaped(s) {
			t.Errorf("expected %q not to be error-shaped", s)
		}
	}
}

func TestResultArms(t *testing.T) {
	sig := &FunctionSignature{
		Name:    "Load",
		Results: []Result{{Type: "[]byte"}, {Type: "*LoadError"}},
	}

	if !sig.ResultLike() {
		t.Fatal("expected result-like signature")
	}
	if value := sig.ValueResult(); value == nil || value.Type != "[]byte" {
		t.Errorf("unexpected value arm: %+v", value)
	}
	if errArm := sig.ErrorResult(); errArm == nil || errArm.Type != "*LoadError" {
		t.Errorf("unexpected error arm: %+v", errArm)
	}
}

func TestResultArmsPlainValue(t *testing.T) {
	sig := &FunctionSignature{
		Name:    "Render",
		Results: []Result{{Type: "string"}},
	}

	if sig.ResultLike() {
		t.Error("plain value signature must not be result-like")
	}
	if value := sig.ValueResult(); value == nil || value.Type != "string" {
		t.Errorf("unexpected value arm: %+v", value)
	}
	if sig.ErrorResult() != nil {
		t.Error("expected nil error arm")
	}
}

func TestResultArmsUnit(t *testing.T) {
	sig := &FunctionSignature{Name: "Tick"}

	if sig.ResultLike() {
		t.Error("empty result list must not be result-like")
	}
	if sig.ValueResult() != nil {
		t.Error("expected nil value arm for unit function")
	}
}

func TestVariantNameDefaults(t *testing.T) {
	tests := []struct {
		config  VariantConfig
		primary string
		want    string
	}{
		{VariantConfig{}, "Fetch", "FetchAsync"},
		{VariantConfig{Mode: ModeSync}, "Parse", "ParseChecked"},
		{VariantConfig{NameOverride: "FetchDeferred"}, "Fetch", "FetchDeferred"},
		{VariantConfig{Mode: ModeSync, NameOverride: "TryParse"}, "Parse", "TryParse"},
	}

	for _, tt := range tests {
		if got := tt.config.VariantName(tt.primary); got != tt.want {
			t.Errorf("VariantName(%q) = %q, want %q", tt.primary, got, tt.want)
		}
	}
}

func TestErrorTypeResolution(t *testing.T) {
	var config VariantConfig
	if got := config.ErrorType(); got != "error" {
		t.Errorf("default error type = %q, want error", got)
	}
	if config.HasErrorOverride() {
		t.Error("zero config must not report an override")
	}

	config.ErrorOverride = "*StoreError"
	if got := config.ErrorType(); got != "*StoreError" {
		t.Errorf("overridden error type = %q", got)
	}
	if !config.HasErrorOverride() {
		t.Error("expected override to be reported")
	}
}

func TestParamRendering(t *testing.T) {
	sig := &FunctionSignature{
		Name: "Join",
		Params: []Param{
			{Name: "sep", Type: "string"},
			{Name: "", Type: "...int"},
		},
	}

	if got := sig.ParamDecls(); got != "sep string, arg1 ...int" {
		t.Errorf("ParamDecls() = %q", got)
	}
	if got := sig.CallArgs(); got != "sep, arg1..." {
		t.Errorf("CallArgs() = %q", got)
	}
}

func TestGenericAndReceiverRendering(t *testing.T) {
	sig := &FunctionSignature{
		Name:       "Get",
		Receiver:   &Receiver{Name: "c", Type: "*Cache[K, V]"},
		TypeParams: []TypeParam{{Name: "K", Constraint: "comparable"}, {Name: "V", Constraint: "any"}},
	}

	if got := sig.TypeParamDecls(); got != "[K comparable, V any]" {
		t.Errorf("TypeParamDecls() = %q", got)
	}
	if got := sig.ReceiverDecl(); got != "(c *Cache[K, V]) " {
		t.Errorf("ReceiverDecl() = %q", got)
	}
	if got := sig.CallTarget(); got != "c.Get" {
		t.Errorf("CallTarget() = %q", got)
	}
	if !sig.IsMethod() {
		t.Error("expected method")
	}
}

func TestExported(t *testing.T) {
	exported := &FunctionSignature{Name: "Fetch"}
	if !exported.Exported() {
		t.Error("Fetch should be exported")
	}
	unexported := &FunctionSignature{Name: "fetch"}
	if unexported.Exported() {
		t.Error("fetch should not be exported")
	}
}
