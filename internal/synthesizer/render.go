package synthesizer

import (
	"fmt"
	"strings"

	"github.com/flexigen/flexigen/internal/models"
)

// unitType is the value arm used when the primary yields no value
var unitType = runtimePkg + ".Unit"

// renderAsyncVariant emits the deferred counterpart: same receiver, generics,
// and parameters, returning a *flexi.Task whose arms follow the return-type
// decision. The body spawns a closure that calls the primary, so statement
// order inside the shared body is untouched.
func renderAsyncVariant(signature *models.FunctionSignature, name string, a arms) string {
	valueType := a.value
	if !a.hasValue {
		valueType = unitType
	}
	taskType := fmt.Sprintf("*%s.Task[%s, %s]", runtimePkg, valueType, a.errType)

	var b strings.Builder
	fmt.Fprintf(&b, "// %s runs %s on its own goroutine and settles to its outcome.\n", name, signature.Name)
	writeDirectives(&b, signature)
	fmt.Fprintf(&b, "func %s%s%s(%s) %s {\n",
		signature.ReceiverDecl(), name, signature.TypeParamDecls(), signature.ParamDecls(), taskType)

	switch {
	case a.reuse && a.converted:
		// The primary's own arms carry through; a typed nil error arm must
		// stay a success, so the closure never hops through the error
		// interface.
		fmt.Fprintf(&b, "\treturn %s.SpawnFrom(func() (%s, %s) {\n", runtimePkg, valueType, a.errType)
	case a.converted:
		fmt.Fprintf(&b, "\treturn %s.SpawnAs(%s.ConvertAs[%s], func() (%s, error) {\n",
			runtimePkg, runtimePkg, a.errType, valueType)
	default:
		fmt.Fprintf(&b, "\treturn %s.Spawn(func() (%s, error) {\n", runtimePkg, valueType)
	}
	writeCallReturn(&b, signature, "\t\t")
	b.WriteString("\t})\n")
	b.WriteString("}\n")
	return b.String()
}

// renderSyncVariant emits the synchronous fallible wrapper used by block
// annotations in sync mode: the wrapped return shape without the goroutine,
// panics recovered into the error arm.
func renderSyncVariant(signature *models.FunctionSignature, name string, a arms) string {
	valueType := a.value
	if !a.hasValue {
		valueType = unitType
	}

	var b strings.Builder
	if a.reuse && a.converted {
		fmt.Fprintf(&b, "// %s calls %s and passes its result arms through unchanged.\n", name, signature.Name)
	} else {
		fmt.Fprintf(&b, "// %s calls %s with panics recovered into the error result.\n", name, signature.Name)
	}
	writeDirectives(&b, signature)

	returns := a.errType
	if a.hasValue {
		returns = fmt.Sprintf("(%s, %s)", a.value, a.errType)
	}
	fmt.Fprintf(&b, "func %s%s%s(%s) %s {\n",
		signature.ReceiverDecl(), name, signature.TypeParamDecls(), signature.ParamDecls(), returns)

	if a.reuse && a.converted {
		// Concrete arms pass through untouched; a panic propagates to the
		// caller exactly as a direct call would.
		fmt.Fprintf(&b, "\treturn %s(%s)\n", signature.CallTarget(), signature.CallArgs())
		b.WriteString("}\n")
		return b.String()
	}

	closure := renderCallClosure(signature, valueType)

	switch {
	case a.hasValue && !a.converted:
		fmt.Fprintf(&b, "\treturn %s.Call(%s)\n", runtimePkg, closure)
	case a.hasValue && a.converted:
		fmt.Fprintf(&b, "\tvalue, err := %s.Call(%s)\n", runtimePkg, closure)
		b.WriteString("\tif err != nil {\n")
		fmt.Fprintf(&b, "\t\treturn value, %s.ConvertAs[%s](err)\n", runtimePkg, a.errType)
		b.WriteString("\t}\n")
		b.WriteString("\treturn value, nil\n")
	case !a.hasValue && !a.converted:
		fmt.Fprintf(&b, "\t_, err := %s.Call(%s)\n", runtimePkg, closure)
		b.WriteString("\treturn err\n")
	default:
		fmt.Fprintf(&b, "\tif _, err := %s.Call(%s); err != nil {\n", runtimePkg, closure)
		fmt.Fprintf(&b, "\t\treturn %s.ConvertAs[%s](err)\n", runtimePkg, a.errType)
		b.WriteString("\t}\n")
		b.WriteString("\treturn nil\n")
	}

	b.WriteString("}\n")
	return b.String()
}

// renderCallClosure renders the closure that invokes the primary and coerces
// its outcome into the wrapped (value, error) shape
func renderCallClosure(signature *models.FunctionSignature, valueType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func() (%s, error) {\n", valueType)
	writeCallReturn(&b, signature, "\t\t")
	b.WriteString("\t}")
	return b.String()
}

// writeCallReturn writes the statements that call the primary and return its
// outcome in (value, error) shape
func writeCallReturn(b *strings.Builder, signature *models.FunctionSignature, indent string) {
	call := fmt.Sprintf("%s(%s)", signature.CallTarget(), signature.CallArgs())

	switch {
	case len(signature.Results) == 0:
		fmt.Fprintf(b, "%s%s\n", indent, call)
		fmt.Fprintf(b, "%sreturn %s{}, nil\n", indent, unitType)
	case signature.ResultLike() && signature.ValueResult() == nil:
		fmt.Fprintf(b, "%sreturn %s{}, %s\n", indent, unitType, call)
	case signature.ResultLike():
		fmt.Fprintf(b, "%sreturn %s\n", indent, call)
	default:
		fmt.Fprintf(b, "%sreturn %s, nil\n", indent, call)
	}
}

// writeDirectives replicates the primary's //go: directives onto the variant
func writeDirectives(b *strings.Builder, signature *models.FunctionSignature) {
	for _, directive := range signature.Directives {
		b.WriteString(directive)
		b.WriteString("\n")
	}
}
