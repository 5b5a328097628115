package annotations

import "go/ast"

// isTypeExpr reports whether a parsed expression has the shape of a Go type.
// go/parser.ParseExpr accepts arbitrary expressions, so values like "f()" or
// "1+2" parse fine and must be filtered here.
func isTypeExpr(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := e.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return isTypeExpr(e.X)
	case *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.FuncType,
		*ast.InterfaceType, *ast.StructType:
		return true
	case *ast.IndexExpr:
		return isTypeExpr(e.X)
	case *ast.IndexListExpr:
		return isTypeExpr(e.X)
	case *ast.ParenExpr:
		return isTypeExpr(e.X)
	default:
		return false
	}
}
