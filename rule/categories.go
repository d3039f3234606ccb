package rule

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// astAliases maps CPython ast class names to tree-sitter node types, so rule
// files written against the ast-based checker keep working unchanged.
var astAliases = map[string]string{
	"For":          "for_statement",
	"While":        "while_statement",
	"If":           "if_statement",
	"IfExp":        "conditional_expression",
	"With":         "with_statement",
	"Try":          "try_statement",
	"FunctionDef":  "function_definition",
	"ClassDef":     "class_definition",
	"Lambda":       "lambda",
	"ListComp":     "list_comprehension",
	"SetComp":      "set_comprehension",
	"DictComp":     "dictionary_comprehension",
	"GeneratorExp": "generator_expression",
	"List":         "list",
	"Dict":         "dictionary",
	"Set":          "set",
	"Tuple":        "tuple",
	"Call":         "call",
	"Attribute":    "attribute",
	"Subscript":    "subscript",
	"Slice":        "slice",
	"Name":         "identifier",
	"Compare":      "comparison_operator",
	"BinOp":        "binary_operator",
	"BoolOp":       "boolean_operator",
	"UnaryOp":      "unary_operator",
	"Assert":       "assert_statement",
	"Raise":        "raise_statement",
	"Return":       "return_statement",
	"Break":        "break_statement",
	"Continue":     "continue_statement",
	"Pass":         "pass_statement",
	"Global":       "global_statement",
	"Nonlocal":     "nonlocal_statement",
	"Import":       "import_statement",
	"ImportFrom":   "import_from_statement",
	"Match":        "match_statement",
}

var (
	categoriesOnce sync.Once
	categories     map[string]struct{}
)

// grammarCategories enumerates the named node types of the Python grammar.
// Built once from the tree-sitter language itself, so the set tracks the
// grammar version the checker actually parses with.
func grammarCategories() map[string]struct{} {
	categoriesOnce.Do(func() {
		lang := python.GetLanguage()
		count := lang.SymbolCount()
		categories = make(map[string]struct{}, count)
		for i := uint32(0); i < count; i++ {
			sym := sitter.Symbol(i)
			if lang.SymbolType(sym) == sitter.SymbolTypeRegular {
				categories[lang.SymbolName(sym)] = struct{}{}
			}
		}
	})
	return categories
}

// ResolveCategory maps a rule target to a canonical grammar node type.
// It accepts either a tree-sitter node type ("while_statement") or a CPython
// ast alias ("While"). Reports false for names the grammar does not know.
func ResolveCategory(name string) (string, bool) {
	if canonical, ok := astAliases[name]; ok {
		return canonical, true
	}
	if _, ok := grammarCategories()[name]; ok {
		return name, true
	}
	return "", false
}
