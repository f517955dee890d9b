package lang

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/archdrift/internal/graph"
)

// pyExtractor extracts class definitions, their annotated members, and
// from-imports from Python source files. A class whose bases include
// Protocol is recorded as a protocol; Enum bases mark it an enum.
type pyExtractor struct{}

// pyBuiltins are builtin and typing names excluded from edge targets.
// Container names are excluded while their type arguments are kept.
var pyBuiltins = map[string]bool{
	"str": true, "int": true, "float": true, "bool": true, "bytes": true,
	"complex": true, "None": true, "object": true, "type": true,
	"list": true, "dict": true, "set": true, "tuple": true, "frozenset": true,
	"Any": true, "Optional": true, "Union": true, "List": true, "Dict": true,
	"Set": true, "Tuple": true, "FrozenSet": true, "Callable": true,
	"Iterable": true, "Iterator": true, "Sequence": true, "Mapping": true,
	"Awaitable": true, "Coroutine": true, "Generator": true, "Type": true,
	"ClassVar": true, "Final": true, "Annotated": true, "Literal": true,
	"Self": true,
}

// pyEnumBases mark a class as an enum declaration.
var pyEnumBases = map[string]bool{
	"Enum": true, "IntEnum": true, "StrEnum": true, "Flag": true, "IntFlag": true,
}

func (e *pyExtractor) Extract(root *tree_sitter.Node, source []byte, filePath string) graph.Fragment {
	var frag graph.Fragment
	var imports []string

	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, filePath, &frag, &imports)

	for _, n := range frag.Nodes {
		appendEdges(&frag.Edges, n.Name, imports, graph.EdgeKindImport)
	}
	return frag
}

func (e *pyExtractor) walk(
	cursor *tree_sitter.TreeCursor,
	source []byte,
	filePath string,
	frag *graph.Fragment,
	imports *[]string,
) {
	node := cursor.Node()
	descend := true

	switch node.Kind() {
	case "class_definition":
		e.extractClass(node, source, filePath, frag)
		descend = false

	case "type_alias_statement":
		// PEP 695 `type Alias = ...`.
		if name := e.aliasName(node, source); name != "" {
			frag.Nodes = append(frag.Nodes, graph.GraphNode{
				Name: name, Kind: graph.NodeKindAlias, File: filePath, Line: lineOf(node),
			})
		}
		descend = false

	case "import_from_statement":
		e.collectImports(node, source, imports)
		descend = false
	}

	if descend && cursor.GotoFirstChild() {
		e.walk(cursor, source, filePath, frag, imports)
		for cursor.GotoNextSibling() {
			e.walk(cursor, source, filePath, frag, imports)
		}
		cursor.GotoParent()
	}
}

func (e *pyExtractor) extractClass(
	node *tree_sitter.Node,
	source []byte,
	filePath string,
	frag *graph.Fragment,
) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)

	bases := e.baseRefs(node.ChildByFieldName("superclasses"), source)
	kind := graph.NodeKindClass
	for _, base := range bases {
		if base == "Protocol" {
			kind = graph.NodeKindProtocol
		}
		if pyEnumBases[base] {
			kind = graph.NodeKindEnum
		}
	}
	frag.Nodes = append(frag.Nodes, graph.GraphNode{
		Name: name, Kind: kind, File: filePath, Line: lineOf(node),
	})

	var extends []string
	for _, base := range bases {
		if base == "Protocol" || pyEnumBases[base] || pyBuiltins[base] {
			continue
		}
		extends = append(extends, base)
	}
	appendEdges(&frag.Edges, name, extends, graph.EdgeKindExtends)

	e.extractBody(node.ChildByFieldName("body"), source, filePath, name, frag)
}

// extractBody walks a class body for annotated attributes, method
// signatures, and nested classes.
func (e *pyExtractor) extractBody(
	body *tree_sitter.Node,
	source []byte,
	filePath string,
	owner string,
	frag *graph.Fragment,
) {
	if body == nil {
		return
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		stmt := body.Child(i)
		if stmt == nil {
			continue
		}
		switch stmt.Kind() {
		case "expression_statement":
			for j := uint(0); j < stmt.ChildCount(); j++ {
				child := stmt.Child(j)
				if child != nil && child.Kind() == "assignment" {
					appendEdges(&frag.Edges, owner,
						e.typeRefs(child.ChildByFieldName("type"), source),
						graph.EdgeKindFieldType)
				}
			}

		case "function_definition":
			e.extractMethod(stmt, source, owner, frag)

		case "decorated_definition":
			def := stmt.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			switch def.Kind() {
			case "function_definition":
				e.extractMethod(def, source, owner, frag)
			case "class_definition":
				e.extractClass(def, source, filePath, frag)
			}

		case "class_definition":
			e.extractClass(stmt, source, filePath, frag)
		}
	}
}

func (e *pyExtractor) extractMethod(
	def *tree_sitter.Node,
	source []byte,
	owner string,
	frag *graph.Fragment,
) {
	if params := def.ChildByFieldName("parameters"); params != nil {
		for i := uint(0); i < params.ChildCount(); i++ {
			param := params.Child(i)
			if param == nil {
				continue
			}
			switch param.Kind() {
			case "typed_parameter", "typed_default_parameter":
				appendEdges(&frag.Edges, owner,
					e.typeRefs(param.ChildByFieldName("type"), source),
					graph.EdgeKindMethodParam)
			}
		}
	}
	appendEdges(&frag.Edges, owner,
		e.typeRefs(def.ChildByFieldName("return_type"), source),
		graph.EdgeKindMethodReturn)
}

// baseRefs resolves a superclasses argument list to simple base names.
// Keyword arguments such as metaclass= are skipped; subscripted bases like
// Generic[T] contribute the subscript value and its arguments.
func (e *pyExtractor) baseRefs(args *tree_sitter.Node, source []byte) []string {
	if args == nil {
		return nil
	}
	var refs []string
	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		if arg == nil {
			continue
		}
		switch arg.Kind() {
		case "identifier":
			refs = append(refs, arg.Utf8Text(source))
		case "attribute":
			if attr := arg.ChildByFieldName("attribute"); attr != nil {
				refs = append(refs, attr.Utf8Text(source))
			}
		case "subscript":
			refs = append(refs, e.rawRefs(arg, source)...)
		}
	}
	return refs
}

// aliasName returns the alias target of a type_alias_statement.
func (e *pyExtractor) aliasName(node *tree_sitter.Node, source []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "type":
			// First type child is the alias name side.
			names := e.rawRefs(child, source)
			if len(names) > 0 {
				return names[0]
			}
			return ""
		case "identifier":
			return child.Utf8Text(source)
		}
	}
	return ""
}

// collectImports records names imported by a from-import. Wildcards bind
// nothing nameable and are skipped; aliased imports keep the original name.
func (e *pyExtractor) collectImports(node *tree_sitter.Node, source []byte, imports *[]string) {
	module := node.ChildByFieldName("module_name")
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if module != nil && child.StartByte() == module.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			if name := lastDottedSegment(child.Utf8Text(source)); name != "" {
				*imports = append(*imports, name)
			}
		case "aliased_import":
			if orig := child.ChildByFieldName("name"); orig != nil {
				if name := lastDottedSegment(orig.Utf8Text(source)); name != "" {
					*imports = append(*imports, name)
				}
			}
		}
	}
}

// typeRefs collects referenced names from a type annotation, suppressing
// builtins and typing container names while walking into their arguments.
func (e *pyExtractor) typeRefs(node *tree_sitter.Node, source []byte) []string {
	raw := e.rawRefs(node, source)
	var refs []string
	for _, name := range raw {
		if !pyBuiltins[name] {
			refs = append(refs, name)
		}
	}
	return refs
}

// rawRefs collects names without builtin filtering.
func (e *pyExtractor) rawRefs(node *tree_sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	var refs []string
	var visit func(n *tree_sitter.Node)
	visit = func(n *tree_sitter.Node) {
		switch n.Kind() {
		case "identifier":
			refs = append(refs, n.Utf8Text(source))
			return
		case "attribute":
			if attr := n.ChildByFieldName("attribute"); attr != nil {
				refs = append(refs, attr.Utf8Text(source))
			}
			return
		case "string":
			// Quoted forward references are left unresolved.
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				visit(child)
			}
		}
	}
	visit(node)
	return refs
}

func lastDottedSegment(dotted string) string {
	if idx := strings.LastIndexByte(dotted, '.'); idx >= 0 {
		return dotted[idx+1:]
	}
	return dotted
}
