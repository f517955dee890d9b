package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/archdrift/internal/graph"
)

// goExtractor extracts type declarations and their relationships from Go
// source files. Go imports packages rather than individual types, so no
// import edges are produced for Go files.
type goExtractor struct{}

// goPrimitives are predeclared type names that never become edge targets.
var goPrimitives = map[string]bool{
	"bool": true, "string": true, "error": true, "any": true,
	"byte": true, "rune": true, "uintptr": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

func (e *goExtractor) Extract(root *tree_sitter.Node, source []byte, filePath string) graph.Fragment {
	var frag graph.Fragment

	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, filePath, &frag)
	return frag
}

func (e *goExtractor) walk(
	cursor *tree_sitter.TreeCursor,
	source []byte,
	filePath string,
	frag *graph.Fragment,
) {
	node := cursor.Node()
	descend := true

	switch node.Kind() {
	case "type_declaration":
		e.extractTypeDeclaration(node, source, filePath, frag)
		descend = false

	case "method_declaration":
		e.extractMethod(node, source, frag)
		descend = false
	}

	if descend && cursor.GotoFirstChild() {
		e.walk(cursor, source, filePath, frag)
		for cursor.GotoNextSibling() {
			e.walk(cursor, source, filePath, frag)
		}
		cursor.GotoParent()
	}
}

// extractTypeDeclaration handles each type_spec or type_alias inside a
// `type (...)` block.
func (e *goExtractor) extractTypeDeclaration(
	node *tree_sitter.Node,
	source []byte,
	filePath string,
	frag *graph.Fragment,
) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "type_spec":
			e.extractTypeSpec(child, source, filePath, frag)
		case "type_alias":
			e.extractAlias(child, source, filePath, frag)
		}
	}
}

func (e *goExtractor) extractTypeSpec(
	node *tree_sitter.Node,
	source []byte,
	filePath string,
	frag *graph.Fragment,
) {
	nameNode := node.ChildByFieldName("name")
	typeNode := node.ChildByFieldName("type")
	if nameNode == nil || typeNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)

	switch typeNode.Kind() {
	case "struct_type":
		frag.Nodes = append(frag.Nodes, graph.GraphNode{
			Name: name, Kind: graph.NodeKindClass, File: filePath, Line: lineOf(node),
		})
		e.extractStructBody(typeNode, source, name, frag)

	case "interface_type":
		frag.Nodes = append(frag.Nodes, graph.GraphNode{
			Name: name, Kind: graph.NodeKindInterface, File: filePath, Line: lineOf(node),
		})
		e.extractInterfaceBody(typeNode, source, name, frag)

	default:
		// `type UserID int`, function types, named map/slice types.
		frag.Nodes = append(frag.Nodes, graph.GraphNode{
			Name: name, Kind: graph.NodeKindAlias, File: filePath, Line: lineOf(node),
		})
	}
}

// extractAlias handles `type Foo = Bar`.
func (e *goExtractor) extractAlias(
	node *tree_sitter.Node,
	source []byte,
	filePath string,
	frag *graph.Fragment,
) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	frag.Nodes = append(frag.Nodes, graph.GraphNode{
		Name: nameNode.Utf8Text(source),
		Kind: graph.NodeKindAlias,
		File: filePath,
		Line: lineOf(node),
	})
}

// extractStructBody emits field-type edges for named fields and extends
// edges for embedded fields.
func (e *goExtractor) extractStructBody(
	structType *tree_sitter.Node,
	source []byte,
	owner string,
	frag *graph.Fragment,
) {
	for i := uint(0); i < structType.ChildCount(); i++ {
		body := structType.Child(i)
		if body == nil || body.Kind() != "field_declaration_list" {
			continue
		}
		for j := uint(0); j < body.ChildCount(); j++ {
			field := body.Child(j)
			if field == nil || field.Kind() != "field_declaration" {
				continue
			}
			refs := e.typeRefs(field.ChildByFieldName("type"), source)
			if field.ChildByFieldName("name") == nil {
				// Embedded field: the declaration is just a type name.
				refs = e.typeRefs(field, source)
				appendEdges(&frag.Edges, owner, refs, graph.EdgeKindExtends)
				continue
			}
			appendEdges(&frag.Edges, owner, refs, graph.EdgeKindFieldType)
		}
	}
}

// extractInterfaceBody emits method-param/method-return edges for method
// elements and extends edges for embedded interfaces.
func (e *goExtractor) extractInterfaceBody(
	ifaceType *tree_sitter.Node,
	source []byte,
	owner string,
	frag *graph.Fragment,
) {
	for i := uint(0); i < ifaceType.ChildCount(); i++ {
		elem := ifaceType.Child(i)
		if elem == nil {
			continue
		}
		switch elem.Kind() {
		case "method_elem":
			appendEdges(&frag.Edges, owner,
				e.typeRefs(elem.ChildByFieldName("parameters"), source),
				graph.EdgeKindMethodParam)
			appendEdges(&frag.Edges, owner,
				e.typeRefs(elem.ChildByFieldName("result"), source),
				graph.EdgeKindMethodReturn)
		case "type_elem", "type_identifier", "qualified_type":
			// Embedded interface, possibly a union of constraint terms.
			appendEdges(&frag.Edges, owner, e.typeRefs(elem, source), graph.EdgeKindExtends)
		}
	}
}

// extractMethod attributes a method's parameter and result types to its
// receiver's base type.
func (e *goExtractor) extractMethod(node *tree_sitter.Node, source []byte, frag *graph.Fragment) {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return
	}
	recvRefs := e.typeRefs(recv, source)
	if len(recvRefs) == 0 {
		return
	}
	owner := recvRefs[0]

	appendEdges(&frag.Edges, owner,
		e.typeRefs(node.ChildByFieldName("parameters"), source),
		graph.EdgeKindMethodParam)
	appendEdges(&frag.Edges, owner,
		e.typeRefs(node.ChildByFieldName("result"), source),
		graph.EdgeKindMethodReturn)
}

// typeRefs collects referenced type names anywhere under node, unwrapping
// pointers, slices, maps, channels, and generic instantiations along the
// way. Qualified types contribute their simple name; predeclared names are
// dropped.
func (e *goExtractor) typeRefs(node *tree_sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	var refs []string
	e.collectRefs(node, source, &refs)
	return refs
}

func (e *goExtractor) collectRefs(node *tree_sitter.Node, source []byte, refs *[]string) {
	switch node.Kind() {
	case "type_identifier":
		if name := node.Utf8Text(source); !goPrimitives[name] {
			*refs = append(*refs, name)
		}
		return
	case "qualified_type":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			if name := nameNode.Utf8Text(source); !goPrimitives[name] {
				*refs = append(*refs, name)
			}
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			e.collectRefs(child, source, refs)
		}
	}
}
