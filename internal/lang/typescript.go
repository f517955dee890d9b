package lang

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/archdrift/internal/graph"
)

// tsExtractor extracts type declarations from TypeScript and TSX source
// files. Named imports are recorded and attributed as import edges from
// every type declared in the same file.
type tsExtractor struct{}

// tsPrimitives covers built-in names that appear as plain type identifiers
// rather than predefined_type nodes.
var tsPrimitives = map[string]bool{
	"string": true, "number": true, "boolean": true, "bigint": true,
	"symbol": true, "object": true, "undefined": true, "null": true,
	"void": true, "never": true, "unknown": true, "any": true,
}

func (e *tsExtractor) Extract(root *tree_sitter.Node, source []byte, filePath string) graph.Fragment {
	var frag graph.Fragment
	var imports []string

	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, filePath, &frag, &imports)

	// Imports bind to declarations, so a file of pure imports emits nothing.
	for _, n := range frag.Nodes {
		appendEdges(&frag.Edges, n.Name, imports, graph.EdgeKindImport)
	}
	return frag
}

func (e *tsExtractor) walk(
	cursor *tree_sitter.TreeCursor,
	source []byte,
	filePath string,
	frag *graph.Fragment,
	imports *[]string,
) {
	node := cursor.Node()
	descend := true

	switch node.Kind() {
	case "class_declaration", "abstract_class_declaration":
		e.extractClass(node, source, filePath, frag)
		descend = false

	case "interface_declaration":
		e.extractInterface(node, source, filePath, frag)
		descend = false

	case "enum_declaration":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			frag.Nodes = append(frag.Nodes, graph.GraphNode{
				Name: nameNode.Utf8Text(source),
				Kind: graph.NodeKindEnum,
				File: filePath,
				Line: lineOf(node),
			})
		}
		descend = false

	case "type_alias_declaration":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			frag.Nodes = append(frag.Nodes, graph.GraphNode{
				Name: nameNode.Utf8Text(source),
				Kind: graph.NodeKindAlias,
				File: filePath,
				Line: lineOf(node),
			})
		}
		descend = false

	case "import_statement":
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

func (e *tsExtractor) extractClass(
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
	frag.Nodes = append(frag.Nodes, graph.GraphNode{
		Name: name, Kind: graph.NodeKindClass, File: filePath, Line: lineOf(node),
	})

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "class_heritage" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			clause := child.Child(j)
			if clause == nil {
				continue
			}
			switch clause.Kind() {
			case "extends_clause":
				appendEdges(&frag.Edges, name, e.heritageRefs(clause, source), graph.EdgeKindExtends)
			case "implements_clause":
				appendEdges(&frag.Edges, name, e.typeRefs(clause, source), graph.EdgeKindImplements)
			}
		}
	}

	e.extractMembers(node.ChildByFieldName("body"), source, name, frag)
}

func (e *tsExtractor) extractInterface(
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
	frag.Nodes = append(frag.Nodes, graph.GraphNode{
		Name: name, Kind: graph.NodeKindInterface, File: filePath, Line: lineOf(node),
	})

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		// Grammar versions differ on the clause kind name.
		if child.Kind() == "extends_type_clause" || child.Kind() == "extends_clause" {
			appendEdges(&frag.Edges, name, e.typeRefs(child, source), graph.EdgeKindExtends)
		}
	}

	e.extractMembers(node.ChildByFieldName("body"), source, name, frag)
}

// extractMembers emits field-type edges for property declarations and
// method-param/method-return edges for method declarations, for both class
// and interface bodies.
func (e *tsExtractor) extractMembers(
	body *tree_sitter.Node,
	source []byte,
	owner string,
	frag *graph.Fragment,
) {
	if body == nil {
		return
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		member := body.Child(i)
		if member == nil {
			continue
		}
		switch member.Kind() {
		case "public_field_definition", "field_definition", "property_signature":
			appendEdges(&frag.Edges, owner,
				e.typeRefs(member.ChildByFieldName("type"), source),
				graph.EdgeKindFieldType)

		case "method_definition", "method_signature", "abstract_method_signature":
			appendEdges(&frag.Edges, owner,
				e.typeRefs(member.ChildByFieldName("parameters"), source),
				graph.EdgeKindMethodParam)
			appendEdges(&frag.Edges, owner,
				e.typeRefs(member.ChildByFieldName("return_type"), source),
				graph.EdgeKindMethodReturn)
		}
	}
}

// collectImports records the original names of named import specifiers.
// Default and namespace imports bind local aliases, not declared type
// names, and are skipped.
func (e *tsExtractor) collectImports(node *tree_sitter.Node, source []byte, imports *[]string) {
	if node.Kind() == "import_specifier" {
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			*imports = append(*imports, nameNode.Utf8Text(source))
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			e.collectImports(child, source, imports)
		}
	}
}

// heritageRefs collects superclass names from a class extends clause, where
// the grammar parses the superclass as an expression rather than a type.
func (e *tsExtractor) heritageRefs(clause *tree_sitter.Node, source []byte) []string {
	var refs []string
	var visit func(n *tree_sitter.Node)
	visit = func(n *tree_sitter.Node) {
		switch n.Kind() {
		case "identifier", "type_identifier":
			if name := n.Utf8Text(source); !tsPrimitives[name] {
				refs = append(refs, name)
			}
			return
		case "member_expression", "nested_type_identifier":
			if name := rightmostSegment(n.Utf8Text(source)); name != "" && !tsPrimitives[name] {
				refs = append(refs, name)
			}
			return
		case "type_arguments":
			refs = append(refs, e.typeRefs(n, source)...)
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				visit(child)
			}
		}
	}
	visit(clause)
	return refs
}

// typeRefs collects referenced type names under node. Generic arguments,
// unions, arrays, and parenthesized types are walked through; predefined
// types and literal types contribute nothing.
func (e *tsExtractor) typeRefs(node *tree_sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	var refs []string
	e.collectRefs(node, source, &refs)
	return refs
}

func (e *tsExtractor) collectRefs(node *tree_sitter.Node, source []byte, refs *[]string) {
	switch node.Kind() {
	case "type_identifier":
		if name := node.Utf8Text(source); !tsPrimitives[name] {
			*refs = append(*refs, name)
		}
		return
	case "nested_type_identifier":
		// Qualified reference such as ns.User keeps the rightmost segment.
		if name := rightmostSegment(node.Utf8Text(source)); name != "" && !tsPrimitives[name] {
			*refs = append(*refs, name)
		}
		return
	case "predefined_type", "literal_type":
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			e.collectRefs(child, source, refs)
		}
	}
}

func rightmostSegment(qualified string) string {
	if idx := strings.LastIndexByte(qualified, '.'); idx >= 0 {
		return qualified[idx+1:]
	}
	return qualified
}
