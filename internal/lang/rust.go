package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/archdrift/internal/graph"
)

// rsExtractor extracts structs, enums, traits, type aliases, impl blocks,
// and use declarations from Rust source files. Traits are recorded as
// protocols; `impl Trait for Type` produces an implements edge even when
// neither side is declared in the scanned tree.
type rsExtractor struct{}

// rsBuiltins filters type names the primitive_type node kind does not
// already cover.
var rsBuiltins = map[string]bool{
	"String": true, "Self": true, "Option": true, "Result": true,
	"Vec": true, "Box": true, "Rc": true, "Arc": true, "Cow": true,
	"HashMap": true, "HashSet": true, "BTreeMap": true, "BTreeSet": true,
	"VecDeque": true, "Cell": true, "RefCell": true, "Mutex": true,
	"RwLock": true, "PhantomData": true,
}

func (e *rsExtractor) Extract(root *tree_sitter.Node, source []byte, filePath string) graph.Fragment {
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

func (e *rsExtractor) walk(
	cursor *tree_sitter.TreeCursor,
	source []byte,
	filePath string,
	frag *graph.Fragment,
	imports *[]string,
) {
	node := cursor.Node()
	descend := true

	switch node.Kind() {
	case "struct_item":
		e.extractStruct(node, source, filePath, frag)
		descend = false

	case "enum_item":
		e.extractEnum(node, source, filePath, frag)
		descend = false

	case "trait_item":
		e.extractTrait(node, source, filePath, frag)
		descend = false

	case "type_item":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			frag.Nodes = append(frag.Nodes, graph.GraphNode{
				Name: nameNode.Utf8Text(source),
				Kind: graph.NodeKindAlias,
				File: filePath,
				Line: lineOf(node),
			})
		}
		descend = false

	case "impl_item":
		e.extractImpl(node, source, frag)
		descend = false

	case "use_declaration":
		e.collectUses(node, source, imports)
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

func (e *rsExtractor) extractStruct(
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
	e.extractFieldList(node.ChildByFieldName("body"), source, name, frag)
}

func (e *rsExtractor) extractEnum(
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
		Name: name, Kind: graph.NodeKindEnum, File: filePath, Line: lineOf(node),
	})

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		variant := body.Child(i)
		if variant == nil || variant.Kind() != "enum_variant" {
			continue
		}
		// Variant payloads reference types the enum depends on.
		for j := uint(0); j < variant.ChildCount(); j++ {
			child := variant.Child(j)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "field_declaration_list", "ordered_field_declaration_list":
				appendEdges(&frag.Edges, name, e.typeRefs(child, source), graph.EdgeKindFieldType)
			}
		}
	}
}

func (e *rsExtractor) extractTrait(
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
		Name: name, Kind: graph.NodeKindProtocol, File: filePath, Line: lineOf(node),
	})

	if bounds := node.ChildByFieldName("bounds"); bounds != nil {
		appendEdges(&frag.Edges, name, e.typeRefs(bounds, source), graph.EdgeKindExtends)
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		item := body.Child(i)
		if item == nil {
			continue
		}
		switch item.Kind() {
		case "function_item", "function_signature_item":
			e.extractFn(item, source, name, frag)
		}
	}
}

// extractImpl records an implements edge between the impl target and its
// trait, and attributes the block's method signatures to the target type.
// Inherent impls have no trait and emit only method edges.
func (e *rsExtractor) extractImpl(node *tree_sitter.Node, source []byte, frag *graph.Fragment) {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	typeRefs := e.typeRefs(typeNode, source)
	if len(typeRefs) == 0 {
		return
	}
	owner := typeRefs[0]

	if traitNode := node.ChildByFieldName("trait"); traitNode != nil {
		if traits := e.typeRefs(traitNode, source); len(traits) > 0 {
			appendEdges(&frag.Edges, owner, traits[:1], graph.EdgeKindImplements)
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		item := body.Child(i)
		if item != nil && item.Kind() == "function_item" {
			e.extractFn(item, source, owner, frag)
		}
	}
}

func (e *rsExtractor) extractFn(
	fn *tree_sitter.Node,
	source []byte,
	owner string,
	frag *graph.Fragment,
) {
	if params := fn.ChildByFieldName("parameters"); params != nil {
		for i := uint(0); i < params.ChildCount(); i++ {
			param := params.Child(i)
			if param == nil || param.Kind() != "parameter" {
				continue
			}
			appendEdges(&frag.Edges, owner,
				e.typeRefs(param.ChildByFieldName("type"), source),
				graph.EdgeKindMethodParam)
		}
	}
	appendEdges(&frag.Edges, owner,
		e.typeRefs(fn.ChildByFieldName("return_type"), source),
		graph.EdgeKindMethodReturn)
}

func (e *rsExtractor) extractFieldList(
	body *tree_sitter.Node,
	source []byte,
	owner string,
	frag *graph.Fragment,
) {
	if body == nil {
		return
	}
	switch body.Kind() {
	case "field_declaration_list":
		for i := uint(0); i < body.ChildCount(); i++ {
			field := body.Child(i)
			if field == nil || field.Kind() != "field_declaration" {
				continue
			}
			appendEdges(&frag.Edges, owner,
				e.typeRefs(field.ChildByFieldName("type"), source),
				graph.EdgeKindFieldType)
		}
	case "ordered_field_declaration_list":
		appendEdges(&frag.Edges, owner, e.typeRefs(body, source), graph.EdgeKindFieldType)
	}
}

// collectUses records capitalized leaf identifiers from a use tree, which
// by convention are types and traits rather than modules.
func (e *rsExtractor) collectUses(node *tree_sitter.Node, source []byte, imports *[]string) {
	var visit func(n *tree_sitter.Node)
	visit = func(n *tree_sitter.Node) {
		switch n.Kind() {
		case "identifier", "type_identifier":
			name := n.Utf8Text(source)
			if name != "" && name[0] >= 'A' && name[0] <= 'Z' && !rsBuiltins[name] {
				*imports = append(*imports, name)
			}
			return
		case "use_as_clause":
			// The original path, not the local alias, names the type.
			if path := n.ChildByFieldName("path"); path != nil {
				visit(path)
			}
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				visit(child)
			}
		}
	}
	visit(node)
}

// typeRefs collects referenced type names under node. References, smart
// pointer generics, tuples, and slices are walked through; primitive types
// and lifetimes contribute nothing.
func (e *rsExtractor) typeRefs(node *tree_sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	var refs []string
	e.collectRefs(node, source, &refs)
	return refs
}

func (e *rsExtractor) collectRefs(node *tree_sitter.Node, source []byte, refs *[]string) {
	switch node.Kind() {
	case "type_identifier":
		if name := node.Utf8Text(source); !rsBuiltins[name] {
			*refs = append(*refs, name)
		}
		return
	case "scoped_type_identifier":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			if name := nameNode.Utf8Text(source); !rsBuiltins[name] {
				*refs = append(*refs, name)
			}
		}
		return
	case "primitive_type", "lifetime":
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			e.collectRefs(child, source, refs)
		}
	}
}
