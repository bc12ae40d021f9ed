package codegen

import (
	"fmt"

	"github.com/pkg/errors"

	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

// emitNode dispatches a single node to its kind-specific emitter, the
// driver's master switch per spec §4.3.2. A File node itself is never
// passed here -- generateFile walks straight to its nested nodes -- so
// this only sees the five declaration kinds a nested-node walk can
// produce.
func emitNode(c *genCtx, n *node) (text, error) {
	switch n.Which() {
	case schema.Node_Which_structNode:
		if n.StructNode().IsGroup() {
			// Group nodes are only reachable through their owning
			// field (emitGroupStructs); a bare nested-node walk
			// should never see one, but tolerate it defensively
			// since nothing downstream distinguishes the two paths.
			return nil, nil
		}
		return emitStruct(c, n)
	case schema.Node_Which_enum:
		return emitEnum(n)
	case schema.Node_Which_interface:
		return emitInterface(c, n)
	case schema.Node_Which_const:
		return emitConst(c, n)
	case schema.Node_Which_annotation:
		return emitAnnotation(c, n), nil
	case schema.Node_Which_file:
		return nil, errors.Errorf("unexpected nested File node %s", n)
	default:
		return nil, errMalformed(fmt.Sprintf("node kind of %s", n), nil)
	}
}

// generateFile renders one requested CodeGeneratorRequest.RequestedFile
// as a complete Go source file: package clause, import block (populated
// lazily as emission runs, then rendered up front the way goimports
// would), and the top-level declarations for every node nested directly
// under the file's own File node. Ported from codegen.rs's per-file loop
// in main(), restructured into its own function per spec component 4.4's
// "one file in, one file out" contract.
func generateFile(idx *nodeIndex, scope *scopeMap, diag *Diagnostics, fileID uint64, goPackageName string) (string, error) {
	fileNode, err := idx.mustFind(fileID)
	if err != nil {
		return "", err
	}
	if fileNode.Which() != schema.Node_Which_file {
		return "", errors.Errorf("generateFile called on non-file node %s", fileNode)
	}

	fileRoot := scope.get(fileID)
	if len(fileRoot) != 1 {
		return "", errors.Errorf("file node %s has unexpected scope path %v", fileNode, fileRoot)
	}

	im := newImports()
	c := &genCtx{
		idx:         idx,
		scope:       scope,
		im:          im,
		fileRoot:    fileRoot[0],
		diag:        diag,
		emittedAnon: make(map[uint64]bool),
	}

	var body branch
	nested, err := fileNode.NestedNodes()
	if err != nil {
		return "", errors.Wrapf(err, "reading nested nodes of %s", fileNode)
	}
	for i := 0; i < nested.Len(); i++ {
		child, err := idx.mustFind(nested.At(i).Id())
		if err != nil {
			return "", err
		}
		decl, err := emitNode(c, child)
		if err != nil {
			return "", err
		}
		if decl != nil {
			body = append(body, decl)
			body = append(body, blank{})
		}
	}

	var out branch
	// The two header directives spec §6 calls for: Go has no "unused
	// imports"/"dead code" pragma, so its idiomatic equivalent is the
	// generated-file marker go/build and gopls both recognize, paired
	// with a staticcheck file-ignore directive for unused code and
	// naming checks.
	out = append(out, line("// Code generated by capnpc-go. DO NOT EDIT."))
	out = append(out, line("//lint:file-ignore U1000,ST1003 generated code"))
	out = append(out, blank{})
	out = append(out, line(fmt.Sprintf("package %s", goPackageName)))
	out = append(out, blank{})
	var importLines branch
	if c.usesRPC {
		importLines = append(importLines, line(`"context"`))
		importLines = append(importLines, blank{})
	}
	if c.usesCapnp {
		importLines = append(importLines, line(`capnp "capnproto.org/go/capnp/v3"`))
	}
	if c.usesRPC {
		importLines = append(importLines, line(`"capnproto.org/go/capnp/v3/server"`))
	}
	for _, spec := range im.usedImports() {
		importLines = append(importLines, line(fmt.Sprintf("%s %q", spec.name, spec.path)))
	}
	if len(importLines) > 0 {
		out = append(out, line("import ("))
		out = append(out, indent(importLines))
		out = append(out, line(")"))
		out = append(out, blank{})
	}
	out = append(out, body)

	return render(out), nil
}
