package codegen

import (
	"io"

	"github.com/pkg/errors"

	capnp "capnproto.org/go/capnp/v3"
	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

// GeneratedFile is one output of a Run: the requested file's declared
// filename (the ".capnp" path the schema compiler asked this plugin to
// translate) and the rendered Go source for it.
type GeneratedFile struct {
	CapnpPath string
	GoPath    string
	Source    string
}

// Run decodes a CodeGeneratorRequest from r (spec §4.4/§6's "read one
// message from stdin" contract), builds the node index and scope map
// once (spec components 2 and 4.1), and renders one Go source file per
// RequestedFile. Ported from codegen.rs's main(), split so the driver
// (cmd/capnpc-go) only has to handle stdin/stdout/exit-code plumbing.
func Run(r io.Reader, diag *Diagnostics) ([]GeneratedFile, error) {
	msg, err := capnp.NewDecoder(r).Decode()
	if err != nil {
		return nil, errors.Wrap(err, "decoding CodeGeneratorRequest")
	}
	req, err := schema.ReadRootCodeGeneratorRequest(msg)
	if err != nil {
		return nil, errors.Wrap(err, "reading CodeGeneratorRequest root")
	}

	allNodes, err := req.Nodes()
	if err != nil {
		return nil, errors.Wrap(err, "reading request node list")
	}
	flat := make([]schema.Node, allNodes.Len())
	for i := 0; i < allNodes.Len(); i++ {
		flat[i] = allNodes.At(i)
	}
	idx := buildNodeIndex(flat)

	requestedFiles, err := req.RequestedFiles()
	if err != nil {
		return nil, errors.Wrap(err, "reading requested files")
	}

	var seeds []seed
	fileRoots := make(map[uint64]string, requestedFiles.Len())
	for i := 0; i < requestedFiles.Len(); i++ {
		rf := requestedFiles.At(i)
		filename, err := rf.Filename()
		if err != nil {
			return nil, errors.Wrapf(err, "reading filename of requested file %d", i)
		}
		root := fileRootSegment(filename)
		fileRoots[rf.Id()] = root
		seeds = append(seeds, seed{path: []string{root}, id: rf.Id()})

		imports, err := rf.Imports()
		if err != nil {
			return nil, errors.Wrapf(err, "reading imports of %s", filename)
		}
		for j := 0; j < imports.Len(); j++ {
			imp := imports.At(j)
			impName, err := imp.Name()
			if err != nil {
				continue
			}
			impRoot := fileRootSegment(impName)
			seeds = append(seeds, seed{path: []string{impRoot}, id: imp.Id()})
		}
	}

	scope := resolveScopes(idx, seeds)
	assignNames(idx, scope)

	var out []GeneratedFile
	for i := 0; i < requestedFiles.Len(); i++ {
		rf := requestedFiles.At(i)
		filename, err := rf.Filename()
		if err != nil {
			return nil, err
		}
		root := fileRoots[rf.Id()]
		src, err := generateFile(idx, scope, diag, rf.Id(), root)
		if err != nil {
			return nil, errors.Wrapf(err, "generating %s", filename)
		}
		out = append(out, GeneratedFile{
			CapnpPath: filename,
			GoPath:    goOutputPath(filename),
			Source:    src,
		})
	}
	return out, nil
}

// assignNames sets node.Name/node.Path for every node the scope map
// reached, so struct_emit.go and friends can read a resolved Go
// identifier straight off the node instead of re-deriving it from the
// scope map at every reference. File-root nodes get their package-level
// root segment as Path but no Name (the name is the package, not an
// identifier inside it).
func assignNames(idx *nodeIndex, scope *scopeMap) {
	for _, n := range idx.all() {
		path := scope.get(n.Id())
		if len(path) == 0 {
			continue
		}
		n.Path = path
		n.Name = flattenScope(path)
	}
}

// goOutputPath implements spec §6's "<filestem>_capnp.<ext>, alongside
// the requested file's declared path" naming rule: replace the trailing
// ".capnp" with "_capnp.go" in place, keeping any directory prefix.
func goOutputPath(capnpFilename string) string {
	dir := ""
	stem := capnpFilename
	if i := lastIndexByte(stem, '/'); i >= 0 {
		dir = stem[:i+1]
		stem = stem[i+1:]
	}
	return dir + fileRootSegment(stem) + ".go"
}
