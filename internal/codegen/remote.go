package codegen

import "github.com/pkg/errors"

// remoteName resolves node id's Go-facing name relative to the file
// currently being emitted (fileRoot is that file's root scope segment,
// spec's "<stem>_capnp"). A same-file reference flattens to a bare
// identifier; a cross-file reference records an import and returns an
// alias-qualified identifier. Ported from the RemoteTypeName contract
// exercised in go-capnproto2's capnpc-go test suite
// (_examples/other_examples/..._capnpc-go_test.go.go's TestRemoteScope),
// simplified because this generator resolves one flattened identifier
// per node rather than a constructor-name pair.
func remoteName(scope *scopeMap, fileRoot string, im *imports, id uint64) (string, error) {
	path := scope.get(id)
	if len(path) == 0 {
		return "", errors.Errorf("no scope path recorded for node %#x", id)
	}
	if path[0] == fileRoot {
		return flattenScope(path), nil
	}
	alias := path[0]
	im.add(importSpec{name: alias, path: alias})
	return alias + "." + flattenScope(path), nil
}
