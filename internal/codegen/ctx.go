package codegen

// genCtx bundles the read-only state every emission function needs:
// the node index and scope map built once by the driver (spec §5: both
// maps are immutable once the emitter starts reading them), the import
// set being accumulated for the file currently being emitted, and the
// diagnostic sink.
type genCtx struct {
	idx      *nodeIndex
	scope    *scopeMap
	im       *imports
	fileRoot string
	diag     *Diagnostics

	// usesCapnp/usesRPC track which runtime imports the file being
	// emitted actually references, so generateFile never writes an
	// unused import (a compile error in the generated code, not a
	// lint nit). emittedAnon keeps each anonymous param/result struct
	// to one declaration even when a base interface and its subclass
	// are emitted into the same file.
	usesCapnp   bool
	usesRPC     bool
	emittedAnon map[uint64]bool
}

func (c *genCtx) remote(id uint64) (string, error) {
	return remoteName(c.scope, c.fileRoot, c.im, id)
}
