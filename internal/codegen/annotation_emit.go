package codegen

// emitAnnotation handles an Annotation node: spec §4.3.2 is explicit
// that annotation declarations produce no Go code of their own (only
// their effect on the nodes/fields that carry them matters, handled
// throughout parseAnnotations call sites). The only observable output
// here is the diagnostic notice.
func emitAnnotation(c *genCtx, n *node) text {
	c.diag.annotationIgnored(n.String())
	return nil
}
