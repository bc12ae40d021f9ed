package codegen

import (
	"fmt"

	"github.com/pkg/errors"

	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

// emitInterface renders an Interface node: a Client type (a thin
// capnp.Client wrapper with one Request-factory method per method,
// including those inherited from superclasses per spec's
// SPEC_FULL.md §4 base-dispatch rule), a Server interface every local
// implementation must satisfy, and a New<Iface>Server constructor that
// builds a server.Server (capnproto.org/go/capnp/v3/server, the teacher's
// own capability-dispatch runtime) out of a Server implementation. The
// emitted dispatch table lists methods in method-set order; server.New
// sorts it itself. Ported from codegen.rs's
// generate_node Interface arm and the teacher's nodes.go methodSet/
// interfaceMethod.
func emitInterface(c *genCtx, n *node) (text, error) {
	if n.Which() != schema.Node_Which_interface {
		return nil, errors.Errorf("emitInterface called on non-interface node %s", n)
	}
	name := n.Name
	c.usesCapnp = true
	c.usesRPC = true

	methods, err := methodSet(nil, n, c.idx)
	if err != nil {
		return nil, errors.Wrapf(err, "building method set of %s", n)
	}

	var out branch
	ann, _ := n.Annotations()
	if doc := parseAnnotations(ann).docComment(); doc != nil {
		out = append(out, doc)
	}

	out = append(out, clientTypeDecl(name))
	out = append(out, blank{})

	for _, m := range methods {
		decl, err := emitMethodRequest(c, name, m)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s.%s", name, m.Name)
		}
		out = append(out, decl)
		out = append(out, blank{})
	}

	serverIface, err := serverInterfaceDecl(c, name, n, methods)
	if err != nil {
		return nil, err
	}
	out = append(out, serverIface)
	out = append(out, blank{})

	dispatch, err := serverDispatchDecl(c, name, methods)
	if err != nil {
		return nil, err
	}
	out = append(out, dispatch)
	out = append(out, blank{})

	paramResults, err := emitAnonymousParamsResults(c, methods)
	if err != nil {
		return nil, err
	}
	out = append(out, paramResults)

	nested, err := emitNestedNodes(c, n)
	if err != nil {
		return nil, err
	}
	out = append(out, nested)

	return out, nil
}

func clientTypeDecl(name string) text {
	return branch{
		line(fmt.Sprintf("type %sClient struct {", name)),
		indent(line("client capnp.Client")),
		line("}"),
		blank{},
		line(fmt.Sprintf("func (c %sClient) IsValid() bool {", name)),
		indent(line("return c.client.IsValid()")),
		line("}"),
	}
}

// emitMethodRequest renders the Request factory for one method: a
// <Iface>Client method named after the schema method, which fills the
// params struct through a caller-supplied callback and sends the call,
// and the <Iface>_<Method>_Answer type it returns, with Struct() (the
// results Reader), Pipeline() (the results Pipeline) and Release().
func emitMethodRequest(c *genCtx, ifaceName string, m interfaceMethod) (text, error) {
	paramsType, err := paramsResultsTypeName(c, m.Params, ifaceName, m.Name, "Params")
	if err != nil {
		return nil, err
	}
	resultsType, err := paramsResultsTypeName(c, m.Results, ifaceName, m.Name, "Results")
	if err != nil {
		return nil, err
	}

	// One Answer type per (interface, method) pair: prefixing with the
	// interface name keeps inherited methods re-emitted on a subclass
	// client from colliding with the base's own declarations.
	answerType := fmt.Sprintf("%s_%s_Answer", ifaceName, m.Name)

	var out branch
	if m.isStreaming() {
		out = append(out, line(fmt.Sprintf("// %s is a streaming method: its result carries no payload.", m.Name)))
	}
	out = append(out, branch{
		line(fmt.Sprintf("func (c %sClient) %s(ctx context.Context, params func(%sBuilder) error) %s {", ifaceName, m.Name, paramsType, answerType)),
		indent(lines(
			fmt.Sprintf("s := capnp.Send{Method: capnp.Method{InterfaceID: %#x, MethodID: %d, InterfaceName: %q, MethodName: %q}}", m.Interface.Id(), m.Ordinal, ifaceName, m.Name),
			"s.ArgsSize = "+paramsType+"StructSize",
			"s.PlaceArgs = func(sb capnp.StructBuilder) error { return params("+paramsType+"Builder{builder: sb}) }",
			"ans, release := c.client.SendCall(ctx, s)",
			fmt.Sprintf("return %s{answer: ans, release: release}", answerType),
		)),
		line("}"),
	})
	out = append(out, blank{})
	out = append(out, branch{
		line(fmt.Sprintf("type %s struct {", answerType)),
		indent(lines("answer *capnp.Answer", "release capnp.ReleaseFunc")),
		line("}"),
	})
	out = append(out, blank{})
	out = append(out, branch{
		line(fmt.Sprintf("func (a %s) Struct() (%sReader, error) {", answerType, resultsType)),
		indent(lines(
			"s, err := a.answer.Struct()",
			fmt.Sprintf("return %sReader{reader: s}, err", resultsType),
		)),
		line("}"),
	})
	out = append(out, blank{})
	out = append(out, branch{
		line(fmt.Sprintf("func (a %s) Pipeline() %sPipeline {", answerType, resultsType)),
		indent(line(fmt.Sprintf("return %sPipeline{pipeline: a.answer.Pipeline()}", resultsType))),
		line("}"),
	})
	out = append(out, blank{})
	out = append(out, branch{
		line(fmt.Sprintf("func (a %s) Release() {", answerType)),
		indent(line("a.release()")),
		line("}"),
	})
	return out, nil
}

// serverInterfaceDecl renders the Server interface a local implementation
// must satisfy: each superclass's Server interface embedded in
// declaration order, then one method per method declared on this
// interface itself.
func serverInterfaceDecl(c *genCtx, ifaceName string, n *node, methods []interfaceMethod) (text, error) {
	var sig branch

	supers, err := n.Interface().Superclasses()
	if err != nil {
		return nil, errors.Wrapf(err, "reading superclasses of %s", n)
	}
	for i := 0; i < supers.Len(); i++ {
		superName, err := c.remote(supers.At(i).Id())
		if err != nil {
			return nil, errors.Wrapf(err, "superclass of %s", n)
		}
		sig = append(sig, line(superName+"Server"))
	}

	for _, m := range methods {
		if m.Interface.Id() != n.Id() {
			continue // inherited: covered by the embedded base Server
		}
		paramsType, err := paramsResultsTypeName(c, m.Params, ifaceName, m.Name, "Params")
		if err != nil {
			return nil, err
		}
		resultsType, err := paramsResultsTypeName(c, m.Results, ifaceName, m.Name, "Results")
		if err != nil {
			return nil, err
		}
		sig = append(sig, line(fmt.Sprintf("%s(ctx context.Context, params %sReader, results %sBuilder) error",
			m.Name, paramsType, resultsType)))
	}
	return branch{
		line(fmt.Sprintf("type %sServer interface {", ifaceName)),
		indent(sig),
		line("}"),
	}, nil
}

// serverDispatchDecl renders New<Iface>Server, which builds the method table
// server.New expects (capnproto.org/go/capnp/v3/server.Method/.Server,
// the teacher's own capability-dispatch runtime), one entry per method,
// each Impl closing over the Server implementation and adapting its
// typed signature to server.Call's untyped Args()/AllocResults().
func serverDispatchDecl(c *genCtx, ifaceName string, methods []interfaceMethod) (text, error) {
	var entries branch
	for _, m := range methods {
		paramsType, err := paramsResultsTypeName(c, m.Params, ifaceName, m.Name, "Params")
		if err != nil {
			return nil, err
		}
		resultsType, err := paramsResultsTypeName(c, m.Results, ifaceName, m.Name, "Results")
		if err != nil {
			return nil, err
		}
		entries = append(entries, line("{"))
		entries = append(entries, indent(lines(
			// MethodID is the method's ordinal within its declaring
			// interface, not its position in the flattened table: an
			// inherited method keeps the id the base interface's own
			// clients call it by.
			fmt.Sprintf("Method: capnp.Method{InterfaceID: %#x, MethodID: %d, InterfaceName: %q, MethodName: %q},", m.Interface.Id(), m.Ordinal, ifaceName, m.Name),
			"Impl: func(ctx context.Context, call *server.Call) error {",
		)))
		entries = append(entries, indent(indent(lines(
			fmt.Sprintf("params := %sReader{reader: call.Args()}", paramsType),
			fmt.Sprintf("res, err := call.AllocResults(%sStructSize)", resultsType),
			"if err != nil {",
		))))
		entries = append(entries, indent(indent(indent(lines("return err")))))
		entries = append(entries, indent(indent(lines(
			"}",
			fmt.Sprintf("return impl.%s(ctx, params, %sBuilder{builder: res})", m.Name, resultsType),
		))))
		entries = append(entries, indent(lines("},")))
		entries = append(entries, line("},"))
	}

	return branch{
		line(fmt.Sprintf("func New%sServer(impl %sServer, shutdown server.Shutdowner) %sClient {", ifaceName, ifaceName, ifaceName)),
		indent(branch{
			line("methods := []server.Method{"),
			indent(entries),
			line("}"),
			line("srv := server.New(methods, impl, shutdown)"),
			line(fmt.Sprintf("return %sClient{client: capnp.NewClient(srv)}", ifaceName)),
		}),
		line("}"),
	}, nil
}

// paramsResultsTypeName resolves the Go type name for a method's params
// or results struct. If the struct node is anonymous (ScopeId() == 0,
// the teacher's resolveName sentinel for interface method param/result
// structs synthesized in-line, matching the grammar's "(foo: Int32) ->
// (bar: Text)" shorthand), it gets a synthetic name derived from the
// interface and method names instead of a scope-resolved one.
func paramsResultsTypeName(c *genCtx, structNode *node, ifaceName, methodName, which string) (string, error) {
	if len(c.scope.get(structNode.Id())) > 0 {
		// A named struct used as a method's params/results: resolve it
		// the same way a struct field reference would, so a cross-file
		// type picks up its import alias.
		return c.remote(structNode.Id())
	}
	if structNode.Name == "" {
		structNode.Name = fmt.Sprintf("%s_%s_%s", ifaceName, methodName, which)
	}
	return structNode.Name, nil
}

// emitAnonymousParamsResults emits the struct declaration for every
// method's param/result struct that doesn't already have one emitted via
// the ordinary nested-node walk, i.e. the anonymous ones
// paramsResultsTypeName just named.
func emitAnonymousParamsResults(c *genCtx, methods []interfaceMethod) (text, error) {
	var out branch
	for _, m := range methods {
		for _, sn := range []*node{m.Params, m.Results} {
			if sn.ScopeId() != 0 || c.emittedAnon[sn.Id()] {
				continue
			}
			c.emittedAnon[sn.Id()] = true
			decl, err := emitStruct(c, sn)
			if err != nil {
				return nil, errors.Wrapf(err, "anonymous params/results struct for %s.%s", m.Interface, m.Name)
			}
			out = append(out, decl)
			out = append(out, blank{})
		}
	}
	return out, nil
}
