package rpcserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capnproto.org/go/capnp/v3/server"
)

func noopImpl(context.Context, *server.Call) error { return nil }

func TestBuildMethodTableSortsByInterfaceThenMethod(t *testing.T) {
	specs := []MethodSpec{
		{InterfaceID: 2, MethodID: 1, InterfaceName: "Bar", MethodName: "z", Impl: noopImpl},
		{InterfaceID: 1, MethodID: 5, InterfaceName: "Foo", MethodName: "b", Impl: noopImpl},
		{InterfaceID: 1, MethodID: 1, InterfaceName: "Foo", MethodName: "a", Impl: noopImpl},
	}

	table := BuildMethodTable(specs)
	require.Len(t, table, 3)

	assert.Equal(t, uint64(1), table[0].InterfaceID)
	assert.Equal(t, uint16(1), table[0].MethodID)
	assert.Equal(t, uint64(1), table[1].InterfaceID)
	assert.Equal(t, uint16(5), table[1].MethodID)
	assert.Equal(t, uint64(2), table[2].InterfaceID)
}

func TestBuildMethodTableDoesNotMutateInput(t *testing.T) {
	specs := []MethodSpec{
		{InterfaceID: 9, MethodID: 1, Impl: noopImpl},
		{InterfaceID: 1, MethodID: 1, Impl: noopImpl},
	}
	_ = BuildMethodTable(specs)
	assert.Equal(t, uint64(9), specs[0].InterfaceID, "BuildMethodTable must sort a copy, not the caller's slice")
}

func TestBuildMethodTablePreservesNames(t *testing.T) {
	specs := []MethodSpec{
		{InterfaceID: 1, MethodID: 1, InterfaceName: "Adder", MethodName: "add", Impl: noopImpl},
	}
	table := BuildMethodTable(specs)
	require.Len(t, table, 1)
	assert.Equal(t, "Adder", table[0].InterfaceName)
	assert.Equal(t, "add", table[0].MethodName)
}
