/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package jsengine

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/netanelgilad/funee/host"
)

// HostImplementation is the Go-side function backing a single host op,
// invoked with whatever arguments the bundled script passed to its
// trampoline call.
type HostImplementation func(args ...any) (any, error)

// BundleRuntime executes a finished, emitted script (C10's output) the way
// `funee run` does: a single `ops` global object with one trampoline target
// per configured host function, the concrete realization of the
// `ops.op_<name>(...)` calls C10 compiles HostFunction references into.
type BundleRuntime struct {
	vm *goja.Runtime
}

// NewBundleRuntime builds a runtime with its `ops` object populated from
// hosts, each entry forwarding to its Go implementation in impls (keyed by
// the manifest's opName, e.g. "op_log"). It is an error for hosts to name an
// op with no registered implementation.
func NewBundleRuntime(hosts host.Set, impls map[string]HostImplementation) (*BundleRuntime, error) {
	vm := goja.New()
	ops := vm.NewObject()

	for _, fn := range hosts {
		impl, ok := impls[fn.OpName]
		if !ok {
			return nil, fmt.Errorf("no host implementation registered for op %q (function %q)", fn.OpName, fn.Name)
		}
		goFn := impl
		trampoline := func(call goja.FunctionCall) goja.Value {
			args := make([]any, len(call.Arguments))
			for i, a := range call.Arguments {
				args[i] = a.Export()
			}
			result, err := goFn(args...)
			if err != nil {
				panic(vm.NewGoError(err))
			}
			return vm.ToValue(result)
		}
		if err := ops.Set(fn.OpName, trampoline); err != nil {
			return nil, fmt.Errorf("installing op %q: %w", fn.OpName, err)
		}
	}

	if err := vm.Set("ops", ops); err != nil {
		return nil, fmt.Errorf("installing ops object: %w", err)
	}
	return &BundleRuntime{vm: vm}, nil
}

// Run executes the emitted script in full, returning its completion value.
func (b *BundleRuntime) Run(script string) (goja.Value, error) {
	return b.vm.RunString(script)
}
