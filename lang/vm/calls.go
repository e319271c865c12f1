package vm

import (
	"github.com/Valkyrja-Design/holo/lang/object"
	"github.com/Valkyrja-Design/holo/lang/value"
)

// callValue dispatches a call to whatever kind of callee sits argCount
// slots below the top of the stack: a closure, a native, a class
// (constructing an instance) or a bound method. Anything else is a runtime
// error — holo has no implicit "callable" protocol for arbitrary values.
func (vm *VM) callValue(callee value.Value, argCount int) error {
	switch c := callee.(type) {
	case *object.ObjClosure:
		return vm.call(c, argCount)
	case *object.ObjNative:
		return vm.callNative(c, argCount)
	case *object.ObjClass:
		instance := vm.heap.NewInstance(c)
		vm.stack[len(vm.stack)-1-argCount] = instance
		if init := c.FindMethod(vm.initString); init != nil {
			return vm.call(init, argCount)
		}
		if argCount != 0 {
			return vm.runtimeError("Expected 0 arguments but got %d.", argCount)
		}
		return nil
	case *object.ObjBoundMethod:
		vm.stack[len(vm.stack)-1-argCount] = c.Receiver
		return vm.call(c.Method, argCount)
	default:
		return vm.runtimeError("Can only call functions and classes.")
	}
}

func (vm *VM) callNative(native *object.ObjNative, argCount int) error {
	if native.Arity >= 0 && argCount != native.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", native.Arity, argCount)
	}
	args := vm.stack[len(vm.stack)-argCount:]
	result, err := native.Fn(args)
	if err != nil {
		return vm.runtimeError("%s", err.Error())
	}
	vm.popN(argCount + 1)
	return vm.push(result)
}

// call pushes a new frame for closure and checks arity and call-stack
// depth; control returns to run's dispatch loop to actually execute the
// callee's instructions.
func (vm *VM) call(closure *object.ObjClosure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if len(vm.frames) >= maxFrames {
		return vm.runtimeError("Stack overflow.")
	}
	vm.frames = append(vm.frames, frame{
		closure:   closure,
		stackBase: len(vm.stack) - argCount - 1,
	})
	return nil
}

// invoke combines GetProperty and Call into one step for the common case of
// calling a method by name: if name resolves to a field holding a callable,
// that callable is called instead, matching holo's "fields shadow methods"
// rule uniformly between plain property calls and the fused instruction.
func (vm *VM) invoke(name string, argCount int) error {
	receiver := vm.peek(argCount)
	instance, ok := receiver.(*object.ObjInstance)
	if !ok {
		return vm.runtimeError("Only instances have methods.")
	}

	if field, ok := instance.Fields.Get(name); ok {
		vm.stack[len(vm.stack)-1-argCount] = field
		return vm.callValue(field, argCount)
	}

	method := instance.Class.FindMethod(name)
	if method == nil {
		return vm.runtimeError("Undefined property '%s'.", name)
	}
	return vm.call(method, argCount)
}

func (vm *VM) invokeFromClass(class *object.ObjClass, name string, argCount int) error {
	method := class.FindMethod(name)
	if method == nil {
		return vm.runtimeError("Undefined property '%s'.", name)
	}
	return vm.call(method, argCount)
}

// bindMethod looks up name on class, wraps it with receiver into a bound
// method, and pushes the result in place of the instance that was on top of
// the stack.
func (vm *VM) bindMethod(class *object.ObjClass, receiver *object.ObjInstance, name string) error {
	method := class.FindMethod(name)
	if method == nil {
		return vm.runtimeError("Undefined property '%s'.", name)
	}
	bound := vm.heap.NewBoundMethod(receiver, method)
	vm.pop()
	return vm.push(bound)
}
