package vm

import (
	"time"

	"github.com/Valkyrja-Design/holo/lang/value"
)

// DefineStandardNatives installs holo's built-in native functions as
// globals. Called once per VM before Interpret.
func (vm *VM) DefineStandardNatives() {
	vm.DefineNative("clock", 0, func(args []value.Value) (value.Value, error) {
		return value.Number(float64(time.Now().UnixNano()) / 1e9), nil
	})
}
