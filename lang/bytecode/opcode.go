// Package bytecode defines the compiled representation a holo function body
// is reduced to: the OpCode catalogue, the Chunk that holds a function's
// code/constants/line table, and a disassembler used by the `disassemble`
// CLI command.
//
// The catalogue and the short/long-operand split mirror the example corpus's
// own opcode table (lang/compiler/opcode.go), adapted from nenuphar's
// register-free stack machine to holo's single-pass, class-and-closure
// bytecode.
package bytecode

// OpCode identifies a single bytecode instruction.
type OpCode uint8

// "x OP y" stack pictures follow the same convention the example corpus
// uses: values to the left of the opcode are popped, values to the right
// are what remains/is pushed.
const ( //nolint:revive
	Constant     OpCode = iota // - Constant<u8>      value
	ConstantLong               // - ConstantLong<u24> value
	Nil                        // - Nil   nil
	True                       // - True  true
	False                      // - False false
	Pop                        // x Pop -
	PopN                       // x1..xn PopN<u8>      -
	PopNLong                   // x1..xn PopNLong<u24> -

	DefineGlobal     // value DefineGlobal<u8>      -
	DefineGlobalLong // value DefineGlobalLong<u24> -
	GetGlobal        //     - GetGlobal<u8>          value
	GetGlobalLong    //     - GetGlobalLong<u24>     value
	SetGlobal        // value SetGlobal<u8>          value
	SetGlobalLong    // value SetGlobalLong<u24>     value

	GetLocal     //     - GetLocal<u8>      value
	GetLocalLong //     - GetLocalLong<u24> value
	SetLocal     // value SetLocal<u8>      value
	SetLocalLong // value SetLocalLong<u24> value

	GetUpvalue   //     - GetUpvalue<u8> value
	SetUpvalue   // value SetUpvalue<u8> value
	CloseUpvalue //  value CloseUpvalue   -

	GetProperty     //    instance GetProperty<u8>      value
	GetPropertyLong //    instance GetPropertyLong<u24> value
	SetProperty     // instance value SetProperty<u8>      value
	SetPropertyLong // instance value SetPropertyLong<u24> value
	GetSuper        //    instance super GetSuper<u8>      bound
	GetSuperLong    //    instance super GetSuperLong<u24> bound

	Equal        // a b Equal        bool
	NotEqual     // a b NotEqual     bool
	Greater      // a b Greater      bool
	GreaterEqual // a b GreaterEqual bool
	Less         // a b Less         bool
	LessEqual    // a b LessEqual    bool

	Add      // a b Add      value
	Subtract // a b Subtract value
	Multiply // a b Multiply value
	Divide   // a b Divide   value
	Not      //   x Not      bool
	Negate   //   x Negate   value

	Ternary // cond then else Ternary value

	Print //  value Print -

	Jump        // -    Jump<u16>        -
	JumpIfFalse // cond JumpIfFalse<u16> cond
	JumpIfTrue  // cond JumpIfTrue<u16>  cond
	Loop        // -    Loop<u16>        -

	Call        // fn a1..an Call<u8>        result
	Invoke      //  recv a1..an Invoke<u8,u8>      result
	InvokeLong  //  recv a1..an InvokeLong<u24,u8>  result
	SuperInvoke //  recv a1..an super SuperInvoke<u8,u8>     result
	SuperInvokeLong // recv a1..an super SuperInvokeLong<u24,u8> result

	Closure     // -  Closure<u8>  closure     (followed by IsLocal/Index pairs per upvalue)
	ClosureLong // -  ClosureLong<u24> closure (followed by IsLocal/Index pairs per upvalue)

	Return // value Return -

	Class   //         - Class<u8>   class
	Inherit // super sub Inherit     super
	Method  //  class fn Method<u8>  class
	MethodLong // class fn MethodLong<u24> class

	numOpCodes
)

var opcodeNames = [numOpCodes]string{
	Constant:         "CONSTANT",
	ConstantLong:     "CONSTANT_LONG",
	Nil:              "NIL",
	True:             "TRUE",
	False:            "FALSE",
	Pop:              "POP",
	PopN:             "POP_N",
	PopNLong:         "POP_N_LONG",
	DefineGlobal:     "DEFINE_GLOBAL",
	DefineGlobalLong: "DEFINE_GLOBAL_LONG",
	GetGlobal:        "GET_GLOBAL",
	GetGlobalLong:    "GET_GLOBAL_LONG",
	SetGlobal:        "SET_GLOBAL",
	SetGlobalLong:    "SET_GLOBAL_LONG",
	GetLocal:         "GET_LOCAL",
	GetLocalLong:     "GET_LOCAL_LONG",
	SetLocal:         "SET_LOCAL",
	SetLocalLong:     "SET_LOCAL_LONG",
	GetUpvalue:       "GET_UPVALUE",
	SetUpvalue:       "SET_UPVALUE",
	CloseUpvalue:     "CLOSE_UPVALUE",
	GetProperty:      "GET_PROPERTY",
	GetPropertyLong:  "GET_PROPERTY_LONG",
	SetProperty:      "SET_PROPERTY",
	SetPropertyLong:  "SET_PROPERTY_LONG",
	GetSuper:         "GET_SUPER",
	GetSuperLong:     "GET_SUPER_LONG",
	Equal:            "EQUAL",
	NotEqual:         "NOT_EQUAL",
	Greater:          "GREATER",
	GreaterEqual:     "GREATER_EQUAL",
	Less:             "LESS",
	LessEqual:        "LESS_EQUAL",
	Add:              "ADD",
	Subtract:         "SUBTRACT",
	Multiply:         "MULTIPLY",
	Divide:           "DIVIDE",
	Not:              "NOT",
	Negate:           "NEGATE",
	Ternary:          "TERNARY",
	Print:            "PRINT",
	Jump:             "JUMP",
	JumpIfFalse:      "JUMP_IF_FALSE",
	JumpIfTrue:       "JUMP_IF_TRUE",
	Loop:             "LOOP",
	Call:             "CALL",
	Invoke:           "INVOKE",
	InvokeLong:       "INVOKE_LONG",
	SuperInvoke:      "SUPER_INVOKE",
	SuperInvokeLong:  "SUPER_INVOKE_LONG",
	Closure:          "CLOSURE",
	ClosureLong:      "CLOSURE_LONG",
	Return:           "RETURN",
	Class:            "CLASS",
	Inherit:          "INHERIT",
	Method:           "METHOD",
	MethodLong:       "METHOD_LONG",
}

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}

// longForm pairs every short (u8-operand) opcode that has one with its
// u24-operand counterpart, so the compiler can pick the right one once an
// index overflows 256 entries.
var longForm = map[OpCode]OpCode{
	Constant:     ConstantLong,
	PopN:         PopNLong,
	DefineGlobal: DefineGlobalLong,
	GetGlobal:    GetGlobalLong,
	SetGlobal:    SetGlobalLong,
	GetLocal:     GetLocalLong,
	SetLocal:     SetLocalLong,
	GetProperty:  GetPropertyLong,
	SetProperty:  SetPropertyLong,
	GetSuper:     GetSuperLong,
	Invoke:       InvokeLong,
	SuperInvoke:  SuperInvokeLong,
	Closure:      ClosureLong,
	Method:       MethodLong,
}

// LongForm returns the u24-operand counterpart of a short opcode, and
// whether op has one.
func LongForm(op OpCode) (OpCode, bool) {
	long, ok := longForm[op]
	return long, ok
}
