package chunk

import "fmt"

// Opcode is a single bytecode instruction kind. All operands are encoded
// little-endian immediately following the opcode byte (spec §6.1).
type Opcode uint8

//nolint:revive
const (
	Halt Opcode = iota // - halt -

	// stack literals
	PushTrue  // - pushTrue  bool
	PushFalse // - pushFalse bool
	PushN     // - pushN<f64>         number
	PushS     // - pushS<str_id:u16>  string
	PushNil   // - pushNil<obj_ty:u16> object (zero-valued)

	// variable and field access
	PushG // - pushG<name_id:u16> value
	PopG  // value popG<name_id:u16> -
	PushL // - pushL<pos:u8> value
	PopL  // value popL<pos:u8> -
	PushF // object pushF<field:u8> value
	PopF  // object value popF<field:u8> -

	// stack shape
	Discard  // value discard -
	// NDiscard drops n values from the stack without disturbing whatever
	// sits above them: with a result value on top (block-as-expression) it
	// removes the n locals beneath that result; with nothing on top
	// (block-as-statement) it simply removes the n topmost locals.
	NDiscard // ...v1..vn[,result] nDiscard<n:u8> [result]

	// arithmetic (number)
	NegN  // x negN -x
	AddN  // x y addN x+y
	SubN  // x y subN x-y
	MultN // x y multN x*y
	DivN  // x y divN x/y

	// logic and comparison
	InvB     // x invB !x
	EqB      // x y eqB x==y
	EqN      // x y eqN x==y
	LessN    // x y lessN x<y
	GreaterN // x y greaterN x>y

	// control flow. The conditional jumps peek at cond rather than popping
	// it: a taken jump leaves cond on the stack, a fallthrough leaves it
	// there too, so callers pair every conditional jump with an explicit
	// discard on whichever path needs the value gone (this is what lets
	// "or"/"and" leave the decisive operand as the expression's result).
	JumpFwd  // - jumpFwd<i16> -
	JumpFwdT // cond(peek) jumpFwdT<i16> cond   (jump if true)
	JumpFwdF // cond(peek) jumpFwdF<i16> cond   (jump if false)
	JumpBack // - jumpBack<u16> -

	// calls
	CallD      // args... callD<proc_id:u16> result?
	ReturnVal  // value returnVal -
	ReturnVoid // - returnVoid -

	// object construction
	ConstrObj // f1..fn constrObj<ty:u16><n_fields:u8> object

	maxOpcode
)

var opcodeNames = [...]string{
	Halt:       "halt",
	PushTrue:   "pushTrue",
	PushFalse:  "pushFalse",
	PushN:      "pushN",
	PushS:      "pushS",
	PushNil:    "pushNil",
	PushG:      "pushG",
	PopG:       "popG",
	PushL:      "pushL",
	PopL:       "popL",
	PushF:      "pushF",
	PopF:       "popF",
	Discard:    "discard",
	NDiscard:   "nDiscard",
	NegN:       "negN",
	AddN:       "addN",
	SubN:       "subN",
	MultN:      "multN",
	DivN:       "divN",
	InvB:       "invB",
	EqB:        "eqB",
	EqN:        "eqN",
	LessN:      "lessN",
	GreaterN:   "greaterN",
	JumpFwd:    "jumpFwd",
	JumpFwdT:   "jumpFwdT",
	JumpFwdF:   "jumpFwdF",
	JumpBack:   "jumpBack",
	CallD:      "callD",
	ReturnVal:  "returnVal",
	ReturnVoid: "returnVoid",
	ConstrObj:  "constrObj",
}

func (op Opcode) String() string {
	if op < maxOpcode {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal opcode (%d)", op)
}

// OperandSize returns the number of operand bytes following op's opcode
// byte (0 for operand-less instructions).
func OperandSize(op Opcode) int {
	switch op {
	case PushN:
		return 8 // f64
	case PushS, PushNil, PushG, PopG:
		return 2 // u16
	case PushL, PopL, PushF, PopF, NDiscard:
		return 1 // u8
	case JumpFwd, JumpFwdT, JumpFwdF:
		return 2 // i16
	case JumpBack, CallD:
		return 2 // u16
	case ConstrObj:
		return 3 // u16 + u8
	default:
		return 0
	}
}
