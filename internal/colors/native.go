package colors

import "fmt"

// NativeColorID identifies a well-known base color.
type NativeColorID uint8

const (
	Unknown NativeColorID = iota
	TopObject
	BigInt
	Boolean
	NullOrVoid
	Number
	String
	Symbol
	BigIntObject
	BooleanObject
	NumberObject
	StringObject
	SymbolObject

	numNativeColorIDs
)

type nativeInfo struct {
	name      string
	primitive bool
	boxed     NativeColorID
}

// boxed is only meaningful for primitives; everything else boxes to itself.
var natives = [numNativeColorIDs]nativeInfo{
	Unknown:       {name: "unknown", boxed: Unknown},
	TopObject:     {name: "top_object", boxed: TopObject},
	BigInt:        {name: "bigint", primitive: true, boxed: BigIntObject},
	Boolean:       {name: "boolean", primitive: true, boxed: BooleanObject},
	NullOrVoid:    {name: "null_or_void", primitive: true, boxed: NullOrVoid},
	Number:        {name: "number", primitive: true, boxed: NumberObject},
	String:        {name: "string", primitive: true, boxed: StringObject},
	Symbol:        {name: "symbol", primitive: true, boxed: SymbolObject},
	BigIntObject:  {name: "bigint_object", boxed: BigIntObject},
	BooleanObject: {name: "boolean_object", boxed: BooleanObject},
	NumberObject:  {name: "number_object", boxed: NumberObject},
	StringObject:  {name: "string_object", boxed: StringObject},
	SymbolObject:  {name: "symbol_object", boxed: SymbolObject},
}

// AllNativeColorIDs returns every native color id in declaration order.
func AllNativeColorIDs() []NativeColorID {
	ids := make([]NativeColorID, numNativeColorIDs)
	for i := range ids {
		ids[i] = NativeColorID(i)
	}
	return ids
}

// Valid reports whether id is a declared native color id.
func (id NativeColorID) Valid() bool {
	return id < numNativeColorIDs
}

func (id NativeColorID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("NativeColorID(%d)", uint8(id))
	}
	return natives[id].name
}

// IsPrimitive reports whether values of this native color are primitives
// (as opposed to objects).
func (id NativeColorID) IsPrimitive() bool {
	return id.Valid() && natives[id].primitive
}

// Box returns the object-wrapper counterpart of a primitive id, for example
// Number.Box() == NumberObject. Non-primitive ids and NullOrVoid box to
// themselves.
func (id NativeColorID) Box() NativeColorID {
	if !id.Valid() {
		return id
	}
	return natives[id].boxed
}

// ParseNativeColorID resolves the snake_case name of a native color id.
func ParseNativeColorID(name string) (NativeColorID, bool) {
	for i, info := range natives {
		if info.name == name {
			return NativeColorID(i), true
		}
	}
	return 0, false
}
