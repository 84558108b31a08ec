// Package types holds the managed value types that cross the bridge by value:
// geometry structs, animation timing structs, text and enumeration types.
//
// Every type here has a fixed native counterpart. Structs are copied into a
// native heap block when encoded, enumerations travel as plain int32 and are
// told apart only by the property type they are decoded for.
package types
