package entities

// Vector3 is the three-component float vector natives exchange through the
// auxiliary data region. On the stack it occupies three slots, one float32
// per slot in the low 32 bits.
type Vector3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}
