package las

// Color is a 16-bit-per-channel RGB color carried by color point formats.
type Color struct {
	Red   uint16
	Green uint16
	Blue  uint16
}

// Vector3 is a triple of float64 axis values, used both for real-world
// point coordinates and for waveform return-point locations.
type Vector3 struct {
	X, Y, Z float64
}

// Waveform is the optional 29-byte waveform packet descriptor carried by
// point formats 4, 5, 9 and 10.
type Waveform struct {
	PacketDescriptorIndex uint8
	ByteOffset            uint64
	PacketSize            uint32
	ReturnPointLocation   float32
	Location              Vector3 // xyz-parametric
}
