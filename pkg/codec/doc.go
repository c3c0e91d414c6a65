// Package codec provides the binary primitives the replay container is built
// from.
//
// Every primitive reads from a stream.Reader or writes to a stream.Writer and
// either completes or returns an error; outputs are only handed back after a
// fully successful read.
//
// # Wire Primitives
//
//	byte        1 byte
//	bool        1 byte, nonzero is true
//	uint16      2 bytes, little-endian
//	int32       4 bytes, little-endian
//	int64       8 bytes, little-endian
//	uleb128     1-5 bytes, 7-bit groups, low-order group first
//	string      [presence(1)][uleb128 length][bytes]
//	byte array  [int32 length][bytes]
//
// # ULEB128
//
// Each byte carries seven value bits; the high bit says another group
// follows. At most four full groups are read. The fifth byte is a guard that
// may only hold the top four bits of a 32-bit value, so anything above 0x0f
// there is reported as KindOverflow. Encoding emits the unsigned 32-bit
// pattern of the value, so negative numbers always take five bytes.
//
// # Strings
//
// A zero presence byte means the string is absent and nothing further is
// read. Any other presence byte introduces a length and body. Writers always
// emit StringMarker (0x0b) for a present string, including an empty one:
//
//	absent  -> 00
//	""      -> 0b 00
//	"abc"   -> 0b 03 61 62 63
//
// # Byte Arrays
//
// A byte array whose length is zero or negative is absent. ReadByteArray
// reports this through its ok result rather than an error, and
// WriteByteArray writes an empty array as a zero length with no payload.
//
// # Error Handling
//
// Failures are *Error values carrying a Kind:
//   - KindStream: the source ran short or the sink failed
//   - KindFormat: bytes were read but describe an invalid value
//   - KindOverflow: a ULEB128 guard byte is out of range
//   - KindCompression and KindUnsupported are used by higher layers
//
// Match them with errors.Is against ErrStream, ErrFormat and the other
// sentinels. Wrap preserves the innermost kind, so a short read deep inside
// a string is still ErrStream after any number of wraps. errors.Is against
// stream.ErrEndOfStream also works when the source ran dry.
//
// # Thread Safety
//
// The functions hold no state. Concurrent use of one stream is the caller's
// problem.
package codec
