// Package replay holds the in-memory model of a legacy replay and the two
// text encodings nested inside the container.
//
// # Frame List
//
// Input frames travel as comma separated records of four pipe separated
// fields, the first of which is a time delta:
//
//	delta|x|y|buttons,delta|x|y|buttons,...,-1234|0|0|0
//
// DecodeFrames accumulates the deltas into absolute times and repairs the
// artifacts older clients left at the start of a replay. EncodeFrames writes
// deltas with four decimals and appends the terminator.
//
// # Health Graph
//
//	time|value,time|value,
//
// Each record must have exactly two fields.
package replay
