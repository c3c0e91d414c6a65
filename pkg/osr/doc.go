// Package osr reads and writes legacy replay containers.
//
// # Container Layout
//
//	mode          byte
//	version       int32
//	beatmap hash  string (32 bytes)
//	username      string
//	score hash    string (32 bytes)
//	300s          uint16
//	100s          uint16
//	50s           uint16
//	gekis         uint16
//	katus         uint16
//	misses        uint16
//	score         int32
//	max combo     uint16
//	perfect       bool
//	mods          int32
//	health graph  string
//	timestamp     int64
//	frames        byte array, lzma compressed frame list
//	online id     int64 from version 20140721, int32 from 20121008
//
// Versions older than 20121008 are rejected with codec.KindUnsupported, as
// are containers whose frame array is absent.
//
// # Usage
//
//	rp, err := osr.ReadFile("replay.osr")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rp.Player(), rp.TotalScore, len(rp.Frames))
//
// A Codec holds no mutable state and may be shared between goroutines.
package osr
