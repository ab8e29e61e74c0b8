// Package vad computes Voice Activity Detection results over a decoded
// sensor packet: RMS energy for audio payloads, or a Valence/Arousal/
// Dominance triple for emotional sensor-vector payloads.
package vad

// Kind distinguishes which computation produced a Result.
type Kind uint8

const (
	KindAudio Kind = iota
	KindEmotional
)

// Result is the outcome of running the VAD kernel over one packet.
// Only the fields relevant to Kind are meaningful: Energy/Threshold for
// KindAudio, Valence/Arousal/Dominance for KindEmotional.
type Result struct {
	SensorID uint32
	Seq      uint64
	Kind     Kind
	IsActive bool

	Energy    float64
	Threshold float64

	Valence   float32
	Arousal   float32
	Dominance float32
}
