package vad

import (
	"encoding/binary"
	"math"

	"sensorpipe/pkg/wire"
)

const (
	energyThreshold  = 30.0
	arousalThreshold = 0.35
)

// valenceWeights, arousalWeights, and dominanceWeights hold the ten
// per-channel weights followed by the axis bias, in the fixed channel
// order battery_low, people_count, known_face, unknown_face,
// fall_event, lifted, idle_time, sound_energy, voice_rate,
// motion_energy.
var (
	valenceWeights   = [11]float32{-0.05, 0.15, 0.30, -0.20, -0.20, -0.15, -0.10, 0.05, 0.15, 0.00, 0.30}
	arousalWeights   = [11]float32{0.00, 0.10, 0.00, 0.10, 0.20, 0.15, -0.25, 0.25, 0.10, 0.25, 0.10}
	dominanceWeights = [11]float32{-0.15, 0.10, 0.25, -0.20, -0.15, -0.15, -0.05, 0.05, 0.15, 0.05, 0.35}
)

// Compute dispatches on pkt.DataType: KindAudio for data_type=1 or any
// unrecognized value, KindEmotional for data_type=2.
func Compute(pkt *wire.Packet) Result {
	switch pkt.DataType {
	case wire.DataTypeSensorVector:
		return computeEmotional(pkt)
	default:
		return computeAudio(pkt)
	}
}

func computeAudio(pkt *wire.Packet) Result {
	res := Result{
		SensorID:  pkt.SensorID,
		Seq:       pkt.Seq,
		Kind:      KindAudio,
		Threshold: energyThreshold,
	}

	payload := pkt.Payload()
	n := len(payload) / 2
	if n == 0 {
		return res
	}

	var sumSquares float64
	for i := 0; i < n; i++ {
		sample := int16(binary.LittleEndian.Uint16(payload[i*2 : i*2+2]))
		v := float64(sample)
		sumSquares += v * v
	}

	res.Energy = math.Sqrt(sumSquares / float64(n))
	res.IsActive = res.Energy > energyThreshold
	return res
}

func computeEmotional(pkt *wire.Packet) Result {
	res := Result{
		SensorID: pkt.SensorID,
		Seq:      pkt.Seq,
		Kind:     KindEmotional,
	}

	payload := pkt.Payload()
	if len(payload) < wire.SensorVectorBytes {
		return res
	}

	var channels [wire.SensorVectorLen]float32
	for i := 0; i < wire.SensorVectorLen; i++ {
		bits := binary.LittleEndian.Uint32(payload[i*4 : i*4+4])
		channels[i] = math.Float32frombits(bits)
	}

	res.Valence = weightedAxis(channels, valenceWeights)
	res.Arousal = weightedAxis(channels, arousalWeights)
	res.Dominance = weightedAxis(channels, dominanceWeights)
	res.IsActive = res.Arousal > arousalThreshold
	return res
}

// weightedAxis computes clamp(bias + sum(w[i]*c[i]), 0, 1) for one V/A/D
// axis; weights[10] is the bias term.
func weightedAxis(channels [wire.SensorVectorLen]float32, weights [11]float32) float32 {
	sum := weights[wire.SensorVectorLen] // bias
	for i, c := range channels {
		sum += weights[i] * c
	}
	if sum < 0 {
		return 0
	}
	if sum > 1 {
		return 1
	}
	return sum
}
