// Package landmark provides the hand landmark model shared by the capture,
// transport and render packages.
package landmark

import (
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NoHandDetected is the gesture label the inference service returns when the
// frame contains no hand.
const NoHandDetected = "No hand detected"

// ErrPoseLength is returned when a landmark list does not hold exactly
// NumLandmarks points.
var ErrPoseLength = errors.New("pose must have exactly 21 landmarks")

// Point3D is a normalized landmark. X and Y are in [0,1] relative to the
// frame; Z is a relative depth where smaller values are nearer the camera.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pose is one detected hand in fixed anatomical order.
type Pose [NumLandmarks]Point3D

// PoseFromPoints builds a Pose from a decoded landmark list.
func PoseFromPoints(points []Point3D) (*Pose, error) {
	if len(points) != NumLandmarks {
		return nil, fmt.Errorf("%w: got %d", ErrPoseLength, len(points))
	}
	var p Pose
	copy(p[:], points)
	return &p, nil
}

// Points returns the pose as a slice, the shape used on the wire.
func (p *Pose) Points() []Point3D {
	if p == nil {
		return nil
	}
	out := make([]Point3D, NumLandmarks)
	copy(out, p[:])
	return out
}

// Result is one response from the inference service.
type Result struct {
	Gesture string
	Pose    *Pose // nil when the service sent no landmarks
}

// HandDetected reports whether the result carries a classified hand.
func (r *Result) HandDetected() bool {
	return r != nil && r.Gesture != NoHandDetected
}

// Bones lists the 20 skeleton segments as (proximal, distal) joint pairs,
// finger by finger from the wrist outwards.
var Bones = [20][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{Wrist, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{Wrist, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// PalmOutline is the traversal order of the palm polygon: wrist, the four
// finger bases, and back to the wrist.
var PalmOutline = [6]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP, Wrist}

// Finger identifies which digit a joint belongs to.
type Finger int

const (
	Palm Finger = iota // the wrist, or any index outside the hand
	Thumb
	Index
	Middle
	Ring
	Pinky
)

func (f Finger) String() string {
	switch f {
	case Thumb:
		return "thumb"
	case Index:
		return "index"
	case Middle:
		return "middle"
	case Ring:
		return "ring"
	case Pinky:
		return "pinky"
	default:
		return "palm"
	}
}

// FingerOf maps a joint index to its finger: 1-4 thumb, 5-8 index,
// 9-12 middle, 13-16 ring, 17-20 pinky, everything else palm.
func FingerOf(index int) Finger {
	if index < ThumbCMC || index > PinkyTip {
		return Palm
	}
	return Finger((index-1)/4 + 1)
}

// fingerChains lists every finger as wrist plus its four joints.
var fingerChains = [5][5]int{
	{Wrist, ThumbCMC, ThumbMCP, ThumbIP, ThumbTip},
	{Wrist, IndexMCP, IndexPIP, IndexDIP, IndexTip},
	{Wrist, MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
	{Wrist, RingMCP, RingPIP, RingDIP, RingTip},
	{Wrist, PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
}

// NumAngles is the number of values JointAngles returns.
const NumAngles = 15

// JointAngles returns the bend angle in degrees at the three inner joints of
// every finger, thumb first. A straight finger gives values near 180.
// These are the features the inference service classifies on.
func (p *Pose) JointAngles() []float64 {
	angles := make([]float64, 0, NumAngles)
	for _, chain := range fingerChains {
		for i := 0; i+2 < len(chain); i++ {
			angles = append(angles, angleAt(p[chain[i]], p[chain[i+1]], p[chain[i+2]]))
		}
	}
	return angles
}

// angleAt is the angle p1-p2-p3 measured at p2.
func angleAt(p1, p2, p3 Point3D) float64 {
	v1 := Point3D{X: p1.X - p2.X, Y: p1.Y - p2.Y, Z: p1.Z - p2.Z}
	v2 := Point3D{X: p3.X - p2.X, Y: p3.Y - p2.Y, Z: p3.Z - p2.Z}

	n1 := math.Sqrt(v1.X*v1.X + v1.Y*v1.Y + v1.Z*v1.Z)
	n2 := math.Sqrt(v2.X*v2.X + v2.Y*v2.Y + v2.Z*v2.Z)
	if n1 < 1e-10 || n2 < 1e-10 {
		return 0
	}

	cos := (v1.X*v2.X + v1.Y*v2.Y + v1.Z*v2.Z) / (n1 * n2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
