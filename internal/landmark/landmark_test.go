package landmark

import (
	"errors"
	"math"
	"testing"
)

func TestFingerOf(t *testing.T) {
	want := map[int]Finger{0: Palm}
	for i := 1; i <= 4; i++ {
		want[i] = Thumb
	}
	for i := 5; i <= 8; i++ {
		want[i] = Index
	}
	for i := 9; i <= 12; i++ {
		want[i] = Middle
	}
	for i := 13; i <= 16; i++ {
		want[i] = Ring
	}
	for i := 17; i <= 20; i++ {
		want[i] = Pinky
	}

	for i := 0; i < NumLandmarks; i++ {
		if got := FingerOf(i); got != want[i] {
			t.Errorf("FingerOf(%d) = %v, want %v", i, got, want[i])
		}
	}

	t.Run("out of range is palm", func(t *testing.T) {
		for _, i := range []int{-1, 21, 100} {
			if got := FingerOf(i); got != Palm {
				t.Errorf("FingerOf(%d) = %v, want palm", i, got)
			}
		}
	})
}

func TestPoseFromPoints(t *testing.T) {
	t.Run("accepts 21 points", func(t *testing.T) {
		pts := make([]Point3D, NumLandmarks)
		for i := range pts {
			pts[i] = Point3D{X: float64(i) / 20, Y: 0.5, Z: -0.1}
		}

		pose, err := PoseFromPoints(pts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pose[IndexTip].X != pts[IndexTip].X {
			t.Errorf("index tip X = %f, want %f", pose[IndexTip].X, pts[IndexTip].X)
		}
	})

	t.Run("rejects wrong lengths", func(t *testing.T) {
		for _, n := range []int{0, 20, 22} {
			_, err := PoseFromPoints(make([]Point3D, n))
			if !errors.Is(err, ErrPoseLength) {
				t.Errorf("len %d: expected ErrPoseLength, got %v", n, err)
			}
		}
	})

	t.Run("points copies the pose", func(t *testing.T) {
		pose := ThumbsUpPose()
		pts := pose.Points()
		pts[0].X = 99
		if pose[Wrist].X == 99 {
			t.Error("Points() must not alias the pose")
		}
	})
}

func TestBones(t *testing.T) {
	seen := make(map[int]bool)
	for _, b := range Bones {
		if FingerOf(b[1]) == Palm {
			t.Errorf("bone %v ends on the wrist", b)
		}
		if seen[b[1]] {
			t.Errorf("joint %d is the distal end of two bones", b[1])
		}
		seen[b[1]] = true
	}
	if len(seen) != NumLandmarks-1 {
		t.Errorf("expected bones to reach %d joints, got %d", NumLandmarks-1, len(seen))
	}
}

func TestResult_HandDetected(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   bool
	}{
		{name: "nil", result: nil, want: false},
		{name: "no hand", result: &Result{Gesture: NoHandDetected}, want: false},
		{name: "gesture", result: &Result{Gesture: "Thumbs Up"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.HandDetected(); got != tt.want {
				t.Errorf("HandDetected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPose_JointAngles(t *testing.T) {
	t.Run("returns one angle per inner joint", func(t *testing.T) {
		pose := ThumbsUpPose()
		if got := len(pose.JointAngles()); got != NumAngles {
			t.Errorf("expected %d angles, got %d", NumAngles, got)
		}
	})

	t.Run("straight middle finger is 180 degrees", func(t *testing.T) {
		pose := OpenPalmPose()
		angles := pose.JointAngles()

		// middle finger is the third chain
		for i := 6; i < 9; i++ {
			if math.Abs(angles[i]-180) > 1e-6 {
				t.Errorf("angle %d = %f, want 180", i, angles[i])
			}
		}
	})

	t.Run("curled finger bends", func(t *testing.T) {
		pose := ThumbsUpPose()
		angles := pose.JointAngles()

		// index PIP joint: second angle of the index chain
		if angles[4] > 120 {
			t.Errorf("expected curled index PIP angle < 120, got %f", angles[4])
		}
	})

	t.Run("coincident points give zero", func(t *testing.T) {
		var pose Pose
		for _, a := range pose.JointAngles() {
			if a != 0 {
				t.Fatalf("expected 0 for degenerate pose, got %f", a)
			}
		}
	})
}

func TestThumbsUpPose(t *testing.T) {
	p := ThumbsUpPose()

	if p[ThumbTip].Y >= p[ThumbMCP].Y {
		t.Error("thumb tip should be above thumb MCP (lower Y value)")
	}

	for _, f := range [][2]int{{IndexMCP, IndexTip}, {MiddleMCP, MiddleTip}, {RingMCP, RingTip}, {PinkyMCP, PinkyTip}} {
		if ext := p[f[0]].Y - p[f[1]].Y; ext > 0.15 {
			t.Errorf("finger ending at %d appears extended (extension: %f)", f[1], ext)
		}
	}
}

func TestOpenPalmPose(t *testing.T) {
	p := OpenPalmPose()

	for _, f := range [][2]int{{IndexMCP, IndexTip}, {MiddleMCP, MiddleTip}, {RingMCP, RingTip}, {PinkyMCP, PinkyTip}} {
		if ext := p[f[0]].Y - p[f[1]].Y; ext < 0.2 {
			t.Errorf("finger ending at %d not extended enough (extension: %f)", f[1], ext)
		}
	}
}
