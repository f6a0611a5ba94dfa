package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/landmark"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestJointColor(t *testing.T) {
	want := map[int]color.RGBA{0: WristColor}
	for i := 1; i <= 4; i++ {
		want[i] = ThumbColor
		want[i+4] = IndexColor
		want[i+8] = MiddleColor
		want[i+12] = RingColor
		want[i+16] = PinkyColor
	}

	for i := 0; i < landmark.NumLandmarks; i++ {
		if got := JointColor(i); got != want[i] {
			t.Errorf("JointColor(%d) = %v, want %v", i, got, want[i])
		}
	}
}

func TestMarkerRadius(t *testing.T) {
	tests := []struct {
		z    float64
		want float64
	}{
		{z: 0, want: 3},
		{z: 0.5, want: 1.5},
		{z: -1, want: 6},
		{z: 1, want: 0},
		{z: 2.5, want: 0},
	}

	for _, tt := range tests {
		if got := MarkerRadius(3, tt.z); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MarkerRadius(3, %v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestOverlay_DrawOrderAndCounts(t *testing.T) {
	const w, h = 640, 480
	pose := landmark.ThumbsUpPose()
	canvas := NewRecordingCanvas(w, h)

	Overlay(canvas, image.NewRGBA(image.Rect(0, 0, w, h)), &pose, DefaultStyle())

	ops := canvas.Ops()
	// 1 image + 1 outline + 20 bones + 21 markers
	if len(ops) != 43 {
		t.Fatalf("recorded %d ops, want 43", len(ops))
	}
	if ops[0].Kind != OpImage {
		t.Errorf("first op = %v, want image", ops[0].Kind)
	}

	t.Run("palm outline", func(t *testing.T) {
		outline := ops[1]
		if outline.Kind != OpPath || len(outline.Points) != len(landmark.PalmOutline) {
			t.Fatalf("outline op = %+v", outline)
		}
		for i, j := range landmark.PalmOutline {
			if got, want := outline.Points[i], Denormalize(pose[j], w, h); got != want {
				t.Errorf("outline[%d] = %v, want %v", i, got, want)
			}
		}
		n := color.NRGBAModel.Convert(outline.Color).(color.NRGBA)
		if n.R != 255 || n.G != 255 || n.B != 255 || n.A != 128 {
			t.Errorf("outline color = %v, want half transparent white", n)
		}
		if outline.Width != 2 {
			t.Errorf("outline width = %v, want 2", outline.Width)
		}
	})

	t.Run("bones", func(t *testing.T) {
		for i, bone := range landmark.Bones {
			op := ops[2+i]
			if op.Kind != OpPath || len(op.Points) != 2 {
				t.Fatalf("bone %d op = %+v", i, op)
			}
			if op.Points[0] != Denormalize(pose[bone[0]], w, h) || op.Points[1] != Denormalize(pose[bone[1]], w, h) {
				t.Errorf("bone %d endpoints = %v", i, op.Points)
			}
			if op.Color != JointColor(bone[1]) {
				t.Errorf("bone %d color = %v, want %v", i, op.Color, JointColor(bone[1]))
			}
		}
	})

	t.Run("markers", func(t *testing.T) {
		for i := 0; i < landmark.NumLandmarks; i++ {
			op := ops[22+i]
			if op.Kind != OpCircle {
				t.Fatalf("marker %d op = %+v", i, op)
			}
			want := Point{X: pose[i].X * w, Y: pose[i].Y * h}
			if op.Center != want {
				t.Errorf("marker %d center = %v, want %v", i, op.Center, want)
			}
			if r := MarkerRadius(3, pose[i].Z); op.Radius != r {
				t.Errorf("marker %d radius = %v, want %v", i, op.Radius, r)
			}
			if op.Color != JointColor(i) {
				t.Errorf("marker %d color = %v", i, op.Color)
			}
		}
	})
}

func TestOverlay_DeepJointHasZeroRadius(t *testing.T) {
	pose := landmark.OpenPalmPose()
	pose[landmark.PinkyTip].Z = 1.5
	canvas := NewRecordingCanvas(100, 100)

	Overlay(canvas, nil, &pose, DefaultStyle())

	ops := canvas.Ops()
	last := ops[len(ops)-1]
	if last.Kind != OpCircle || last.Radius != 0 {
		t.Errorf("pinky tip marker = %+v, want zero radius", last)
	}
}

func TestOverlay_NilPose(t *testing.T) {
	t.Run("records only the image", func(t *testing.T) {
		canvas := NewRecordingCanvas(64, 48)
		Overlay(canvas, solidImage(64, 48, color.RGBA{R: 10, G: 20, B: 30, A: 255}), nil, DefaultStyle())

		if n := len(canvas.Ops()); n != 1 {
			t.Errorf("recorded %d ops, want 1", n)
		}
	})

	t.Run("pixels match the snapshot", func(t *testing.T) {
		base := solidImage(64, 48, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		canvas := NewImageCanvas(64, 48)

		Overlay(canvas, base, nil, DefaultStyle())

		got := canvas.Image()
		for i := range base.Pix {
			if got.Pix[i] != base.Pix[i] {
				t.Fatalf("pixel byte %d = %d, want %d", i, got.Pix[i], base.Pix[i])
			}
		}
	})
}

func TestOverlay_IsStateless(t *testing.T) {
	base := solidImage(64, 48, color.RGBA{A: 255})
	pose := landmark.OpenPalmPose()
	canvas := NewImageCanvas(64, 48)

	Overlay(canvas, base, &pose, DefaultStyle())
	Overlay(canvas, base, nil, DefaultStyle())

	got := canvas.Image()
	for i := range base.Pix {
		if got.Pix[i] != base.Pix[i] {
			t.Fatalf("previous overlay left pixel byte %d = %d", i, got.Pix[i])
		}
	}
}

func TestImageCanvas(t *testing.T) {
	const w, h = 640, 480

	t.Run("marker pixel takes joint color", func(t *testing.T) {
		pose := landmark.ThumbsUpPose()
		canvas := NewImageCanvas(w, h)
		Overlay(canvas, solidImage(w, h, color.RGBA{A: 255}), &pose, DefaultStyle())

		c := Denormalize(pose[landmark.ThumbTip], w, h)
		if got := canvas.Image().RGBAAt(int(c.X), int(c.Y)); got != ThumbColor {
			t.Errorf("thumb tip pixel = %v, want %v", got, ThumbColor)
		}
	})

	t.Run("translucent stroke blends", func(t *testing.T) {
		canvas := NewImageCanvas(20, 20)
		canvas.DrawImage(solidImage(20, 20, color.RGBA{A: 255}))
		canvas.StrokePath([]Point{{X: 0, Y: 10}, {X: 20, Y: 10}}, DefaultStyle().OutlineColor, 2)

		got := canvas.Image().RGBAAt(10, 10)
		if got.R < 100 || got.R > 156 || got.A != 255 {
			t.Errorf("blended pixel = %v, want mid grey", got)
		}
	})

	t.Run("zero radius draws nothing", func(t *testing.T) {
		canvas := NewImageCanvas(10, 10)
		canvas.FillCircle(Point{X: 5, Y: 5}, 0, ThumbColor)

		for _, b := range canvas.Image().Pix {
			if b != 0 {
				t.Fatal("canvas modified by zero radius circle")
			}
		}
	})

	t.Run("annotate", func(t *testing.T) {
		canvas := NewImageCanvas(200, 40)
		canvas.Annotate("Thumbs Up")

		drawn := false
		for _, b := range canvas.Image().Pix {
			if b != 0 {
				drawn = true
				break
			}
		}
		if !drawn {
			t.Error("Annotate drew nothing")
		}
	})
}

func TestImageCanvas_Snapshot(t *testing.T) {
	canvas := NewImageCanvas(8, 8)
	canvas.DrawImage(solidImage(8, 8, color.RGBA{R: 200, A: 255}))

	snap, err := canvas.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	canvas.DrawImage(solidImage(8, 8, color.RGBA{B: 200, A: 255}))

	if got := snap.(*image.RGBA).RGBAAt(3, 3); got.R != 200 || got.B != 0 {
		t.Errorf("snapshot changed with canvas: %v", got)
	}
}
