package landmark

// ThumbsUpPose returns a reference pose with the thumb extended upward and
// the other fingers curled, as the inference service reports "Thumbs Up".
func ThumbsUpPose() Pose {
	var p Pose

	p[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended upward (Y decreases going up)
	p[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	p[ThumbMCP] = Point3D{X: 0.58, Y: 0.65, Z: 0.0}
	p[ThumbIP] = Point3D{X: 0.58, Y: 0.50, Z: 0.0}
	p[ThumbTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	p[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	p[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	p[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	p[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	p[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	p[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	p[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	p[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	p[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	p[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	p[RingDIP] = Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	p[RingTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}

	p[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	p[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	p[PinkyDIP] = Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	p[PinkyTip] = Point3D{X: 0.35, Y: 0.74, Z: -0.02}

	return p
}

// OpenPalmPose returns a reference pose with all fingers extended.
func OpenPalmPose() Pose {
	var p Pose

	p[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	p[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	p[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	p[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	p[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	p[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	p[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	p[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	p[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	p[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	p[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	p[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	p[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	p[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	p[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	p[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	p[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	p[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	p[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	p[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	p[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return p
}
