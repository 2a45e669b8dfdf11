package telemetry

// TraceRecord is one row of the per-tick player trace.
type TraceRecord struct {
	Tick     int64   `csv:"tick"`
	Time     float64 `csv:"t"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Z        float64 `csv:"z"`
	VX       float64 `csv:"vx"`
	VY       float64 `csv:"vy"`
	VZ       float64 `csv:"vz"`
	Pitch    float64 `csv:"pitch"`
	Yaw      float64 `csv:"yaw"`
	Grounded bool    `csv:"grounded"`
	Class    string  `csv:"class"` // terrain under the player, empty when off-map or voxel
}
