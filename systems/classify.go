package systems

// TerrainClass is the color band of a patch of terrain.
type TerrainClass uint8

const (
	ClassWater TerrainClass = iota
	ClassBeach
	ClassGrass
	ClassRock
	ClassSnow
)

// NumClasses is the number of terrain classes.
const NumClasses = 5

// Upper bounds (exclusive) of each band on normalized height. Snow has none.
var classThresholds = [...]float64{0.38, 0.45, 0.82, 0.92}

// Color is an RGB triple in [0, 1].
type Color struct {
	R, G, B float32
}

var classColors = [NumClasses]Color{
	ClassWater: {0.08, 0.28, 0.65},
	ClassBeach: {0.72, 0.66, 0.46},
	ClassGrass: {0.10, 0.62, 0.16},
	ClassRock:  {0.40, 0.40, 0.42},
	ClassSnow:  {0.92, 0.92, 0.95},
}

var classNames = [NumClasses]string{"water", "beach", "grass", "rock", "snow"}

// ClassifyHeight maps a normalized height to its band.
func ClassifyHeight(h float64) TerrainClass {
	for i, limit := range classThresholds {
		if h < limit {
			return TerrainClass(i)
		}
	}
	return ClassSnow
}

// Color returns the render color of the class.
func (c TerrainClass) Color() Color {
	if int(c) >= NumClasses {
		return Color{1, 0, 1}
	}
	return classColors[c]
}

func (c TerrainClass) String() string {
	if int(c) >= NumClasses {
		return "unknown"
	}
	return classNames[c]
}

// QuadClass classifies cell (x, z) by the mean of its four corners.
func (f *HeightField) QuadClass(x, z int) TerrainClass {
	avg := (f.Heights[z][x] + f.Heights[z][x+1] + f.Heights[z+1][x] + f.Heights[z+1][x+1]) / 4
	return ClassifyHeight(avg)
}
