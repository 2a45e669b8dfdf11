// Height field preview tool - top-down view of the generated terrain with
// sliders for the noise parameters.
//
// Usage: go run ./cmd/noisepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/strata/config"
	"github.com/pthm-cable/strata/systems"
	"github.com/pthm-cable/strata/telemetry"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30

	// Preview grid in cells; the texture holds one pixel per vertex.
	gridCells = 255
	texSize   = gridCells + 1
)

// NoiseParams are the slider-controlled generation parameters.
type NoiseParams struct {
	NoiseScale float32
	Octaves    int
	Lacunarity float32
	Gain       float32
	Seed       int64
}

func paramsFromConfig(cfg *config.Config) NoiseParams {
	return NoiseParams{
		NoiseScale: float32(cfg.World.NoiseScale),
		Octaves:    cfg.Noise.Octaves,
		Lacunarity: float32(cfg.Noise.Lacunarity),
		Gain:       float32(cfg.Noise.Gain),
		Seed:       cfg.World.Seed,
	}
}

func (p NoiseParams) fieldParams() systems.HeightFieldParams {
	return systems.HeightFieldParams{
		Width:      gridCells,
		Depth:      gridCells,
		NoiseScale: float64(p.NoiseScale),
		Seed:       p.Seed,
		FBM: systems.FBMParams{
			Octaves:    p.Octaves,
			Lacunarity: float64(p.Lacunarity),
			Gain:       float64(p.Gain),
		},
	}
}

func (p NoiseParams) yaml() string {
	return fmt.Sprintf(`world:
  noise_scale: %.1f
  seed: %d
noise:
  octaves: %d
  lacunarity: %.2f
  gain: %.2f`,
		p.NoiseScale, p.Seed, p.Octaves, p.Lacunarity, p.Gain)
}

func main() {
	configPath := flag.String("config", "", "Path to config file (uses embedded defaults if empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	defaults := paramsFromConfig(cfg)
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Height Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(texSize, texSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var (
		field      *systems.HeightField
		stats      telemetry.TerrainStats
		genErr     error
		grayscale  bool
		needsRegen = true
	)

	for !rl.WindowShouldClose() {
		if needsRegen {
			field, genErr = systems.GenerateHeightField(params.fieldParams())
			if genErr == nil {
				stats = telemetry.ComputeTerrainStats(field)
				updateTexture(texture, field, grayscale)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: texSize, Height: texSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		if genErr != nil {
			rl.DrawText(genErr.Error(), 15, statsY, 16, rl.Maroon)
		} else {
			rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Mean: %.3f  Std: %.3f",
				stats.MinH, stats.MaxH, stats.MeanH, stats.StdH), 15, statsY, 16, rl.DarkGray)
			rl.DrawText(fmt.Sprintf("P10: %.3f  P50: %.3f  P90: %.3f",
				stats.P10H, stats.P50H, stats.P90H), 15, statsY+20, 16, rl.DarkGray)
			quads := float64(gridCells * gridCells)
			rl.DrawText(fmt.Sprintf("water %.0f%%  beach %.0f%%  grass %.0f%%  rock %.0f%%  snow %.0f%%",
				100*float64(stats.Water)/quads, 100*float64(stats.Beach)/quads,
				100*float64(stats.Grass)/quads, 100*float64(stats.Rock)/quads,
				100*float64(stats.Snow)/quads), 15, statsY+40, 16, rl.DarkGray)
		}

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Noise Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if v := slider(&panelY, panelX, "Noise scale (cells per noise unit)", "%.1f", params.NoiseScale, 4, 100); v != params.NoiseScale {
			params.NoiseScale = v
			needsRegen = true
		}
		if v := int(slider(&panelY, panelX, "Octaves (fBm detail level)", "%.0f", float32(params.Octaves), 1, 8)); v != params.Octaves {
			params.Octaves = v
			needsRegen = true
		}
		if v := slider(&panelY, panelX, "Lacunarity (frequency multiplier)", "%.2f", params.Lacunarity, 1.5, 4.0); v != params.Lacunarity {
			params.Lacunarity = v
			needsRegen = true
		}
		if v := slider(&panelY, panelX, "Gain (amplitude multiplier)", "%.2f", params.Gain, 0.2, 0.9); v != params.Gain {
			params.Gain = v
			needsRegen = true
		}
		if v := int64(slider(&panelY, panelX, "Seed", "%.0f", float32(params.Seed), 0, 99999)); v != params.Seed {
			params.Seed = v
			needsRegen = true
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, toggleText(grayscale, "Show Classes", "Show Heights")) {
			grayscale = !grayscale
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := params.yaml()
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider at *y, advances *y past it and returns the
// new value.
func slider(y *float32, x float32, label, format string, value, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// updateTexture paints one pixel per vertex, either with its class color or
// as a grayscale height.
func updateTexture(texture rl.Texture2D, f *systems.HeightField, grayscale bool) {
	pixels := make([]color.RGBA, 0, texSize*texSize)
	for z := 0; z <= f.Depth; z++ {
		for x := 0; x <= f.Width; x++ {
			h := f.At(x, z)
			if grayscale {
				// Heights lie in [0.5, 1.5].
				v := uint8(255 * min(max(h-0.5, 0), 1))
				pixels = append(pixels, color.RGBA{R: v, G: v, B: v, A: 255})
				continue
			}
			c := systems.ClassifyHeight(h).Color()
			pixels = append(pixels, color.RGBA{
				R: uint8(255 * c.R),
				G: uint8(255 * c.G),
				B: uint8(255 * c.B),
				A: 255,
			})
		}
	}
	rl.UpdateTexture(texture, pixels)
}
