// Package photokit provides a non-destructive photo editing pipeline for Go.
//
// # Overview
//
// photokit loads an image into an editor, stacks declarative operations on
// top of it, and renders the result on demand. The source pixels are never
// modified; every render replays the operation stack from the original, so
// operations can be retuned, reordered or removed at any time. Rendering is
// designed to integrate with the GoGPU ecosystem: a GPU backend executes
// each operation as a shader pass, with a pixel-faithful software fallback.
//
// # Quick Start
//
//	import "github.com/gogpu/photokit"
//
//	// Load an image into an editor
//	editor, err := photokit.Open("input.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Stack operations (nothing renders yet)
//	editor.Apply(photokit.OpBrightness, photokit.Options{"brightness": 0.1})
//	editor.Apply(photokit.OpFilter, photokit.Options{"name": "sepia"})
//	editor.Apply(photokit.OpCrop, photokit.Options{
//		"start": photokit.V2(0.1, 0.1),
//		"end":   photokit.V2(0.9, 0.9),
//	})
//
//	// Render and export as PNG bytes
//	job, err := editor.Export(context.Background(), photokit.ExportOptions{
//		Format: photokit.FormatPNG,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := job.Wait(context.Background())
//
// # Operations
//
// Operations are registered by identifier and built from an Options bag
// validated against a per-operation schema. Built in: brightness, contrast,
// saturation, filter (named presets), blur, crop, rotation, flip, text,
// sticker and frame. Custom operations register through RegisterOperation;
// custom filter presets through RegisterFilterPreset.
//
// # Renderers
//
// Two rendering strategies implement every operation:
//   - Software: pure Go, always available, byte-exact where possible
//   - Accelerated: shader passes via gogpu/wgpu (import the gpu subpackage)
//
// The editor prefers the accelerated renderer when one is registered and
// falls back to software when GPU initialization fails.
//
// # Coordinate System
//
// Positions and crop corners are normalized to the current surface:
//   - Origin (0,0) at top-left
//   - (1,1) at bottom-right
//   - X increases right, Y increases down
//
// Normalized coordinates compose: a crop after a rotation addresses the
// rotated surface, not the original.
package photokit
