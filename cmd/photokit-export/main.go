// Command photokit-export runs an edit pipeline against an image and writes
// the result to a file.
//
// Operations are given as repeated -op flags and applied in order:
//
//	photokit-export -input photo.jpg -output out.png \
//		-op "brightness:brightness=0.1" \
//		-op "filter:name=sepia" \
//		-op "crop:start=0.1x0.1,end=0.9x0.9" \
//		-op "text:text=Hello,position=0.05x0.9,color=#ffffff"
//
// Option values parse as true/false, a number, an XxY vector, a #hex color
// or a string, in that order. The font and image options take file paths.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/gogpu/photokit"
	_ "github.com/gogpu/photokit/gpu"
	"github.com/gogpu/photokit/internal/imaging"
)

func main() {
	// A .env file can supply PHOTOKIT_* defaults such as PHOTOKIT_RENDERER.
	_ = godotenv.Load()

	var ops opList
	var (
		input    = flag.String("input", "", "input image (PNG or JPEG)")
		output   = flag.String("output", "out.png", "output file")
		format   = flag.String("format", "", "export format: png, jpeg or raw-rgba (default: from the output extension)")
		quality  = flag.Int("quality", photokit.DefaultJPEGQuality, "JPEG quality in [1,100]")
		width    = flag.Int("width", 0, "target width in pixels (0 keeps the source width)")
		height   = flag.Int("height", 0, "target height in pixels (0 keeps the source height)")
		renderer = flag.String("renderer", "", "render backend: accelerated or software (default: automatic)")
		list     = flag.Bool("list", false, "list operations and filter presets, then exit")
	)
	flag.Var(&ops, "op", "operation to apply as name:key=value,... (repeatable, applied in order)")
	flag.Parse()

	if *list {
		printRegistry()
		return
	}
	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	var editorOpts []photokit.EditorOption
	switch *renderer {
	case "":
	case string(photokit.KindAccelerated), string(photokit.KindSoftware):
		editorOpts = append(editorOpts, photokit.WithRendererKind(photokit.RendererKind(*renderer)))
	default:
		log.Fatalf("Unknown renderer %q (want accelerated or software)", *renderer)
	}
	if *width > 0 && *height > 0 {
		editorOpts = append(editorOpts,
			photokit.WithTargetDimensions(photokit.V2(float64(*width), float64(*height))))
	}

	editor, err := photokit.Open(*input, editorOpts...)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *input, err)
	}

	for _, spec := range ops {
		id, opts, err := parseOpSpec(spec)
		if err != nil {
			log.Fatalf("Bad -op %q: %v", spec, err)
		}
		if _, err := editor.Apply(id, opts); err != nil {
			log.Fatalf("Failed to apply %q: %v", spec, err)
		}
	}

	job, err := editor.Export(context.Background(), photokit.ExportOptions{
		Format:  resolveFormat(*format, *output),
		Quality: *quality,
	})
	if err != nil {
		log.Fatalf("Failed to start export: %v", err)
	}
	result, err := job.Wait(context.Background())
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if err := os.WriteFile(*output, result.Data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}

	dims := editor.PlannedDimensions()
	log.Printf("Exported %s (%dx%d, %d ops, %d bytes)",
		*output, int(dims.X), int(dims.Y), editor.Stack().Len(), len(result.Data))
}

// opList collects repeated -op flags in order.
type opList []string

func (l *opList) String() string { return strings.Join(*l, "; ") }

func (l *opList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// printRegistry lists the registered operations and filter presets.
func printRegistry() {
	fmt.Println("Operations:")
	for _, id := range photokit.Operations() {
		fmt.Printf("  %s\n", id)
	}
	fmt.Println("Filter presets:")
	for _, name := range photokit.FilterPresets() {
		fmt.Printf("  %s\n", name)
	}
}

// resolveFormat picks the export format from the -format flag or, when the
// flag is empty, from the output file extension. Unrecognized extensions
// fall back to PNG.
func resolveFormat(flagValue, output string) photokit.ExportFormat {
	if flagValue != "" {
		return photokit.ExportFormat(flagValue)
	}
	switch strings.ToLower(extension(output)) {
	case "jpg", "jpeg":
		return photokit.FormatJPEG
	case "raw", "rgba":
		return photokit.FormatRawRGBA
	default:
		return photokit.FormatPNG
	}
}

func extension(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return ""
}

// parseOpSpec splits "name" or "name:key=value,key=value" into an operation
// identifier and its options bag.
func parseOpSpec(spec string) (string, photokit.Options, error) {
	id, rest, found := strings.Cut(spec, ":")
	if id == "" {
		return "", nil, fmt.Errorf("missing operation name")
	}
	opts := photokit.Options{}
	if !found || rest == "" {
		return id, opts, nil
	}

	for _, pair := range strings.Split(rest, ",") {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return "", nil, fmt.Errorf("malformed option %q (want key=value)", pair)
		}
		value, err := parseOptionValue(key, raw)
		if err != nil {
			return "", nil, fmt.Errorf("option %s: %w", key, err)
		}
		opts[key] = value
	}
	return id, opts, nil
}

// parseOptionValue converts one raw flag value into the Go type the
// operation schemas expect. The font and image keys read files; everything
// else parses by shape.
func parseOptionValue(key, raw string) (any, error) {
	switch key {
	case "font":
		return os.ReadFile(raw)
	case "image":
		return imaging.Load(raw)
	}

	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if strings.HasPrefix(raw, "#") {
		return photokit.Hex(raw), nil
	}
	if x, y, ok := parseVec2(raw); ok {
		return photokit.V2(x, y), nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, nil
	}
	return raw, nil
}

// parseVec2 parses "XxY" into its two components.
func parseVec2(raw string) (x, y float64, ok bool) {
	a, b, found := strings.Cut(raw, "x")
	if !found {
		return 0, 0, false
	}
	x, errX := strconv.ParseFloat(a, 64)
	y, errY := strconv.ParseFloat(b, 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}
