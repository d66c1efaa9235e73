package photokit

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/gogpu/photokit/internal/imaging"
)

// ExportFormat identifies an encode target.
type ExportFormat string

const (
	// FormatPNG encodes lossless PNG.
	FormatPNG ExportFormat = "png"

	// FormatJPEG encodes JPEG with a configurable quality.
	FormatJPEG ExportFormat = "jpeg"

	// FormatRawRGBA dumps the straight-alpha RGBA bytes without encoding.
	// Raw dumps pair only with DeliveryBytes.
	FormatRawRGBA ExportFormat = "raw-rgba"
)

// MIME returns the media type of the format.
func (f ExportFormat) MIME() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// DeliveryMode identifies how the encoded result is handed back.
type DeliveryMode string

const (
	// DeliveryDataURL returns an inline base64 data URL string.
	DeliveryDataURL DeliveryMode = "data-url"

	// DeliveryImage returns a decoded image.Image of the encoded result.
	DeliveryImage DeliveryMode = "image"

	// DeliveryBytes returns the encoded bytes.
	DeliveryBytes DeliveryMode = "bytes"
)

// exportCombinations lists the delivery modes each format supports.
var exportCombinations = map[ExportFormat]map[DeliveryMode]bool{
	FormatPNG:     {DeliveryDataURL: true, DeliveryImage: true, DeliveryBytes: true},
	FormatJPEG:    {DeliveryDataURL: true, DeliveryImage: true, DeliveryBytes: true},
	FormatRawRGBA: {DeliveryBytes: true},
}

// SupportedCombination reports whether the format and delivery mode pair.
func SupportedCombination(f ExportFormat, m DeliveryMode) bool {
	return exportCombinations[f][m]
}

// DefaultJPEGQuality is used when ExportOptions.Quality is zero.
const DefaultJPEGQuality = 90

// ExportOptions configures an export.
type ExportOptions struct {
	// Format selects the encoding; empty defaults to FormatPNG.
	Format ExportFormat

	// Delivery selects how the result is handed back; empty defaults to
	// DeliveryBytes.
	Delivery DeliveryMode

	// Quality applies to JPEG, clamped to [1, 100]. Zero selects
	// DefaultJPEGQuality.
	Quality int

	// TargetDimensions overrides the editor-level target size for the
	// render feeding this export.
	TargetDimensions *Vec2
}

// ExportResult is the outcome of a finished export. Exactly one of Data,
// DataURL and Image is populated, matching the requested delivery mode.
type ExportResult struct {
	Data    []byte
	DataURL string
	Image   image.Image

	// MIME is the media type of the encoded result.
	MIME string
}

// ExportJob is a running export. The render and encode happen on a
// background goroutine; Wait blocks until they finish or ctx is done.
type ExportJob struct {
	done   chan struct{}
	result *ExportResult
	err    error
}

// Wait blocks until the export completes and returns its result. A context
// cancellation abandons the wait but not the export; a later Wait can still
// collect the result.
func (j *ExportJob) Wait(ctx context.Context) (*ExportResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-j.done:
		return j.result, j.err
	}
}

// Done returns a channel closed when the export has finished.
func (j *ExportJob) Done() <-chan struct{} {
	return j.done
}

// Export renders the operation stack and encodes the result.
//
// The format and delivery combination is validated synchronously: an
// unsupported pair fails with *UnsupportedCombinationError before any
// render or encode work begins. Valid requests return immediately with a
// job running in the background.
func (e *Editor) Export(ctx context.Context, opts ExportOptions) (*ExportJob, error) {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.Delivery == "" {
		opts.Delivery = DeliveryBytes
	}
	if !SupportedCombination(opts.Format, opts.Delivery) {
		return nil, &UnsupportedCombinationError{Format: opts.Format, Mode: opts.Delivery}
	}

	job := &ExportJob{done: make(chan struct{})}
	go func() {
		defer close(job.done)
		res, err := e.Render(ctx, RenderOptions{TargetDimensions: opts.TargetDimensions})
		if err != nil {
			job.err = err
			return
		}
		job.result, job.err = encodeExport(res.Pixmap, opts)
	}()
	return job, nil
}

// encodeExport turns a rendered pixmap into the requested delivery form.
func encodeExport(p *Pixmap, opts ExportOptions) (*ExportResult, error) {
	mime := opts.Format.MIME()

	if opts.Format == FormatRawRGBA {
		data := make([]byte, len(p.Data()))
		copy(data, p.Data())
		return &ExportResult{Data: data, MIME: mime}, nil
	}

	var buf bytes.Buffer
	img := p.ToImage()
	var err error
	switch opts.Format {
	case FormatPNG:
		err = imaging.EncodePNG(&buf, img)
	case FormatJPEG:
		quality := opts.Quality
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		err = imaging.EncodeJPEG(&buf, img, quality)
	default:
		return nil, &UnsupportedCombinationError{Format: opts.Format, Mode: opts.Delivery}
	}
	if err != nil {
		return nil, fmt.Errorf("photokit: export %s: %w", opts.Format, err)
	}

	switch opts.Delivery {
	case DeliveryBytes:
		return &ExportResult{Data: buf.Bytes(), MIME: mime}, nil
	case DeliveryDataURL:
		url := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
		return &ExportResult{DataURL: url, MIME: mime}, nil
	case DeliveryImage:
		decoded, err := imaging.DecodeBytes(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("photokit: export %s: %w", opts.Format, err)
		}
		return &ExportResult{Image: decoded, MIME: mime}, nil
	default:
		return nil, &UnsupportedCombinationError{Format: opts.Format, Mode: opts.Delivery}
	}
}
