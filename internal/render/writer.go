package render

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/flocksim/internal/flock"
)

// FramePattern names the image files written by FrameWriter.
const FramePattern = "frames_%08d.png"

// FrameWriter is a sim.Observer that writes every n-th frame as a PNG file. Frames are
// rasterized synchronously and encoded on a bounded group of goroutines.
type FrameWriter struct {
	dir    string
	radius int
	every  uint64

	images  *ImagePool
	encoder *png.Encoder
	g       *errgroup.Group
	ctx     context.Context
	written int
}

type WriterOption func(*FrameWriter)

// WithEvery writes only frames whose number is a multiple of n.
func WithEvery(n int) WriterOption {
	return func(w *FrameWriter) {
		if n > 0 {
			w.every = uint64(n)
		}
	}
}

// WithEncoders bounds the number of PNG encodes in flight.
func WithEncoders(n int) WriterOption {
	return func(w *FrameWriter) {
		if n > 0 {
			w.g.SetLimit(n)
		}
	}
}

// NewFrameWriter creates dir if needed and returns a writer for width x height frames.
func NewFrameWriter(dir string, width, height, radius int, opts ...WriterOption) (*FrameWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))

	w := &FrameWriter{
		dir:    dir,
		radius: radius,
		every:  1,
		images: NewImagePool(width, height),
		encoder: &png.Encoder{
			CompressionLevel: png.BestSpeed,
			BufferPool:       &encoderBuffers{},
		},
		g:   g,
		ctx: ctx,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *FrameWriter) OnFrame(frame uint64, boids []flock.Boid) error {
	if frame%w.every != 0 {
		return nil
	}
	if w.ctx.Err() != nil {
		return w.g.Wait()
	}

	img := w.images.Get()
	Draw(img, boids, w.radius)

	path := filepath.Join(w.dir, fmt.Sprintf(FramePattern, w.written))
	w.written++

	w.g.Go(func() error {
		defer w.images.Put(img)
		return w.encode(path, img)
	})
	return nil
}

func (w *FrameWriter) encode(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := w.encoder.Encode(bw, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Flush waits for every pending encode and returns the first error.
func (w *FrameWriter) Flush() error {
	return w.g.Wait()
}

// Written reports how many frames have been queued.
func (w *FrameWriter) Written() int { return w.written }
