package render

import (
	"image"
	"image/png"
	"sync"
)

// ImagePool recycles frame buffers of a fixed size.
type ImagePool struct {
	pool   sync.Pool
	bounds image.Rectangle
}

func NewImagePool(width, height int) *ImagePool {
	bounds := image.Rect(0, 0, width, height)
	return &ImagePool{
		bounds: bounds,
		pool: sync.Pool{
			New: func() interface{} {
				return image.NewRGBA(bounds)
			},
		},
	}
}

func (p *ImagePool) Get() *image.RGBA {
	return p.pool.Get().(*image.RGBA)
}

// Put returns img to the pool. Images of a different size are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img.Bounds() == p.bounds {
		p.pool.Put(img)
	}
}

// encoderBuffers lets concurrent png.Encoders share their scratch buffers.
type encoderBuffers struct {
	pool sync.Pool
}

func (b *encoderBuffers) Get() *png.EncoderBuffer {
	buf, _ := b.pool.Get().(*png.EncoderBuffer)
	return buf
}

func (b *encoderBuffers) Put(buf *png.EncoderBuffer) {
	b.pool.Put(buf)
}
