package orchestrator

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"

	"github.com/matzehuels/uniquepfp/pkg/render"
)

// Surface is the visible output image. It is safe for concurrent use;
// grid renders paint it directly and Voronoi passes are blitted onto it.
type Surface struct {
	mu      sync.RWMutex
	img     *image.RGBA
	version uint64
}

// NewSurface allocates a transparent size×size surface.
func NewSurface(size int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, size, size))}
}

// FillRect implements [render.Canvas].
func (s *Surface) FillRect(r image.Rectangle, c color.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
	s.version++
	return nil
}

// PutImage implements [render.Canvas].
func (s *Surface) PutImage(img *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Src)
	s.version++
	return nil
}

// Blit scales src over the whole surface with Catmull-Rom smoothing.
func (s *Surface) Blit(src image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.CatmullRom.Scale(s.img, s.img.Bounds(), src, src.Bounds(), draw.Src, nil)
	s.version++
}

// Snapshot returns a copy of the current contents.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Size returns the edge length of the surface.
func (s *Surface) Size() int {
	return s.img.Bounds().Dx()
}

// Version increases on every write.
func (s *Surface) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

var _ render.Canvas = (*Surface)(nil)
