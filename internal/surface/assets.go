package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/logger"
)

// Assets holds the preloaded object images.
type Assets struct {
	images map[calibration.ObjectKind]image.Image
}

// ProceduralAssets returns an empty set; every object is drawn as a
// silhouette on first use.
func ProceduralAssets() *Assets {
	return &Assets{images: make(map[calibration.ObjectKind]image.Image)}
}

// LoadAssets preloads each catalog object's image from root. Objects whose
// file is missing fall back to a procedural silhouette. An empty root uses
// silhouettes only.
func LoadAssets(root string, catalog *calibration.Catalog) (*Assets, error) {
	a := ProceduralAssets()
	for _, o := range catalog.Objects() {
		if root == "" {
			a.images[o.Kind] = Silhouette(o)
			continue
		}
		path := filepath.Join(root, filepath.FromSlash(o.Asset))
		img, err := decodePNG(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No image for %s at %s, drawing silhouette", o.Name, path)
			a.images[o.Kind] = Silhouette(o)
			continue
		}
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded %s image from %s", o.Name, path)
		a.images[o.Kind] = img
	}
	return a, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Image returns the preloaded image for o, drawing a silhouette if none was
// loaded.
func (a *Assets) Image(o calibration.ReferenceObject) image.Image {
	if img, ok := a.images[o.Kind]; ok {
		return img
	}
	img := Silhouette(o)
	a.images[o.Kind] = img
	return img
}

// Silhouette draws a stand-in image at the object's base size.
func Silhouette(o calibration.ReferenceObject) image.Image {
	switch o.Kind {
	case calibration.CompactDisk:
		return diskImage(o.BaseWidthPx, o.BaseHeightPx)
	default:
		return cardImage(o.BaseWidthPx, o.BaseHeightPx)
	}
}

var (
	cardFrom   = colorful.Color{R: 0.16, G: 0.33, B: 0.62}
	cardTo     = colorful.Color{R: 0.09, G: 0.62, B: 0.72}
	cardStripe = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	diskInner  = colorful.Color{R: 0.78, G: 0.80, B: 0.84}
	diskOuter  = colorful.Color{R: 0.55, G: 0.58, B: 0.66}
)

// ID-1 cards have 3.18 mm corners on an 85.6 mm width.
const cardCornerRatio = 3.18 / 85.6

func cardImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r := float64(w) * cardCornerRatio
	stripeTop, stripeBottom := h/7, h/7+h/5

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !insideRoundedRect(float64(x)+0.5, float64(y)+0.5, float64(w), float64(h), r) {
				continue
			}
			if y >= stripeTop && y < stripeBottom {
				img.SetRGBA(x, y, cardStripe)
				continue
			}
			t := float64(x+y) / float64(w+h)
			img.Set(x, y, cardFrom.BlendLab(cardTo, t).Clamped())
		}
	}
	return img
}

func insideRoundedRect(x, y, w, h, r float64) bool {
	cx := math.Max(r, math.Min(w-r, x))
	cy := math.Max(r, math.Min(h-r, y))
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// Disc hole and clamping area relative to the outer radius.
const (
	diskHoleRatio  = 7.5 / 60
	diskClampRatio = 23.0 / 60
)

func diskImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	outer := math.Min(float64(w), float64(h)) / 2
	cx, cy := float64(w)/2, float64(h)/2
	hole := outer * diskHoleRatio
	clamp := outer * diskClampRatio

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d > outer || d < hole {
				continue
			}
			if d < clamp {
				img.Set(x, y, diskInner)
				continue
			}
			t := (d - clamp) / (outer - clamp)
			img.Set(x, y, diskInner.BlendHcl(diskOuter, t).Clamped())
		}
	}
	return img
}
