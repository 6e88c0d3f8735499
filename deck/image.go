package deck

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/measurement"
)

// Largest footprint a hero image may take on a slide when the caller
// passes no bounding box.
var (
	DefaultImageWidth  measurement.Distance = 9 * measurement.Inch
	DefaultImageHeight measurement.Distance = 6 * measurement.Inch
)

// InsertImage places an image on the slide, centered, downscaled
// proportionally when it exceeds the maxW by maxH bounding box. Existing
// pictures on the slide are removed first, so reapplying with a new image
// replaces rather than stacks.
func (d *Deck) InsertImage(slideIdx int, data []byte, maxW, maxH measurement.Distance) error {
	slide, err := d.slide(slideIdx)
	if err != nil {
		return err
	}
	if maxW <= 0 {
		maxW = DefaultImageWidth
	}
	if maxH <= 0 {
		maxH = DefaultImageHeight
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode slide image: %w", err)
	}
	maxWpx := int(maxW / measurement.Pixel96)
	maxHpx := int(maxH / measurement.Pixel96)
	bounds := img.Bounds()
	if bounds.Dx() > maxWpx || bounds.Dy() > maxHpx {
		img = imaging.Fit(img, maxWpx, maxHpx, imaging.Lanczos)
		bounds = img.Bounds()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode slide image: %w", err)
	}
	encoded := buf.Bytes()

	removePictures(slide.X())

	ref, err := d.prs.AddImage(common.Image{
		Format: "png",
		Size:   image.Pt(bounds.Dx(), bounds.Dy()),
		Data:   &encoded,
	})
	if err != nil {
		return fmt.Errorf("register slide image: %w", err)
	}
	pic := slide.AddImage(ref)

	w := measurement.Distance(bounds.Dx()) * measurement.Pixel96
	h := measurement.Distance(bounds.Dy()) * measurement.Pixel96
	pic.Properties().SetSize(w, h)

	slideW, slideH := d.slideSize()
	pic.Properties().SetPosition((slideW-w)/2, (slideH-h)/2)
	return nil
}

// slideSize reads the presentation's slide dimensions, with the standard
// 10 by 7.5 inch fallback.
func (d *Deck) slideSize() (measurement.Distance, measurement.Distance) {
	if sz := d.prs.X().SldSz; sz != nil {
		return measurement.Distance(float64(sz.CxAttr)) * measurement.EMU,
			measurement.Distance(float64(sz.CyAttr)) * measurement.EMU
	}
	return 10 * measurement.Inch, 7.5 * measurement.Inch
}
