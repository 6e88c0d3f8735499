package deck

import (
	"strings"

	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/pml"
)

// shapes flattens the slide's shape tree into the text shapes it holds.
func shapes(sld *pml.Sld) []*pml.CT_Shape {
	if sld.CSld == nil || sld.CSld.SpTree == nil {
		return nil
	}
	var out []*pml.CT_Shape
	for _, c := range sld.CSld.SpTree.Choice {
		out = append(out, c.Sp...)
	}
	return out
}

// shapeText joins all run text of a shape, paragraphs separated by
// newlines.
func shapeText(sp *pml.CT_Shape) string {
	if sp.TxBody == nil {
		return ""
	}
	parts := make([]string, 0, len(sp.TxBody.P))
	for _, p := range sp.TxBody.P {
		var b strings.Builder
		for _, run := range p.EG_TextRun {
			if run.R != nil {
				b.WriteString(run.R.T)
			}
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n")
}

// setShapeText replaces a shape's text with a single line. The first
// run's character properties are kept so the template's font survives;
// every other run is blanked and extra paragraphs dropped.
func setShapeText(sp *pml.CT_Shape, text string) {
	if sp.TxBody == nil || len(sp.TxBody.P) == 0 {
		return
	}
	p := sp.TxBody.P[0]
	for _, run := range p.EG_TextRun {
		if run.R != nil {
			run.R.T = ""
		}
	}
	var first *dml.EG_TextRun
	for _, run := range p.EG_TextRun {
		if run.R != nil {
			first = run
			break
		}
	}
	if first == nil {
		first = dml.NewEG_TextRun()
		first.R = dml.NewCT_RegularTextRun()
		p.EG_TextRun = append(p.EG_TextRun, first)
	}
	first.R.T = text
	sp.TxBody.P = sp.TxBody.P[:1]
}

// removeShape drops a text shape from the slide's shape tree.
func removeShape(sld *pml.Sld, target *pml.CT_Shape) {
	if sld.CSld == nil || sld.CSld.SpTree == nil {
		return
	}
	tree := sld.CSld.SpTree
	kept := tree.Choice[:0]
	for _, c := range tree.Choice {
		if len(c.Sp) > 0 {
			sps := c.Sp[:0]
			for _, sp := range c.Sp {
				if sp != target {
					sps = append(sps, sp)
				}
			}
			c.Sp = sps
			if len(c.Sp) == 0 {
				continue
			}
		}
		kept = append(kept, c)
	}
	tree.Choice = kept
}

// removePictures drops every picture from the slide's shape tree.
func removePictures(sld *pml.Sld) {
	if sld.CSld == nil || sld.CSld.SpTree == nil {
		return
	}
	tree := sld.CSld.SpTree
	kept := tree.Choice[:0]
	for _, c := range tree.Choice {
		if len(c.Pic) > 0 {
			c.Pic = nil
			if len(c.Sp) == 0 {
				continue
			}
		}
		kept = append(kept, c)
	}
	tree.Choice = kept
}

// pictureCount reports how many pictures the slide holds.
func pictureCount(sld *pml.Sld) int {
	if sld.CSld == nil || sld.CSld.SpTree == nil {
		return 0
	}
	n := 0
	for _, c := range sld.CSld.SpTree.Choice {
		n += len(c.Pic)
	}
	return n
}

// shapeTop reads the shape's vertical offset in EMU, 0 when the shape
// carries no transform of its own.
func shapeTop(sp *pml.CT_Shape) int64 {
	if sp.SpPr == nil || sp.SpPr.Xfrm == nil || sp.SpPr.Xfrm.Off == nil {
		return 0
	}
	if y := sp.SpPr.Xfrm.Off.YAttr.ST_CoordinateUnqualified; y != nil {
		return *y
	}
	return 0
}
