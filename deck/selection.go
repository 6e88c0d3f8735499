package deck

import (
	"sort"
	"strings"

	"github.com/unidoc/unioffice/schema/soo/pml"
)

// Selection is one scope item sold to the client. A priority selection is
// placed into the first slot regardless of where it sat in the request.
type Selection struct {
	Label    string `yaml:"label"`
	Priority bool   `yaml:"priority"`
}

// ApplySelection writes the selections into the slide's scope slots.
// slots are the placeholder texts authored into the template; slot shapes
// are matched by exact normalized text and filled top to bottom. Surplus
// slot shapes are removed from the shape tree so no placeholder text ever
// reaches the client.
func (d *Deck) ApplySelection(slideIdx int, slots []string, sels []Selection) error {
	slide, err := d.slide(slideIdx)
	if err != nil {
		return err
	}

	slotSet := make(map[string]bool, len(slots))
	for _, s := range slots {
		slotSet[Normalize(s)] = true
	}

	sld := slide.X()
	var slotShapes []shapeAt
	for _, sp := range shapes(sld) {
		if slotSet[Normalize(shapeText(sp))] {
			slotShapes = append(slotShapes, shapeAt{sp: sp, top: shapeTop(sp)})
		}
	}
	sort.SliceStable(slotShapes, func(i, j int) bool { return slotShapes[i].top < slotShapes[j].top })

	ordered := orderSelections(sels)
	if len(ordered) > len(slotShapes) {
		d.log.Warn("more selections than slots",
			"slide", slideIdx, "selections", len(ordered), "slots", len(slotShapes))
	}
	for i, s := range slotShapes {
		if i < len(ordered) {
			setShapeText(s.sp, strings.ToUpper(strings.TrimSpace(ordered[i].Label)))
			continue
		}
		removeShape(sld, s.sp)
	}
	return nil
}

type shapeAt struct {
	sp  *pml.CT_Shape
	top int64
}

// orderSelections moves priority selections to the front, keeping the
// request order within each group.
func orderSelections(sels []Selection) []Selection {
	out := make([]Selection, 0, len(sels))
	for _, s := range sels {
		if s.Priority {
			out = append(out, s)
		}
	}
	for _, s := range sels {
		if !s.Priority {
			out = append(out, s)
		}
	}
	return out
}

// ReplaceNameToken swaps the template's name placeholder for the client
// name. Only shapes whose whole normalized text equals the token are
// touched; substring occurrences elsewhere are deliberately left alone.
func (d *Deck) ReplaceNameToken(slideIdx int, token, firstName, lastName string) error {
	slide, err := d.slide(slideIdx)
	if err != nil {
		return err
	}
	want := Normalize(token)
	full := strings.TrimSpace(strings.ToUpper(
		strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName)))

	replaced := false
	for _, sp := range shapes(slide.X()) {
		if Normalize(shapeText(sp)) != want {
			continue
		}
		setShapeText(sp, full)
		replaced = true
	}
	if !replaced {
		d.log.Warn("name token not found", "slide", slideIdx, "token", token)
	}
	return nil
}

// PackageSlot ties an "add package" placeholder to the package it stands
// for. The binding is authored into the template configuration, so slot
// membership never has to be inferred from shape geometry.
type PackageSlot struct {
	Placeholder string `yaml:"placeholder"`
	Package     string `yaml:"package"`
}

// PrunePackages keeps or removes the package shapes of a summary slide.
// selected maps package names to whether they were sold. tags maps
// normalized body text to its owning package. Shapes matching neither a
// package name, a slot placeholder nor a tag are kept.
func (d *Deck) PrunePackages(slideIdx int, selected map[string]bool, tags map[string]string, slots []PackageSlot) error {
	slide, err := d.slide(slideIdx)
	if err != nil {
		return err
	}

	sel := make(map[string]bool, len(selected))
	for name, on := range selected {
		sel[Normalize(name)] = on
	}
	bodyTags := make(map[string]string, len(tags))
	for text, pkg := range tags {
		bodyTags[Normalize(text)] = Normalize(pkg)
	}
	slotMap := make(map[string]string, len(slots))
	for _, s := range slots {
		slotMap[Normalize(s.Placeholder)] = Normalize(s.Package)
	}

	sld := slide.X()
	for _, sp := range shapes(sld) {
		text := Normalize(shapeText(sp))
		if on, isPackage := sel[text]; isPackage {
			if !on {
				removeShape(sld, sp)
			}
			continue
		}
		if pkg, isSlot := slotMap[text]; isSlot {
			if sel[pkg] {
				setShapeText(sp, pkg)
			} else {
				removeShape(sld, sp)
			}
			continue
		}
		if pkg, tagged := bodyTags[text]; tagged && !sel[pkg] {
			removeShape(sld, sp)
		}
	}
	return nil
}
