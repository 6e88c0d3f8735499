// Command docgen renders a client request into the deliverable documents:
// a development workbook (xlsx) and, optionally, a proposal deck (pptx).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"gopkg.in/yaml.v3"

	"github.com/atelierops/docgen/deck"
	"github.com/atelierops/docgen/workbook"
)

// requestFile is the YAML document the CLI consumes.
type requestFile struct {
	Workbook workbook.Request `yaml:"workbook"`
	Deck     struct {
		Template   string            `yaml:"template"`
		SlideIndex int               `yaml:"slide_index"`
		Slots      []string          `yaml:"slots"`
		Selections []deck.Selection  `yaml:"selections"`
		Token      string            `yaml:"name_token"`
		FirstName  string            `yaml:"first_name"`
		LastName   string            `yaml:"last_name"`
		Image      string            `yaml:"image"`
		Packages   map[string]bool   `yaml:"packages"`
		Tags       map[string]string `yaml:"tags"`
		Slides     struct {
			Scope    int `yaml:"scope"`
			Name     int `yaml:"name"`
			Image    int `yaml:"image"`
			Packages int `yaml:"packages"`
		} `yaml:"slides"`
		PackageSlots []deck.PackageSlot `yaml:"package_slots"`
	} `yaml:"deck"`
}

func main() {
	requestPath := flag.String("request", "", "YAML request file")
	configPath := flag.String("config", "", "optional YAML layout config overriding the defaults")
	workbookOut := flag.String("workbook-out", "workbook.xlsx", "where to write the workbook")
	deckOut := flag.String("deck-out", "", "where to write the deck; skipped when empty")
	flag.Parse()

	_ = godotenv.Load()
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(log)

	if err := run(*requestPath, *configPath, *workbookOut, *deckOut, log); err != nil {
		log.Error("docgen failed", "err", err)
		os.Exit(1)
	}
}

func run(requestPath, configPath, workbookOut, deckOut string, log *slog.Logger) error {
	if requestPath == "" {
		return fmt.Errorf("-request is required")
	}
	data, err := os.ReadFile(requestPath)
	if err != nil {
		return fmt.Errorf("read request %q: %w", requestPath, err)
	}
	var req requestFile
	if err := yaml.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request %q: %w", requestPath, err)
	}

	cfg := workbook.DefaultConfig()
	if configPath != "" {
		cfg, err = workbook.LoadConfig(configPath)
		if err != nil {
			return err
		}
	}
	if tpl := os.Getenv("DOCGEN_TEMPLATE"); tpl != "" {
		cfg.TemplatePath = tpl
	}

	asm, err := workbook.New(cfg, log)
	if err != nil {
		return err
	}
	res, err := asm.Build(req.Workbook)
	if err != nil {
		return err
	}
	if err := os.WriteFile(workbookOut, res.Bytes, 0o644); err != nil {
		return fmt.Errorf("write workbook %q: %w", workbookOut, err)
	}
	log.Info("workbook written",
		"path", workbookOut,
		"development_total", res.DevelopmentTotal.Whole(),
		"optional_total", res.OptionalTotal.Whole())

	if deckOut == "" {
		return nil
	}
	return buildDeck(req, deckOut, log)
}

func buildDeck(req requestFile, deckOut string, log *slog.Logger) error {
	spec := req.Deck
	if spec.Template == "" {
		return fmt.Errorf("deck output requested but deck.template is empty")
	}
	d, err := deck.Open(spec.Template, log)
	if err != nil {
		return err
	}

	if len(spec.Slots) > 0 {
		if err := d.ApplySelection(spec.Slides.Scope, spec.Slots, spec.Selections); err != nil {
			return err
		}
	}
	if spec.Token != "" {
		if err := d.ReplaceNameToken(spec.Slides.Name, spec.Token, spec.FirstName, spec.LastName); err != nil {
			return err
		}
	}
	if spec.Image != "" {
		img, err := os.ReadFile(spec.Image)
		if err != nil {
			return fmt.Errorf("read deck image %q: %w", spec.Image, err)
		}
		if err := d.InsertImage(spec.Slides.Image, img, 0, 0); err != nil {
			return err
		}
	}
	if len(spec.Packages) > 0 {
		if err := d.PrunePackages(spec.Slides.Packages, spec.Packages, spec.Tags, spec.PackageSlots); err != nil {
			return err
		}
	}

	if err := d.SaveTo(deckOut); err != nil {
		return err
	}
	log.Info("deck written", "path", deckOut, "slides", d.SlideCount())
	return nil
}
