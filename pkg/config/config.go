// Package config loads the nmanet configuration surface: table schemas,
// treatment display order, classification rules and the class palette.
//
// Configuration is TOML. A built-in file covers the two schema variants of
// the ARDS corticosteroid data (equal-dose and exchangeable-dose); a user file
// can overlay it:
//
//	cfg, err := config.Load("nmanet.toml")
//	v, err := cfg.Detect("data/ards_exchangeable-dose_model.csv")
//	ordering, err := v.Ordering()
package config

import (
	_ "embed"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nmanet/pkg/errors"
	"github.com/matzehuels/nmanet/pkg/regimen"
	"github.com/matzehuels/nmanet/pkg/render/nodelink"
	"github.com/matzehuels/nmanet/pkg/trial"
)

//go:embed defaults.toml
var defaultsTOML string

// Config is the complete configuration.
type Config struct {
	Render   Render            `toml:"render"`
	Palette  map[string]string `toml:"palette"`
	Variants []Variant         `toml:"variant"`
}

// Render holds diagram defaults.
type Render struct {
	MinNodeSize float64 `toml:"min_node_size"`
	MaxNodeSize float64 `toml:"max_node_size"`
	PenPerStudy float64 `toml:"pen_per_study"`
	EdgeLabels  bool    `toml:"edge_labels"`
	Legend      bool    `toml:"legend"`
	PNGScale    float64 `toml:"png_scale"`
}

// Variant is one input schema with its treatment vocabulary.
type Variant struct {
	Name       string            `toml:"name"`
	FileSuffix string            `toml:"file_suffix"`
	Schema     Schema            `toml:"schema"`
	Order      []string          `toml:"order"`
	Unlisted   string            `toml:"unlisted"`
	Rules      []Rule            `toml:"rule"`
	Palette    map[string]string `toml:"palette"` // per-variant overrides

	palette map[string]string // merged with the global palette by Config
}

// Schema mirrors [trial.Schema].
type Schema struct {
	StudyColumn     string   `toml:"study_column"`
	TreatmentPrefix string   `toml:"treatment_prefix"`
	SizePrefix      string   `toml:"size_prefix"`
	ResponderPrefix string   `toml:"responder_prefix"`
	DropPrefixes    []string `toml:"drop_prefixes"`
}

// Rule mirrors [regimen.Rule] with the class given by name.
type Rule struct {
	Match   string `toml:"match"`
	Pattern string `toml:"pattern"`
	Class   string `toml:"class"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(defaultsTOML, "defaults.toml")
	if err != nil {
		panic("config: invalid built-in defaults: " + err.Error())
	}
	return cfg
}

// Load overlays the file at path onto the built-in configuration. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var user Config
	md, err := toml.DecodeFile(path, &user)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	cfg.merge(&user, md)
	if err := cfg.Render.validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes a configuration from TOML text without defaults.
func Parse(text string) (*Config, error) {
	return parse(text, "config")
}

func parse(text, name string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(text, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", name)
	}
	cfg.link()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays user settings. Render keys replace the default only when
// the user file sets them.
func (c *Config) merge(user *Config, md toml.MetaData) {
	set := func(key string) bool { return md.IsDefined("render", key) }
	r, u := &c.Render, user.Render
	if set("min_node_size") {
		r.MinNodeSize = u.MinNodeSize
	}
	if set("max_node_size") {
		r.MaxNodeSize = u.MaxNodeSize
	}
	if set("pen_per_study") {
		r.PenPerStudy = u.PenPerStudy
	}
	if set("edge_labels") {
		r.EdgeLabels = u.EdgeLabels
	}
	if set("legend") {
		r.Legend = u.Legend
	}
	if set("png_scale") {
		r.PNGScale = u.PNGScale
	}
	for k, v := range user.Palette {
		c.Palette[k] = v
	}
	for _, v := range user.Variants {
		i := slices.IndexFunc(c.Variants, func(d Variant) bool { return d.Name == v.Name })
		if i >= 0 {
			c.Variants[i] = v
		} else {
			c.Variants = append(c.Variants, v)
		}
	}
	c.link()
}

// link merges the global palette into each variant.
func (c *Config) link() {
	if c.Palette == nil {
		c.Palette = map[string]string{}
	}
	for i := range c.Variants {
		v := &c.Variants[i]
		v.palette = make(map[string]string, len(c.Palette)+len(v.Palette))
		for k, col := range c.Palette {
			v.palette[k] = col
		}
		for k, col := range v.Palette {
			v.palette[k] = col
		}
	}
}

// Validate checks variant names, schemas, rules, policies and palette keys.
func (c *Config) Validate() error {
	if len(c.Variants) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no variants configured")
	}
	for k := range c.Palette {
		if _, err := regimen.ParseClass(k); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette")
		}
	}
	seen := make(map[string]bool)
	for _, v := range c.Variants {
		if v.Name == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "variant without name")
		}
		if seen[v.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "variant %q defined twice", v.Name)
		}
		seen[v.Name] = true
		if err := v.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "variant %q", v.Name)
		}
	}
	return nil
}

func (v Variant) validate() error {
	s := v.Schema
	if s.StudyColumn == "" || s.TreatmentPrefix == "" || s.SizePrefix == "" || s.ResponderPrefix == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "schema needs study_column and all three prefixes")
	}
	prefixes := []string{s.TreatmentPrefix, s.SizePrefix, s.ResponderPrefix}
	for i, p := range prefixes {
		for j, q := range prefixes {
			if i != j && strings.HasPrefix(p, q) {
				return errors.New(errors.ErrCodeInvalidConfig, "prefix %q overlaps %q", p, q)
			}
		}
	}
	if _, err := v.Ordering(); err != nil {
		return err
	}
	if _, err := v.Classifier(); err != nil {
		return err
	}
	for k := range v.Palette {
		if _, err := regimen.ParseClass(k); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette")
		}
	}
	return nil
}

func (r Render) validate() error {
	switch {
	case r.MinNodeSize <= 0 || r.MaxNodeSize < r.MinNodeSize:
		return errors.New(errors.ErrCodeInvalidConfig, "render: need 0 < min_node_size <= max_node_size")
	case r.PenPerStudy <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "render: pen_per_study must be positive")
	case r.PNGScale <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "render: png_scale must be positive")
	}
	return nil
}

// Names returns the variant names in configuration order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Variants))
	for i, v := range c.Variants {
		names[i] = v.Name
	}
	return names
}

// Variant returns the variant called name.
func (c *Config) Variant(name string) (*Variant, error) {
	for i := range c.Variants {
		if c.Variants[i].Name == name {
			return &c.Variants[i], nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown variant %q (have: %s)", name, strings.Join(c.Names(), ", "))
}

// Detect picks the variant whose file suffix matches the base name of path.
// The longest matching suffix wins; a tie between variants is an error.
func (c *Config) Detect(path string) (*Variant, error) {
	base := filepath.Base(path)
	var best *Variant
	tie := false
	for i := range c.Variants {
		v := &c.Variants[i]
		if v.FileSuffix == "" || !strings.HasSuffix(base, v.FileSuffix) {
			continue
		}
		switch {
		case best == nil || len(v.FileSuffix) > len(best.FileSuffix):
			best, tie = v, false
		case len(v.FileSuffix) == len(best.FileSuffix):
			tie = true
		}
	}
	if best == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "cannot detect variant of %s; pass --variant (have: %s)", base, strings.Join(c.Names(), ", "))
	}
	if tie {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s matches several variants; pass --variant", base)
	}
	return best, nil
}

// TrialSchema converts the schema for the trial package.
func (v *Variant) TrialSchema() trial.Schema {
	return trial.Schema{
		StudyColumn:     v.Schema.StudyColumn,
		TreatmentPrefix: v.Schema.TreatmentPrefix,
		SizePrefix:      v.Schema.SizePrefix,
		ResponderPrefix: v.Schema.ResponderPrefix,
		DropPrefixes:    slices.Clone(v.Schema.DropPrefixes),
	}
}

// Ordering builds the display ordering.
func (v *Variant) Ordering() (*regimen.Ordering, error) {
	return regimen.NewOrdering(v.Order, regimen.Unlisted(v.Unlisted))
}

// Classifier builds the class rules. A variant without rules uses
// [regimen.DefaultRules].
func (v *Variant) Classifier() (*regimen.Classifier, error) {
	if len(v.Rules) == 0 {
		return regimen.DefaultClassifier(), nil
	}
	rules := make([]regimen.Rule, len(v.Rules))
	for i, r := range v.Rules {
		c, err := regimen.ParseClass(r.Class)
		if err != nil {
			return nil, err
		}
		rules[i] = regimen.Rule{Match: regimen.Match(r.Match), Pattern: r.Pattern, Class: c}
	}
	return regimen.NewClassifier(rules)
}

// Colors returns the merged palette keyed by class. Classes without a color
// fall back to [nodelink.DefaultPalette].
func (v *Variant) Colors() nodelink.Palette {
	p := make(nodelink.Palette, len(nodelink.DefaultPalette))
	for c, col := range nodelink.DefaultPalette {
		p[c] = col
	}
	src := v.palette
	if src == nil {
		src = v.Palette
	}
	for k, col := range src {
		if c, err := regimen.ParseClass(k); err == nil {
			p[c] = col
		}
	}
	return p
}

// NodeOptions converts the render defaults for the renderer.
func (r Render) NodeOptions(p nodelink.Palette) nodelink.Options {
	return nodelink.Options{
		Palette:     p,
		MinNodeSize: r.MinNodeSize,
		MaxNodeSize: r.MaxNodeSize,
		PenPerStudy: r.PenPerStudy,
		EdgeLabels:  r.EdgeLabels,
		Legend:      r.Legend,
	}
}
