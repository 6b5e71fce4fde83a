// Package interp holds the interpretation copy for every instrument: band
// thresholds, qualitative labels, canned descriptions and recommendation
// text. The tables ship as embedded YAML so the numeric scoring algorithms
// stay testable independent of the copy, and a deployment can swap the file
// without touching code.
package interp

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var rawTables []byte

type Tables struct {
	Version    int              `yaml:"version"`
	Trait16    Trait16Tables    `yaml:"trait16"`
	Risk       RiskTables       `yaml:"risk"`
	Disc       DiscTables       `yaml:"disc"`
	Aptitude   AptitudeTables   `yaml:"aptitude"`
	TableTest  TableTestTables  `yaml:"table_test"`
	Competency CompetencyTables `yaml:"competency"`
}

// FactorText is the low/high pole copy for one personality factor.
type FactorText struct {
	Name string `yaml:"name"`
	Low  string `yaml:"low"`
	High string `yaml:"high"`
}

// FactorRule emits Text when a factor's decatipo crosses Min or Max.
type FactorRule struct {
	Factor string `yaml:"factor"`
	Min    *int   `yaml:"min,omitempty"`
	Max    *int   `yaml:"max,omitempty"`
	Text   string `yaml:"text"`
}

type Trait16Tables struct {
	Factors         map[string]FactorText `yaml:"factors"`
	Recommendations []FactorRule          `yaml:"recommendations"`
}

// RiskBand is one contiguous range of the risk inventory's total score.
// Max is the inclusive upper bound; the last band leaves it zero (open).
type RiskBand struct {
	Max              int      `yaml:"max,omitempty"`
	Level            string   `yaml:"level"`
	Profile          string   `yaml:"profile"`
	SafetyCritical   bool     `yaml:"safety_critical"`
	TrainingRequired bool     `yaml:"training_required"`
	Severity         string   `yaml:"severity"`
	Recommendations  []string `yaml:"recommendations,omitempty"`
}

type RiskTables struct {
	Bands []RiskBand `yaml:"bands"`
}

type DiscTables struct {
	Dimensions        map[string]string `yaml:"dimensions"` // code -> display name
	Profiles          map[string]string `yaml:"profiles"`   // "DI" -> combined profile text
	FallbackProfile   string            `yaml:"fallback_profile"`
	Strengths         map[string]string `yaml:"strengths"` // code -> strength text
	Growth            map[string]string `yaml:"growth"`    // dominant code -> growth text
	StrengthThreshold float64           `yaml:"strength_threshold"`
}

// Band is a generic range over a scaled score with Max as inclusive upper
// bound; the final band of a list leaves Max zero (open-ended).
type Band struct {
	Max             float64  `yaml:"max,omitempty"`
	Level           string   `yaml:"level"`
	Description     string   `yaml:"description"`
	Recommendations []string `yaml:"recommendations,omitempty"`
}

type AptitudeTables struct {
	Bands []Band `yaml:"bands"`
}

type TableTestTables struct {
	Bands []Band `yaml:"bands"`
}

type Tier struct {
	Max   float64 `yaml:"max,omitempty"`
	Level string  `yaml:"level"`
}

type DimensionText struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type CompetencyTables struct {
	GlobalBands     []Band                   `yaml:"global_bands"`
	Tiers           []Tier                   `yaml:"tiers"`
	Dimensions      map[string]DimensionText `yaml:"dimensions"`
	Recommendations map[string][]string      `yaml:"recommendations"` // global level -> texts
	GrowthTemplate  string                   `yaml:"growth_template"` // %s = dimension name
}

// BandFor returns the first band whose Max covers v; the last band catches
// everything above the previous bound.
func BandFor(bands []Band, v float64) Band {
	for i, b := range bands {
		if i == len(bands)-1 || v <= b.Max {
			return b
		}
	}
	return Band{}
}

// RiskBandFor is BandFor over the risk inventory's integer totals.
func (r RiskTables) BandFor(total int) RiskBand {
	for i, b := range r.Bands {
		if i == len(r.Bands)-1 || total <= b.Max {
			return b
		}
	}
	return RiskBand{}
}

// TierFor maps a per-dimension mean to its qualitative tier.
func (c CompetencyTables) TierFor(mean float64) Tier {
	for i, t := range c.Tiers {
		if i == len(c.Tiers)-1 || mean <= t.Max {
			return t
		}
	}
	return Tier{}
}

// Load parses the embedded tables and checks the invariants the strategies
// rely on.
func Load() (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(rawTables, &t); err != nil {
		return nil, fmt.Errorf("interp: parse tables: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("interp: %w", err)
	}
	return &t, nil
}

func (t *Tables) validate() error {
	if len(t.Risk.Bands) != 3 {
		return fmt.Errorf("risk needs 3 bands, got %d", len(t.Risk.Bands))
	}
	if len(t.Aptitude.Bands) != 3 {
		return fmt.Errorf("aptitude needs 3 bands, got %d", len(t.Aptitude.Bands))
	}
	if len(t.TableTest.Bands) != 5 {
		return fmt.Errorf("table test needs 5 bands, got %d", len(t.TableTest.Bands))
	}
	if len(t.Competency.GlobalBands) != 4 {
		return fmt.Errorf("competency needs 4 global bands, got %d", len(t.Competency.GlobalBands))
	}
	if len(t.Competency.Tiers) != 7 {
		return fmt.Errorf("competency needs 7 tiers, got %d", len(t.Competency.Tiers))
	}
	if len(t.Disc.Dimensions) != 4 {
		return fmt.Errorf("disc needs 4 dimensions, got %d", len(t.Disc.Dimensions))
	}
	if t.Disc.StrengthThreshold <= 0 {
		return fmt.Errorf("disc strength_threshold must be positive")
	}
	return nil
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// Default returns the embedded tables, parsed once. It panics if the embedded
// file is malformed, which can only happen from a bad build.
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Load()
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultTables
}
