package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/domain/standings"
)

// GroupPoints is the points awarded per group-stage outcome.
type GroupPoints struct {
	Win  int `json:"win" validate:"gte=0"`
	Draw int `json:"draw" validate:"gte=0"`
	Loss int `json:"loss" validate:"gte=0"`
}

// CupPayouts overrides the default champion-takes-all payout.
type CupPayouts struct {
	Champion float64 `json:"champion" validate:"gte=0"`
	RunnerUp float64 `json:"runnerUp" validate:"gte=0"`
	Third    float64 `json:"third" validate:"gte=0"`
}

// CupConfig describes one cup competition. Mode "derived" cups are computed
// by the engine; "manual" cups only contribute hand-entered ledger items.
type CupConfig struct {
	Key                      string      `json:"key" validate:"required"`
	Name                     string      `json:"name" validate:"required"`
	Mode                     string      `json:"mode" validate:"required,oneof=derived manual"`
	Format                   string      `json:"format" validate:"omitempty,oneof=groups_then_knockout"`
	TotalPrize               float64     `json:"totalPrize" validate:"gte=0"`
	RandomSeed               string      `json:"randomSeed"`
	StartGW                  int         `json:"startGw" validate:"omitempty,gte=1"`
	GroupCount               int         `json:"groupCount" validate:"omitempty,gte=1"`
	GroupPoints              GroupPoints `json:"groupPoints"`
	CupPayouts               *CupPayouts `json:"cupPayouts,omitempty"`
	IncludeThirdPlacePlayoff bool        `json:"includeThirdPlacePlayoff"`
}

// Derived reports whether the engine computes this cup.
func (c CupConfig) Derived() bool {
	return c.Mode == "derived" && c.Format == "groups_then_knockout"
}

// Slug is the cup's directory name under the data root.
func (c CupConfig) Slug() string {
	return strings.ToLower(c.Key)
}

// ChampionPayout returns the champion prize, falling back to the total
// prize when no explicit payout table is configured.
func (c CupConfig) ChampionPayout() float64 {
	if c.CupPayouts != nil {
		return c.CupPayouts.Champion
	}
	return c.TotalPrize
}

// RunnerUpPayout returns the runner-up prize, zero when unconfigured.
func (c CupConfig) RunnerUpPayout() float64 {
	if c.CupPayouts != nil {
		return c.CupPayouts.RunnerUp
	}
	return 0
}

// ThirdPayout returns the third-place prize, zero when unconfigured.
func (c CupConfig) ThirdPayout() float64 {
	if c.CupPayouts != nil {
		return c.CupPayouts.Third
	}
	return 0
}

// MonthDefinition maps a month key to the gameweeks it covers and the
// payouts for the month table.
type MonthDefinition struct {
	Key     string               `json:"key" validate:"required"`
	GWs     []int                `json:"gws" validate:"required,min=1,dive,gte=1"`
	Payouts standings.PrizeTable `json:"payouts"`
}

// LeagueConfig is the league's static competition setup, loaded from a JSON
// file and immutable for the life of a run.
type LeagueConfig struct {
	Season           string               `json:"season" validate:"required"`
	LeagueID         int                  `json:"leagueId" validate:"required,gt=0"`
	Timezone         string               `json:"timezone"`
	Currency         string               `json:"currency"`
	TieMode          standings.TieMode    `json:"tieMode" validate:"required,oneof=deterministic split"`
	WeeklyPrizes     standings.PrizeTable `json:"weeklyPrizes"`
	SeasonPrizes     standings.PrizeTable `json:"seasonPrizes"`
	MonthDefinitions []MonthDefinition    `json:"monthDefinitions" validate:"dive"`
	Cups             []CupConfig          `json:"cups" validate:"dive"`
}

// DerivedCups returns the cups the engine must compute.
func (c LeagueConfig) DerivedCups() []CupConfig {
	out := make([]CupConfig, 0, len(c.Cups))
	for _, cupCfg := range c.Cups {
		if cupCfg.Derived() {
			out = append(out, cupCfg)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadLeagueConfig reads and validates the league configuration file.
func LoadLeagueConfig(path string) (LeagueConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LeagueConfig{}, fmt.Errorf("read league config %s: %w", path, err)
	}

	var cfg LeagueConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return LeagueConfig{}, fmt.Errorf("parse league config %s: %w", path, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return LeagueConfig{}, fmt.Errorf("validate league config %s: %w", path, err)
	}

	for _, cupCfg := range cfg.Cups {
		if cupCfg.Derived() {
			if cupCfg.RandomSeed == "" {
				return LeagueConfig{}, fmt.Errorf("cup %s: randomSeed is required for derived cups", cupCfg.Key)
			}
			if cupCfg.StartGW < 1 {
				return LeagueConfig{}, fmt.Errorf("cup %s: startGw is required for derived cups", cupCfg.Key)
			}
			if cupCfg.GroupCount < 1 {
				return LeagueConfig{}, fmt.Errorf("cup %s: groupCount is required for derived cups", cupCfg.Key)
			}
		}
	}

	return cfg, nil
}

// LoadManualCupResults reads the optional hand-entered cup results file.
// A missing file is not an error.
func LoadManualCupResults(path string) (cup.ManualResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cup.ManualResults{}, nil
		}
		return nil, fmt.Errorf("read manual cup results %s: %w", path, err)
	}

	var out cup.ManualResults
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse manual cup results %s: %w", path, err)
	}
	return out, nil
}
