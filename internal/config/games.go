package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"lottery-predictor/internal/lottery"
)

// ErrUnknownGame is returned when a game name is not configured.
var ErrUnknownGame = errors.New("unknown game")

// GamesFile is the structure of the optional games.yaml file.
// Entries override built-in games by name; unknown names define new games.
type GamesFile struct {
	Games []GameConfig `yaml:"games"`
}

// GameConfig overrides the fields of one game. Zero values keep the built-in value.
type GameConfig struct {
	Name            string          `yaml:"name"`
	Title           string          `yaml:"title,omitempty"`
	MainCount       int             `yaml:"main_count,omitempty"`
	SupplementCount int             `yaml:"supplement_count,omitempty"`
	MainRange       *lottery.Range  `yaml:"main_range,omitempty"`
	SupplementRange *lottery.Range  `yaml:"supplement_range,omitempty"`
	SourceURL       string          `yaml:"source_url,omitempty"`
	Layout          *lottery.Layout `yaml:"layout,omitempty"`
	DataFile        string          `yaml:"data_file,omitempty"`
	ReportFile      string          `yaml:"report_file,omitempty"`
	Disabled        bool            `yaml:"disabled,omitempty"`
}

// LoadGamesFile reads path. A missing file yields an empty override set.
func LoadGamesFile(path string) (*GamesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GamesFile{}, nil
		}
		return nil, err
	}

	var f GamesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i, g := range f.Games {
		if strings.TrimSpace(g.Name) == "" {
			return nil, fmt.Errorf("games[%d]: name is required", i)
		}
	}
	return &f, nil
}

// Apply returns defaults with the file's overrides applied, in default order
// followed by newly defined games. Disabled games are dropped.
func (f *GamesFile) Apply(defaults []lottery.Game) []lottery.Game {
	games := make([]lottery.Game, len(defaults))
	copy(games, defaults)

	disabled := make(map[string]bool)
	for _, gc := range f.Games {
		if gc.Disabled {
			disabled[gc.Name] = true
			continue
		}
		idx := -1
		for i := range games {
			if games[i].Name == gc.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			games = append(games, lottery.Game{
				Name:       gc.Name,
				DataFile:   gc.Name + ".json",
				ReportFile: gc.Name + ".txt",
			})
			idx = len(games) - 1
		}
		gc.applyTo(&games[idx])
	}

	out := games[:0]
	for _, g := range games {
		if !disabled[g.Name] {
			out = append(out, g)
		}
	}
	return out
}

func (gc GameConfig) applyTo(g *lottery.Game) {
	if gc.Title != "" {
		g.Title = gc.Title
	}
	if gc.MainCount > 0 {
		g.MainCount = gc.MainCount
	}
	if gc.SupplementCount > 0 {
		g.SupplementCount = gc.SupplementCount
	}
	if gc.MainRange != nil {
		g.MainRange = *gc.MainRange
	}
	if gc.SupplementRange != nil {
		g.SupplementRange = *gc.SupplementRange
	}
	if gc.SourceURL != "" {
		g.SourceURL = gc.SourceURL
	}
	if gc.Layout != nil {
		g.Layout = *gc.Layout
	}
	if gc.DataFile != "" {
		g.DataFile = gc.DataFile
	}
	if gc.ReportFile != "" {
		g.ReportFile = gc.ReportFile
	}
}

// FindGame returns the configured game called name.
func (c *Config) FindGame(name string) (lottery.Game, error) {
	for _, g := range c.Games {
		if strings.EqualFold(g.Name, name) {
			return g, nil
		}
	}
	return lottery.Game{}, fmt.Errorf("%w: %q", ErrUnknownGame, name)
}

// SelectGames resolves names to games; no names selects every game.
func (c *Config) SelectGames(names []string) ([]lottery.Game, error) {
	if len(names) == 0 {
		return c.Games, nil
	}
	games := make([]lottery.Game, 0, len(names))
	for _, name := range names {
		g, err := c.FindGame(name)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, nil
}
