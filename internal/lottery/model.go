// Package lottery holds the draw record model, the game capability records and
// the merge rule applied to persisted draw history.
package lottery

import "slices"

// Unparsed marks a ball cell that could not be read as an integer.
// It is stored and counted like any other value; HasUnparsed reports it.
const Unparsed = -1

// DrawRecord is one published draw of a game.
type DrawRecord struct {
	IssueNumber     string `json:"issueNumber"`
	MainBalls       []int  `json:"mainBalls"`
	SupplementBalls []int  `json:"supplementBalls"`
	DrawDate        string `json:"drawDate"`
}

// HasUnparsed returns true if any ball of the record failed to parse.
func (r DrawRecord) HasUnparsed() bool {
	return slices.Contains(r.MainBalls, Unparsed) || slices.Contains(r.SupplementBalls, Unparsed)
}

// Range is an inclusive ball value range.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Layout locates the fields of a draw inside one row of the history table.
// Main and supplement balls occupy consecutive cells starting at their column.
type Layout struct {
	IssueColumn      int `yaml:"issue_column" json:"issue_column"`
	MainColumn       int `yaml:"main_column" json:"main_column"`
	SupplementColumn int `yaml:"supplement_column" json:"supplement_column"`
	DateColumn       int `yaml:"date_column" json:"date_column"`
}

// Game is the capability record describing one lottery variant.
type Game struct {
	Name            string `json:"name"`
	Title           string `json:"title"`
	MainCount       int    `json:"main_count"`
	SupplementCount int    `json:"supplement_count"`
	MainRange       Range  `json:"main_range"`
	SupplementRange Range  `json:"supplement_range"`
	SourceURL       string `json:"source_url"`
	Layout          Layout `json:"layout"`
	DataFile        string `json:"data_file"`
	ReportFile      string `json:"report_file"`
}

// SuperLotto is the 5+2 game ("dlt").
func SuperLotto() Game {
	return Game{
		Name:            "dlt",
		Title:           "Super Lotto",
		MainCount:       5,
		SupplementCount: 2,
		MainRange:       Range{Min: 1, Max: 35},
		SupplementRange: Range{Min: 1, Max: 12},
		SourceURL:       "https://datachart.500.com/dlt/history/newinc/history.php",
		Layout:          Layout{IssueColumn: 0, MainColumn: 1, SupplementColumn: 6, DateColumn: 15},
		DataFile:        "dlt.json",
		ReportFile:      "dlt.txt",
	}
}

// DoubleColorBall is the 6+1 game ("ssq").
func DoubleColorBall() Game {
	return Game{
		Name:            "ssq",
		Title:           "Double Color Ball",
		MainCount:       6,
		SupplementCount: 1,
		MainRange:       Range{Min: 1, Max: 33},
		SupplementRange: Range{Min: 1, Max: 16},
		SourceURL:       "https://datachart.500.com/ssq/history/newinc/history.php",
		Layout:          Layout{IssueColumn: 0, MainColumn: 1, SupplementColumn: 7, DateColumn: 15},
		DataFile:        "ssq.json",
		ReportFile:      "ssq.txt",
	}
}

// DefaultGames returns the built-in games in pipeline order.
func DefaultGames() []Game {
	return []Game{DoubleColorBall(), SuperLotto()}
}
