package lottery

import "github.com/goccy/go-json"

// drawRecordJSON accepts the current keys and the per-game keys of older data
// files (frontBalls/backBalls for dlt, redBalls/blueBall for ssq).
type drawRecordJSON struct {
	IssueNumber     string          `json:"issueNumber"`
	MainBalls       []*int          `json:"mainBalls"`
	SupplementBalls []*int          `json:"supplementBalls"`
	DrawDate        string          `json:"drawDate"`
	FrontBalls      []*int          `json:"frontBalls"`
	BackBalls       []*int          `json:"backBalls"`
	RedBalls        []*int          `json:"redBalls"`
	BlueBall        json.RawMessage `json:"blueBall"`
}

// UnmarshalJSON decodes a record, falling back to the older ball keys when the
// current ones are absent. A null ball decodes as Unparsed.
func (r *DrawRecord) UnmarshalJSON(data []byte) error {
	var raw drawRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.IssueNumber = raw.IssueNumber
	r.DrawDate = raw.DrawDate
	r.MainBalls = firstBalls(raw.MainBalls, raw.FrontBalls, raw.RedBalls)
	r.SupplementBalls = firstBalls(raw.SupplementBalls, raw.BackBalls)

	if r.SupplementBalls == nil && len(raw.BlueBall) > 0 {
		var blue *int
		if err := json.Unmarshal(raw.BlueBall, &blue); err != nil {
			return err
		}
		r.SupplementBalls = []int{ballValue(blue)}
	}
	return nil
}

func firstBalls(groups ...[]*int) []int {
	for _, g := range groups {
		if g == nil {
			continue
		}
		balls := make([]int, len(g))
		for i, b := range g {
			balls[i] = ballValue(b)
		}
		return balls
	}
	return nil
}

func ballValue(b *int) int {
	if b == nil {
		return Unparsed
	}
	return *b
}
