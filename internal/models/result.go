package models

type ImportResult string

const (
	ResultCreated           ImportResult = "created"
	ResultUpdated           ImportResult = "updated"
	ResultSkipped           ImportResult = "skipped"
	ResultSkippedFetch      ImportResult = "skipped-fetch"
	ResultSkippedPrecoOuAno ImportResult = "skipped-preco-ou-ano"
)

// ImportTally is the append-only counter set reported at the end of a batch.
type ImportTally struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

func (t *ImportTally) Record(r ImportResult) {
	switch r {
	case ResultCreated:
		t.Created++
	case ResultUpdated:
		t.Updated++
	default:
		t.Skipped++
	}
}
