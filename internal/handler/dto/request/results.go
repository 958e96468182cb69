package request

import (
	"lab-booking-api/internal/usecase/commands"

	"github.com/google/uuid"
)

type ResultEntry struct {
	Label          string `json:"label" binding:"required"`
	Value          string `json:"value" binding:"required"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"referenceRange"`
	Type           string `json:"type"`
	Required       bool   `json:"required"`
}

type ResultSet struct {
	TestID  uuid.UUID     `json:"testId" binding:"required"`
	Entries []ResultEntry `json:"entries" binding:"required,min=1,dive"`
}

type SubmitResultsRequest struct {
	Results []ResultSet `json:"results" binding:"required,min=1,dive"`
}

func (r SubmitResultsRequest) ToInput() []commands.ResultSetInput {
	sets := make([]commands.ResultSetInput, len(r.Results))
	for i, set := range r.Results {
		entries := make([]commands.ResultEntryInput, len(set.Entries))
		for j, e := range set.Entries {
			entries[j] = commands.ResultEntryInput{
				Label:          e.Label,
				Value:          e.Value,
				Unit:           e.Unit,
				ReferenceRange: e.ReferenceRange,
				Type:           e.Type,
				Required:       e.Required,
			}
		}
		sets[i] = commands.ResultSetInput{TestID: set.TestID, Entries: entries}
	}
	return sets
}
