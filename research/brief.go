package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

// NoSummariesMessage is the failure reported when synthesis has no source
// summaries to work from.
const NoSummariesMessage = "Error: No summaries to synthesize."

// ResearchPlan is the plan the pipeline follows to conduct its research.
type ResearchPlan struct {
	Topic             string   `json:"topic" jsonschema:"The main topic of the research brief."`
	ResearchQuestions []string `json:"research_questions" jsonschema:"A list of specific questions to answer about the topic."`
	SearchQueries     []string `json:"search_queries" jsonschema:"A list of search engine queries to find relevant information."`
}

// SourceSummary is the structured summary of a single information source.
type SourceSummary struct {
	URL              string   `json:"url" jsonschema:"The URL of the information source."`
	Title            string   `json:"title" jsonschema:"The title of the source."`
	KeyPoints        []string `json:"key_points" jsonschema:"A list of bullet points summarizing the key information from the source."`
	RelevanceToTopic string   `json:"relevance_to_topic" jsonschema:"A brief explanation of how this source is relevant to the main topic."`
	RelevanceScore   float64  `json:"relevance_score" jsonschema:"A score representing the relevance of this source to the main topic between 0 and 1."`
}

// FinalBrief is the user-facing research brief.
type FinalBrief struct {
	Topic              string          `json:"topic" jsonschema:"The main topic of the research brief."`
	Introduction       string          `json:"introduction" jsonschema:"A brief introduction to the topic."`
	Synthesis          string          `json:"synthesis" jsonschema:"A synthesized summary combining information from all sources to answer the research questions."`
	References         []SourceSummary `json:"references" jsonschema:"A list of the summarized sources used to compile the brief."`
	PotentialFollowUps []string        `json:"potential_follow_ups" jsonschema:"Suggestions for follow-up research questions."`
}

// BriefOutcome is the result of synthesis: either a brief or a failure
// message. It encodes to JSON as the brief object or the failure string.
type BriefOutcome struct {
	Brief   *FinalBrief
	Failure string
}

// Succeeded returns an outcome carrying b.
func Succeeded(b FinalBrief) BriefOutcome {
	return BriefOutcome{Brief: &b}
}

// Failed returns an outcome carrying a failure message.
func Failed(msg string) BriefOutcome {
	return BriefOutcome{Failure: msg}
}

// OK reports whether the outcome carries a brief.
func (o BriefOutcome) OK() bool {
	return o.Brief != nil
}

func (o BriefOutcome) MarshalJSON() ([]byte, error) {
	if o.Brief != nil {
		return json.Marshal(o.Brief)
	}
	return json.Marshal(o.Failure)
}

func (o *BriefOutcome) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*o = BriefOutcome{}
		return json.Unmarshal(data, &o.Failure)
	}
	var b FinalBrief
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*o = Succeeded(b)
	return nil
}

// HistoryStore keeps the briefs previously produced for each user.
type HistoryStore interface {
	// GetBriefsForUser returns the user's briefs, oldest first.
	GetBriefsForUser(ctx context.Context, userID string) ([]FinalBrief, error)
	SaveBrief(ctx context.Context, userID string, brief FinalBrief) error
}

// ErrMissingInput is returned when a run is started without a required field.
var ErrMissingInput = errors.New("missing required input")
