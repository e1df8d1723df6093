// Package research is a client for asynchronous research jobs: multi-step
// agentic research that produces free-text or schema-structured output.
package research

import (
	"encoding/json"
	"fmt"
)

// Model selects the research model.
type Model string

const (
	ModelExaResearch    Model = "exa-research"
	ModelExaResearchPro Model = "exa-research-pro"
)

// Status is the lifecycle state of a research job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is one of the known end states.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled || s == StatusFailed
}

// Known reports whether the status is any state this SDK understands. An
// unknown status usually means an SDK/API version mismatch.
func (s Status) Known() bool {
	return s == StatusPending || s == StatusRunning || s.Terminal()
}

// CostDollars is the cost breakdown of a research job.
type CostDollars struct {
	Total           float64 `json:"total"`
	NumPages        float64 `json:"numPages"`
	NumSearches     float64 `json:"numSearches"`
	ReasoningTokens float64 `json:"reasoningTokens"`
}

// Output is the final product of a completed job. Parsed is set when the job
// was created with an output schema.
type Output struct {
	Content string         `json:"content"`
	Parsed  map[string]any `json:"parsed,omitempty"`
}

// Research is a research job. Which fields are populated depends on Status:
// completed jobs carry Output and CostDollars, failed jobs carry Error, and
// Events is present only when requested.
type Research struct {
	ID        string  `json:"researchId"`
	CreatedAt float64 `json:"createdAt"` // milliseconds since epoch

	Model        Model          `json:"model"`
	Instructions string         `json:"instructions"`
	OutputSchema map[string]any `json:"outputSchema,omitempty"`

	Status     Status  `json:"status"`
	FinishedAt float64 `json:"finishedAt,omitempty"`

	Events      EventList    `json:"events,omitempty"`
	Output      *Output      `json:"output,omitempty"`
	CostDollars *CostDollars `json:"costDollars,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// OperationResult is a page an operation touched.
type OperationResult struct {
	URL string `json:"url"`
}

// Operation is one step the researcher took: think, search, or crawl.
type Operation interface {
	OperationType() string
}

type ThinkOperation struct {
	Content string `json:"content"`
}

func (ThinkOperation) OperationType() string { return "think" }

type SearchOperation struct {
	SearchType string            `json:"searchType"`
	Query      string            `json:"query"`
	Results    []OperationResult `json:"results"`
	PageTokens float64           `json:"pageTokens"`
	Goal       string            `json:"goal,omitempty"`
}

func (SearchOperation) OperationType() string { return "search" }

type CrawlOperation struct {
	Result     OperationResult `json:"result"`
	PageTokens float64         `json:"pageTokens"`
	Goal       string          `json:"goal,omitempty"`
}

func (CrawlOperation) OperationType() string { return "crawl" }

func decodeOperation(data []byte) (Operation, error) {
	var probe struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch probe.Type {
	case "think":
		var op ThinkOperation
		return op, json.Unmarshal(data, &op)

	case "search":
		var op SearchOperation
		return op, json.Unmarshal(data, &op)

	case "crawl":
		var op CrawlOperation
		return op, json.Unmarshal(data, &op)
	}

	return nil, fmt.Errorf("unknown operation type %q", probe.Type)
}

// Event is a progress event observed while a job runs. Concrete types are
// keyed by the wire eventType discriminator.
type Event interface {
	EventType() string
}

type DefinitionEvent struct {
	ResearchID string  `json:"researchId"`
	CreatedAt  float64 `json:"createdAt"`

	Instructions string         `json:"instructions"`
	OutputSchema map[string]any `json:"outputSchema,omitempty"`
}

func (DefinitionEvent) EventType() string { return "research-definition" }

// OutputPayload is the terminal output attached to an OutputEvent: content
// and cost for completed runs, an error message for failed ones.
type OutputPayload struct {
	OutputType string `json:"outputType"`

	Content     string         `json:"content,omitempty"`
	Parsed      map[string]any `json:"parsed,omitempty"`
	CostDollars *CostDollars   `json:"costDollars,omitempty"`

	Error string `json:"error,omitempty"`
}

type OutputEvent struct {
	ResearchID string  `json:"researchId"`
	CreatedAt  float64 `json:"createdAt"`

	Output OutputPayload `json:"output"`
}

func (OutputEvent) EventType() string { return "research-output" }

type PlanDefinitionEvent struct {
	ResearchID string  `json:"researchId"`
	PlanID     string  `json:"planId"`
	CreatedAt  float64 `json:"createdAt"`
}

func (PlanDefinitionEvent) EventType() string { return "plan-definition" }

type PlanOperationEvent struct {
	ResearchID  string  `json:"researchId"`
	PlanID      string  `json:"planId"`
	OperationID string  `json:"operationId"`
	CreatedAt   float64 `json:"createdAt"`

	Data Operation `json:"-"`
}

func (PlanOperationEvent) EventType() string { return "plan-operation" }

func (e *PlanOperationEvent) UnmarshalJSON(data []byte) error {
	type alias PlanOperationEvent

	var raw struct {
		alias
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	op, err := decodeOperation(raw.Data)

	if err != nil {
		return err
	}

	*e = PlanOperationEvent(raw.alias)
	e.Data = op

	return nil
}

// PlanOutput is the plan step's conclusion: a set of task instructions to
// fan out, or a stop decision.
type PlanOutput struct {
	OutputType string `json:"outputType"`
	Reasoning  string `json:"reasoning"`

	TasksInstructions []string `json:"tasksInstructions,omitempty"`
}

type PlanOutputEvent struct {
	ResearchID string  `json:"researchId"`
	PlanID     string  `json:"planId"`
	CreatedAt  float64 `json:"createdAt"`

	Output PlanOutput `json:"output"`
}

func (PlanOutputEvent) EventType() string { return "plan-output" }

type TaskDefinitionEvent struct {
	ResearchID string  `json:"researchId"`
	PlanID     string  `json:"planId"`
	TaskID     string  `json:"taskId"`
	CreatedAt  float64 `json:"createdAt"`

	Instructions string `json:"instructions"`
}

func (TaskDefinitionEvent) EventType() string { return "task-definition" }

type TaskOperationEvent struct {
	ResearchID  string  `json:"researchId"`
	PlanID      string  `json:"planId"`
	TaskID      string  `json:"taskId"`
	OperationID string  `json:"operationId"`
	CreatedAt   float64 `json:"createdAt"`

	Data Operation `json:"-"`
}

func (TaskOperationEvent) EventType() string { return "task-operation" }

func (e *TaskOperationEvent) UnmarshalJSON(data []byte) error {
	type alias TaskOperationEvent

	var raw struct {
		alias
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	op, err := decodeOperation(raw.Data)

	if err != nil {
		return err
	}

	*e = TaskOperationEvent(raw.alias)
	e.Data = op

	return nil
}

type TaskOutput struct {
	OutputType string `json:"outputType"`
	Content    string `json:"content"`
}

type TaskOutputEvent struct {
	ResearchID string  `json:"researchId"`
	PlanID     string  `json:"planId"`
	TaskID     string  `json:"taskId"`
	CreatedAt  float64 `json:"createdAt"`

	Output TaskOutput `json:"output"`
}

func (TaskOutputEvent) EventType() string { return "task-output" }

// ParseEvent decodes one event. The SSE event name is used when the payload
// carries no eventType of its own. Unknown event types return (nil, nil) so
// callers can skip them without breaking on newer API versions.
func ParseEvent(name string, data []byte) (Event, error) {
	var probe struct {
		EventType string `json:"eventType"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	eventType := probe.EventType

	if eventType == "" {
		eventType = name
	}

	switch eventType {
	case "research-definition":
		var e DefinitionEvent
		return e, json.Unmarshal(data, &e)

	case "research-output":
		var e OutputEvent
		return e, json.Unmarshal(data, &e)

	case "plan-definition":
		var e PlanDefinitionEvent
		return e, json.Unmarshal(data, &e)

	case "plan-operation":
		var e PlanOperationEvent

		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}

		return e, nil

	case "plan-output":
		var e PlanOutputEvent
		return e, json.Unmarshal(data, &e)

	case "task-definition":
		var e TaskDefinitionEvent
		return e, json.Unmarshal(data, &e)

	case "task-operation":
		var e TaskOperationEvent

		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}

		return e, nil

	case "task-output":
		var e TaskOutputEvent
		return e, json.Unmarshal(data, &e)
	}

	return nil, nil
}

// EventList decodes a heterogeneous event array, dropping event types this
// SDK does not know.
type EventList []Event

func (l *EventList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	events := make([]Event, 0, len(raw))

	for _, item := range raw {
		event, err := ParseEvent("", item)

		if err != nil {
			return err
		}

		if event == nil {
			continue
		}

		events = append(events, event)
	}

	*l = events

	return nil
}
