// Package websets is a client for the websets family of resources: websets
// and their items, searches, enrichments, webhooks, monitors, streams,
// imports, and the event feed.
package websets

import (
	"encoding/json"
	"fmt"
	"time"
)

// WebsetStatus is the lifecycle state of a webset.
type WebsetStatus string

const (
	WebsetStatusIdle    WebsetStatus = "idle"
	WebsetStatusRunning WebsetStatus = "running"
	WebsetStatusPaused  WebsetStatus = "paused"
)

// EntityType selects what kind of results a webset returns.
type EntityType string

const (
	EntityCompany       EntityType = "company"
	EntityPerson        EntityType = "person"
	EntityArticle       EntityType = "article"
	EntityResearchPaper EntityType = "research_paper"
	EntityCustom        EntityType = "custom"
)

// Entity is the result entity of a webset search. Description is only used
// for custom entities.
type Entity struct {
	Type EntityType `json:"type"`

	Description string `json:"description,omitempty"`
}

// Criterion is an evaluation criterion with its observed success rate.
type Criterion struct {
	Description string `json:"description"`

	SuccessRate float64 `json:"successRate"`
}

// CriterionRequest describes a criterion to create.
type CriterionRequest struct {
	Description string `json:"description"`
}

// SearchProgress reports how far along a webset search is.
type SearchProgress struct {
	Found float64 `json:"found"`

	Completion float64 `json:"completion"`
}

// SearchStatus is the lifecycle state of a webset search.
type SearchStatus string

const (
	SearchStatusCreated   SearchStatus = "created"
	SearchStatusRunning   SearchStatus = "running"
	SearchStatusCompleted SearchStatus = "completed"
	SearchStatusCanceled  SearchStatus = "canceled"
)

// Search is an agentic search attached to a webset.
type Search struct {
	ID     string       `json:"id"`
	Object string       `json:"object"`
	Status SearchStatus `json:"status"`

	Query    string         `json:"query"`
	Entity   *Entity        `json:"entity,omitempty"`
	Criteria []Criterion    `json:"criteria,omitempty"`
	Count    float64        `json:"count"`
	Progress SearchProgress `json:"progress"`

	Metadata map[string]any `json:"metadata,omitempty"`

	CanceledAt     *time.Time `json:"canceledAt,omitempty"`
	CanceledReason string     `json:"canceledReason,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// EnrichmentFormat is the response format of an enrichment.
type EnrichmentFormat string

const (
	FormatText    EnrichmentFormat = "text"
	FormatDate    EnrichmentFormat = "date"
	FormatNumber  EnrichmentFormat = "number"
	FormatOptions EnrichmentFormat = "options"
	FormatEmail   EnrichmentFormat = "email"
	FormatPhone   EnrichmentFormat = "phone"
)

// EnrichmentStatus is the lifecycle state of an enrichment.
type EnrichmentStatus string

const (
	EnrichmentStatusPending   EnrichmentStatus = "pending"
	EnrichmentStatusCanceled  EnrichmentStatus = "canceled"
	EnrichmentStatusCompleted EnrichmentStatus = "completed"
)

// EnrichmentOption is one choice for an options-format enrichment.
type EnrichmentOption struct {
	Label string `json:"label"`
}

// Enrichment is an enrichment task applied to every item of a webset.
type Enrichment struct {
	ID     string           `json:"id"`
	Object string           `json:"object"`
	Status EnrichmentStatus `json:"status"`

	WebsetID string `json:"websetId"`

	Title        string             `json:"title,omitempty"`
	Description  string             `json:"description"`
	Format       EnrichmentFormat   `json:"format,omitempty"`
	Options      []EnrichmentOption `json:"options,omitempty"`
	Instructions string             `json:"instructions,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Reference is a source used to produce an evaluation or enrichment result.
type Reference struct {
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	URL     string `json:"url"`
}

// Satisfaction is the outcome of evaluating an item against a criterion.
type Satisfaction string

const (
	SatisfiedYes     Satisfaction = "yes"
	SatisfiedNo      Satisfaction = "no"
	SatisfiedUnclear Satisfaction = "unclear"
)

// ItemEvaluation is the evaluation of one item against one criterion.
type ItemEvaluation struct {
	Criterion  string       `json:"criterion"`
	Reasoning  string       `json:"reasoning"`
	Satisfied  Satisfaction `json:"satisfied"`
	References []Reference  `json:"references,omitempty"`
}

// EnrichmentResult is the result an enrichment produced for one item.
type EnrichmentResult struct {
	Object string           `json:"object"`
	Format EnrichmentFormat `json:"format"`

	Result     []string    `json:"result,omitempty"`
	Reasoning  string      `json:"reasoning,omitempty"`
	References []Reference `json:"references,omitempty"`

	EnrichmentID string `json:"enrichmentId"`
}

// PersonFields are the entity fields of a person item.
type PersonFields struct {
	Name       string `json:"name"`
	Location   string `json:"location,omitempty"`
	Position   string `json:"position,omitempty"`
	PictureURL string `json:"pictureUrl,omitempty"`
}

// CompanyFields are the entity fields of a company item.
type CompanyFields struct {
	Name      string  `json:"name"`
	Location  string  `json:"location,omitempty"`
	Employees float64 `json:"employees,omitempty"`
	Industry  string  `json:"industry,omitempty"`
	About     string  `json:"about,omitempty"`
	LogoURL   string  `json:"logoUrl,omitempty"`
}

// AuthoredFields are the entity fields shared by article, research-paper
// and custom items.
type AuthoredFields struct {
	Author      string `json:"author,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// ItemProperties describes an item. Type selects which of the entity field
// blocks is populated.
type ItemProperties struct {
	Type EntityType `json:"type"`

	URL         string `json:"url"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`

	Person        *PersonFields   `json:"person,omitempty"`
	Company       *CompanyFields  `json:"company,omitempty"`
	Article       *AuthoredFields `json:"article,omitempty"`
	ResearchPaper *AuthoredFields `json:"researchPaper,omitempty"`
	Custom        *AuthoredFields `json:"custom,omitempty"`
}

// Item is one result in a webset.
type Item struct {
	ID     string `json:"id"`
	Object string `json:"object"`

	Source   string `json:"source"`
	SourceID string `json:"sourceId"`
	WebsetID string `json:"websetId"`

	Properties  ItemProperties     `json:"properties"`
	Evaluations []ItemEvaluation   `json:"evaluations,omitempty"`
	Enrichments []EnrichmentResult `json:"enrichments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Webset is a collection of items built by agentic searches.
type Webset struct {
	ID     string       `json:"id"`
	Object string       `json:"object"`
	Status WebsetStatus `json:"status"`

	ExternalID string `json:"externalId,omitempty"`

	Searches    []Search     `json:"searches,omitempty"`
	Enrichments []Enrichment `json:"enrichments,omitempty"`

	// Items is populated only when the webset is fetched with the items
	// expansion.
	Items []Item `json:"items,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WebhookStatus is the state of a webhook.
type WebhookStatus string

const (
	WebhookActive   WebhookStatus = "active"
	WebhookInactive WebhookStatus = "inactive"
)

// Webhook is a registered event delivery target.
type Webhook struct {
	ID     string        `json:"id"`
	Object string        `json:"object"`
	Status WebhookStatus `json:"status"`

	Events []EventType `json:"events"`
	URL    string      `json:"url"`

	// Secret is only returned on creation.
	Secret string `json:"secret,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WebhookAttempt is one delivery attempt of an event to a webhook.
type WebhookAttempt struct {
	ID     string `json:"id"`
	Object string `json:"object"`

	EventID   string    `json:"eventId"`
	EventType EventType `json:"eventType"`
	WebhookID string    `json:"webhookId"`

	URL        string `json:"url"`
	Successful bool   `json:"successful"`

	ResponseHeaders    map[string]any `json:"responseHeaders,omitempty"`
	ResponseBody       string         `json:"responseBody,omitempty"`
	ResponseStatusCode float64        `json:"responseStatusCode"`

	Attempt     float64   `json:"attempt"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// EventType tags an event with the resource change it reports.
type EventType string

const (
	EventWebsetCreated         EventType = "webset.created"
	EventWebsetDeleted         EventType = "webset.deleted"
	EventWebsetPaused          EventType = "webset.paused"
	EventWebsetIdle            EventType = "webset.idle"
	EventWebsetSearchCreated   EventType = "webset.search.created"
	EventWebsetSearchCanceled  EventType = "webset.search.canceled"
	EventWebsetSearchCompleted EventType = "webset.search.completed"
	EventWebsetSearchUpdated   EventType = "webset.search.updated"
	EventWebsetExportCreated   EventType = "webset.export.created"
	EventWebsetExportCompleted EventType = "webset.export.completed"
	EventItemCreated           EventType = "webset.item.created"
	EventItemEnriched          EventType = "webset.item.enriched"
)

// Event is a change notification. Data holds the resource the event is
// about; use the typed accessors to decode it according to Type.
type Event struct {
	ID     string    `json:"id"`
	Object string    `json:"object"`
	Type   EventType `json:"type"`

	Data json.RawMessage `json:"data"`

	CreatedAt time.Time `json:"createdAt"`
}

// Webset decodes the event payload for webset lifecycle events.
func (e *Event) Webset() (*Webset, error) {
	switch e.Type {
	case EventWebsetCreated, EventWebsetDeleted, EventWebsetPaused, EventWebsetIdle:
	default:
		return nil, fmt.Errorf("event %s carries no webset", e.Type)
	}

	var webset Webset
	return &webset, json.Unmarshal(e.Data, &webset)
}

// Item decodes the event payload for item events.
func (e *Event) Item() (*Item, error) {
	switch e.Type {
	case EventItemCreated, EventItemEnriched:
	default:
		return nil, fmt.Errorf("event %s carries no item", e.Type)
	}

	var item Item
	return &item, json.Unmarshal(e.Data, &item)
}

// Search decodes the event payload for search events.
func (e *Event) Search() (*Search, error) {
	switch e.Type {
	case EventWebsetSearchCreated, EventWebsetSearchCanceled, EventWebsetSearchCompleted, EventWebsetSearchUpdated:
	default:
		return nil, fmt.Errorf("event %s carries no search", e.Type)
	}

	var search Search
	return &search, json.Unmarshal(e.Data, &search)
}

// MonitorStatus is the state of a monitor.
type MonitorStatus string

const (
	MonitorEnabled  MonitorStatus = "enabled"
	MonitorDisabled MonitorStatus = "disabled"
)

// Cadence schedules recurring runs. Cron uses the standard five-field
// format; Timezone defaults to Etc/UTC server-side.
type Cadence struct {
	Cron string `json:"cron"`

	Timezone string `json:"timezone,omitempty"`
}

// BehaviorConfig configures what a monitor or stream run does. For search
// behavior Query/Criteria/Entity/Count apply; for refresh behavior Target
// selects what to refresh.
type BehaviorConfig struct {
	Query    string             `json:"query,omitempty"`
	Criteria []CriterionRequest `json:"criteria,omitempty"`
	Entity   *Entity            `json:"entity,omitempty"`
	Count    float64            `json:"count,omitempty"`
	Behavior string             `json:"behavior,omitempty"`

	Target      string             `json:"target,omitempty"`
	Enrichments *EnrichmentTargets `json:"enrichments,omitempty"`
}

// EnrichmentTargets names the enrichments a refresh run re-executes.
type EnrichmentTargets struct {
	IDs []string `json:"ids"`
}

// Behavior is the typed action of a monitor or stream: "search" finds new
// items, "refresh" updates existing ones.
type Behavior struct {
	Type   string         `json:"type"`
	Config BehaviorConfig `json:"config"`
}

// RunStatus is the state of a monitor or stream run.
type RunStatus string

const (
	RunCreated   RunStatus = "created"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCanceled  RunStatus = "canceled"
)

// Monitor keeps a webset updated on a schedule.
type Monitor struct {
	ID     string        `json:"id"`
	Object string        `json:"object"`
	Status MonitorStatus `json:"status"`

	WebsetID string   `json:"websetId"`
	Cadence  Cadence  `json:"cadence"`
	Behavior Behavior `json:"behavior"`

	LastRun   *MonitorRun `json:"lastRun,omitempty"`
	NextRunAt *time.Time  `json:"nextRunAt,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MonitorRun is one execution of a monitor.
type MonitorRun struct {
	ID     string    `json:"id"`
	Object string    `json:"object"`
	Status RunStatus `json:"status"`

	MonitorID string `json:"monitorId"`
	Type      string `json:"type"`

	CompletedAt *time.Time `json:"completedAt,omitempty"`
	FailedAt    *time.Time `json:"failedAt,omitempty"`
	CanceledAt  *time.Time `json:"canceledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StreamStatus is the state of a stream.
type StreamStatus string

const (
	StreamOpen   StreamStatus = "open"
	StreamClosed StreamStatus = "closed"
)

// Stream continuously feeds fresh results into a webset.
type Stream struct {
	ID     string       `json:"id"`
	Object string       `json:"object"`
	Status StreamStatus `json:"status"`

	WebsetID string   `json:"websetId"`
	Cadence  Cadence  `json:"cadence"`
	Behavior Behavior `json:"behavior"`

	LastRun   *StreamRun `json:"lastRun,omitempty"`
	NextRunAt *time.Time `json:"nextRunAt,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StreamRun is one execution of a stream.
type StreamRun struct {
	ID     string    `json:"id"`
	Object string    `json:"object"`
	Status RunStatus `json:"status"`

	StreamID string `json:"streamId"`
	Type     string `json:"type"`

	CompletedAt *time.Time `json:"completedAt,omitempty"`
	FailedAt    *time.Time `json:"failedAt,omitempty"`
	CanceledAt  *time.Time `json:"canceledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ImportStatus is the state of an import.
type ImportStatus string

const (
	ImportPending    ImportStatus = "pending"
	ImportProcessing ImportStatus = "processing"
	ImportCompleted  ImportStatus = "completed"
	ImportFailed     ImportStatus = "failed"
)

// CSVConfig describes the layout of an uploaded CSV. Identifier is the
// 1-based column holding the record identifier (usually a URL).
type CSVConfig struct {
	Identifier int `json:"identifier"`
}

// Import is an upload of external data into websets.
type Import struct {
	ID     string       `json:"id"`
	Object string       `json:"object"`
	Status ImportStatus `json:"status"`

	Title  string  `json:"title"`
	Format string  `json:"format"`
	Entity *Entity `json:"entity,omitempty"`

	Size  float64    `json:"size,omitempty"`
	Count float64    `json:"count,omitempty"`
	CSV   *CSVConfig `json:"csv,omitempty"`

	// UploadURL is the pre-signed target for the data; only returned on
	// creation and valid until UploadValidUntil.
	UploadURL        string     `json:"uploadUrl,omitempty"`
	UploadValidUntil *time.Time `json:"uploadValidUntil,omitempty"`

	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	FailedAt      *time.Time `json:"failedAt,omitempty"`
	FailedReason  string     `json:"failedReason,omitempty"`
	FailedMessage string     `json:"failedMessage,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
