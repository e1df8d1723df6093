package exa

import (
	"github.com/exa-labs/exa-go/pkg/wire"
)

// contentsFields are the flat option keys that /search and /findSimilar
// expect nested under "contents". The /contents endpoint takes them flat.
var contentsFields = []string{
	"text",
	"highlights",
	"summary",
	"context",
	"subpages",
	"subpage_target",
	"livecrawl",
	"livecrawl_timeout",
	"extras",
}

var searchOptionKinds = map[string]wire.Kind{
	"query":                wire.String,
	"type":                 wire.String,
	"category":             wire.String,
	"num_results":          wire.Number,
	"include_domains":      wire.List,
	"exclude_domains":      wire.List,
	"include_urls":         wire.List,
	"exclude_urls":         wire.List,
	"start_crawl_date":     wire.String,
	"end_crawl_date":       wire.String,
	"start_published_date": wire.String,
	"end_published_date":   wire.String,
	"include_text":         wire.List,
	"exclude_text":         wire.List,
	"use_autoprompt":       wire.Bool,
	"moderation":           wire.Bool,
	"user_location":        wire.String,
	"flags":                wire.List,
}

var findSimilarOptionKinds = map[string]wire.Kind{
	"url":                   wire.String,
	"category":              wire.String,
	"num_results":           wire.Number,
	"include_domains":       wire.List,
	"exclude_domains":       wire.List,
	"start_crawl_date":      wire.String,
	"end_crawl_date":        wire.String,
	"start_published_date":  wire.String,
	"end_published_date":    wire.String,
	"include_text":          wire.List,
	"exclude_text":          wire.List,
	"exclude_source_domain": wire.Bool,
	"flags":                 wire.List,
}

var contentsOptionKinds = map[string]wire.Kind{
	"urls":                 wire.List,
	"text":                 wire.Bool | wire.Map,
	"highlights":           wire.Bool | wire.Map,
	"summary":              wire.Bool | wire.Map,
	"context":              wire.Bool | wire.Map,
	"extras":               wire.Map,
	"livecrawl":            wire.String,
	"livecrawl_timeout":    wire.Number,
	"subpages":             wire.Number,
	"subpage_target":       wire.String | wire.List,
	"filter_empty_results": wire.Bool,
}

func merged(tables ...map[string]wire.Kind) map[string]wire.Kind {
	result := map[string]wire.Kind{}

	for _, t := range tables {
		for k, v := range t {
			result[k] = v
		}
	}

	return result
}

func (o *SearchOptions) payload(query string) (map[string]any, error) {
	p := map[string]any{"query": query}

	if o == nil {
		return p, nil
	}

	usesDomains := len(o.IncludeDomains) > 0 || len(o.ExcludeDomains) > 0
	usesURLs := len(o.IncludeURLs) > 0 || len(o.ExcludeURLs) > 0

	if usesDomains && usesURLs {
		return nil, &ValidationError{
			Param:   "include_urls",
			Message: "domain filters and URL filters cannot be combined",
		}
	}

	putString(p, "type", string(o.Type))
	putString(p, "category", o.Category)
	putInt(p, "num_results", o.NumResults)
	putList(p, "include_domains", o.IncludeDomains)
	putList(p, "exclude_domains", o.ExcludeDomains)
	putList(p, "include_urls", o.IncludeURLs)
	putList(p, "exclude_urls", o.ExcludeURLs)
	putString(p, "start_crawl_date", o.StartCrawlDate)
	putString(p, "end_crawl_date", o.EndCrawlDate)
	putString(p, "start_published_date", o.StartPublishedDate)
	putString(p, "end_published_date", o.EndPublishedDate)
	putList(p, "include_text", o.IncludeText)
	putList(p, "exclude_text", o.ExcludeText)
	putBool(p, "use_autoprompt", o.UseAutoprompt)
	putBool(p, "moderation", o.Moderation)
	putString(p, "user_location", o.UserLocation)
	putList(p, "flags", o.Flags)

	return p, nil
}

func (o *FindSimilarOptions) payload(url string) map[string]any {
	p := map[string]any{"url": url}

	if o == nil {
		return p
	}

	putString(p, "category", o.Category)
	putInt(p, "num_results", o.NumResults)
	putList(p, "include_domains", o.IncludeDomains)
	putList(p, "exclude_domains", o.ExcludeDomains)
	putString(p, "start_crawl_date", o.StartCrawlDate)
	putString(p, "end_crawl_date", o.EndCrawlDate)
	putString(p, "start_published_date", o.StartPublishedDate)
	putString(p, "end_published_date", o.EndPublishedDate)
	putList(p, "include_text", o.IncludeText)
	putList(p, "exclude_text", o.ExcludeText)
	putBool(p, "exclude_source_domain", o.ExcludeSourceDomain)
	putList(p, "flags", o.Flags)

	return p
}

// requested reports whether any content kind that satisfies the default rule
// was asked for. When none is, callers fall back to text=true.
func (o *ContentsOptions) requested() bool {
	if o == nil {
		return false
	}

	return o.Text != nil || o.Highlights != nil || o.Summary != nil || o.Extras != nil
}

func (o *ContentsOptions) payload() (map[string]any, error) {
	p := map[string]any{}

	if o == nil {
		return p, nil
	}

	if o.Text != nil {
		text := map[string]any{}
		putInt(text, "max_characters", o.Text.MaxCharacters)
		putBool(text, "include_html_tags", o.Text.IncludeHTMLTags)

		p["text"] = boolOrMap(text)
	}

	if o.Highlights != nil {
		highlights := map[string]any{}
		putInt(highlights, "num_sentences", o.Highlights.NumSentences)
		putInt(highlights, "highlights_per_url", o.Highlights.HighlightsPerURL)
		putString(highlights, "query", o.Highlights.Query)

		p["highlights"] = boolOrMap(highlights)
	}

	if o.Summary != nil {
		summary := map[string]any{}
		putString(summary, "query", o.Summary.Query)

		if o.Summary.Schema != nil {
			schema, err := wire.NormalizeSchema(o.Summary.Schema)

			if err != nil {
				return nil, err
			}

			summary["schema"] = schema
		}

		p["summary"] = boolOrMap(summary)
	}

	if o.Context != nil {
		context := map[string]any{}
		putInt(context, "max_characters", o.Context.MaxCharacters)

		p["context"] = boolOrMap(context)
	}

	if o.Extras != nil {
		extras := map[string]any{}
		putInt(extras, "links", o.Extras.Links)
		putInt(extras, "image_links", o.Extras.ImageLinks)

		p["extras"] = extras
	}

	putString(p, "livecrawl", string(o.Livecrawl))
	putInt(p, "livecrawl_timeout", o.LivecrawlTimeout)
	putInt(p, "subpages", o.Subpages)
	putList(p, "subpage_target", o.SubpageTarget)
	putBool(p, "filter_empty_results", o.FilterEmptyResults)

	return p, nil
}

// boolOrMap collapses an empty option object to the bare "give me this
// content kind" form the API also accepts.
func boolOrMap(m map[string]any) any {
	if len(m) == 0 {
		return true
	}

	return m
}

func putString(p map[string]any, key, value string) {
	if value != "" {
		p[key] = value
	}
}

func putInt(p map[string]any, key string, value int) {
	if value != 0 {
		p[key] = value
	}
}

func putBool(p map[string]any, key string, value bool) {
	if value {
		p[key] = value
	}
}

func putList(p map[string]any, key string, value []string) {
	if len(value) > 0 {
		p[key] = value
	}
}
