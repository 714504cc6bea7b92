package model

import "time"

// Product is a scraped product detail page.
type Product struct {
	ID              string             `json:"id"`
	URL             string             `json:"url"`
	Name            string             `json:"name"`
	Price           string             `json:"price"`
	Rating          string             `json:"rating"`
	ReviewCount     string             `json:"review_count"`
	RatingDist      RatingDistribution `json:"rating_distribution"`
	DetailedSummary string             `json:"detailed_summary,omitempty"`
	ScrapedAt       time.Time          `json:"scraped_at"`
}

// RatingDistribution holds the percentage of reviews per star level,
// as displayed on the page (e.g. "62%"). Empty when the graph was unreadable.
type RatingDistribution struct {
	FiveStar  string `json:"5_star"`
	FourStar  string `json:"4_star"`
	ThreeStar string `json:"3_star"`
	TwoStar   string `json:"2_star"`
	OneStar   string `json:"1_star"`
}

// Review is a single customer review with its raw star rating.
// Rating is the digit portion of the "X점만점에 Y점" phrase, or "" when
// the phrase did not parse.
type Review struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Rating string `json:"rating"`
}

// Image is a marketing/detail image URL collected from the product page.
type Image struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	URL       string `json:"url"`
}

// ImageText is the text extracted from one marketing image.
// Text is "" when extraction failed or was refused.
type ImageText struct {
	ImageID     string    `json:"image_id"`
	ProductID   string    `json:"product_id"`
	ImageURL    string    `json:"image_url"`
	Text        string    `json:"text"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// ScrapeResult is the full outcome of one navigator pass over a product page.
type ScrapeResult struct {
	Product Product        `json:"product"`
	Images  []string       `json:"images"`
	Reviews []Review       `json:"reviews"`
	Fields  []FieldResult  `json:"fields"`
	BotGate BotGateOutcome `json:"bot_gate"`
}

// FieldResult records the per-field outcome of field extraction.
type FieldResult struct {
	Name    string       `json:"name"`
	Value   string       `json:"value"`
	Failure FieldFailure `json:"failure,omitempty"`
}

// FieldFailure classifies why a field came back empty.
type FieldFailure string

const (
	FieldFailureNone     FieldFailure = ""
	FieldFailureNotFound FieldFailure = "not_found"
	FieldFailureTimeout  FieldFailure = "timeout"
	FieldFailureEmpty    FieldFailure = "empty"
)

// BotGateOutcome records how the bot-verification gate resolved.
type BotGateOutcome string

const (
	BotGateNotPresent BotGateOutcome = "not_present"
	BotGateCleared    BotGateOutcome = "cleared"
	BotGateTimedOut   BotGateOutcome = "timed_out"
)
