package model

// ResultKind discriminates query-engine results. Every variant carries
// its own kind marker so consumers can switch without external context.
type ResultKind string

const (
	ResultImage      ResultKind = "image"
	ResultTimeSeries ResultKind = "time_series"
	ResultVideo      ResultKind = "video"
	ResultStats      ResultKind = "stats"
	ResultNotFound   ResultKind = "not_found"
)

// QueryResult is the polymorphic answer of the dataset query engine.
// Exactly one payload field is populated, matching Kind.
type QueryResult struct {
	Kind       ResultKind        `json:"kind"`
	Image      *ImageResult      `json:"image,omitempty"`
	TimeSeries *TimeSeriesResult `json:"timeSeries,omitempty"`
	Video      *VideoLookup      `json:"video,omitempty"`
	Stats      *FieldStats       `json:"stats,omitempty"`
	NotFound   *NotFound         `json:"notFound,omitempty"`
}

// ImageResult is the payload returned by the image-generation
// collaborator.
type ImageResult struct {
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// TimeSeriesPoint is one sample of a metric-vs-time series.
type TimeSeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	Title string  `json:"title"`
}

// TimeSeriesResult is a metric plotted against publish time, sorted
// ascending by date.
type TimeSeriesResult struct {
	MetricField string            `json:"metricField"`
	Points      []TimeSeriesPoint `json:"data"`
}

// VideoLookup is the subset of a record a player needs.
type VideoLookup struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	URL          string `json:"url"`
}

// FieldStats is the summary statistic over one numeric field.
type FieldStats struct {
	FieldName string  `json:"field_name"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Std       float64 `json:"std"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// NotFound reports a lookup or statistic that matched nothing. It is a
// result, not a fault: the message names exactly what was searched for
// so the caller can display it.
type NotFound struct {
	Query   string `json:"query"`
	Message string `json:"message"`
}

// NotFoundResult builds a not-found query result.
func NotFoundResult(query, message string) *QueryResult {
	return &QueryResult{Kind: ResultNotFound, NotFound: &NotFound{Query: query, Message: message}}
}
