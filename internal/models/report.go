package models

import "time"

// VisitSession is the short-lived context for one report generation:
// the visit date, hour, and running visit number the UI collects before
// triggering assembly. It is passed explicitly and discarded afterwards.
type VisitSession struct {
	Date        string `json:"date"`
	Hour        string `json:"hour"`
	VisitNumber int    `json:"visit_number"`
}

// ResolvedImage is one image slot after metadata resolution. A failed
// resolution keeps its slot with Failed set so pagination and ordering
// are unaffected.
type ResolvedImage struct {
	Slot       int    `json:"slot"`
	DisplayURL string `json:"display_url,omitempty"`
	MapLink    string `json:"map_link,omitempty"`
	Note       string `json:"note,omitempty"`
	Failed     bool   `json:"failed,omitempty"`
}

// FieldRow is one key/value line of a report field table.
type FieldRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PageType discriminates the three report page layouts.
type PageType string

// Report page layouts, in emission order.
const (
	PageSummary   PageType = "summary"
	PageGallery   PageType = "gallery"
	PageSignature PageType = "signature"
)

// SummaryPage is the opening page: header block, full field table, and
// the first two images with captions.
type SummaryPage struct {
	Title       string          `json:"title"`
	ProjectName string          `json:"project_name"`
	LotName     string          `json:"lot_name"`
	Visit       VisitSession    `json:"visit"`
	Fields      []FieldRow      `json:"fields"`
	Images      []ResolvedImage `json:"images"`
}

// GalleryPage is an image grid page with no header, up to 6 images.
type GalleryPage struct {
	Images []ResolvedImage `json:"images"`
}

// SignaturePage is the closing page: the secondary field set, both
// signature images, and the responsible party's name.
type SignaturePage struct {
	Fields              []FieldRow `json:"fields"`
	CompanySignatureURL string     `json:"company_signature_url"`
	ClientSignatureURL  string     `json:"client_signature_url"`
	ResponsibleName     string     `json:"responsible_name"`
}

// ReportPage is one page of the assembled document. Exactly one of the
// layout pointers is non-nil, matching Type.
type ReportPage struct {
	Type      PageType       `json:"type"`
	Summary   *SummaryPage   `json:"summary,omitempty"`
	Gallery   *GalleryPage   `json:"gallery,omitempty"`
	Signature *SignaturePage `json:"signature,omitempty"`
}

// ReportDocument is the assembled multi-page report. It is ephemeral:
// produced on demand from a sealed record, never persisted.
type ReportDocument struct {
	Filename    string       `json:"filename"`
	Kind        Kind         `json:"kind"`
	RecordID    string       `json:"record_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Pages       []ReportPage `json:"pages"`
}

// PageCount returns the deterministic page count for n images:
// summary page, ceil(max(0, n-2)/6) gallery pages, and the closing page.
func PageCount(n int) int {
	galleryImages := n - SummaryImageCount
	if galleryImages < 0 {
		galleryImages = 0
	}

	return 1 + (galleryImages+GalleryPageSize-1)/GalleryPageSize + 1
}

// Image partitioning constants: the summary page shows the first two
// images, each gallery page holds up to six.
const (
	SummaryImageCount = 2
	GalleryPageSize   = 6
)
