package client

import "time"

// Record kinds accepted by the API.
const (
	KindInspection = "inspection"
	KindMinutes    = "minutes"
)

// Signature parties accepted by the API.
const (
	PartyCompany = "company"
	PartyClient  = "client"
)

// Record is a field-inspection record or meeting minutes document.
type Record struct {
	ID               string         `json:"id"`
	Kind             string         `json:"kind"`
	ProjectID        string         `json:"project_id"`
	ProjectName      string         `json:"project_name"`
	LotName          string         `json:"lot_name"`
	RecordTime       time.Time      `json:"record_time"`
	Fields           map[string]any `json:"fields"`
	Images           []*string      `json:"images"`
	SignatureCompany *string        `json:"signature_company,omitempty"`
	SignatureClient  *string        `json:"signature_client,omitempty"`
	ResponsibleName  string         `json:"responsible_name"`
	Version          int64          `json:"version"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// CreateRecordRequest is the payload for creating a record.
type CreateRecordRequest struct {
	ID              string         `json:"id,omitempty"`
	ProjectID       string         `json:"project_id"`
	ProjectName     string         `json:"project_name"`
	LotName         string         `json:"lot_name"`
	RecordTime      time.Time      `json:"record_time"`
	ResponsibleName string         `json:"responsible_name"`
	Fields          map[string]any `json:"fields,omitempty"`
}

// ListOptions filters and paginates record listings.
type ListOptions struct {
	ProjectID string
	Limit     int
	Offset    int
}

// FilePart is one file attachment in a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Data     []byte
}

// EditRequest describes an audited record edit. A nil value in Fields
// deletes that key. Images maps slot index (0-5) to raw image bytes.
type EditRequest struct {
	Fields map[string]any
	Images map[int][]byte
	Reason string
}

// SignatureStatus reports the signing progress of a record.
type SignatureStatus struct {
	State   string `json:"state"`
	Company bool   `json:"company"`
	Client  bool   `json:"client"`
}

// SignResult is the response to a successful signature commit.
type SignResult struct {
	Record *Record `json:"record"`
	State  string  `json:"state"`
}

// VisitSession labels a report with the site visit it documents.
type VisitSession struct {
	Date        string `json:"date,omitempty"`
	Hour        string `json:"hour,omitempty"`
	VisitNumber int    `json:"visit_number,omitempty"`
}

// ResolvedImage is one photo prepared for report embedding.
type ResolvedImage struct {
	Slot       int    `json:"slot"`
	DisplayURL string `json:"display_url,omitempty"`
	MapLink    string `json:"map_link,omitempty"`
	Note       string `json:"note,omitempty"`
	Failed     bool   `json:"failed,omitempty"`
}

// FieldRow is one key/value line on a report page.
type FieldRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SummaryPage is the opening page of a report.
type SummaryPage struct {
	Title       string          `json:"title"`
	ProjectName string          `json:"project_name"`
	LotName     string          `json:"lot_name"`
	Visit       VisitSession    `json:"visit"`
	Fields      []FieldRow      `json:"fields"`
	Images      []ResolvedImage `json:"images"`
}

// GalleryPage holds overflow photos, up to six per page.
type GalleryPage struct {
	Images []ResolvedImage `json:"images"`
}

// SignaturePage is the closing page with both signature images.
type SignaturePage struct {
	Fields              []FieldRow `json:"fields"`
	CompanySignatureURL string     `json:"company_signature_url"`
	ClientSignatureURL  string     `json:"client_signature_url"`
	ResponsibleName     string     `json:"responsible_name"`
}

// ReportPage is one page of an assembled report.
type ReportPage struct {
	Type      string         `json:"type"`
	Summary   *SummaryPage   `json:"summary,omitempty"`
	Gallery   *GalleryPage   `json:"gallery,omitempty"`
	Signature *SignaturePage `json:"signature,omitempty"`
}

// ReportDocument is a fully assembled multi-page report.
type ReportDocument struct {
	Filename    string       `json:"filename"`
	Kind        string       `json:"kind"`
	RecordID    string       `json:"record_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Pages       []ReportPage `json:"pages"`
}

// AuditEntry is one immutable edit-history entry.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	RecordID  string    `json:"record_id"`
	ActorName string    `json:"actor_name"`
	Reason    string    `json:"reason"`
	Before    *Record   `json:"before"`
	After     *Record   `json:"after"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
