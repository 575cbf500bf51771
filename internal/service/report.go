package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/obralog/obralog/internal/domain"
	"github.com/obralog/obralog/internal/models"
)

// ReportService assembles the multi-page report document for a sealed
// record. Documents are ephemeral: produced on demand, never persisted.
type ReportService struct {
	store    RecordStore
	resolver domain.ImageResolver
	blobs    domain.BlobStore
	log      *logrus.Logger
}

// NewReportService creates a ReportService.
func NewReportService(store RecordStore, resolver domain.ImageResolver, blobs domain.BlobStore, log *logrus.Logger) *ReportService {
	return &ReportService{store: store, resolver: resolver, blobs: blobs, log: log}
}

// Generate builds the report for a record. Unsealed records are refused
// with ErrReportNotReady regardless of how complete their content is.
//
// Image resolution runs concurrently and tolerates partial failure: a
// slot whose metadata cannot be resolved becomes a placeholder entry so
// pagination and the ordering of the remaining images are unaffected.
func (s *ReportService) Generate(
	ctx context.Context, kind models.Kind, recordID string, visit models.VisitSession,
) (*models.ReportDocument, error) {
	rec, err := s.store.GetRecord(ctx, kind, recordID)
	if err != nil {
		return nil, err
	}

	if !rec.Sealed() {
		return nil, models.ErrReportNotReady
	}

	spec := models.SpecFor(kind)

	images := s.resolveImages(ctx, rec)
	companyURL := s.signatureURL(ctx, rec, models.PartyCompany)
	clientURL := s.signatureURL(ctx, rec, models.PartyClient)

	summaryRows, closingRows := partitionFields(rec.Fields, spec.ClosingFields)

	pages := buildPages(spec, rec, visit, images, summaryRows, closingRows, companyURL, clientURL)

	doc := &models.ReportDocument{
		Filename:    reportFilename(spec, rec, visit),
		Kind:        kind,
		RecordID:    recordID,
		GeneratedAt: time.Now().UTC(),
		Pages:       pages,
	}

	s.log.WithFields(logrus.Fields{
		"kind":      kind,
		"record_id": recordID,
		"images":    len(images),
		"pages":     len(pages),
	}).Info("report generated")

	return doc, nil
}

// resolveImages resolves every occupied image slot concurrently,
// preserving slot order. Failures never abort the join: the failed slot
// is kept as a placeholder and the rest of the report is unaffected.
func (s *ReportService) resolveImages(ctx context.Context, rec *models.Record) []models.ResolvedImage {
	type occupied struct {
		slot int
		path string
	}

	var slots []occupied
	for i, p := range rec.Images {
		if p != nil {
			slots = append(slots, occupied{slot: i, path: *p})
		}
	}

	if len(slots) == 0 {
		return nil
	}

	results := make([]models.ResolvedImage, len(slots))

	var g errgroup.Group
	g.SetLimit(models.GalleryPageSize)

	for i, occ := range slots {
		g.Go(func() error {
			resolved, err := s.resolver.Resolve(ctx, occ.path)
			if err != nil {
				s.log.WithError(err).WithFields(logrus.Fields{
					"record_id": rec.ID,
					"slot":      occ.slot,
					"path":      occ.path,
				}).Warn("image resolution failed; emitting placeholder slot")

				results[i] = models.ResolvedImage{Slot: occ.slot, Failed: true}

				return nil
			}

			r := *resolved
			r.Slot = occ.slot
			results[i] = r

			return nil
		})
	}

	g.Wait() //nolint:errcheck // goroutines always return nil

	return results
}

// signatureURL resolves one signature slot to a display URL. The record
// is sealed, so the path exists; a lookup failure degrades to an empty
// URL rather than failing the whole report.
func (s *ReportService) signatureURL(ctx context.Context, rec *models.Record, party models.SignatureParty) string {
	path := rec.Signature(party)
	if path == nil {
		return ""
	}

	url, err := s.blobs.GetURL(ctx, *path)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"record_id": rec.ID,
			"party":     party,
		}).Warn("signature URL resolution failed")

		return ""
	}

	return url
}

// partitionFields splits the open field bag into the summary table and
// the closing page's secondary field set. Summary rows are sorted by
// key; closing rows follow the kind's declared order.
func partitionFields(fields map[string]any, closingKeys []string) (summary, closing []models.FieldRow) {
	closingSet := make(map[string]struct{}, len(closingKeys))
	for _, k := range closingKeys {
		closingSet[k] = struct{}{}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if _, isClosing := closingSet[k]; !isClosing {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		summary = append(summary, models.FieldRow{Key: k, Value: formatFieldValue(fields[k])})
	}

	for _, k := range closingKeys {
		if v, ok := fields[k]; ok {
			closing = append(closing, models.FieldRow{Key: k, Value: formatFieldValue(v)})
		}
	}

	return summary, closing
}

// formatFieldValue renders an open-bag value for a report field table.
func formatFieldValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = formatFieldValue(e)
		}

		return strings.Join(parts, ", ")
	case map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}

		return string(data)
	case nil:
		return ""
	}

	return fmt.Sprintf("%v", v)
}

// buildPages partitions the document: summary page with the first two
// images, gallery pages of up to six, and the closing signature page.
func buildPages(
	spec models.KindSpec, rec *models.Record, visit models.VisitSession,
	images []models.ResolvedImage, summaryRows, closingRows []models.FieldRow,
	companyURL, clientURL string,
) []models.ReportPage {
	summaryImages := images
	if len(summaryImages) > models.SummaryImageCount {
		summaryImages = summaryImages[:models.SummaryImageCount]
	}

	pages := []models.ReportPage{{
		Type: models.PageSummary,
		Summary: &models.SummaryPage{
			Title:       spec.Title,
			ProjectName: rec.ProjectName,
			LotName:     rec.LotName,
			Visit:       visit,
			Fields:      summaryRows,
			Images:      summaryImages,
		},
	}}

	rest := images
	if len(rest) > models.SummaryImageCount {
		rest = rest[models.SummaryImageCount:]
	} else {
		rest = nil
	}

	for len(rest) > 0 {
		n := len(rest)
		if n > models.GalleryPageSize {
			n = models.GalleryPageSize
		}

		pages = append(pages, models.ReportPage{
			Type:    models.PageGallery,
			Gallery: &models.GalleryPage{Images: rest[:n]},
		})
		rest = rest[n:]
	}

	pages = append(pages, models.ReportPage{
		Type: models.PageSignature,
		Signature: &models.SignaturePage{
			Fields:              closingRows,
			CompanySignatureURL: companyURL,
			ClientSignatureURL:  clientURL,
			ResponsibleName:     rec.ResponsibleName,
		},
	})

	return pages
}

// reportFilename builds the suggested download name from the kind
// prefix, project name, visit date, hour, and running visit number.
func reportFilename(spec models.KindSpec, rec *models.Record, visit models.VisitSession) string {
	date := visit.Date
	if date == "" {
		date = rec.RecordTime.UTC().Format("2006-01-02")
	}

	parts := []string{spec.FilePrefix, slugify(rec.ProjectName), date}

	if hour := slugify(visit.Hour); hour != "" {
		parts = append(parts, hour)
	}

	if visit.VisitNumber > 0 {
		parts = append(parts, "visita-"+strconv.Itoa(visit.VisitNumber))
	}

	return strings.Join(parts, "_") + ".pdf"
}

// slugify lowercases and reduces a string to [a-z0-9-], collapsing
// runs of other characters into single hyphens.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true

	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
