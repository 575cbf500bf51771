package models

// ImageUpload is a raw photo or signature blob handed to the uploader.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// ImageMetadata is the custom metadata attached to a stored image.
// All values are optional strings; coordinates are populated by the
// capture step and are blank for images replaced at edit time.
type ImageMetadata struct {
	Latitude  string
	Longitude string
	Note      string
	Project   string
	Lot       string
	Date      string
}

// Map converts metadata to the string map stored alongside the blob.
func (m ImageMetadata) Map() map[string]string {
	return map[string]string{
		"latitude":  m.Latitude,
		"longitude": m.Longitude,
		"note":      m.Note,
		"project":   m.Project,
		"lot":       m.Lot,
		"date":      m.Date,
	}
}

// MetadataFromMap rebuilds ImageMetadata from a stored blob's custom
// metadata. Missing keys yield empty strings.
func MetadataFromMap(m map[string]string) ImageMetadata {
	return ImageMetadata{
		Latitude:  m["latitude"],
		Longitude: m["longitude"],
		Note:      m["note"],
		Project:   m["project"],
		Lot:       m["lot"],
		Date:      m["date"],
	}
}

// BlobInfo describes a stored blob: its content type plus custom metadata.
type BlobInfo struct {
	ContentType    string            `json:"content_type"`
	CustomMetadata map[string]string `json:"custom_metadata"`
}
