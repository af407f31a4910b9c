package models

import "fmt"

// EventMetadata is the opaque provenance value attached to each decoded
// event. At minimum it carries the record's [CharStart, CharEnd) character
// span within the source document.
type EventMetadata interface {
	CharStart() int64
	CharEnd() int64
}

// LogFileMetadata locates an event within an S3-delivered log file.
type LogFileMetadata struct {
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`
	Start  int64  `json:"charStart"`
	End    int64  `json:"charEnd"`
}

func (m LogFileMetadata) CharStart() int64 { return m.Start }
func (m LogFileMetadata) CharEnd() int64   { return m.End }

func (m LogFileMetadata) String() string {
	return fmt.Sprintf("s3://%s/%s [%d,%d)", m.Bucket, m.Key, m.Start, m.End)
}
