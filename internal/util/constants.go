package util

// ExamDateFormat is the DD-MM-YYYY layout used on the wire and in PDFs.
const ExamDateFormat = "02-01-2006"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const MimePDF = "application/pdf"

// ReportsDir is the storage prefix for generated report PDFs.
const ReportsDir = "reports"
