package utils

import "time"

// TraceIDKey is the gin context key holding the request trace id.
const TraceIDKey = "trace_id"

// AccessGrantKey is the gin context key holding a grant resolved from X-API-Key.
const AccessGrantKey = "access_grant"

// DuaCachePrefix is the prefix used for Redis dua cache keys.
const DuaCachePrefix = "dua:"

// PDFArchivePrefix is the prefix for archived PDF URLs.
const PDFArchivePrefix = "pdf:archive:"

// PDFArchiveTTL is how long an archived PDF URL stays indexed.
const PDFArchiveTTL = 7 * 24 * time.Hour

// ServiceName and ServiceVersion are reported by the health check.
const (
	ServiceName    = "BarakahTool API"
	ServiceVersion = "2.0.0"
)
