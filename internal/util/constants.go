package util

// ExportTimeFormat 导出文件名中的 UTC 时间
const ExportTimeFormat = "20060102T150405Z"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	ContextUserKey = "user"
	MimeJSON       = "application/json"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 10000
	MinPasswordLen  = 8
)
