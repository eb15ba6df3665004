package config

import "time"

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxUploadSize is the maximum accepted file upload size (50MB).
	MaxUploadSize = 50 << 20

	// PresignTTL is how long presigned download URLs stay valid. Short
	// enough that a leaked URL goes stale quickly, long enough for a
	// browser to start the download.
	PresignTTL = 15 * time.Minute

	// MaxTreeDepth bounds ancestor-chain walks. A chain longer than this
	// indicates a corrupted parent graph, not a legitimate hierarchy.
	MaxTreeDepth = 128
)
