package view

const (
	ErrTypeUnknownViewer = "unknown_viewer"
	ErrTypeEncoding      = "view_encoding_failed"
)
