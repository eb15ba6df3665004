package models

// FileView is a file resolved to a presentable form: a presigned download
// URL plus content type and size probed from the blob store.
type FileView struct {
	File
	URL string `json:"url"`
}

// FolderTree is a folder with its immediate children and resolved files.
type FolderTree struct {
	Folder
	Folders []Folder   `json:"folders"`
	Files   []FileView `json:"files"`
}

// SearchResult holds name-search matches over the actor-owned namespace,
// with matched files resolved the same way as in a tree query.
type SearchResult struct {
	Folders []Folder   `json:"folders"`
	Files   []FileView `json:"files"`
}
