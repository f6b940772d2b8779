package domain

// DocumentInfo is the metadata of a remote docx document.
type DocumentInfo struct {
	// DocumentID is the document token.
	DocumentID string

	// Title is the document title.
	Title string

	// RevisionID is the current revision number.
	RevisionID int64
}

// ConvertResult is the block tree produced from markdown by the remote
// convert endpoint. Blocks are not persisted yet.
type ConvertResult struct {
	// Blocks is the flat list of converted blocks in document order.
	Blocks []Block

	// FirstLevelBlockIDs are the temporary ids of the top-level blocks.
	FirstLevelBlockIDs []string
}

// MediaUpload describes binary content to attach to a placeholder block.
type MediaUpload struct {
	// DocumentID is the document the media belongs to.
	DocumentID string

	// ParentNode is the placeholder block the media is uploaded against.
	ParentNode string

	// FileName is the upload file name.
	FileName string

	// Data is the file content.
	Data []byte
}

// FileEntry is a file or folder inside a drive folder.
type FileEntry struct {
	Token string
	Name  string
	Type  string
	URL   string
}

// Scope is a permission scope of the application.
type Scope struct {
	Name        string
	Type        string
	GrantStatus int
}

// ScopeGranted is the grant status of an approved scope.
const ScopeGranted = 1

// Granted reports whether the scope has been approved.
func (s Scope) Granted() bool {
	return s.GrantStatus == ScopeGranted
}

// ReadResult is the plain-text view of a document plus block statistics.
type ReadResult struct {
	Title      string
	Content    string
	RevisionID int64
	BlockCount int

	// BlockTypes counts blocks per display name.
	BlockTypes map[string]int

	// Hint is set when the document holds structured blocks that the plain
	// text does not include.
	Hint string
}

// CreateResult describes a newly created document.
type CreateResult struct {
	DocumentID string
	Title      string
	URL        string
}

// WriteResult is the outcome of replacing a document's content.
type WriteResult struct {
	BlocksDeleted   int
	BlocksAdded     int
	ImagesProcessed int
	Warning         string

	// Images holds one outcome per attempted image.
	Images ImageReport
}

// AppendResult is the outcome of appending content to a document.
type AppendResult struct {
	BlocksAdded     int
	ImagesProcessed int
	BlockIDs        []string
	Warning         string

	// Images holds one outcome per attempted image.
	Images ImageReport
}

// ScopesResult splits application scopes by grant status.
type ScopesResult struct {
	Granted []Scope
	Pending []Scope
	Summary string
}
