package analysis

import "sync"

// FileInfo describes a user-selected file.
type FileInfo struct {
	Name string
	Size int64
}

// UploadStub renders the "Secure Policy Upload" control and hands selected
// files to a caller-supplied callback. It performs no upload itself; the
// default callback discards the selection.
type UploadStub struct {
	mu       sync.Mutex
	onSelect func(FileInfo)
}

// NewUploadStub builds a stub. A nil callback is replaced with a no-op.
func NewUploadStub(onSelect func(FileInfo)) *UploadStub {
	if onSelect == nil {
		onSelect = func(FileInfo) {}
	}
	return &UploadStub{onSelect: onSelect}
}

// Select reports one user-initiated file pick; the callback is invoked
// exactly once per call.
func (u *UploadStub) Select(info FileInfo) {
	u.mu.Lock()
	fn := u.onSelect
	u.mu.Unlock()
	fn(info)
}

// Block renders the upload control.
func (u *UploadStub) Block() Block {
	return Block{
		Kind: BlockUpload,
		Text: "Secure Policy Upload",
	}
}
