package models

import "time"

// File types accepted on upload.
const (
	TypeFile   = "file"
	TypeImage  = "image"
	TypeFolder = "folder"
)

// RootParentID is the sentinel parent of records living at the root of the
// tree. Requests may send it as the number 0 or the string "0"; both
// normalize to this value.
const RootParentID = "0"

// File is a stored file, image or folder. LocalPath points at the blob on
// disk (or the object-storage key) and is never exposed to clients; it is
// empty for folders.
type File struct {
	ID        string
	UserID    string
	Name      string
	Type      string
	IsPublic  bool
	ParentID  string
	LocalPath string
	CreatedAt time.Time
}

// FileView is the client-facing projection of a File. It renames the
// identity field to id and omits LocalPath.
type FileView struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

// View returns the client-facing projection of f.
func (f *File) View() *FileView {
	return &FileView{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: f.ParentID,
	}
}
