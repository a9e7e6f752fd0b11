// Package models defines server-side data models persisted in the database
// and their client-facing views.
package models

import "github.com/dmitrijs2005/filesmanager/internal/common"

// FileKind is the type of a stored item.
type FileKind string

const (
	KindFolder FileKind = "folder"
	KindFile   FileKind = "file"
	KindImage  FileKind = "image"
)

// ParseFileKind reports whether s names a known kind.
func ParseFileKind(s string) (FileKind, bool) {
	switch k := FileKind(s); k {
	case KindFolder, KindFile, KindImage:
		return k, true
	}
	return "", false
}

// HasContent reports whether items of this kind carry stored bytes.
func (k FileKind) HasContent() bool {
	return k == KindFile || k == KindImage
}

// File is a folder, file or image owned by a user.
type File struct {
	ID     string
	UserID string
	Name   string
	Type   FileKind
	// ParentID is common.RootParentID for top-level items, otherwise the id
	// of a folder.
	ParentID string
	IsPublic bool
	// LocalPath is the storage location of the content. Empty for folders.
	// Never part of FileView.
	LocalPath string
	// Seq is the insertion order, used for stable pagination.
	Seq int64
}

// IsRoot reports whether the file sits at the top level.
func (f *File) IsRoot() bool {
	return f.ParentID == "" || f.ParentID == common.RootParentID
}

// VisibleTo reports whether caller may read f. Caller may be nil for
// anonymous requests.
func (f *File) VisibleTo(caller *User) bool {
	if f.IsPublic {
		return true
	}
	return caller != nil && caller.ID == f.UserID
}

// FileView is the client-facing shape of a File. ParentID holds the number
// 0 for root items and the parent's id string otherwise.
type FileView struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId"`
	Name     string   `json:"name"`
	Type     FileKind `json:"type"`
	IsPublic bool     `json:"isPublic"`
	ParentID any      `json:"parentId"`
}

func (f *File) ToView() FileView {
	var parent any = f.ParentID
	if f.IsRoot() {
		parent = 0
	}
	return FileView{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}

// ToViews converts a page of files.
func ToViews(files []*File) []FileView {
	views := make([]FileView, 0, len(files))
	for _, f := range files {
		views = append(views, f.ToView())
	}
	return views
}
