// Package services contains server-side business logic: FileService for the
// file/folder hierarchy and UserService for accounts and sessions.
package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"mime"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/storage"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnail"
)

// PageSize is the number of items returned by one GetIndex call.
const PageSize = 20

const defaultContentType = "application/octet-stream"

// ThumbnailEnqueuer schedules thumbnail generation for an uploaded image.
type ThumbnailEnqueuer interface {
	Enqueue(ctx context.Context, job models.ThumbnailJob) error
}

// CreateFileParams is an upload request. ParentID is empty or "0" for root.
// Data is base64 and ignored for folders.
type CreateFileParams struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     string
}

// Content is the payload returned by GetContent.
type Content struct {
	Name        string
	ContentType string
	Data        []byte
}

type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     storage.Storage
	thumbnails  ThumbnailEnqueuer
	folderPath  string
	logger      logging.Logger
	newID       func() string
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, st storage.Storage,
	thumbnails ThumbnailEnqueuer, folderPath string, logger logging.Logger) *FileService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &FileService{
		db:          db,
		repomanager: m,
		storage:     st,
		thumbnails:  thumbnails,
		folderPath:  folderPath,
		logger:      logger.With("module", "files"),
		newID:       uuid.NewString,
	}
}

func isRoot(parentID string) bool {
	return parentID == "" || parentID == common.RootParentID
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorInvalidID)
}

// Create stores a new folder, file or image for user. For files and images
// the content is written before the metadata row is inserted; image uploads
// then schedule thumbnail generation.
func (s *FileService) Create(ctx context.Context, user *models.User, p CreateFileParams) (*models.FileView, error) {
	if p.Name == "" {
		return nil, common.BadRequest("Missing name")
	}
	kind, ok := models.ParseFileKind(p.Type)
	if !ok {
		return nil, common.BadRequest("Missing type")
	}
	if p.Data == "" && kind != models.KindFolder {
		return nil, common.BadRequest("Missing data")
	}

	repo := s.repomanager.Files(s.db)

	parentID := p.ParentID
	if isRoot(parentID) {
		parentID = common.RootParentID
	} else {
		parent, err := repo.FindByID(ctx, parentID)
		if err != nil {
			if isNotFound(err) {
				return nil, common.BadRequest("Parent not found")
			}
			return nil, err
		}
		if parent.Type != models.KindFolder {
			return nil, common.BadRequest("Parent is not a folder")
		}
	}

	file := &models.File{
		UserID:   user.ID,
		Name:     p.Name,
		Type:     kind,
		ParentID: parentID,
		IsPublic: p.IsPublic,
	}

	if kind.HasContent() {
		data, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, common.BadRequest("Invalid data")
		}

		location := filepath.Join(s.folderPath, s.newID())
		if err := s.storage.MkdirAll(ctx, s.folderPath); err != nil {
			return nil, &common.RequestError{Kind: common.ErrorBadRequest, Message: "Cannot write file"}
		}
		if err := s.storage.Write(ctx, location, data); err != nil {
			return nil, &common.RequestError{Kind: common.ErrorBadRequest, Message: "Cannot write file"}
		}
		file.LocalPath = location
	}

	// On failure here a written blob stays orphaned in storage.
	if _, err := repo.Create(ctx, file); err != nil {
		return nil, err
	}

	if kind == models.KindImage && s.thumbnails != nil {
		job := models.ThumbnailJob{UserID: user.ID, FileID: file.ID}
		if err := s.thumbnails.Enqueue(ctx, job); err != nil {
			s.logger.Warn(ctx, "thumbnail job not queued", "file_id", file.ID, "error", err)
		}
	}

	view := file.ToView()
	return &view, nil
}

// GetShow returns a file owned by user.
func (s *FileService) GetShow(ctx context.Context, user *models.User, id string) (*models.FileView, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.BadRequest("Invalid id")
	}

	file, err := s.repomanager.Files(s.db).FindByIDAndOwner(ctx, id, user.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, common.NotFound("Not found")
		}
		return nil, err
	}

	view := file.ToView()
	return &view, nil
}

// GetIndex returns one page of user's items under parentID (root when
// empty), in upload order.
func (s *FileService) GetIndex(ctx context.Context, user *models.User, parentID string, page int) ([]models.FileView, error) {
	if isRoot(parentID) {
		parentID = common.RootParentID
	} else if _, err := uuid.Parse(parentID); err != nil {
		return nil, common.BadRequest("Invalid parentId")
	}
	if page < 0 {
		return nil, common.BadRequest("Invalid page number")
	}

	files, err := s.repomanager.Files(s.db).FindPage(ctx, user.ID, parentID, page, PageSize)
	if err != nil {
		return nil, err
	}
	return models.ToViews(files), nil
}

// SetVisibility publishes or unpublishes a file owned by user.
func (s *FileService) SetVisibility(ctx context.Context, user *models.User, id string, isPublic bool) (*models.FileView, error) {
	file, err := s.repomanager.Files(s.db).UpdateVisibility(ctx, id, user.ID, isPublic)
	if err != nil {
		if isNotFound(err) {
			return nil, common.NotFound("Not found")
		}
		return nil, err
	}

	view := file.ToView()
	return &view, nil
}

// GetContent returns the bytes of a file visible to requester, which is nil
// for anonymous callers. For images a non-empty size selects the thumbnail of
// that width.
func (s *FileService) GetContent(ctx context.Context, requester *models.User, id, size string) (*Content, error) {
	file, err := s.repomanager.Files(s.db).FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, common.NotFound("Not found")
		}
		return nil, err
	}

	if !file.VisibleTo(requester) {
		return nil, common.NotFound("Not found")
	}
	if file.Type == models.KindFolder {
		return nil, common.BadRequest("A folder doesn't have content")
	}

	path := file.LocalPath
	if size != "" && file.Type == models.KindImage {
		width, err := strconv.Atoi(size)
		if err != nil || width <= 0 {
			return nil, common.NotFound("Not found")
		}
		path = thumbnail.VariantPath(path, width)
	}

	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.NotFound("Not found")
	}

	data, err := s.storage.Read(ctx, path)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("Not found")
		}
		return nil, err
	}

	return &Content{
		Name:        file.Name,
		ContentType: contentType(file.Name),
		Data:        data,
	}, nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return defaultContentType
}
