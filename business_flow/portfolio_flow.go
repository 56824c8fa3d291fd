package businessflow

import (
	"bytes"
	"context"
	"image"
	"image/color"
	imagedraw "image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"

	"github.com/breezeline/interiors-api/app/dto"
	"github.com/breezeline/interiors-api/models"
	"github.com/breezeline/interiors-api/repository"
	"github.com/breezeline/interiors-api/utils"
)

// PortfolioFlow defines category and work management for the portfolio.
type PortfolioFlow interface {
	ListCategories(ctx context.Context) ([]dto.CategoryInfo, error)
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryInfo, error)
	UpdateCategory(ctx context.Context, id uint, req *dto.UpdateCategoryRequest) (*dto.CategoryInfo, error)
	DeleteCategory(ctx context.Context, id uint) error
	ListWorks(ctx context.Context) ([]dto.WorkInfo, error)
	CreateWork(ctx context.Context, req *dto.CreateWorkRequest) (*dto.WorkInfo, error)
	UpdateWork(ctx context.Context, id uint, req *dto.UpdateWorkRequest) (*dto.WorkInfo, error)
	DeleteWork(ctx context.Context, id uint) error
	PreviewWork(ctx context.Context, id uint) (string, string, []byte, error)
}

// PortfolioFlowImpl implements PortfolioFlow.
type PortfolioFlowImpl struct {
	categoryRepo repository.CategoryRepository
	workRepo     repository.WorkRepository
	db           *gorm.DB
	uploadsDir   string
	publicPath   string
	maxImageSize int64
}

// NewPortfolioFlow creates a new portfolio flow instance. db is the handle the
// cascade delete runs its transaction on; the in-memory deployment passes nil
// and relies on the store's single lock instead.
func NewPortfolioFlow(categoryRepo repository.CategoryRepository, workRepo repository.WorkRepository, db *gorm.DB, uploadsDir, publicPath string, maxImageSize int64) PortfolioFlow {
	return &PortfolioFlowImpl{
		categoryRepo: categoryRepo,
		workRepo:     workRepo,
		db:           db,
		uploadsDir:   uploadsDir,
		publicPath:   publicPath,
		maxImageSize: maxImageSize,
	}
}

var allowedImageFormats = []string{"jpg", "jpeg", "png", "gif", "webp"}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func (f *PortfolioFlowImpl) ListCategories(ctx context.Context) ([]dto.CategoryInfo, error) {
	categories, err := f.categoryRepo.ByFilter(ctx, models.CategoryFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("CATEGORY_LIST_FAILED", "Failed to list categories", err)
	}
	out := make([]dto.CategoryInfo, 0, len(categories))
	for _, c := range categories {
		out = append(out, ToCategoryInfoDTO(*c))
	}
	return out, nil
}

func (f *PortfolioFlowImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryInfo, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, NewBusinessError("CATEGORY_VALIDATION_FAILED", "Category name is required", ErrCategoryNameRequired)
	}

	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	if err := f.categoryRepo.Save(ctx, category); err != nil {
		return nil, NewBusinessError("CATEGORY_PERSIST_FAILED", "Failed to create category", err)
	}

	info := ToCategoryInfoDTO(*category)
	return &info, nil
}

func (f *PortfolioFlowImpl) UpdateCategory(ctx context.Context, id uint, req *dto.UpdateCategoryRequest) (*dto.CategoryInfo, error) {
	category, err := f.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewBusinessError("CATEGORY_VALIDATION_FAILED", "Category name is required", ErrCategoryNameRequired)
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	category.UpdatedAt = utils.UTCNow()

	if err := f.categoryRepo.Update(ctx, category); err != nil {
		return nil, NewBusinessError("CATEGORY_PERSIST_FAILED", "Failed to update category", err)
	}

	info := ToCategoryInfoDTO(*category)
	return &info, nil
}

// DeleteCategory removes the category's works first, then the category itself,
// so a reader never sees a work pointing at a missing category. Image files of
// the removed works are deleted best-effort after the records are gone.
func (f *PortfolioFlowImpl) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := f.getCategory(ctx, id); err != nil {
		return err
	}

	works, err := f.workRepo.ByFilter(ctx, models.WorkFilter{CategoryID: utils.ToPtr(id)}, "id ASC", 0, 0)
	if err != nil {
		return NewBusinessError("WORK_LIST_FAILED", "Failed to list works for category", err)
	}

	if err := f.runInTransaction(ctx, func(ctx context.Context) error {
		if err := f.workRepo.DeleteByCategory(ctx, id); err != nil {
			return NewBusinessError("WORK_DELETE_FAILED", "Failed to delete works for category", err)
		}
		if err := f.categoryRepo.Delete(ctx, id); err != nil {
			return NewBusinessError("CATEGORY_DELETE_FAILED", "Failed to delete category", err)
		}
		return nil
	}); err != nil {
		return err
	}

	for _, w := range works {
		f.removeImageFile(w.ImagePath)
	}
	return nil
}

func (f *PortfolioFlowImpl) ListWorks(ctx context.Context) ([]dto.WorkInfo, error) {
	rows, err := f.workRepo.ListWithCategory(ctx)
	if err != nil {
		return nil, NewBusinessError("WORK_LIST_FAILED", "Failed to list works", err)
	}
	out := make([]dto.WorkInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToWorkInfoDTO(*row, f.publicPath))
	}
	return out, nil
}

func (f *PortfolioFlowImpl) CreateWork(ctx context.Context, req *dto.CreateWorkRequest) (*dto.WorkInfo, error) {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, NewBusinessError("WORK_VALIDATION_FAILED", "Work title is required", ErrWorkTitleRequired)
	}
	if req.Image == nil {
		return nil, NewBusinessError("WORK_VALIDATION_FAILED", "Work image is required", ErrWorkImageRequired)
	}

	category, err := f.getCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	storedName, err := f.saveImageToDisk(req.Image, req.OriginalFilename, req.FileSize)
	if err != nil {
		return nil, err
	}

	work := &models.Work{
		Title:      strings.TrimSpace(req.Title),
		CategoryID: category.ID,
		ImagePath:  storedName,
		Tags:       normalizeTags(req.Tags),
		CreatedAt:  utils.UTCNow(),
		UpdatedAt:  utils.UTCNow(),
	}
	if err := f.workRepo.Save(ctx, work); err != nil {
		f.removeImageFile(storedName)
		return nil, NewBusinessError("WORK_PERSIST_FAILED", "Failed to create work", err)
	}

	info := ToWorkInfoDTO(models.WorkWithCategory{Work: *work, CategoryName: category.Name}, f.publicPath)
	return &info, nil
}

func (f *PortfolioFlowImpl) UpdateWork(ctx context.Context, id uint, req *dto.UpdateWorkRequest) (*dto.WorkInfo, error) {
	work, err := f.getWork(ctx, id)
	if err != nil {
		return nil, err
	}

	categoryName := ""
	if req.CategoryID != nil {
		category, err := f.getCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		work.CategoryID = category.ID
		categoryName = category.Name
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, NewBusinessError("WORK_VALIDATION_FAILED", "Work title is required", ErrWorkTitleRequired)
		}
		work.Title = title
	}
	if req.Tags != nil {
		work.Tags = normalizeTags(*req.Tags)
	}

	oldImage := ""
	if req.Image != nil {
		storedName, err := f.saveImageToDisk(req.Image, req.OriginalFilename, req.FileSize)
		if err != nil {
			return nil, err
		}
		oldImage = work.ImagePath
		work.ImagePath = storedName
	}
	work.UpdatedAt = utils.UTCNow()

	if err := f.workRepo.Update(ctx, work); err != nil {
		if req.Image != nil {
			f.removeImageFile(work.ImagePath)
		}
		return nil, NewBusinessError("WORK_PERSIST_FAILED", "Failed to update work", err)
	}

	// The record now points at the new file; only then is the old one removed.
	if oldImage != "" && oldImage != work.ImagePath {
		f.removeImageFile(oldImage)
	}

	if categoryName == "" {
		category, err := f.categoryRepo.ByID(ctx, work.CategoryID)
		if err == nil && category != nil {
			categoryName = category.Name
		}
	}
	info := ToWorkInfoDTO(models.WorkWithCategory{Work: *work, CategoryName: categoryName}, f.publicPath)
	return &info, nil
}

func (f *PortfolioFlowImpl) DeleteWork(ctx context.Context, id uint) error {
	work, err := f.getWork(ctx, id)
	if err != nil {
		return err
	}

	if err := f.workRepo.Delete(ctx, id); err != nil {
		return NewBusinessError("WORK_DELETE_FAILED", "Failed to delete work", err)
	}

	f.removeImageFile(work.ImagePath)
	return nil
}

// PreviewWork returns a downscaled jpeg of the work's image.
func (f *PortfolioFlowImpl) PreviewWork(ctx context.Context, id uint) (string, string, []byte, error) {
	work, err := f.getWork(ctx, id)
	if err != nil {
		return "", "", nil, err
	}

	cleanPath, err := f.sanitizeImagePath(work.ImagePath)
	if err != nil {
		return "", "", nil, err
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return "", "", nil, NewBusinessError("WORK_IMAGE_MISSING", "Work image is missing from storage", ErrImageRecordMismatch)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", "", nil, NewBusinessError("WORK_IMAGE_UNREADABLE", "Failed to decode work image", err)
	}

	thumb := resizeImage(img, 512)
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: 75}); err != nil {
		return "", "", nil, NewBusinessError("WORK_PREVIEW_FAILED", "Failed to encode preview", err)
	}

	return "preview.jpg", "image/jpeg", buf.Bytes(), nil
}

// runInTransaction wraps fn in a database transaction when a handle is
// present. The memory stores need none: their cascade runs under one lock.
func (f *PortfolioFlowImpl) runInTransaction(ctx context.Context, fn func(context.Context) error) error {
	if f.db == nil {
		return fn(ctx)
	}
	return repository.WithTransaction(ctx, f.db, fn)
}

func (f *PortfolioFlowImpl) getCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := f.categoryRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("CATEGORY_LOOKUP_FAILED", "Failed to lookup category", err)
	}
	if category == nil {
		return nil, NewBusinessError("CATEGORY_NOT_FOUND", "Category not found", ErrCategoryNotFound)
	}
	return category, nil
}

func (f *PortfolioFlowImpl) getWork(ctx context.Context, id uint) (*models.Work, error) {
	work, err := f.workRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("WORK_LOOKUP_FAILED", "Failed to lookup work", err)
	}
	if work == nil {
		return nil, NewBusinessError("WORK_NOT_FOUND", "Work not found", ErrWorkNotFound)
	}
	return work, nil
}

// saveImageToDisk sniffs the content, enforces the size cap and writes the file
// under a fresh uuid name. The returned name is the bare filename; the record
// never stores a path component the client chose.
func (f *PortfolioFlowImpl) saveImageToDisk(reader io.Reader, originalFilename string, fileSize int64) (string, error) {
	if fileSize > f.maxImageSize {
		return "", NewBusinessErrorf("IMAGE_TOO_LARGE", "Image size exceeds %d bytes", ErrImageTooLarge, f.maxImageSize)
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !allowedImageExts[ext] {
		return "", NewBusinessErrorf("INVALID_IMAGE_TYPE", "Allowed image types: %s", ErrUnsupportedImage, strings.Join(allowedImageFormats, ", "))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", NewBusinessError("IMAGE_READ_FAILED", "Failed to read image", err)
	}
	head = head[:n]

	detected := http.DetectContentType(head)
	if detected == "application/octet-stream" {
		if fromExt := mime.TypeByExtension(ext); fromExt != "" {
			detected = fromExt
		}
	}
	if !strings.HasPrefix(detected, "image/") {
		return "", NewBusinessError("INVALID_IMAGE_TYPE", "File content is not an image", ErrUnsupportedImage)
	}

	if err := os.MkdirAll(f.uploadsDir, 0o755); err != nil {
		return "", NewBusinessError("IMAGE_WRITE_FAILED", "Failed to create uploads directory", err)
	}

	filename := uuid.New().String() + ext
	fullPath := filepath.Join(f.uploadsDir, filename)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", NewBusinessError("IMAGE_WRITE_FAILED", "Failed to create image file", err)
	}
	defer dst.Close()

	fullReader := io.MultiReader(bytes.NewReader(head), reader)
	limited := io.LimitReader(fullReader, f.maxImageSize+1)
	written, err := io.Copy(dst, limited)
	if err != nil {
		_ = os.Remove(fullPath)
		return "", NewBusinessError("IMAGE_WRITE_FAILED", "Failed to write image file", err)
	}
	if written > f.maxImageSize {
		_ = os.Remove(fullPath)
		return "", NewBusinessErrorf("IMAGE_TOO_LARGE", "Image size exceeds %d bytes", ErrImageTooLarge, f.maxImageSize)
	}

	return filename, nil
}

// removeImageFile deletes a stored image. Failure is logged, never surfaced;
// the record is already gone or updated and an orphaned file is harmless.
func (f *PortfolioFlowImpl) removeImageFile(name string) {
	if name == "" {
		return
	}
	cleanPath, err := f.sanitizeImagePath(name)
	if err != nil {
		log.Printf("refusing to remove image %q: %v", name, err)
		return
	}
	if err := os.Remove(cleanPath); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove image %q: %v", name, err)
	}
}

func (f *PortfolioFlowImpl) sanitizeImagePath(name string) (string, error) {
	if name == "" {
		return "", NewBusinessError("INVALID_PATH", "image path is empty", nil)
	}
	if strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		return "", NewBusinessError("INVALID_PATH", "image path must be a bare filename", nil)
	}
	return filepath.Join(f.uploadsDir, name), nil
}

// normalizeTags trims, drops empties and deduplicates while keeping order.
func normalizeTags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func resizeImage(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		nh = maxDim
		nw = int(float64(w) * float64(maxDim) / float64(h))
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	imagedraw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, imagedraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
