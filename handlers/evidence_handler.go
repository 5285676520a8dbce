package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Theofficialsultan/disputehub-sub000/models"
	"github.com/Theofficialsultan/disputehub-sub000/repository"
	"github.com/Theofficialsultan/disputehub-sub000/rules"
	"github.com/Theofficialsultan/disputehub-sub000/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EvidenceHandler handles HTTP requests for evidence upload and retrieval.
// The pipeline only ever consumes evidence metadata; the binary content
// stays behind the storage backend.
type EvidenceHandler struct {
	evidenceRepo     *repository.EvidenceRepository
	fileRepo         *repository.FileRepository
	caseRepo         *repository.CaseRepository
	storage          storage.Storage
	maxFileSize      int64
	allowedMimeTypes map[string]bool
}

// NewEvidenceHandler creates a new evidence handler
func NewEvidenceHandler(evidenceRepo *repository.EvidenceRepository, fileRepo *repository.FileRepository, caseRepo *repository.CaseRepository, storage storage.Storage) *EvidenceHandler {
	return &EvidenceHandler{
		evidenceRepo: evidenceRepo,
		fileRepo:     fileRepo,
		caseRepo:     caseRepo,
		storage:      storage,
		maxFileSize:  10 * 1024 * 1024, // 10MB
		allowedMimeTypes: map[string]bool{
			"application/pdf":    true,
			"text/plain":         true,
			"image/jpeg":         true,
			"image/png":          true,
			"application/msword": true, // .doc
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true, // .docx
		},
	}
}

// UploadEvidence handles POST /api/evidence/upload
func (h *EvidenceHandler) UploadEvidence(c *gin.Context) {
	caseIDStr := c.PostForm("case_id")
	if caseIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_CASE_ID",
				"message": "case_id is required",
			},
		})
		return
	}

	caseID, err := uuid.Parse(caseIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CASE_ID",
				"message": "Invalid case_id format",
			},
		})
		return
	}

	disputeCase, err := h.caseRepo.GetByID(c.Request.Context(), caseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CASE_NOT_FOUND",
				"message": "Case not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize),
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_OPEN_ERROR",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = inferMimeType(fileHeader.Filename)
	}

	if !h.allowedMimeTypes[mimeType] && !strings.HasPrefix(mimeType, "text/") && !strings.HasPrefix(mimeType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "File type not allowed. Allowed types: PDF, TXT, DOC, DOCX, JPEG, PNG",
			},
		})
		return
	}

	fileID := uuid.New()

	storagePath, err := h.storage.Upload(c.Request.Context(), fileID, fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": fmt.Sprintf("Failed to upload file: %v", err),
			},
		})
		return
	}

	fileRecord := &models.File{
		ID:          fileID,
		UserID:      disputeCase.UserID,
		CaseID:      &caseID,
		Filename:    fileHeader.Filename,
		MimeType:    mimeType,
		Size:        fileHeader.Size,
		StoragePath: storagePath,
	}

	if err := h.fileRepo.Create(c.Request.Context(), fileRecord); err != nil {
		// Try to clean up uploaded file
		h.storage.Delete(c.Request.Context(), storagePath)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": fmt.Sprintf("Failed to save file record: %v", err),
			},
		})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}

	item := &models.EvidenceItem{
		CaseID:      caseID,
		Title:       title,
		FileName:    fileHeader.Filename,
		FileType:    mimeType,
		Description: c.PostForm("description"),
	}
	if dateStr := c.PostForm("evidence_date"); dateStr != "" {
		if date, err := time.Parse("2006-01-02", dateStr); err == nil {
			item.EvidenceDate = &date
		}
	}

	if err := h.evidenceRepo.Create(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": fmt.Sprintf("Failed to save evidence record: %v", err),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":            item.ID,
			"case_id":       item.CaseID,
			"title":         item.Title,
			"file_name":     item.FileName,
			"file_type":     item.FileType,
			"evidence_type": rules.ClassifyEvidence(*item),
			"file_id":       fileRecord.ID,
			"created_at":    item.CreatedAt,
		},
	})
}

// GetEvidence handles GET /api/evidence/:id
func (h *EvidenceHandler) GetEvidence(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid evidence ID format")
	if !ok {
		return
	}

	item, err := h.evidenceRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Evidence not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":            item.ID,
			"case_id":       item.CaseID,
			"title":         item.Title,
			"file_name":     item.FileName,
			"file_type":     item.FileType,
			"description":   item.Description,
			"evidence_date": item.EvidenceDate,
			"evidence_type": rules.ClassifyEvidence(*item),
			"created_at":    item.CreatedAt,
		},
	})
}

// ListEvidence handles GET /api/cases/:id/evidence
func (h *EvidenceHandler) ListEvidence(c *gin.Context) {
	caseID, ok := parseIDParam(c, "Invalid case ID format")
	if !ok {
		return
	}

	items, err := h.evidenceRepo.ListByCaseID(c.Request.Context(), caseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// DownloadEvidenceFile handles GET /api/files/:id
func (h *EvidenceHandler) DownloadEvidenceFile(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid file ID format")
	if !ok {
		return
	}

	file, err := h.fileRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "File not found",
			},
		})
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), file.StoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DOWNLOAD_FAILED",
				"message": fmt.Sprintf("Failed to download file: %v", err),
			},
		})
		return
	}
	defer reader.Close()

	c.Header("Content-Type", file.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Filename))
	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, reader, nil)
}

func inferMimeType(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(lower, ".txt"):
		return "text/plain"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".doc"):
		return "application/msword"
	case strings.HasSuffix(lower, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
