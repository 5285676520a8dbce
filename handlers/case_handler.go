package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Theofficialsultan/disputehub-sub000/models"
	"github.com/Theofficialsultan/disputehub-sub000/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CaseHandler handles HTTP requests for dispute cases
type CaseHandler struct {
	caseService  *service.CaseService
	draftService *service.DraftService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService *service.CaseService, draftService *service.DraftService) *CaseHandler {
	return &CaseHandler{
		caseService:  caseService,
		draftService: draftService,
	}
}

// CreateCaseRequest represents the request body for creating a case
type CreateCaseRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	Domain       string `json:"domain"`
	Counterparty string `json:"counterparty"`
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	serviceReq := service.CreateCaseRequest{
		UserID:       userID,
		Domain:       models.DisputeDomain(req.Domain),
		Counterparty: req.Counterparty,
	}

	result, err := h.caseService.CreateCase(c.Request.Context(), serviceReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Case,
	})
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid case ID format")
	if !ok {
		return
	}

	result, err := h.caseService.GetCase(c.Request.Context(), service.GetCaseRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Case not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Case,
	})
}

// UpdateCaseRequest represents the request body for updating a case.
// The transcript is replaced wholesale; append happens client-side.
type UpdateCaseRequest struct {
	Status       string                     `json:"status"`
	Domain       string                     `json:"domain"`
	Counterparty string                     `json:"counterparty"`
	ChosenForum  *string                    `json:"chosen_forum"`
	Transcript   []models.TranscriptMessage `json:"transcript"`
}

// UpdateCase handles PUT /api/cases/:id
func (h *CaseHandler) UpdateCase(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid case ID format")
	if !ok {
		return
	}

	getResult, err := h.caseService.GetCase(c.Request.Context(), service.GetCaseRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Case not found",
			},
		})
		return
	}

	disputeCase := getResult.Case

	var req UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if req.Status != "" {
		disputeCase.Status = models.CaseStatus(req.Status)
	}
	if req.Domain != "" {
		disputeCase.Domain = models.DisputeDomain(req.Domain)
	}
	if req.Counterparty != "" {
		disputeCase.Counterparty = req.Counterparty
	}
	if req.ChosenForum != nil {
		disputeCase.ChosenForum = req.ChosenForum
	}
	if req.Transcript != nil {
		disputeCase.Transcript = models.Transcript(req.Transcript)
	}

	updateResult, err := h.caseService.UpdateCase(c.Request.Context(), service.UpdateCaseRequest{
		Case: disputeCase,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updateResult.Case,
	})
}

// GetState handles GET /api/cases/:id/state
func (h *CaseHandler) GetState(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid case ID format")
	if !ok {
		return
	}

	result, err := h.caseService.GetState(c.Request.Context(), service.GetStateRequest{CaseID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Case not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Snapshot,
	})
}

// ConfirmSummaryRequest represents the request body for confirming a summary
type ConfirmSummaryRequest struct {
	DesiredOutcome string `json:"desired_outcome"`
}

// ConfirmSummary handles POST /api/cases/:id/confirm
func (h *CaseHandler) ConfirmSummary(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid case ID format")
	if !ok {
		return
	}

	var req ConfirmSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.caseService.ConfirmSummary(c.Request.Context(), service.ConfirmSummaryRequest{
		CaseID:         id,
		DesiredOutcome: req.DesiredOutcome,
	})
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":           "INCOMPLETE_STRATEGY",
					"message":        validationErr.Error(),
					"missing_fields": validationErr.MissingFields,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFIRM_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"locked_facts": result.LockedFacts,
			"routing":      result.Decision,
			"plan":         result.Plan,
		},
	})
}

// GenerateDocket handles POST /api/cases/:id/generate
func (h *CaseHandler) GenerateDocket(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid case ID format")
	if !ok {
		return
	}

	result, err := h.draftService.GenerateDocket(c.Request.Context(), service.GenerateDocketRequest{
		CaseID: id,
	})
	if err != nil {
		var rejection *service.GateRejection
		if errors.As(err, &rejection) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":          "GENERATION_BLOCKED",
					"message":       rejection.UserMessage,
					"status":        rejection.Status,
					"reason":        rejection.Reason,
					"prerequisites": rejection.Prerequisites,
				},
			})
			return
		}
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PLAN_NOT_FOUND",
					"message": "No document plan exists for this case",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GENERATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	// Spawn background goroutine for actual processing
	// Use background context (not request context) to avoid cancellation
	go func() {
		bgCtx := context.Background()
		if err := h.draftService.ProcessDocket(bgCtx, result.JobID); err != nil {
			log.Printf("Generation job %s failed: %v", result.JobID, err)
		}
	}()

	// Return immediately (within 100ms)
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id":  result.JobID,
			"status":  "pending",
			"message": "Generation job created. Poll /api/jobs/:id for updates.",
		},
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *CaseHandler) GetJobStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid job ID format")
	if !ok {
		return
	}

	result, err := h.draftService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{
		JobID: id,
	})
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Generation job not found",
				},
			})
			return
		}
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
		"data":    result.Job,
	})
}

// GetDocuments handles GET /api/cases/:id/documents
func (h *CaseHandler) GetDocuments(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid case ID format")
	if !ok {
		return
	}

	plan, err := h.draftService.GetPlan(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "No document plan exists for this case",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    plan,
	})
}

// parseIDParam parses the :id path parameter, writing the error response
// itself when the value is not a UUID.
func parseIDParam(c *gin.Context, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": message,
			},
		})
		return uuid.Nil, false
	}
	return id, true
}
