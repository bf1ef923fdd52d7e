package presentations

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"symposium-app/database"
	"symposium-app/internal/app/authz"
	"symposium-app/internal/app/http/httperr"
	"symposium-app/internal/app/http/middleware"
	"symposium-app/internal/domain/access"
	"symposium-app/internal/domain/entitlement"
	domain "symposium-app/internal/domain/events"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// presentationRef reads the :presentationIdOrHash param: numeric means id,
// anything else is treated as an access hash.
func presentationRef(c *gin.Context) access.Ref {
	v := c.Param("presentationIdOrHash")
	if id, err := strconv.ParseUint(v, 10, 64); err == nil {
		return access.Ref{Kind: access.KindPresentation, ID: uint(id)}
	}
	return access.Ref{Kind: access.KindPresentation, Hash: v}
}

func suppliedHash(c *gin.Context) string {
	if h := c.Query("hash"); h != "" {
		return h
	}
	v := c.Param("presentationIdOrHash")
	if _, err := strconv.ParseUint(v, 10, 64); err != nil {
		return v
	}
	return ""
}

// GET /presentations/:presentationIdOrHash
func GetPresentation(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal:    ac.Principal,
		Ref:          presentationRef(c),
		Operation:    access.OpRead,
		SuppliedHash: suppliedHash(c),
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	var pres domain.Presentation
	if err := database.DB.Where("id = ?", decision.Resource.ID).First(&pres).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Presentation not found"})
			return
		}
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusOK, toPresentationDTO(&pres, decision.Redaction))
}

// POST /events/:eventCodeOrHash/presentations
func CreatePresentation(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	var input struct {
		Title              string  `json:"title" binding:"required"`
		Abstract           *string `json:"abstract"`
		PresenterFirstName string  `json:"presenterFirstName" binding:"required"`
		PresenterLastName  string  `json:"presenterLastName" binding:"required"`
		PresenterEmail     *string `json:"presenterEmail"`
		PresenterLevel     *string `json:"presenterLevel"`
		PresenterMajor     *string `json:"presenterMajor"`
		VoiceoverLink      *string `json:"voiceoverLink"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ref := access.Ref{Kind: access.KindEvent, Code: c.Param("eventCodeOrHash")}
	if len(c.Param("eventCodeOrHash")) >= 32 {
		ref = access.Ref{Kind: access.KindEvent, Hash: c.Param("eventCodeOrHash")}
	}

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal:        ac.Principal,
		Ref:              ref,
		Operation:        access.OpCreate,
		SuppliedHash:     c.Query("hash"),
		CreatesDimension: entitlement.DimPresentations,
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	hash := strings.ReplaceAll(uuid.New().String(), "-", "")
	pres := domain.Presentation{
		EventID:            decision.Resource.EventID,
		Title:              input.Title,
		Abstract:           input.Abstract,
		PresenterFirstName: input.PresenterFirstName,
		PresenterLastName:  input.PresenterLastName,
		PresenterEmail:     input.PresenterEmail,
		PresenterLevel:     input.PresenterLevel,
		PresenterMajor:     input.PresenterMajor,
		VoiceoverLink:      input.VoiceoverLink,
		Hash:               &hash,
	}
	if ac.Consumer != nil && ac.Consumer.InstitutionID != nil {
		pres.InstitutionID = ac.Consumer.InstitutionID
	}
	if err := database.DB.Create(&pres).Error; err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, toPresentationDTO(&pres, access.RedactionPlan{}))
}

// DELETE /presentations/:presentationIdOrHash
func DeletePresentation(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal: ac.Principal,
		Ref:       presentationRef(c),
		Operation: access.OpDelete,
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}
	if !ac.Principal.AdminOf(decision.Resource.EventID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	// soft delete; the engine reads delete_date as not-found
	err = database.DB.Model(&domain.Presentation{}).
		Where("id = ?", decision.Resource.ID).
		Update("delete_date", gorm.Expr("CURRENT_TIMESTAMP")).Error
	if err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
