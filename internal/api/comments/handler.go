package comments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"symposium-app/database"
	"symposium-app/internal/app/authz"
	"symposium-app/internal/app/http/httperr"
	"symposium-app/internal/app/http/middleware"
	"symposium-app/internal/domain/access"
	domain "symposium-app/internal/domain/events"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentDTO struct {
	ID             uint       `json:"commentId"`
	PresentationID uint       `json:"posterId"`
	ConsumerID     uint       `json:"consumerId"`
	ParentID       *uint      `json:"parentCommentId,omitempty"`
	Body           string     `json:"comment"`
	CreatedAt      *time.Time `json:"createDate,omitempty"`
}

// toCommentDTO masks deleted bodies per the redaction plan: empty string
// and the sentinel consumer id, so threads keep their shape without
// leaking removed content.
func toCommentDTO(cm *domain.Comment, plan access.RedactionPlan) CommentDTO {
	dto := CommentDTO{
		ID:             cm.ID,
		PresentationID: cm.PresentationID,
		ConsumerID:     cm.ConsumerID,
		ParentID:       cm.ParentID,
	}
	if cm.Body != nil {
		dto.Body = *cm.Body
	}
	if plan.MaskDeletedComments && (cm.Deleted() || cm.HiddenByAdminDate != nil) {
		dto.Body = ""
		dto.ConsumerID = access.DeletedCommentConsumerID
	}
	if !plan.HideInternalTimestamps {
		created := cm.CreatedAt
		dto.CreatedAt = &created
	}
	return dto
}

// GET /presentations/:presentationIdOrHash/comments
func ListComments(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	ref := presentationRefFromParam(c.Param("presentationIdOrHash"))
	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal:    ac.Principal,
		Ref:          ref,
		Operation:    access.OpRead,
		SuppliedHash: c.Query("hash"),
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	var rows []domain.Comment
	err = database.DB.
		Where("presentation_id = ?", decision.Resource.ID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		httperr.Internal(c)
		return
	}

	out := make([]CommentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toCommentDTO(&rows[i], decision.Redaction))
	}
	c.JSON(http.StatusOK, gin.H{"comments": out})
}

// POST /comments
func CreateComment(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	var input struct {
		PresentationID uint   `json:"posterId" binding:"required"`
		Body           string `json:"comment" binding:"required"`
		ParentID       *uint  `json:"parentCommentId"`
		SuppliedHash   string `json:"eventCodeOrHash"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// posting is participation: blocked consumers are rejected here even
	// on public events
	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal:    ac.Principal,
		Ref:          access.Ref{Kind: access.KindPresentation, ID: input.PresentationID},
		Operation:    access.OpCreate,
		SuppliedHash: input.SuppliedHash,
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	if input.ParentID != nil {
		var parent domain.Comment
		err := database.DB.Where("id = ?", *input.ParentID).First(&parent).Error
		if err != nil || parent.Deleted() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot reply to a deleted comment"})
			return
		}
		if parent.PresentationID != input.PresentationID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment belongs to another presentation"})
			return
		}
	}

	body := input.Body
	comment := domain.Comment{
		PresentationID: input.PresentationID,
		ConsumerID:     ac.Principal.ConsumerID,
		ParentID:       input.ParentID,
		Body:           &body,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, toCommentDTO(&comment, access.RedactionPlan{}))
}

// PUT /comments/:id — only the owning consumer may edit a comment
func UpdateComment(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}

	var input struct {
		Body string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal: ac.Principal,
		Ref:       access.Ref{Kind: access.KindComment, ID: uint(id)},
		Operation: access.OpMutate,
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	var comment domain.Comment
	if err := database.DB.Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		httperr.Internal(c)
		return
	}
	if comment.ConsumerID != ac.Principal.ConsumerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	err = database.DB.Model(&domain.Comment{}).
		Where("id = ?", id).
		Update("body", input.Body).Error
	if err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// POST /comments/:id/flag — any viewer may flag a comment for moderation
func FlagComment(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal: ac.Principal,
		Ref:       access.Ref{Kind: access.KindComment, ID: uint(id)},
		Operation: access.OpMutate,
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	err = database.DB.Model(&domain.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"flagger_id":           ac.Principal.ConsumerID,
			"flagged_by_user_date": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
	if err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "flagged"})
}

// POST /comments/:id/hide — event admins hide a comment without deleting
// it. Hidden comments render masked like deleted ones, but the row and
// moderation trail stay intact.
func HideComment(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal: ac.Principal,
		Ref:       access.Ref{Kind: access.KindComment, ID: uint(id)},
		Operation: access.OpMutate,
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

	err = database.DB.Model(&domain.Comment{}).
		Where("id = ?", id).
		Update("hidden_by_admin_date", gorm.Expr("CURRENT_TIMESTAMP")).Error
	if err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "hidden"})
}

// DELETE /comments/:id — the author or an event admin may remove a comment
func DeleteComment(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal: ac.Principal,
		Ref:       access.Ref{Kind: access.KindComment, ID: uint(id)},
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

	var comment domain.Comment
	if err := database.DB.Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		httperr.Internal(c)
		return
	}
	isOwner := comment.ConsumerID == ac.Principal.ConsumerID
	if !isOwner && !ac.Principal.AdminOf(decision.Resource.EventID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	err = database.DB.Model(&domain.Comment{}).
		Where("id = ?", id).
		Update("delete_date", gorm.Expr("CURRENT_TIMESTAMP")).Error
	if err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func presentationRefFromParam(v string) access.Ref {
	if id, err := strconv.ParseUint(v, 10, 64); err == nil {
		return access.Ref{Kind: access.KindPresentation, ID: uint(id)}
	}
	return access.Ref{Kind: access.KindPresentation, Hash: v}
}
