package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zignal-platform/zignal-api/internal/domain/members"
)

// MemberHandler defines the interface for member administration
type MemberHandler interface {
	Get(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type memberHandler struct {
	memberService members.Service
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService members.Service) MemberHandler {
	return &memberHandler{memberService: memberService}
}

// Get returns a member's identity, profile, activity and stats
// @Summary Get a member
// @Tags Member
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} MemberDetailResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/members/{userId} [get]
func (handler *memberHandler) Get(ctx *gin.Context) {
	detail, err := handler.memberService.Get(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err, "Failed to fetch member details")
		return
	}
	ctx.JSON(http.StatusOK, newMemberDetailResponse(detail))
}

// Update suspends, activates, promotes, demotes or renames a member
// @Summary Update a member
// @Tags Member
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param requestBody body UpdateMemberRequest true "Action"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/members/{userId} [put]
func (handler *memberHandler) Update(ctx *gin.Context) {
	var request UpdateMemberRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBadRequest(ctx, "Invalid action", err)
		return
	}

	message, err := handler.memberService.Update(ctx.Request.Context(), actorID(ctx), ctx.Param("userId"), &members.UpdateRequest{
		Action:    members.Action(request.Action),
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Username:  request.Username,
	})
	if err != nil {
		respondError(ctx, err, "Failed to update member")
		return
	}

	ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Message: message})
}

// Delete removes a member from the identity provider
// @Summary Delete a member
// @Tags Member
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/members/{userId} [delete]
func (handler *memberHandler) Delete(ctx *gin.Context) {
	if err := handler.memberService.Delete(ctx.Request.Context(), actorID(ctx), ctx.Param("userId")); err != nil {
		respondError(ctx, err, "Failed to delete member")
		return
	}
	ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "User deleted successfully"})
}
