package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zignal-platform/zignal-api/internal/domain/packages"
)

// PackageHandler defines the interface for subscription package administration
type PackageHandler interface {
	List(ctx *gin.Context)
	Create(ctx *gin.Context)
}

type packageHandler struct {
	packageService packages.Service
}

// NewPackageHandler creates a new PackageHandler
func NewPackageHandler(packageService packages.Service) PackageHandler {
	return &packageHandler{packageService: packageService}
}

// List returns every package with its active subscriber count
// @Summary List packages
// @Tags Package
// @Produce json
// @Success 200 {array} packages.Summary
// @Failure 403 {object} ErrorResponse
// @Router /admin/packages [get]
func (handler *packageHandler) List(ctx *gin.Context) {
	summaries, err := handler.packageService.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, "Failed to fetch packages")
		return
	}
	ctx.JSON(http.StatusOK, nonNil(summaries))
}

// Create adds a package
// @Summary Create a package
// @Tags Package
// @Accept json
// @Produce json
// @Param requestBody body CreatePackageRequest true "Package"
// @Success 201 {object} PackageCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/packages [post]
func (handler *packageHandler) Create(ctx *gin.Context) {
	var request CreatePackageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBadRequest(ctx, "Invalid request body", err)
		return
	}

	pkg, err := handler.packageService.Create(ctx.Request.Context(), request.ToDomain())
	if err != nil {
		respondError(ctx, err, "Failed to create package")
		return
	}

	ctx.JSON(http.StatusCreated, PackageCreatedResponse{
		Success: true,
		Message: "Package created successfully",
		Package: pkg,
	})
}
