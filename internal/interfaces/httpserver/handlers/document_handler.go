package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistant-server/internal/config"
	domain "assistant-server/internal/domain/document"
	"assistant-server/internal/interfaces/httpserver/responses"
	"assistant-server/internal/utils/platformerrors"
)

// DocumentHandler exposes the knowledge-base document endpoints.
type DocumentHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewDocumentHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "document-handler").Logger(),
	}
}

type listDocumentsResponse struct {
	Documents []domain.Document `json:"documents"`
}

// Upload godoc
// @Summary      Upload documents
// @Description  Accepts one or more files under the "files" multipart field and ingests them into the knowledge base.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "Files to ingest"
// @Success      201    {object}  domain.UploadResult
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      415    {object}  responses.ErrorResponse
// @Router       /v1/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid multipart form")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "no files provided")
		return
	}

	uploads := make([]domain.Upload, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unable to read uploaded file")
			return
		}
		content, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxDocumentBytes+1))
		file.Close()
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unable to read uploaded file")
			return
		}

		uploads = append(uploads, domain.Upload{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Content:  content,
		})
	}

	docs, err := h.service.Upload(c.Request.Context(), uploads)
	if err != nil {
		responses.HandleError(c, err, "failed to upload documents")
		return
	}

	c.JSON(http.StatusCreated, domain.UploadResult{Documents: docs})
}

// List godoc
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Success      200  {object}  listDocumentsResponse
// @Router       /v1/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list documents")
		return
	}

	c.JSON(http.StatusOK, listDocumentsResponse{Documents: docs})
}

// Remove godoc
// @Summary      Remove a document
// @Description  Deletes a document record and its stored content.
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document id"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/documents/{id} [delete]
func (h *DocumentHandler) Remove(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "document id is required")
		return
	}

	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "failed to remove document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
