package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
	"github.com/linguamarket/linguamarket-api/pkg/response"
	"github.com/linguamarket/linguamarket-api/pkg/storage"
)

// CertificateHandler serves rendered certificate PDFs behind signed tokens.
type CertificateHandler struct {
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
}

// NewCertificateHandler creates a new handler.
func NewCertificateHandler(store *storage.LocalStorage, signer *storage.SignedURLSigner) *CertificateHandler {
	return &CertificateHandler{storage: store, signer: signer}
}

// Download godoc
// @Summary Download a certificate PDF
// @Description Requires the signed token issued alongside the certificate.
// @Tags Courses
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /certificates/download [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	if h.storage == nil || h.signer == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "certificate downloads are not configured"))
		return
	}

	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	certID, relPath, _, err := h.signer.Parse(token)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token"))
		return
	}

	file, err := h.storage.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "certificate not found"))
		return
	}
	defer file.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="certificate-`+certID+`.pdf"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
