package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solgigs/internal/domain/entity"
)

func multipartUpload(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func doUpload(t *testing.T, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, formContentType := multipartUpload(t, filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/v1/files", body)
	req.Header.Set(echo.HeaderContentType, formContentType)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	c.Set("uid", "user-1")

	// Disallowed uploads must be rejected before the storage client is
	// ever touched, so a nil client is enough here.
	h := NewFileHandler(nil)
	require.NoError(t, h.UploadAttachment(c))
	return rec
}

func TestUploadAttachmentRejectsDisallowedType(t *testing.T) {
	rec := doUpload(t, "contract.pdf", "application/pdf", []byte("%PDF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
}

func TestUploadAttachmentRejectsOversizeFile(t *testing.T) {
	oversized := bytes.Repeat([]byte{0xff}, int(entity.MaxAttachmentSize)+1)
	rec := doUpload(t, "huge.png", "image/png", oversized)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadAttachmentRequiresFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/files", nil)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	c.Set("uid", "user-1")

	h := NewFileHandler(nil)
	require.NoError(t, h.UploadAttachment(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, HealthCheck(echo.New().NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
