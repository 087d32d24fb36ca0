package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/alanceloth/datagen/internal/storage"
)

// ObjectHandler exposes the gateway's bucket operations.
type ObjectHandler struct {
	gateway       *storage.Gateway
	defaultBucket string
}

func NewObjectHandler(gateway *storage.Gateway, defaultBucket string) *ObjectHandler {
	return &ObjectHandler{gateway: gateway, defaultBucket: defaultBucket}
}

func (h *ObjectHandler) bucket(name string) string {
	if name == "" {
		return h.defaultBucket
	}
	return name
}

// List returns the objects in a bucket, optionally under a prefix.
func (h *ObjectHandler) List(c *gin.Context) {
	bucket := h.bucket(c.Query("bucket"))
	objects, err := h.gateway.ListObjects(c.Request.Context(), bucket, c.Query("prefix"))
	if err != nil {
		storageErrorResponse(c, err)
		return
	}
	if objects == nil {
		objects = []storage.ObjectInfo{}
	}

	c.JSON(http.StatusOK, gin.H{
		"bucket": bucket,
		"data":   objects,
	})
}

// Upload stores the multipart field "file" under the form's key, or under
// the uploaded file name when no key is given.
func (h *ObjectHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "no file provided")
		return
	}

	tmpDir, err := os.MkdirTemp("", "datagen-upload-")
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	defer os.RemoveAll(tmpDir)

	localPath := filepath.Join(tmpDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, localPath); err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded file")
		errorResponse(c, http.StatusInternalServerError, "failed to stage upload")
		return
	}

	bucket := h.bucket(c.PostForm("bucket"))
	key := c.PostForm("key")
	if key == "" {
		key = path.Join(c.PostForm("prefix"), filepath.Base(file.Filename))
	}
	if err := h.gateway.Upload(c.Request.Context(), localPath, bucket, key); err != nil {
		storageErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"bucket": bucket,
		"key":    key,
		"size":   file.Size,
	})
}

// Download streams one object back as an attachment.
func (h *ObjectHandler) Download(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		errorResponse(c, http.StatusBadRequest, "key is required")
		return
	}

	tmpDir, err := os.MkdirTemp("", "datagen-download-")
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to stage download")
		return
	}
	defer os.RemoveAll(tmpDir)

	localPath := filepath.Join(tmpDir, path.Base(key))
	if err := h.gateway.Download(c.Request.Context(), h.bucket(c.Query("bucket")), key, localPath); err != nil {
		storageErrorResponse(c, err)
		return
	}

	c.FileAttachment(localPath, path.Base(key))
}

func (h *ObjectHandler) Delete(c *gin.Context) {
	bucket := h.bucket(c.Query("bucket"))
	key := c.Query("key")
	if err := h.gateway.Delete(c.Request.Context(), bucket, key); err != nil {
		storageErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bucket": bucket, "deleted": key})
}

type moveRequest struct {
	Bucket      string `json:"bucket"`
	Source      string `json:"source" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

func (h *ObjectHandler) Move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "source and destination are required")
		return
	}

	bucket := h.bucket(req.Bucket)
	if err := h.gateway.Move(c.Request.Context(), bucket, req.Source, req.Destination); err != nil {
		storageErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bucket":      bucket,
		"source":      req.Source,
		"destination": req.Destination,
	})
}

type folderRequest struct {
	Bucket string `json:"bucket"`
	Folder string `json:"folder" binding:"required"`
}

func (h *ObjectHandler) CreateFolder(c *gin.Context) {
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "folder is required")
		return
	}

	bucket := h.bucket(req.Bucket)
	if err := h.gateway.CreateFolder(c.Request.Context(), bucket, req.Folder); err != nil {
		storageErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bucket": bucket, "folder": req.Folder})
}

// DeleteFolder removes every object under the folder prefix.
func (h *ObjectHandler) DeleteFolder(c *gin.Context) {
	bucket := h.bucket(c.Query("bucket"))
	folder := c.Query("folder")
	if err := h.gateway.DeleteFolder(c.Request.Context(), bucket, folder); err != nil {
		storageErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bucket": bucket, "deleted": folder})
}
