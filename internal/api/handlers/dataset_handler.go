package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alanceloth/datagen/internal/cache"
	"github.com/alanceloth/datagen/internal/dataset"
	"github.com/alanceloth/datagen/internal/generator"
	"github.com/alanceloth/datagen/internal/service"
)

const defaultRunsLimit = 20

type DatasetHandler struct {
	datasetService *service.DatasetService
}

func NewDatasetHandler(datasetService *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

// Row counts per table are capped at one million for API runs; larger
// datasets go through the CLI.
type generateRequest struct {
	Label        string `json:"label"`
	Format       string `json:"format"`
	Customers    int    `json:"customers" binding:"min=0,max=1000000"`
	Transactions int    `json:"transactions" binding:"min=0,max=1000000"`
	Items        int    `json:"items" binding:"min=0,max=1000000"`
	Upload       bool   `json:"upload"`
	Bucket       string `json:"bucket"`
	Prefix       string `json:"prefix"`
}

// Generate runs one dataset generation synchronously and returns its result.
func (h *DatasetHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	format := dataset.FormatCSV
	if req.Format != "" {
		parsed, err := dataset.ParseFormat(req.Format)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		format = parsed
	}

	result, err := h.datasetService.Generate(c.Request.Context(), service.GenerateRequest{
		Label: req.Label,
		Counts: dataset.Counts{
			Customers:    req.Customers,
			Transactions: req.Transactions,
			Items:        req.Items,
		},
		Format: format,
		Upload: req.Upload,
		Bucket: req.Bucket,
		Prefix: req.Prefix,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadUnavailable),
			errors.Is(err, generator.ErrInvalidCount):
			errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, generator.ErrEmptyPopulation),
			errors.Is(err, generator.ErrDocumentSpaceExhausted):
			errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		default:
			errorResponse(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Runs returns the most recent runs, newest first.
func (h *DatasetHandler) Runs(c *gin.Context) {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.datasetService.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to fetch run history")
		return
	}
	if runs == nil {
		runs = []cache.RunRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"data": runs})
}
