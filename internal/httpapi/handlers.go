package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ivanoskov/warehouse/internal/charts"
	"github.com/ivanoskov/warehouse/internal/export"
	"github.com/ivanoskov/warehouse/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (api *API) GetCategories(c *gin.Context) {
	categories, err := api.catalog.FetchCategories(c.Request.Context())
	if err != nil {
		api.sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (api *API) GetProducts(c *gin.Context) {
	snapshot, err := api.catalog.Load(c.Request.Context())
	if err != nil {
		api.sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (api *API) GetSummary(c *gin.Context) {
	snapshot, err := api.catalog.Load(c.Request.Context())
	if err != nil {
		api.sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot.Summary)
}

func (api *API) Refresh(c *gin.Context) {
	snapshot, err := api.catalog.Refresh(c.Request.Context())
	if err != nil {
		api.sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (api *API) InsertProduct(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		sendError(c, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := api.catalog.InsertProduct(c.Request.Context(), in)
	if err != nil {
		api.sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (api *API) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		sendError(c, http.StatusBadRequest, fmt.Sprintf("invalid product id %q", c.Param("id")))
		return
	}

	snapshot, err := api.catalog.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		api.sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (api *API) Export(c *gin.Context) {
	format := c.DefaultQuery("format", export.FormatCSV)
	if format != export.FormatCSV && format != export.FormatXLSX {
		sendError(c, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	snapshot, err := api.catalog.Load(c.Request.Context())
	if err != nil {
		api.sendServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv"
	if format == export.FormatXLSX {
		contentType = xlsxContentType
		err = export.WriteXLSX(&buf, snapshot.Records)
	} else {
		err = export.WriteCSV(&buf, snapshot.Records)
	}
	if err != nil {
		api.sendServiceError(c, err)
		return
	}

	fileName := export.FileName(format, api.now())
	c.Header("Content-Disposition", "attachment;filename=\""+fileName+"\"")
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (api *API) GetChart(c *gin.Context) {
	kind := c.Param("kind")
	if kind != charts.KindValue && kind != charts.KindQuantity {
		sendError(c, http.StatusNotFound, fmt.Sprintf("unknown chart %q", kind))
		return
	}

	snapshot, err := api.catalog.Load(c.Request.Context())
	if err != nil {
		api.sendServiceError(c, err)
		return
	}

	png, err := api.charts.Generate(kind, snapshot.Summary)
	if errors.Is(err, charts.ErrNoData) {
		sendError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		api.sendServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
