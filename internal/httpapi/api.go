package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ivanoskov/warehouse/internal/charts"
	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/ivanoskov/warehouse/internal/service"
	"go.uber.org/zap"
)

// Catalog - операции склада, которые нужны HTTP слою
type Catalog interface {
	FetchCategories(ctx context.Context) ([]model.Category, error)
	Load(ctx context.Context) (service.Snapshot, error)
	Refresh(ctx context.Context) (service.Snapshot, error)
	InsertProduct(ctx context.Context, in service.ProductInput) (service.Snapshot, error)
	DeleteProduct(ctx context.Context, id int64) (service.Snapshot, error)
}

type API struct {
	catalog Catalog
	charts  *charts.ChartGenerator
	logger  *zap.Logger
	now     func() time.Time
}

func NewAPI(catalog Catalog, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		catalog: catalog,
		charts:  charts.NewChartGenerator(),
		logger:  logger,
		now:     time.Now,
	}
}

type GenericResponse struct {
	Message string `json:"message"`
}

func sendError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"message": msg,
	})
}

// sendServiceError переводит ошибку каталога в код ответа
func (api *API) sendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrUnknownCategory):
		sendError(c, http.StatusBadRequest, err.Error())
	default:
		api.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		sendError(c, http.StatusInternalServerError, err.Error())
	}
}
