package main

import (
	"context"
	"sync"

	"github.com/ivanoskov/warehouse/internal/app"
	"github.com/ivanoskov/warehouse/internal/bot"
	"github.com/ivanoskov/warehouse/internal/config"
	"github.com/ivanoskov/warehouse/internal/logging"
	"go.uber.org/zap"
)

// Request структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// webhook - зависимости, которые живут, пока жив контейнер функции
type webhook struct {
	bot    *bot.Bot
	logger *zap.Logger
}

var (
	warmMu sync.Mutex
	warm   *webhook
)

// warmWebhook собирает бота при первом вызове и переиспользует его в теплом контейнере.
// Неудачная сборка не запоминается, следующий вызов попробует снова.
func warmWebhook(ctx context.Context) (*webhook, error) {
	warmMu.Lock()
	defer warmMu.Unlock()

	if warm != nil {
		return warm, nil
	}

	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateBot(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return nil, err
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Инициализация бота
	b, err := bot.NewBot(cfg.TelegramToken, application.Catalog, application.States, logger)
	if err != nil {
		application.Close()
		return nil, err
	}

	warm = &webhook{bot: b, logger: logger}
	return warm, nil
}

func Handler(ctx context.Context, request Request) (*Response, error) {
	w, err := warmWebhook(ctx)
	if err != nil {
		return errorResponse(err)
	}
	defer w.logger.Sync()

	// Обработка webhook-обновления
	if err := w.bot.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		w.logger.Error("failed to handle webhook", zap.Error(err))
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
