package bot

import (
	"context"
	"encoding/json"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/ivanoskov/warehouse/internal/charts"
	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/ivanoskov/warehouse/internal/service"
	"go.uber.org/zap"
)

// sender - часть tgbotapi.BotAPI, через которую бот отвечает
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Catalog - операции склада, которые нужны боту
type Catalog interface {
	FetchCategories(ctx context.Context) ([]model.Category, error)
	Load(ctx context.Context) (service.Snapshot, error)
	Refresh(ctx context.Context) (service.Snapshot, error)
	InsertProduct(ctx context.Context, in service.ProductInput) (service.Snapshot, error)
	DeleteProduct(ctx context.Context, id int64) (service.Snapshot, error)
}

// StateStore хранит состояние диалога между обновлениями.
// В режиме webhook каждое обновление может прийти в новый процесс.
type StateStore interface {
	GetState(ctx context.Context, userID int64) (*model.UserState, bool, error)
	SaveState(ctx context.Context, state *model.UserState) error
	DeleteState(ctx context.Context, userID int64) error
}

const awaitingProduct = "new_product"

type Bot struct {
	api     *tgbotapi.BotAPI
	sender  sender
	catalog Catalog
	charts  *charts.ChartGenerator
	logger  *zap.Logger
	states  StateStore // состояния пользователей по их ID
	now     func() time.Time
}

func NewBot(token string, catalog Catalog, states StateStore, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newBot(api, catalog, states, logger)
	b.api = api
	return b, nil
}

func newBot(s sender, catalog Catalog, states StateStore, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		sender:  s,
		catalog: catalog,
		charts:  charts.NewChartGenerator(),
		logger:  logger,
		states:  states,
		now:     time.Now,
	}
}

// Start запускает бота в режиме long polling до отмены ctx
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				// Логируем ошибку, но продолжаем работу
				b.logger.Error("error handling update", zap.Int("update_id", update.UpdateID), zap.Error(err))
			}
		}
	}
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}

	return b.handleUpdate(ctx, update)
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil && update.CallbackQuery == nil {
		return nil
	}

	log := b.logger.With(zap.String("action_id", uuid.New().String()))

	if update.Message != nil && update.Message.IsCommand() {
		log.Debug("command", zap.String("command", update.Message.Command()))
		return b.handleCommand(ctx, update.Message)
	}

	if update.CallbackQuery != nil {
		log.Debug("callback", zap.String("data", update.CallbackQuery.Data))
		return b.handleCallback(ctx, update.CallbackQuery)
	}

	return b.handleMessage(ctx, update.Message)
}

// state возвращает состояние пользователя, ошибка хранилища считается отсутствием
func (b *Bot) state(ctx context.Context, userID int64) (*model.UserState, bool) {
	s, ok, err := b.states.GetState(ctx, userID)
	if err != nil {
		b.logger.Warn("failed to load user state", zap.Int64("user_id", userID), zap.Error(err))
		return nil, false
	}
	return s, ok
}

func (b *Bot) setState(ctx context.Context, s *model.UserState) error {
	s.UpdatedAt = b.now()
	return b.states.SaveState(ctx, s)
}

func (b *Bot) clearState(ctx context.Context, userID int64) {
	if err := b.states.DeleteState(ctx, userID); err != nil {
		b.logger.Warn("failed to clear user state", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.sender.Send(c); err != nil {
		b.logger.Warn("failed to send message", zap.Error(err))
	}
}

// answerCallback убирает индикатор загрузки на кнопке
func (b *Bot) answerCallback(id string) {
	if _, err := b.sender.Request(tgbotapi.NewCallback(id, "")); err != nil {
		b.logger.Warn("failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "❌ "+text)
	b.send(msg)
}
