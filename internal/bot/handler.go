package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/warehouse/internal/charts"
	"github.com/ivanoskov/warehouse/internal/export"
	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/ivanoskov/warehouse/internal/service"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "list":
		b.handleList(ctx, message.Chat.ID)
	case "categories":
		b.handleCategories(ctx, message.Chat.ID)
	case "add":
		b.handleAdd(ctx, message.Chat.ID)
	case "delete":
		b.handleDeleteCommand(ctx, message)
	case "export":
		b.handleExport(ctx, message.Chat.ID)
	case "chart":
		b.handleChart(ctx, message.Chat.ID)
	case "refresh":
		b.handleRefresh(ctx, message.Chat.ID)
	default:
		b.sendErrorMessage(message.Chat.ID, "Неизвестная команда")
	}

	return nil
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID,
		"Добро пожаловать в складской бот! 📦\n\n"+
			"Вот что я умею:\n\n"+
			"• /list - список товаров\n"+
			"• /add - добавить товар\n"+
			"• /delete <id> - удалить товар\n"+
			"• /categories - категории\n"+
			"• /export - выгрузка в CSV\n"+
			"• /chart - стоимость по категориям\n"+
			"• /refresh - перечитать данные\n\n"+
			"Выберите действие:")

	msg.ReplyMarkup = b.getMainKeyboard()
	b.send(msg)
}

func (b *Bot) handleList(ctx context.Context, chatID int64) {
	snapshot, err := b.catalog.Load(ctx)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении товаров")
		return
	}
	b.sendSnapshot(chatID, snapshot)
}

// sendSnapshot отправляет по сообщению на товар с кнопкой удаления и итог
func (b *Bot) sendSnapshot(chatID int64, snapshot service.Snapshot) {
	if len(snapshot.Records) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Склад пуст. Добавьте товар через /add"))
		return
	}

	for _, r := range snapshot.Records {
		msg := tgbotapi.NewMessage(chatID, formatRecord(r))
		msg.ReplyMarkup = b.getProductKeyboard(r.ID)
		b.send(msg)
	}

	b.send(tgbotapi.NewMessage(chatID, formatSummary(snapshot.Summary)))
}

func (b *Bot) handleCategories(ctx context.Context, chatID int64) {
	categories, err := b.catalog.FetchCategories(ctx)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении категорий")
		return
	}

	if len(categories) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Категорий пока нет"))
		return
	}

	var text strings.Builder
	text.WriteString("📋 Категории:\n\n")
	for _, cat := range categories {
		fmt.Fprintf(&text, "• %s\n", cat.Name)
	}

	b.send(tgbotapi.NewMessage(chatID, text.String()))
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64) {
	categories, err := b.catalog.FetchCategories(ctx)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении категорий")
		return
	}

	if len(categories) == 0 {
		b.sendErrorMessage(chatID, "Нет ни одной категории, товар добавить нельзя")
		return
	}

	msg := tgbotapi.NewMessage(chatID, "Выберите категорию:")
	msg.ReplyMarkup = b.getCategoriesKeyboard(categories)
	b.send(msg)
}

func (b *Bot) handleDeleteCommand(ctx context.Context, message *tgbotapi.Message) {
	id, err := strconv.ParseInt(strings.TrimSpace(message.CommandArguments()), 10, 64)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Используйте: /delete <id>")
		return
	}
	b.deleteProduct(ctx, message.Chat.ID, id)
}

func (b *Bot) deleteProduct(ctx context.Context, chatID, id int64) {
	snapshot, err := b.catalog.DeleteProduct(ctx, id)
	if err != nil {
		b.sendErrorMessage(chatID, fmt.Sprintf("Ошибка при удалении товара: %v", err))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Товар #%d удален 🗑", id)))
	b.send(tgbotapi.NewMessage(chatID, formatSummary(snapshot.Summary)))
}

func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	snapshot, err := b.catalog.Load(ctx)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении товаров")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, snapshot.Records); err != nil {
		b.logger.Error("failed to export csv", zap.Error(err))
		b.sendErrorMessage(chatID, "Ошибка при формировании файла")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  export.FileName(export.FormatCSV, time.Now()),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("Товаров: %d", len(snapshot.Records))
	b.send(doc)
}

func (b *Bot) handleChart(ctx context.Context, chatID int64) {
	snapshot, err := b.catalog.Load(ctx)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении товаров")
		return
	}

	png, err := b.charts.GenerateValuePie(snapshot.Summary)
	if errors.Is(err, charts.ErrNoData) {
		b.send(tgbotapi.NewMessage(chatID, "Нет данных для графика"))
		return
	}
	if err != nil {
		b.logger.Error("failed to render chart", zap.Error(err))
		b.sendErrorMessage(chatID, "Ошибка при построении графика")
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: png})
	photo.Caption = "Стоимость по категориям: " + humanize.CommafWithDigits(snapshot.Summary.TotalValue, 2)
	b.send(photo)
}

func (b *Bot) handleRefresh(ctx context.Context, chatID int64) {
	snapshot, err := b.catalog.Refresh(ctx)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при обновлении данных")
		return
	}
	b.send(tgbotapi.NewMessage(chatID, "Данные обновлены 🔄\n\n"+formatSummary(snapshot.Summary)))
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// у callback из inline-режима нет сообщения, отвечать некуда
	if callback.Message == nil || callback.Message.Chat == nil {
		b.answerCallback(callback.ID)
		return nil
	}
	chatID := callback.Message.Chat.ID

	switch {
	case strings.HasPrefix(callback.Data, callbackDelete):
		id, err := strconv.ParseInt(strings.TrimPrefix(callback.Data, callbackDelete), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid delete callback %q: %w", callback.Data, err)
		}
		b.deleteProduct(ctx, chatID, id)

	case strings.HasPrefix(callback.Data, callbackCategory):
		categoryID, err := strconv.ParseInt(strings.TrimPrefix(callback.Data, callbackCategory), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category callback %q: %w", callback.Data, err)
		}

		categories, err := b.catalog.FetchCategories(ctx)
		if err != nil {
			return fmt.Errorf("error getting categories: %w", err)
		}

		var categoryName string
		for _, cat := range categories {
			if cat.ID == categoryID {
				categoryName = cat.Name
				break
			}
		}
		if categoryName == "" {
			b.sendErrorMessage(chatID, "Категория не найдена, обновите список через /add")
			break
		}

		// Сохраняем выбранную категорию в состоянии пользователя
		err = b.setState(ctx, &model.UserState{
			UserID:           callback.From.ID,
			SelectedCategory: categoryName,
			AwaitingAction:   awaitingProduct,
		})
		if err != nil {
			b.logger.Error("failed to save user state", zap.Int64("user_id", callback.From.ID), zap.Error(err))
			b.sendErrorMessage(chatID, "Не удалось сохранить выбор, попробуйте еще раз")
			break
		}

		b.send(tgbotapi.NewMessage(chatID,
			fmt.Sprintf("Категория: %s\nВведите товар в формате:\n<название> <количество> <цена>\nНапример: Болт M8 100 0.5", categoryName)))
	}

	// Отвечаем на callback, чтобы убрать loading indicator
	b.answerCallback(callback.ID)

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	state, exists := b.state(ctx, message.From.ID)

	// Кнопка меню прерывает незавершенный ввод товара
	if handle := b.menuHandler(message.Text); handle != nil {
		if exists {
			b.clearState(ctx, message.From.ID)
		}
		handle(ctx, chatID)
		return nil
	}

	if !exists || state.AwaitingAction != awaitingProduct {
		// Если нет активного состояния, показываем главное меню
		msg := tgbotapi.NewMessage(chatID, "Выберите действие:")
		msg.ReplyMarkup = b.getMainKeyboard()
		b.send(msg)
		return nil
	}

	in, err := parseProductInput(message.Text)
	if err != nil {
		b.sendErrorMessage(chatID, err.Error())
		return nil
	}
	in.Category = state.SelectedCategory

	snapshot, err := b.catalog.InsertProduct(ctx, in)
	switch {
	case errors.Is(err, service.ErrValidation):
		b.sendErrorMessage(chatID, err.Error())
		return nil
	case errors.Is(err, service.ErrUnknownCategory):
		b.clearState(ctx, message.From.ID)
		b.sendErrorMessage(chatID, "Категория больше не существует, начните заново через /add")
		return nil
	case err != nil:
		b.sendErrorMessage(chatID, fmt.Sprintf("Ошибка при сохранении товара: %v", err))
		return nil
	}

	// Очищаем состояние после сохранения товара
	b.clearState(ctx, message.From.ID)

	msg := tgbotapi.NewMessage(chatID, "Товар сохранен! ✅\n\n"+formatSummary(snapshot.Summary))
	msg.ReplyMarkup = b.getMainKeyboard()
	b.send(msg)

	return nil
}

func (b *Bot) menuHandler(text string) func(ctx context.Context, chatID int64) {
	switch text {
	case buttonProducts:
		return b.handleList
	case buttonAdd:
		return b.handleAdd
	case buttonChart:
		return b.handleChart
	case buttonExport:
		return b.handleExport
	case buttonCategories:
		return b.handleCategories
	case buttonRefresh:
		return b.handleRefresh
	}
	return nil
}

// parseProductInput разбирает "<название> <количество> <цена>", название может содержать пробелы
func parseProductInput(text string) (service.ProductInput, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return service.ProductInput{}, errors.New("неверный формат. Используйте: <название> <количество> <цена>")
	}

	n := len(fields)
	quantity, err := strconv.ParseFloat(strings.ReplaceAll(fields[n-2], ",", "."), 64)
	if err != nil {
		return service.ProductInput{}, errors.New("неверное количество, используйте число, например: 100")
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(fields[n-1], ",", "."), 64)
	if err != nil {
		return service.ProductInput{}, errors.New("неверная цена, используйте число, например: 0.5")
	}

	return service.ProductInput{
		Name:     strings.Join(fields[:n-2], " "),
		Quantity: quantity,
		Price:    price,
	}, nil
}

func formatRecord(r model.Record) string {
	return fmt.Sprintf("#%d %s\nКатегория: %s\nКоличество: %s\nЦена: %s\nСтоимость: %s",
		r.ID, r.Name, r.Category,
		humanize.Ftoa(r.Quantity),
		humanize.CommafWithDigits(r.Price, 2),
		humanize.CommafWithDigits(r.Value, 2))
}

func formatSummary(s service.Summary) string {
	var text strings.Builder
	fmt.Fprintf(&text, "📊 Итого товаров: %d\n💰 Общая стоимость: %s\n",
		s.TotalProducts, humanize.CommafWithDigits(s.TotalValue, 2))

	for _, cat := range s.Categories {
		fmt.Fprintf(&text, "• %s: позиций %d, стоимость %s\n", cat.Name, cat.Products, humanize.CommafWithDigits(cat.Value, 2))
	}
	return text.String()
}
