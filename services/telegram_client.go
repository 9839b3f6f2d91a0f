package services

import (
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramClient представляет клиент для работы с Telegram Bot API.
// Используется как канал уведомлений администратора платформы.
type TelegramClient struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramClient создает новый экземпляр Telegram клиента
func NewTelegramClient(botToken, chatID string) (*TelegramClient, error) {
	if botToken == "" || chatID == "" {
		return nil, fmt.Errorf("Telegram не настроен: требуется токен бота и chat ID")
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("неверный chat ID: %s", chatID)
	}

	// Создаем Bot API клиент
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram бота: %w", err)
	}

	// В продакшене отключаем debug
	bot.Debug = false

	log.Printf("✅ Telegram бот авторизован: %s", bot.Self.UserName)

	return &TelegramClient{bot: bot, chatID: chatIDInt}, nil
}

// SendMessage отправляет сообщение в настроенный чат администратора
func (tc *TelegramClient) SendMessage(message string) error {
	msg := tgbotapi.NewMessage(tc.chatID, message)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := tc.bot.Send(msg); err != nil {
		return fmt.Errorf("ошибка отправки сообщения: %w", err)
	}
	return nil
}
