package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"time"

	"gorm.io/gorm"

	"backend_minutas/config"
	"backend_minutas/models"
)

// NotificationService представляет сервис для отправки уведомлений.
// Уведомления — вспомогательный канал: их сбой логируется и никогда не
// влияет на корректность машины состояний биллинга.
type NotificationService struct {
	DB         *gorm.DB
	SMTP       config.SMTPConfig
	AdminEmail string
	Telegram   *TelegramClient // nil, если Telegram не настроен
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(db *gorm.DB, smtpCfg config.SMTPConfig, adminEmail string, telegram *TelegramClient) *NotificationService {
	return &NotificationService{
		DB:         db,
		SMTP:       smtpCfg,
		AdminEmail: adminEmail,
		Telegram:   telegram,
	}
}

// Send отправляет уведомление по указанному каналу и пишет запись в лог
func (s *NotificationService) Send(notificationType, channel, recipient, subject, message string, companyID uint, relatedID *uint, relatedType string) error {
	// Создаем запись в логе
	notificationLog := models.NotificationLog{
		Type:        notificationType,
		Channel:     channel,
		Recipient:   recipient,
		Subject:     subject,
		Message:     message,
		Status:      "pending",
		RelatedID:   relatedID,
		RelatedType: relatedType,
		CompanyID:   companyID,
	}

	// Пытаемся отправить уведомление
	var err error
	switch channel {
	case models.NotificationChannelTelegram:
		err = s.sendTelegram(message)
	case models.NotificationChannelEmail:
		err = s.sendEmail(recipient, subject, message)
	default:
		err = fmt.Errorf("неподдерживаемый канал уведомлений: %s", channel)
	}

	// Обновляем статус в логе
	if err != nil {
		notificationLog.Status = "failed"
		notificationLog.ErrorMessage = err.Error()
	} else {
		notificationLog.Status = "sent"
		now := time.Now()
		notificationLog.SentAt = &now
	}

	// Сохраняем лог
	if dbErr := s.DB.Create(&notificationLog).Error; dbErr != nil {
		log.Printf("Предупреждение: ошибка записи лога уведомления: %v", dbErr)
	}

	return err
}

// sendTelegram отправляет сообщение в чат администратора платформы
func (s *NotificationService) sendTelegram(message string) error {
	if s.Telegram == nil {
		return fmt.Errorf("Telegram клиент не настроен")
	}
	return s.Telegram.SendMessage(message)
}

// sendEmail отправляет email через SMTP
func (s *NotificationService) sendEmail(recipient, subject, message string) error {
	if !s.SMTP.Enabled {
		return fmt.Errorf("email уведомления отключены")
	}
	if recipient == "" {
		return fmt.Errorf("не указан получатель email")
	}

	auth := smtp.PlainAuth("", s.SMTP.User, s.SMTP.Password, s.SMTP.Host)

	// Формируем сообщение
	msg := fmt.Sprintf("From: %s\r\n", s.SMTP.From)
	msg += fmt.Sprintf("To: %s\r\n", recipient)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "Content-Type: text/html; charset=UTF-8\r\n"
	msg += "\r\n"
	msg += message

	addr := fmt.Sprintf("%s:%d", s.SMTP.Host, s.SMTP.Port)

	if s.SMTP.TLS {
		// Используем TLS
		tlsConfig := &tls.Config{
			InsecureSkipVerify: false,
			ServerName:         s.SMTP.Host,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("ошибка TLS подключения: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.SMTP.Host)
		if err != nil {
			return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		if err = client.Mail(s.SMTP.From); err != nil {
			return fmt.Errorf("ошибка установки отправителя: %w", err)
		}

		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("ошибка установки получателя: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("ошибка получения writer: %w", err)
		}

		if _, err = w.Write([]byte(msg)); err != nil {
			return fmt.Errorf("ошибка записи сообщения: %w", err)
		}

		if err = w.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия writer: %w", err)
		}
	} else {
		// Обычный SMTP без TLS
		if err := smtp.SendMail(addr, auth, s.SMTP.From, []string{recipient}, []byte(msg)); err != nil {
			return fmt.Errorf("ошибка отправки email: %w", err)
		}
	}

	return nil
}

// NotifyAdminPaymentReported уведомляет администратора платформы о новом
// платеже. Отправка best-effort: ошибка логируется и не возвращается.
func (s *NotificationService) NotifyAdminPaymentReported(payment *models.Payment, company *models.Company) {
	message := fmt.Sprintf(
		"💰 Новый платеж на проверку\n\nКомпания: %s\nСумма: %s %s\nСпособ оплаты: %s\nПодтверждение: %s",
		company.Name, payment.Amount.String(), payment.Currency, payment.Method, payment.ProofURL,
	)

	if err := s.Send(models.NotificationTypePaymentReported, models.NotificationChannelTelegram,
		"platform_admin", "", message, company.ID, &payment.ID, "payment"); err != nil {
		log.Printf("Предупреждение: не удалось отправить Telegram уведомление о платеже %d: %v", payment.ID, err)
	}

	if s.AdminEmail != "" {
		subject := fmt.Sprintf("Новый платеж от компании %s", company.Name)
		if err := s.Send(models.NotificationTypePaymentReported, models.NotificationChannelEmail,
			s.AdminEmail, subject, message, company.ID, &payment.ID, "payment"); err != nil {
			log.Printf("Предупреждение: не удалось отправить email уведомление о платеже %d: %v", payment.ID, err)
		}
	}
}

// NotifyPaymentReviewed уведомляет контактное лицо компании о результате
// проверки платежа. Отправка best-effort: ошибка не откатывает смену статуса.
func (s *NotificationService) NotifyPaymentReviewed(payment *models.Payment, company *models.Company, approved bool) {
	var notificationType, subject, message string
	if approved {
		notificationType = models.NotificationTypePaymentApproved
		subject = "Платеж подтвержден"
		message = fmt.Sprintf(
			"Ваш платеж на сумму %s %s подтвержден. Подписка активирована.",
			payment.Amount.String(), payment.Currency,
		)
	} else {
		notificationType = models.NotificationTypePaymentRejected
		subject = "Платеж отклонен"
		message = fmt.Sprintf(
			"Ваш платеж на сумму %s %s отклонен. Проверьте данные платежа и отправьте подтверждение повторно.",
			payment.Amount.String(), payment.Currency,
		)
	}

	if err := s.Send(notificationType, models.NotificationChannelEmail,
		company.ContactEmail, subject, message, company.ID, &payment.ID, "payment"); err != nil {
		log.Printf("Предупреждение: не удалось уведомить компанию %d о проверке платежа %d: %v", company.ID, payment.ID, err)
	}
}

// NotifyTrialExpiring напоминает компании о скором истечении пробного периода
func (s *NotificationService) NotifyTrialExpiring(company *models.Company, remainingDays int) {
	subject := "Пробный период скоро истекает"
	message := fmt.Sprintf(
		"Пробный период компании %s истекает через %d дн. Выберите тарифный план, чтобы сохранить доступ.",
		company.Name, remainingDays,
	)

	if err := s.Send(models.NotificationTypeTrialExpiring, models.NotificationChannelEmail,
		company.ContactEmail, subject, message, company.ID, nil, "company"); err != nil {
		log.Printf("Предупреждение: не удалось отправить напоминание о пробном периоде компании %d: %v", company.ID, err)
	}
}

// NotifyPastDueReminder напоминает компании о неоплаченной подписке
func (s *NotificationService) NotifyPastDueReminder(company *models.Company, subscription *models.Subscription) {
	subject := "Подписка ожидает оплаты"
	message := fmt.Sprintf(
		"Подписка компании %s ожидает оплаты. Сообщите о платеже в разделе биллинга, чтобы восстановить доступ.",
		company.Name,
	)

	if err := s.Send(models.NotificationTypePastDueReminder, models.NotificationChannelEmail,
		company.ContactEmail, subject, message, company.ID, &subscription.ID, "subscription"); err != nil {
		log.Printf("Предупреждение: не удалось отправить напоминание об оплате компании %d: %v", company.ID, err)
	}
}
