package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"backend_minutas/models"
	"backend_minutas/services"
)

// Страницы биллинга и аккаунта, доступные без полного доступа
var billingRoutePrefixes = []string{
	"/api/account",
	"/api/billing",
	"/api/plans",
}

// Таблица соответствия: состояние доступа -> разрешенные префиксы маршрутов.
// Пустой список означает полный доступ.
var allowedRoutePrefixes = map[services.AccessState][]string{
	services.AccessNoCompany:    {"/api/auth"},
	services.AccessUnapproved:   billingRoutePrefixes,
	services.AccessPastDue:      billingRoutePrefixes,
	services.AccessTrialExpired: billingRoutePrefixes,
	services.AccessActive:       nil,
	services.AccessTrialing:     nil,
}

// IsRouteAllowed проверяет по таблице, разрешен ли маршрут для состояния
func IsRouteAllowed(state services.AccessState, path string) bool {
	prefixes, known := allowedRoutePrefixes[state]
	if !known {
		// Неизвестное состояние никогда не трактуется как полный доступ
		return false
	}
	if prefixes == nil {
		return true
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AccessGuard ограничивает маршруты по состоянию доступа компании
type AccessGuard struct {
	Subscriptions *services.SubscriptionService
}

// NewAccessGuard создает новый экземпляр AccessGuard
func NewAccessGuard(subscriptions *services.SubscriptionService) *AccessGuard {
	return &AccessGuard{Subscriptions: subscriptions}
}

// CheckAccess вычисляет состояние доступа компании и применяет таблицу
// маршрутов. Единственный вход для решения — AccessState из резолвера.
func (ag *AccessGuard) CheckAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Администратор платформы не ограничивается состоянием компании
		if c.GetString("role") == models.RolePlatformAdmin {
			c.Next()
			return
		}

		company := GetCurrentCompany(c)

		var subscription *models.Subscription
		if company != nil {
			var err error
			subscription, err = ag.Subscriptions.GetCompanySubscription(company.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"status": "error",
					"error":  "Ошибка проверки подписки",
				})
				c.Abort()
				return
			}
		}

		state := services.ResolveAccess(company, subscription, time.Now())
		c.Set("access_state", state)

		if !IsRouteAllowed(state, c.Request.URL.Path) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"status":       "error",
				"error":        "Доступ ограничен текущим состоянием подписки",
				"access_state": state,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetAccessState возвращает состояние доступа из контекста запроса
func GetAccessState(c *gin.Context) services.AccessState {
	if state, exists := c.Get("access_state"); exists {
		if s, ok := state.(services.AccessState); ok {
			return s
		}
	}
	return services.AccessNoCompany
}
