package services

import "sync"

// ReviewGuard не допускает двух одновременных проверок одного платежа.
// Вторая попытка отклоняется сразу, без очереди. Это клиентская защита от
// двойного одобрения в рамках процесса; авторитетной остается условная
// проверка статуса в ReviewPayment, которая держит инвариант и при гонке
// двух разных сессий администраторов.
type ReviewGuard struct {
	mu       sync.Mutex
	inFlight map[uint]bool
}

// NewReviewGuard создает новый экземпляр ReviewGuard
func NewReviewGuard() *ReviewGuard {
	return &ReviewGuard{inFlight: make(map[uint]bool)}
}

// Acquire помечает платеж как обрабатываемый. Возвращает false, если
// проверка этого платежа уже идет.
func (g *ReviewGuard) Acquire(paymentID uint) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight[paymentID] {
		return false
	}
	g.inFlight[paymentID] = true
	return true
}

// Release снимает пометку. Должен вызываться через defer, чтобы выполниться
// на любом пути выхода, включая ошибки.
func (g *ReviewGuard) Release(paymentID uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, paymentID)
}
