package models

// ItemStatus описывает состояние товара в каталоге.
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusTrading   ItemStatus = "trading"
	ItemStatusSold      ItemStatus = "sold"
)

// TransactionStatus описывает состояние сделки.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// ValidItemStatuses список валидных статусов товаров
var ValidItemStatuses = map[ItemStatus]struct{}{
	ItemStatusAvailable: {},
	ItemStatusTrading:   {},
	ItemStatusSold:      {},
}

// ValidTransactionStatuses список валидных статусов сделок
var ValidTransactionStatuses = map[TransactionStatus]struct{}{
	TransactionStatusPending:   {},
	TransactionStatusConfirmed: {},
	TransactionStatusCompleted: {},
	TransactionStatusCancelled: {},
}

// TransitionRule описывает ограничения на переход статуса сделки.
type TransitionRule struct {
	SellerOnly bool
}

// transactionTransitions — полная таблица допустимых переходов.
// Всё, чего здесь нет, запрещено; из терминальных статусов переходов нет.
var transactionTransitions = map[TransactionStatus]map[TransactionStatus]TransitionRule{
	TransactionStatusPending: {
		TransactionStatusConfirmed: {SellerOnly: true},
		TransactionStatusCancelled: {},
	},
	TransactionStatusConfirmed: {
		TransactionStatusCompleted: {},
		TransactionStatusCancelled: {},
	},
}

// CanTransition возвращает правило перехода из from в to, если переход допустим.
func CanTransition(from, to TransactionStatus) (TransitionRule, bool) {
	rule, ok := transactionTransitions[from][to]
	return rule, ok
}

// IsTerminal сообщает, является ли статус сделки терминальным.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusCancelled
}

// CreditDeltaByRating задаёт изменение кредитного рейтинга за полученную оценку:
// 5 звёзд +5, 4 звезды +3, 3 звезды без изменений, 2 звезды -3, 1 звезда -5.
var CreditDeltaByRating = map[int]int{
	1: -5,
	2: -3,
	3: 0,
	4: 3,
	5: 5,
}

// InitialCreditScore — кредитный рейтинг нового пользователя.
const InitialCreditScore = 100
