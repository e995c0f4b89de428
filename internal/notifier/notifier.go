// Package notifier публикует события об изменениях транзакций в группу
// рассылки владельца. Вызывается синхронно после успешной записи в базу:
// для каждой удачной записи уведомление отправляется, при откате — нет.
package notifier

import (
	"encoding/json"
	"log"

	"github.com/valeriaulyamaeva/impulse-tracker/internal/realtime"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// BudgetTotalsFunc пересчитывает производные значения бюджета после записи
type BudgetTotalsFunc func(budgetID int) (*models.BudgetTotals, error)

type Notifier struct {
	layer        realtime.ChannelLayer
	budgetTotals BudgetTotalsFunc
}

func New(layer realtime.ChannelLayer, budgetTotals BudgetTotalsFunc) *Notifier {
	return &Notifier{layer: layer, budgetTotals: budgetTotals}
}

// transactionEvent — кадр transaction_update в формате живого канала
type transactionEvent struct {
	Type         string               `json:"type"`
	Action       string               `json:"action"`
	Transaction  interface{}          `json:"transaction"`
	BudgetUpdate *models.BudgetTotals `json:"budget_update"`
}

// deletedTransaction — для удалённой транзакции клиенту хватает id
type deletedTransaction struct {
	ID int `json:"id"`
}

// TransactionChanged собирает payload и рассылает его всем сессиям
// владельца. Сбои доставки не возвращаются вызывающему: запись уже
// состоялась, живой канал — лишь подсказка обновиться.
func (n *Notifier) TransactionChanged(action string, transaction *models.Transaction) {
	event := transactionEvent{
		Type:   "transaction_update",
		Action: action,
	}

	if action == ActionDeleted {
		event.Transaction = deletedTransaction{ID: transaction.ID}
	} else {
		event.Transaction = transaction
	}

	if transaction.BudgetID != nil {
		totals, err := n.budgetTotals(*transaction.BudgetID)
		if err != nil {
			log.Printf("ошибка пересчёта бюджета %d для уведомления: %v", *transaction.BudgetID, err)
		} else {
			event.BudgetUpdate = totals
		}
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ошибка сериализации уведомления: %v", err)
		return
	}

	if err := n.layer.GroupSend(realtime.GroupName(transaction.UserID), payload); err != nil {
		log.Printf("ошибка публикации уведомления: %v", err)
	}
}
