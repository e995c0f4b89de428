package notifier_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/notifier"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/realtime"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

// captureLayer запоминает опубликованные кадры вместо рассылки
type captureLayer struct {
	group    string
	payloads [][]byte
}

func (l *captureLayer) GroupSend(group string, payload []byte) error {
	l.group = group
	l.payloads = append(l.payloads, payload)
	return nil
}

func fixedTotals(budgetID int) (*models.BudgetTotals, error) {
	return &models.BudgetTotals{
		ID:         budgetID,
		TotalSpent: decimal.NewFromInt(150),
		Remaining:  decimal.NewFromInt(850),
	}, nil
}

func TestCreatedEventPayload(t *testing.T) {
	layer := &captureLayer{}
	events := notifier.New(layer, fixedTotals)

	budgetID := 3
	transaction := &models.Transaction{
		ID:          10,
		UserID:      1,
		BudgetID:    &budgetID,
		Amount:      decimal.NewFromInt(150),
		Description: "кофеварка",
		IsImpulse:   true,
	}
	events.TransactionChanged(notifier.ActionCreated, transaction)

	require.Len(t, layer.payloads, 1)
	assert.Equal(t, realtime.GroupName(1), layer.group)

	var event struct {
		Type        string `json:"type"`
		Action      string `json:"action"`
		Transaction struct {
			ID        int  `json:"id"`
			IsImpulse bool `json:"is_impulse"`
		} `json:"transaction"`
		BudgetUpdate *models.BudgetTotals `json:"budget_update"`
	}
	require.NoError(t, json.Unmarshal(layer.payloads[0], &event))

	assert.Equal(t, "transaction_update", event.Type)
	assert.Equal(t, "created", event.Action)
	assert.Equal(t, 10, event.Transaction.ID)
	assert.True(t, event.Transaction.IsImpulse)
	require.NotNil(t, event.BudgetUpdate)
	assert.Equal(t, 3, event.BudgetUpdate.ID)
	assert.True(t, decimal.NewFromInt(850).Equal(event.BudgetUpdate.Remaining))
}

func TestDeletedEventCarriesOnlyID(t *testing.T) {
	layer := &captureLayer{}
	events := notifier.New(layer, fixedTotals)

	transaction := &models.Transaction{
		ID:          5,
		UserID:      2,
		Description: "не должно попасть в кадр",
	}
	events.TransactionChanged(notifier.ActionDeleted, transaction)

	require.Len(t, layer.payloads, 1)

	var event struct {
		Action      string          `json:"action"`
		Transaction json.RawMessage `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(layer.payloads[0], &event))
	assert.Equal(t, "deleted", event.Action)
	assert.JSONEq(t, `{"id": 5}`, string(event.Transaction))
}

func TestNoBudgetMeansNoBudgetUpdate(t *testing.T) {
	layer := &captureLayer{}
	events := notifier.New(layer, func(int) (*models.BudgetTotals, error) {
		t.Fatal("пересчёт бюджета не должен вызываться без привязки")
		return nil, nil
	})

	transaction := &models.Transaction{ID: 1, UserID: 4, Description: "без бюджета"}
	events.TransactionChanged(notifier.ActionUpdated, transaction)

	require.Len(t, layer.payloads, 1)

	var event struct {
		BudgetUpdate *models.BudgetTotals `json:"budget_update"`
	}
	require.NoError(t, json.Unmarshal(layer.payloads[0], &event))
	assert.Nil(t, event.BudgetUpdate)
}
