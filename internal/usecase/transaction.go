package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Transaction runs steps in order and, when one fails, compensates the ones already done in reverse.
type Transaction struct {
	operations []Operation
	log        *zap.Logger
}

type Operation struct {
	Name       string
	Fn         func(context.Context) error
	Compensate func(context.Context) error
}

func NewTransaction(log *zap.Logger) *Transaction {
	if log == nil {
		log = zap.NewNop()
	}
	return &Transaction{log: log}
}

// AddOperation registers a step; compensate may be nil for steps with nothing to undo.
func (t *Transaction) AddOperation(name string, fn, compensate func(context.Context) error) {
	t.operations = append(t.operations, Operation{Name: name, Fn: fn, Compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	// compensations must run even if the request context is already cancelled
	ctx = context.WithoutCancel(ctx)
	for i := failedAt - 1; i >= 0; i-- {
		op := t.operations[i]
		if op.Compensate == nil {
			continue
		}
		if err := op.Compensate(ctx); err != nil {
			t.log.Error("compensation failed, data may be inconsistent",
				zap.String("operation", op.Name), zap.Error(err))
		}
	}
}
