// Package alert decides when a stock movement leaves a product below its
// minimum stock and fans the resulting alert out to observers.
package alert

import (
	"context"
	"errors"
	"time"

	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
)

// Alert reports that a product's stock fell under its configured minimum.
type Alert struct {
	ProductID    int64
	ProductName  string
	Sku          string
	NewQuantity  int
	MinimumStock int
	OccurredAt   time.Time
}

// Evaluate fires only for OUTBOUND movements on products with a minimum
// stock, when newQuantity is strictly below that minimum. It never fails.
func Evaluate(product model.Product, movementType model.MovementType, newQuantity int) (Alert, bool) {
	if movementType != model.MovementTypeOutbound || !product.BelowMinimum(newQuantity) {
		return Alert{}, false
	}

	return Alert{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Sku:          product.Sku,
		NewQuantity:  newQuantity,
		MinimumStock: *product.MinimumStock,
		OccurredAt:   time.Now(),
	}, true
}

// Observer receives alerts after the movement that raised them is committed.
// An error is reported to the caller's log only; the movement stands.
type Observer interface {
	Notify(ctx context.Context, a Alert) error
}

type ObserverFunc func(ctx context.Context, a Alert) error

func (f ObserverFunc) Notify(ctx context.Context, a Alert) error {
	return f(ctx, a)
}

// Observers notifies every observer in order, even after a failure, and
// joins the errors.
type Observers []Observer

func (o Observers) Notify(ctx context.Context, a Alert) error {
	var errs []error
	for _, obs := range o {
		if err := obs.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards alerts.
var Nop Observer = ObserverFunc(func(context.Context, Alert) error { return nil })
