package service

import (
	"context"
	"errors"
	"strconv"

	"tmf-api/internal/infrastructure"
	"tmf-api/internal/model"
)

// OrderLifecycle は商品注文とキャンセル要求を連携させる
// 2つのコレクションに書き込む唯一のコンポーネント
//
// キャンセル要求を保存した後、参照先の注文をcancelledにする。
// 2つの書き込みはアトミックではなく、後者が失敗しても
// キャンセル要求は残り、注文の状態は変わらない。
type OrderLifecycle struct {
	orders        *resourceServiceImpl
	cancellations *resourceServiceImpl
	deps          Deps
}

// NewOrderLifecycle はProductOrderとCancelProductOrderのサービスを作成
func NewOrderLifecycle(deps Deps) *OrderLifecycle {
	deps = deps.withDefaults()
	l := &OrderLifecycle{deps: deps}

	l.orders = newResourceService(model.ProductOrder, deps, hooks{
		beforeCreate: l.prepareOrder,
		beforeUpdate: l.stampCompletion,
		beforeDelete: l.guardOrderDelete,
	})
	l.cancellations = newResourceService(model.CancelProductOrder, deps, hooks{
		beforeCreate: l.prepareCancellation,
		afterCreate:  l.applyCancellation,
	})
	return l
}

// Orders はProductOrderサービスを返す
func (l *OrderLifecycle) Orders() ResourceService {
	return l.orders
}

// Cancellations はCancelProductOrderサービスを返す
func (l *OrderLifecycle) Cancellations() ResourceService {
	return l.cancellations
}

// prepareOrder は初期状態の設定、注文明細の採番、合計金額の計算を行う
func (l *OrderLifecycle) prepareOrder(_ context.Context, order model.Resource) error {
	order[model.FieldState] = model.OrderStateAcknowledged

	items, _ := order[model.FieldProductOrderItem].([]any)
	assignItemIDs(items)

	if total := ComputeOrderTotal(items); total != nil {
		order[model.FieldOrderTotalPrice] = map[string]any(total)
	} else {
		delete(order, model.FieldOrderTotalPrice)
	}
	return nil
}

// assignItemIDs はidのない明細に未使用の最小番号を割り当てる
func assignItemIDs(items []any) {
	used := make(map[string]bool, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			if id, _ := obj[model.FieldID].(string); id != "" {
				used[id] = true
			}
		}
	}

	next := 1
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id, _ := obj[model.FieldID].(string); id != "" {
			continue
		}
		for used[strconv.Itoa(next)] {
			next++
		}
		id := strconv.Itoa(next)
		used[id] = true
		obj[model.FieldID] = id
	}
}

// stampCompletion は注文がcompletedになったときcompletionDateを設定
func (l *OrderLifecycle) stampCompletion(_ context.Context, _, patch, merged model.Resource) error {
	if state, ok := patch[model.FieldState].(string); ok && state == model.OrderStateCompleted {
		merged[model.FieldCompletionDate] = model.FormatTime(l.deps.Now())
	}
	return nil
}

func (l *OrderLifecycle) guardOrderDelete(_ context.Context, order model.Resource) error {
	switch state := order.String(model.FieldState); state {
	case model.OrderStateInProgress, model.OrderStateCompleted:
		return conflict("%s %s cannot be deleted while %s", model.TypeProductOrder, order.ID(), state)
	}
	return nil
}

func (l *OrderLifecycle) prepareCancellation(_ context.Context, cancel model.Resource) error {
	if cancel.String(model.FieldRequestedCancellationDate) == "" {
		cancel[model.FieldRequestedCancellationDate] = cancel.String(model.CancelProductOrder.CreatedField)
	}
	return nil
}

// applyCancellation は参照先の注文をcancelledにする
// 参照がない・存在しない場合はエラーにせず何もしない
func (l *OrderLifecycle) applyCancellation(ctx context.Context, cancel model.Resource) {
	ref, ok := cancel.Object(model.FieldProductOrder)
	if !ok {
		l.deps.Metrics.ObserveCancellation("unreferenced")
		return
	}
	orderID := ref.ID()
	if orderID == "" {
		l.deps.Metrics.ObserveCancellation("unreferenced")
		return
	}

	log := l.deps.Logger.With("cancel_id", cancel.ID(), "order_id", orderID)

	order, err := l.orders.collection.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, infrastructure.ErrNotFound) {
			log.InfoContext(ctx, "cancel request references unknown order")
			l.deps.Metrics.ObserveCancellation("unresolved")
			return
		}
		log.ErrorContext(ctx, "failed to load order for cancellation", "error", err)
		l.deps.Metrics.ObserveCancellation("error")
		return
	}

	order[model.FieldState] = model.OrderStateCancelled
	order[model.FieldCompletionDate] = cancel.String(model.CancelProductOrder.CreatedField)

	if err := l.orders.collection.Update(ctx, orderID, order); err != nil {
		log.ErrorContext(ctx, "failed to cancel order", "error", err)
		l.deps.Metrics.ObserveCancellation("error")
		return
	}
	log.InfoContext(ctx, "order cancelled")
	l.deps.Metrics.ObserveCancellation("applied")
}
