package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MikeMC777/cafe-reviews/internal/voice"
)

// OrderLookup resolves the distinct products bought in an order.
type OrderLookup interface {
	ProductIDs(ctx context.Context, orderID int64) ([]int64, error)
}

// Ingestor turns voice-call webhook events into review rows.
type Ingestor struct {
	reviews Repository
	orders  OrderLookup
	log     *zap.Logger
}

func NewIngestor(reviews Repository, orders OrderLookup, log *zap.Logger) *Ingestor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{reviews: reviews, orders: orders, log: log}
}

// Handle dispatches a webhook event. Events that cannot be attributed to an
// order are logged and dropped; only storage failures return an error.
func (in *Ingestor) Handle(ctx context.Context, ev voice.Event) error {
	switch ev.Event {
	case voice.EventCallEnded:
		orderID, err := ev.Call.OrderID()
		if err != nil {
			in.log.Warn("call_ended without usable order id",
				zap.String("call_id", ev.Call.CallID), zap.Error(err))
			return nil
		}
		return in.CallEnded(ctx, ev.Call.CallID, ev.Call.Transcript, orderID)
	case voice.EventCallAnalyzed:
		a := ev.Call.CallAnalysis
		if a == nil {
			in.log.Warn("call_analyzed without call_analysis", zap.String("call_id", ev.Call.CallID))
			return nil
		}
		return in.CallAnalyzed(ctx, ev.Call.CallID, a.CallSummary, a.CustomAnalysisData)
	default:
		in.log.Debug("ignoring webhook event", zap.String("event", ev.Event), zap.String("call_id", ev.Call.CallID))
		return nil
	}
}

// CallEnded writes one review per product in the order, keyed by
// (call id, product id). Replays refresh the transcript.
func (in *Ingestor) CallEnded(ctx context.Context, callID, transcript string, orderID int64) error {
	if callID == "" {
		in.log.Warn("call_ended without call id", zap.Int64("order_id", orderID))
		return nil
	}
	productIDs, err := in.orders.ProductIDs(ctx, orderID)
	if err != nil {
		return fmt.Errorf("products for order %d: %w", orderID, err)
	}
	if len(productIDs) == 0 {
		in.log.Warn("call_ended for order without items",
			zap.String("call_id", callID), zap.Int64("order_id", orderID))
		return nil
	}

	for _, pid := range productIDs {
		if err := in.upsertTranscript(ctx, callID, orderID, pid, transcript); err != nil {
			return fmt.Errorf("review %s/%d: %w", callID, pid, err)
		}
	}
	in.log.Info("call transcript stored",
		zap.String("call_id", callID), zap.Int64("order_id", orderID), zap.Int("products", len(productIDs)))
	return nil
}

func (in *Ingestor) upsertTranscript(ctx context.Context, callID string, orderID, productID int64, transcript string) error {
	_, err := in.reviews.FindByCallAndProduct(ctx, callID, productID)
	switch {
	case err == nil:
		return in.reviews.UpdateTranscript(ctx, callID, productID, transcript)
	case !errors.Is(err, ErrNotFound):
		return err
	}

	r := &Review{OrderID: orderID, ProductID: productID, CallID: callID, Transcript: &transcript}
	err = in.reviews.Insert(ctx, r)
	if errors.Is(err, ErrDuplicate) {
		// a concurrent delivery won the insert
		return in.reviews.UpdateTranscript(ctx, callID, productID, transcript)
	}
	return err
}

// CallAnalyzed attaches summary and analysis to every review of the call.
// An unknown call id is a no-op.
func (in *Ingestor) CallAnalyzed(ctx context.Context, callID, summary string, analysis json.RawMessage) error {
	if callID == "" {
		in.log.Warn("call_analyzed without call id")
		return nil
	}
	rows, err := in.reviews.ListByCallID(ctx, callID)
	if err != nil {
		return fmt.Errorf("reviews for call %s: %w", callID, err)
	}
	if len(rows) == 0 {
		in.log.Warn("call_analyzed for unknown call", zap.String("call_id", callID))
		return nil
	}
	n, err := in.reviews.AttachAnalysis(ctx, callID, summary, analysis)
	if err != nil {
		return fmt.Errorf("attach analysis %s: %w", callID, err)
	}
	in.log.Info("call analysis stored", zap.String("call_id", callID), zap.Int64("reviews", n))
	return nil
}
